package observability

import (
	"context"
	stderrors "errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/reactivity-io/reactivity-go/errors"
)

// Operation is a traced unit of work started by StartOperation.
type Operation struct {
	Component string
	Name      string
	StartTime time.Time
	span      trace.Span
}

type operationKey struct{}

// StartOperation starts a span for component's operation name and stores the
// Operation in the returned context.
func StartOperation(ctx context.Context, component, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, name, trace.WithAttributes(
		append([]attribute.KeyValue{attribute.String(AttrComponent, component)}, attrs...)...,
	))
	op := &Operation{Component: component, Name: name, StartTime: time.Now(), span: span}
	return context.WithValue(ctx, operationKey{}, op), op
}

// OperationFromContext returns the Operation in ctx, or nil.
func OperationFromContext(ctx context.Context) *Operation {
	if op, ok := ctx.Value(operationKey{}).(*Operation); ok {
		return op
	}
	return nil
}

// Span returns the operation span.
func (op *Operation) Span() trace.Span {
	return op.span
}

// Duration returns the time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.StartTime)
}

// End records err, if any, ends the span and counts the error by its code.
func (op *Operation) End(ctx context.Context, err error) {
	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
		DefaultMetrics().RecordError(ctx, ErrorKind(err), op.Component)
	}
	op.span.SetAttributes(attribute.Int64("duration_ms", op.Duration().Milliseconds()))
	op.span.End()
}

// ErrorKind returns the AppError code of err, "canceled" for context errors,
// or "unknown".
func ErrorKind(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "unknown"
}
