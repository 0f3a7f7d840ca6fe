package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/reactivity-io/reactivity-go/discovery"
	"github.com/reactivity-io/reactivity-go/errors"
	"github.com/reactivity-io/reactivity-go/httpclient"
	"github.com/reactivity-io/reactivity-go/logger"
	"github.com/reactivity-io/reactivity-go/observability"
)

// HeaderRequestID carries the per-request correlation ID.
const HeaderRequestID = "X-Request-ID"

// Client calls the Reactivity backend on the domains handed out by a resolver.
type Client struct {
	resolver    discovery.BaseURLResolver
	adapter     *httpclient.Adapter
	handler     ErrorHandler
	log         *logger.Logger
	metrics     *observability.Metrics
	pageSize    int
	concurrency int
}

// Option customizes a Client.
type Option func(*Client)

// WithErrorHandler replaces the default logging error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *Client) {
		c.handler = h
	}
}

// WithLogger sets the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithMetrics sets the metrics recorder. Nil disables recording.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithConfig applies the pager and concurrency settings of cfg.
func WithConfig(cfg Config) Option {
	return func(c *Client) {
		cfg.ApplyDefaults()
		c.pageSize = cfg.PageSize
		c.concurrency = cfg.Concurrency
	}
}

// New creates a client. The adapter should have no BaseURL; request URLs are
// built from the resolver's base URL.
func New(resolver discovery.BaseURLResolver, adapter *httpclient.Adapter, opts ...Option) *Client {
	c := &Client{
		resolver:    resolver,
		adapter:     adapter,
		log:         logger.WithComponent("api"),
		metrics:     observability.DefaultMetrics(),
		pageSize:    defaultPageSize,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.handler == nil {
		c.handler = LogErrorHandler{Log: c.log}
	}
	return c
}

// Fetch GETs path on the next base URL and decodes the JSON response into T.
// Use json.RawMessage for T to keep the body undecoded.
//
// A status other than 200 returns REQUEST_FAILED and a body that does not
// decode returns INVALID_PAYLOAD. Both are reported to the ErrorHandler, as
// are discovery and transport failures. Context cancellation is not.
func Fetch[T any](ctx context.Context, c *Client, path string) (T, error) {
	return fetch[T](ctx, c, path, path)
}

// fetch is Fetch with a route template used for spans and metrics.
func fetch[T any](ctx context.Context, c *Client, route, path string) (data T, err error) {
	requestID := uuid.NewString()
	ctx, op := observability.StartOperation(ctx, "api", observability.SpanAPIRequest,
		attribute.String(observability.AttrRoute, route),
		attribute.String(observability.AttrRequestID, requestID))
	defer func() {
		status := "ok"
		if err != nil {
			status = observability.ErrorKind(err)
		}
		c.metrics.RecordAPIRequest(ctx, route, status, op.Duration())
		op.End(ctx, err)
	}()

	failure := Failure{Method: http.MethodGet, Path: path, RequestID: requestID}
	fail := func(err error) (T, error) {
		var zero T
		failure.Err = err
		if failure.Message == "" {
			failure.Message = err.Error()
		}
		c.report(ctx, failure)
		return zero, err
	}

	baseURL, err := c.resolver.NextBaseURL(ctx)
	if err != nil {
		return fail(err)
	}
	failure.BaseURL = baseURL
	op.Span().SetAttributes(attribute.String(observability.AttrBaseURL, baseURL))

	resp, err := httpclient.Get[T](c.adapter, ctx, httpclient.JoinURL(baseURL, path),
		httpclient.WithHeader(HeaderRequestID, requestID))
	if resp == nil {
		return fail(transportError(ctx, baseURL, err))
	}

	op.Span().SetAttributes(attribute.Int(observability.AttrStatus, resp.StatusCode))
	failure.Status = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		failure.StatusText = http.StatusText(resp.StatusCode)
		body := responseBody(err)
		failure.Message = body
		return fail(errors.RequestFailed(resp.StatusCode, failure.StatusText, body).
			WithDetail("path", path).
			WithDetail("request_id", requestID))
	}
	var decodeErr *httpclient.DecodeError
	if stderrors.As(err, &decodeErr) {
		failure.Message = decodeErr.Err.Error()
		return fail(errors.InvalidPayload(decodeErr.Err).WithDetail("path", path))
	}

	c.log.Debug("Backend request completed", map[string]interface{}{
		"method":             http.MethodGet,
		"path":               path,
		"request_id":         requestID,
		logger.FieldEndpoint: baseURL,
		logger.FieldDuration: op.Duration().Milliseconds(),
	})
	return resp.Data, nil
}

// responseBody returns the body carried by an HTTP status error.
func responseBody(err error) string {
	var httpErr *httpclient.Error
	if stderrors.As(err, &httpErr) {
		return string(httpErr.Body)
	}
	return ""
}

func (c *Client) report(ctx context.Context, f Failure) {
	if stderrors.Is(f.Err, context.Canceled) || stderrors.Is(f.Err, context.DeadlineExceeded) {
		return
	}
	c.handler.HandleError(ctx, f)
}

// transportError maps a failure without a response. Caller cancellation is
// returned as the context error.
func transportError(ctx context.Context, baseURL string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.Timeout(fmt.Sprintf("request to %s", baseURL), err)
	}
	return errors.ConnectionFailed(baseURL, err)
}
