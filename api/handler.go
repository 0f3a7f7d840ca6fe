package api

import (
	"context"

	"github.com/reactivity-io/reactivity-go/logger"
)

// Failure describes a failed backend request as reported to an ErrorHandler.
type Failure struct {
	Method    string
	Path      string
	BaseURL   string
	RequestID string
	// Status is 0 when no response was received.
	Status     int
	StatusText string
	// Message is the response body, or the decode or transport error text.
	Message string
	Err     error
}

// ErrorHandler receives every failed request. It runs on the caller's
// goroutine before the error is returned.
type ErrorHandler interface {
	HandleError(ctx context.Context, f Failure)
}

// ErrorHandlerFunc adapts a function to ErrorHandler.
type ErrorHandlerFunc func(ctx context.Context, f Failure)

// HandleError calls fn.
func (fn ErrorHandlerFunc) HandleError(ctx context.Context, f Failure) {
	fn(ctx, f)
}

// LogErrorHandler logs failures at error level.
type LogErrorHandler struct {
	Log *logger.Logger
}

// HandleError logs f.
func (h LogErrorHandler) HandleError(_ context.Context, f Failure) {
	log := h.Log
	if log == nil {
		log = logger.WithComponent("api")
	}
	fields := map[string]interface{}{
		"method":             f.Method,
		"path":               f.Path,
		"request_id":         f.RequestID,
		logger.FieldEndpoint: f.BaseURL,
	}
	if f.Status > 0 {
		fields["status"] = f.Status
		fields["status_text"] = f.StatusText
	}
	if f.Err != nil {
		fields[logger.FieldError] = f.Err.Error()
	}
	log.Error("Backend request failed", fields)
}
