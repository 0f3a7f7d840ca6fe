package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// TypedResponse wraps a response with a decoded body of type T.
type TypedResponse[T any] struct {
	StatusCode int
	Headers    map[string]string
	Data       T
}

// RequestOption configures a single request.
type RequestOption func(*Request)

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// Get performs a GET request and decodes the JSON response into T.
//
// When the server answered with a non-2xx status the returned response
// carries the status and headers, Data is left zero, and the error is an
// *Error. A nil response means the request never got an answer.
func Get[T any](a *Adapter, ctx context.Context, path string, opts ...RequestOption) (*TypedResponse[T], error) {
	req := Request{Method: http.MethodGet, Path: path}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := a.Do(ctx, req)
	if resp == nil {
		return nil, err
	}
	typed := &TypedResponse[T]{StatusCode: resp.StatusCode, Headers: resp.Headers}
	if err != nil {
		return typed, err
	}
	if err := json.Unmarshal(resp.Body, &typed.Data); err != nil {
		return typed, &DecodeError{StatusCode: resp.StatusCode, Body: resp.Body, Err: err}
	}
	return typed, nil
}

// DecodeError reports a 2xx response whose body is not valid JSON for the target type.
type DecodeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("httpclient: decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
