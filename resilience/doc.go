// Package resilience provides the retry and circuit breaker primitives used
// by the HTTP adapter for backend calls.
//
// Discovery never goes through Retry: a failed discovery fetch is reported
// to the caller as is.
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("backend"))
//	err := cb.Execute(func() error {
//	    _, err := resilience.Retry(ctx, resilience.DefaultRetryConfig(), call)
//	    return err
//	})
package resilience
