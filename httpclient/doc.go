// Package httpclient provides the HTTP adapter used for discovery and for
// calls to the Reactivity backend: default headers, authentication, typed
// status errors and optional retry or circuit breaking.
//
//	a, err := httpclient.New(httpclient.Config{
//	    Name:    "backend",
//	    Timeout: 10 * time.Second,
//	    Retry:   httpclient.DefaultRetryConfig(),
//	})
//
//	resp, err := a.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "https://a.example.com/load/organizations",
//	})
//
// Non-2xx responses come back together with an *Error classified by
// ClassifyStatusCode, so callers still see the body. Get decodes JSON:
//
//	resp, err := httpclient.Get[[]api.Event](a, ctx, url,
//	    httpclient.WithHeader("X-Request-ID", id))
package httpclient
