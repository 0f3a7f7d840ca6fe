package httpclient

// Request describes an outbound HTTP request.
type Request struct {
	Method string
	// Path is joined with Config.BaseURL, or used as is when absolute.
	Path    string
	Headers map[string]string
}

// Response is the result of an HTTP request.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}
