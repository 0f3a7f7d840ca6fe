package discovery

import "context"

const (
	// DefaultPath is where the discovery document is served.
	DefaultPath = "/domain-api.json"
	// AlternatePath is the path used by builds that serve the document as api-domain.json.
	AlternatePath = "/api-domain.json"
)

// Fetcher retrieves the discovery document: the ordered list of API base URLs.
type Fetcher interface {
	FetchDomains(ctx context.Context) ([]string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]string, error)

// FetchDomains calls f.
func (f FetcherFunc) FetchDomains(ctx context.Context) ([]string, error) {
	return f(ctx)
}

// BaseURLResolver yields the base URL for the next backend request.
type BaseURLResolver interface {
	NextBaseURL(ctx context.Context) (string, error)
}
