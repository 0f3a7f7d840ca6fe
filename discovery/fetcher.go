package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/reactivity-io/reactivity-go/errors"
	"github.com/reactivity-io/reactivity-go/httpclient"
	"github.com/reactivity-io/reactivity-go/logger"
	"github.com/reactivity-io/reactivity-go/observability"
	"github.com/reactivity-io/reactivity-go/version"
)

// HTTPFetcher fetches the discovery document with a single GET. It never retries.
type HTTPFetcher struct {
	adapter  *httpclient.Adapter
	endpoint string
	log      *logger.Logger
	metrics  *observability.Metrics
}

var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher creates a fetcher for cfg.Endpoint(). Options customize the
// underlying adapter, e.g. httpclient.WithTransport in tests.
func NewHTTPFetcher(cfg Config, opts ...httpclient.Option) (*HTTPFetcher, error) {
	cfg.ApplyDefaults()
	if cfg.Origin == "" {
		return nil, errors.InvalidInput("discovery.origin", "origin is required to fetch the discovery document")
	}

	adapter, err := httpclient.New(httpclient.Config{
		Name:    "discovery",
		Timeout: cfg.Timeout,
		Headers: map[string]string{"Accept": "application/json", "User-Agent": version.UserAgent()},
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("discovery: create http adapter: %w", err)
	}

	return &HTTPFetcher{
		adapter:  adapter,
		endpoint: cfg.Endpoint(),
		log:      logger.WithComponent("discovery"),
		metrics:  observability.DefaultMetrics(),
	}, nil
}

// Endpoint returns the discovery document URL.
func (f *HTTPFetcher) Endpoint() string {
	return f.endpoint
}

// FetchDomains GETs the document and decodes it as a JSON array of strings.
// Transport failures and non-2xx statuses return DISCOVERY_TRANSPORT; a
// body that is not a JSON string array returns DISCOVERY_PARSE.
func (f *HTTPFetcher) FetchDomains(ctx context.Context) (domains []string, err error) {
	ctx, op := observability.StartOperation(ctx, "discovery", observability.SpanDiscoveryFetch,
		attribute.String(observability.AttrEndpoint, f.endpoint))
	defer func() {
		status := "ok"
		if err != nil {
			status = observability.ErrorKind(err)
		}
		f.metrics.RecordDiscoveryFetch(ctx, status, op.Duration())
		op.End(ctx, err)
	}()

	start := time.Now()
	resp, err := f.adapter.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: f.endpoint})
	if err != nil {
		appErr := errors.DiscoveryTransport(f.endpoint, err)
		if status := httpclient.StatusCode(err); status > 0 {
			appErr.WithDetail("status", status)
		}
		f.log.Warn("Domain API is unavailable", map[string]interface{}{
			logger.FieldEndpoint: f.endpoint,
			logger.FieldError:    err.Error(),
		})
		return nil, appErr
	}

	if err := json.Unmarshal(resp.Body, &domains); err != nil {
		return nil, errors.DiscoveryParse(f.endpoint, err)
	}
	if domains == nil {
		return nil, errors.DiscoveryParse(f.endpoint, fmt.Errorf("expected a JSON array, got %q", truncate(resp.Body)))
	}

	observability.SetSpanAttribute(ctx, observability.AttrDomainCount, len(domains))
	f.log.Debug("Discovery document fetched", map[string]interface{}{
		logger.FieldEndpoint: f.endpoint,
		"domains":            len(domains),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	})
	return domains, nil
}

func truncate(body []byte) string {
	const max = 64
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

// StaticFetcher serves a fixed document. Useful for development and tests.
type StaticFetcher []string

var _ Fetcher = StaticFetcher(nil)

// FetchDomains returns a copy of the list.
func (s StaticFetcher) FetchDomains(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]string{}, s...), nil
}
