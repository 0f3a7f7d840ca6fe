package discovery

import (
	"context"
	"slices"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/reactivity-io/reactivity-go/errors"
	"github.com/reactivity-io/reactivity-go/logger"
	"github.com/reactivity-io/reactivity-go/observability"
)

const fetchKey = "domains"

// Resolver hands out API base URLs in round-robin order over a lazily
// fetched, memoized discovery document. It is safe for concurrent use.
type Resolver struct {
	fetcher  Fetcher
	endpoint string
	log      *logger.Logger
	metrics  *observability.Metrics
	group    singleflight.Group

	mu      sync.Mutex
	doc     []string
	loaded  bool
	cursor  int // 0 <= cursor <= len(doc)
	lastErr error
}

var _ BaseURLResolver = (*Resolver)(nil)

// ResolverOption customizes a Resolver.
type ResolverOption func(*Resolver)

// WithEndpoint names the discovery endpoint in errors and logs.
func WithEndpoint(endpoint string) ResolverOption {
	return func(r *Resolver) {
		r.endpoint = endpoint
	}
}

// WithLogger sets the resolver logger.
func WithLogger(l *logger.Logger) ResolverOption {
	return func(r *Resolver) {
		r.log = l
	}
}

// WithMetrics sets the metric instruments. Nil disables recording.
func WithMetrics(m *observability.Metrics) ResolverOption {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// NewResolver creates a resolver over f. Nothing is fetched until first use.
func NewResolver(f Fetcher, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		fetcher: f,
		log:     logger.WithComponent("discovery"),
		metrics: observability.DefaultMetrics(),
	}
	if ep, ok := f.(interface{ Endpoint() string }); ok {
		r.endpoint = ep.Endpoint()
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NextBaseURL returns the next base URL. The first call fetches the
// document; concurrent first callers share that fetch. Successive calls
// cycle through the document in order with period len(doc).
//
// It returns DISCOVERY_TRANSPORT or DISCOVERY_PARSE when the fetch fails,
// EMPTY_DOMAIN_LIST when the document has no entries, and ctx.Err() when
// ctx ends before the document is available.
func (r *Resolver) NextBaseURL(ctx context.Context) (url string, err error) {
	ctx, op := observability.StartOperation(ctx, "discovery", observability.SpanResolverNext)
	defer func() { op.End(ctx, err) }()

	if _, err = r.load(ctx); err != nil {
		return "", err
	}

	r.mu.Lock()
	if len(r.doc) == 0 {
		r.mu.Unlock()
		return "", errors.EmptyDomainList(r.endpoint)
	}
	if r.cursor == len(r.doc) {
		r.cursor = 0
	}
	url = r.doc[r.cursor]
	r.cursor++
	r.mu.Unlock()

	op.Span().SetAttributes(attribute.String(observability.AttrBaseURL, url))
	r.metrics.RecordBaseURL(ctx, url)
	return url, nil
}

// Domains returns a copy of the discovery document, fetching it if needed.
func (r *Resolver) Domains(ctx context.Context) ([]string, error) {
	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(doc), nil
}

// Warm fetches the document ahead of the first request. It returns
// EMPTY_DOMAIN_LIST for an empty document.
func (r *Resolver) Warm(ctx context.Context) error {
	doc, err := r.load(ctx)
	if err != nil {
		return err
	}
	if len(doc) == 0 {
		return errors.EmptyDomainList(r.endpoint)
	}
	return nil
}

// Loaded reports whether the document has been fetched and cached.
func (r *Resolver) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// LastError returns the error of the most recent failed fetch, cleared by a
// successful one.
func (r *Resolver) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Endpoint returns the discovery endpoint this resolver reports in errors.
func (r *Resolver) Endpoint() string {
	return r.endpoint
}

// load returns the cached document or joins the shared fetch. The fetch runs
// on a context detached from the caller's cancellation so that one caller
// giving up does not fail the others.
func (r *Resolver) load(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	if r.loaded {
		doc := r.doc
		r.mu.Unlock()
		return doc, nil
	}
	r.mu.Unlock()

	ch := r.group.DoChan(fetchKey, func() (interface{}, error) {
		r.mu.Lock()
		if r.loaded {
			doc := r.doc
			r.mu.Unlock()
			return doc, nil
		}
		r.mu.Unlock()

		doc, err := r.fetcher.FetchDomains(context.WithoutCancel(ctx))

		r.mu.Lock()
		defer r.mu.Unlock()
		if err != nil {
			r.lastErr = err
			return nil, err
		}
		r.doc = slices.Clone(doc)
		r.loaded = true
		r.lastErr = nil
		r.log.Info("API domains loaded", map[string]interface{}{
			logger.FieldEndpoint: r.endpoint,
			"domains":            len(doc),
		})
		return r.doc, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]string), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
