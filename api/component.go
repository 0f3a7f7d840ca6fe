package api

import (
	"context"
	"fmt"

	"github.com/reactivity-io/reactivity-go/component"
	"github.com/reactivity-io/reactivity-go/discovery"
	"github.com/reactivity-io/reactivity-go/httpclient"
)

// ResolverSource returns the resolver once discovery has started.
type ResolverSource func() (discovery.BaseURLResolver, error)

// Component builds the backend client when the application starts.
type Component struct {
	cfg      Config
	source   ResolverSource
	opts     []Option
	httpOpts []httpclient.Option
	http     *httpclient.Component
	client   *Client
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the client component. source is called in Start, so
// the discovery component must be registered before it.
func NewComponent(cfg Config, source ResolverSource, opts ...Option) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, source: source, opts: opts}
}

// WithHTTPOptions customizes the adapter built in Start.
func (c *Component) WithHTTPOptions(opts ...httpclient.Option) *Component {
	c.httpOpts = append(c.httpOpts, opts...)
	return c
}

func (c *Component) Name() string { return "api" }

func (c *Component) Start(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("api config: %w", err)
	}
	resolver, err := c.source()
	if err != nil {
		return fmt.Errorf("api: resolve api domains: %w", err)
	}
	http := httpclient.NewComponent(c.cfg.HTTPConfig(), c.httpOpts...)
	if err := http.Start(ctx); err != nil {
		return fmt.Errorf("api: create http adapter: %w", err)
	}
	c.http = http
	c.client = New(resolver, http.Adapter(), append([]Option{WithConfig(c.cfg)}, c.opts...)...)
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	if c.http == nil {
		return nil
	}
	return c.http.Stop(ctx)
}

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.client == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case c.http.Health(ctx).Status != component.StatusHealthy:
		h.Status = component.StatusDegraded
		h.Message = "circuit open"
	}
	return h
}

func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("timeout=%s page_size=%d", c.cfg.Timeout, c.cfg.PageSize)
	if c.cfg.Retry {
		details += " retry"
	}
	return component.Description{Name: "Reactivity API", Type: "api-client", Details: details}
}

// Adapter returns the HTTP adapter built by Start.
func (c *Component) Adapter() *httpclient.Adapter {
	if c.http == nil {
		return nil
	}
	return c.http.Adapter()
}

// Client returns the client built by Start.
func (c *Component) Client() *Client {
	return c.client
}
