package discovery

import (
	"context"
	"fmt"

	"github.com/reactivity-io/reactivity-go/component"
	"github.com/reactivity-io/reactivity-go/httpclient"
	"github.com/reactivity-io/reactivity-go/logger"
)

// Component owns the domain resolver's lifecycle.
type Component struct {
	cfg      Config
	opts     []httpclient.Option
	resolver *Resolver
	log      *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a discovery component. HTTP options apply to the
// fetcher's adapter.
func NewComponent(cfg Config, opts ...httpclient.Option) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, opts: opts, log: logger.WithComponent("discovery")}
}

// Name returns the component name.
func (c *Component) Name() string { return "discovery" }

// Start builds the resolver, and fetches the document when Warm is set.
func (c *Component) Start(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("discovery config: %w", err)
	}

	var fetcher Fetcher
	if len(c.cfg.Domains) > 0 {
		fetcher = StaticFetcher(c.cfg.Domains)
	} else {
		f, err := NewHTTPFetcher(c.cfg, c.opts...)
		if err != nil {
			return err
		}
		fetcher = f
	}
	c.resolver = NewResolver(fetcher, WithEndpoint(c.endpoint()), WithLogger(c.log))

	if c.cfg.Warm {
		if err := c.resolver.Warm(ctx); err != nil {
			return fmt.Errorf("discovery warm-up: %w", err)
		}
	}
	return nil
}

// Stop is a no-op; the resolver holds no connections of its own.
func (c *Component) Stop(_ context.Context) error {
	return nil
}

// Health reports unhealthy after a failed fetch and healthy otherwise.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.resolver == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case c.resolver.LastError() != nil:
		h.Status = component.StatusUnhealthy
		h.Message = c.resolver.LastError().Error()
	case !c.resolver.Loaded():
		h.Message = "domains load on first request"
	}
	return h
}

// Describe returns the startup summary entry.
func (c *Component) Describe() component.Description {
	return component.Description{Name: "API domains", Type: "discovery", Details: c.endpoint()}
}

// Resolver returns the resolver built by Start.
func (c *Component) Resolver() *Resolver {
	return c.resolver
}

func (c *Component) endpoint() string {
	if len(c.cfg.Domains) > 0 {
		return "static"
	}
	return c.cfg.Endpoint()
}
