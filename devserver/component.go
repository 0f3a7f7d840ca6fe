package devserver

import (
	"context"
	"sort"
	"strings"

	"github.com/reactivity-io/reactivity-go/component"
)

// Component runs the mock backend under the application lifecycle.
type Component struct {
	server *Server
}

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// NewComponent wraps s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

func (c *Component) Name() string { return "mock-backend" }

func (c *Component) Start(ctx context.Context) error { return c.server.Start(ctx) }

func (c *Component) Stop(ctx context.Context) error { return c.server.Stop(ctx) }

func (c *Component) Health(_ context.Context) component.Health {
	if c.server.Addr() == "" {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not listening"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	details := c.server.URL()
	if c.server.cfg.FailDiscovery {
		details += " (discovery fails)"
	}
	return component.Description{Name: "Mock backend", Type: "server", Details: details, Port: c.server.cfg.Port}
}

// Routes lists the served routes, sorted by path.
func (c *Component) Routes() []component.Route {
	ginRoutes := c.server.engine.Routes()
	sort.Slice(ginRoutes, func(i, j int) bool { return ginRoutes[i].Path < ginRoutes[j].Path })

	routes := make([]component.Route, 0, len(ginRoutes))
	for _, r := range ginRoutes {
		routes = append(routes, component.Route{Method: r.Method, Path: r.Path, Handler: handlerName(r.Handler)})
	}
	return routes
}

// handlerName trims "github.com/.../devserver.(*Server).subscribe-fm" to
// "subscribe" and drops closure suffixes such as ".func1".
func handlerName(full string) string {
	parts := strings.Split(strings.TrimSuffix(full, "-fm"), ".")
	for i := len(parts) - 1; i >= 0; i-- {
		if !strings.HasPrefix(parts[i], "func") {
			return parts[i]
		}
	}
	return full
}
