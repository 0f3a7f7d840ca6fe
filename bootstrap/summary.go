package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/reactivity-io/reactivity-go/component"
	"github.com/reactivity-io/reactivity-go/di"
)

// Summary renders the startup report: components, routes, providers and live health.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
}

// NewSummary creates a summary for the named service.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Write renders the summary. Components that implement component.Describable
// or component.RouteProvider report themselves.
func (s *Summary) Write(w io.Writer, registry *component.Registry, container di.Container) {
	fmt.Fprintf(w, "\n%s v%s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	var routes []component.Route
	if registry != nil {
		comps := registry.All()
		if len(comps) > 0 {
			fmt.Fprintf(w, "\nComponents\n")
		}
		for i, c := range comps {
			desc := component.Description{Name: c.Name(), Type: "component"}
			if d, ok := c.(component.Describable); ok {
				desc = d.Describe()
				if desc.Name == "" {
					desc.Name = c.Name()
				}
			}
			details := desc.Details
			if desc.Port > 0 {
				details = fmt.Sprintf("%s (:%d)", details, desc.Port)
			}
			fmt.Fprintf(w, "   %s %s [%s] %s\n", branch(i, len(comps)), desc.Name, desc.Type, details)

			if rp, ok := c.(component.RouteProvider); ok {
				routes = append(routes, rp.Routes()...)
			}
		}
	}

	if len(routes) > 0 {
		fmt.Fprintf(w, "\nRoutes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(w, "   %s %-7s %s -> %s\n", branch(i, len(routes)), r.Method, r.Path, r.Handler)
		}
	}

	if container != nil {
		regs := container.Registrations()
		if len(regs) > 0 {
			fmt.Fprintf(w, "\nProviders\n")
		}
		for i, r := range regs {
			state := r.Mode.String()
			if r.Mode == di.Lazy && !r.Initialized {
				state += ", pending"
			}
			fmt.Fprintf(w, "   %s %s (%s)\n", branch(i, len(regs)), r.Key, state)
		}
	}

	if registry != nil {
		health := registry.HealthAll(context.Background())
		if len(health) > 0 {
			fmt.Fprintf(w, "\nHealth\n")
		}
		for i, h := range health {
			msg := ""
			if h.Message != "" {
				msg = ": " + h.Message
			}
			fmt.Fprintf(w, "   %s %s %s%s\n", branch(i, len(health)), h.Name, strings.ToLower(string(h.Status)), msg)
		}
	}
	fmt.Fprintln(w)
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}
