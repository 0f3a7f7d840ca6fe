// Package observability wires OpenTelemetry tracing and metrics. Discovery
// and the API client always record through the global providers, which are
// no-ops until Setup (or the Component) installs exporting providers.
//
//	shutdown, err := observability.Setup(ctx, cfg, "reactivity", version.Short())
//	defer shutdown(ctx)
//
//	ctx, op := observability.StartOperation(ctx, "discovery", "discovery.fetch")
//	defer func() { op.End(ctx, err) }()
package observability
