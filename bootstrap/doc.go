// Package bootstrap drives the application lifecycle for reactivity
// binaries: typed configuration, logger setup, component start and stop,
// the provider container, and a startup summary.
//
//	app, err := bootstrap.NewApp(&cfg)
//	_ = app.RegisterComponent(resolverComponent)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return printDomains(ctx, app)
//	})
//
// Run blocks until SIGINT/SIGTERM and suits long-running processes such as
// the mock backend. RunTask suits one-shot CLI commands.
package bootstrap
