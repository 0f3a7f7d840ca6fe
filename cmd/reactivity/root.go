package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/reactivity-io/reactivity-go/api"
	"github.com/reactivity-io/reactivity-go/bootstrap"
	"github.com/reactivity-io/reactivity-go/di"
	"github.com/reactivity-io/reactivity-go/discovery"
	"github.com/reactivity-io/reactivity-go/version"
)

// globalFlags are shared by every subcommand. Flags override the loaded config.
type globalFlags struct {
	configFile string
	origin     string
	path       string
	domains    []string
	timeout    time.Duration
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "reactivity",
		Short:         "Query the Reactivity backend",
		Long:          "reactivity discovers the API domains of a Reactivity deployment and queries its event endpoints, spreading requests over the domains in round-robin order.",
		Version:       version.GetShortVersion(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "config file (default: ./reactivity.yml or ./config/reactivity.yml)")
	pf.StringVar(&flags.origin, "origin", "", "application origin serving the discovery document")
	pf.StringVar(&flags.path, "discovery-path", "", "discovery document path (default "+discovery.DefaultPath+")")
	pf.StringSliceVar(&flags.domains, "domain", nil, "use these API domains instead of discovery (repeatable)")
	pf.DurationVar(&flags.timeout, "timeout", 0, "per-request timeout")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging and startup summary")

	root.AddCommand(
		newDomainsCmd(flags),
		newOrganizationsCmd(flags),
		newSubscribeCmd(flags),
		newArtifactsCmd(flags),
		newServeMockCmd(flags),
		newVersionCmd(),
	)
	return root
}

// load reads the config file and applies flag overrides.
func (f *globalFlags) load(cmd *cobra.Command) (*Config, error) {
	cfg, err := loadConfig(f.configFile)
	if err != nil {
		return nil, err
	}
	pf := cmd.Flags()
	if pf.Changed("origin") {
		cfg.Discovery.Origin = f.origin
	}
	if pf.Changed("discovery-path") {
		cfg.Discovery.Path = f.path
	}
	if pf.Changed("domain") {
		cfg.Discovery.Domains = f.domains
	}
	if pf.Changed("timeout") {
		cfg.Discovery.Timeout = f.timeout
		cfg.API.Timeout = f.timeout
	}
	if f.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func (f *globalFlags) appOptions() []bootstrap.Option {
	if f.verbose {
		return nil
	}
	return []bootstrap.Option{bootstrap.WithoutSummary()}
}

// withClient starts the client application, runs fn with the resolved
// providers, and shuts the application down.
func withClient(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, client *api.Client, resolver *discovery.Resolver) error) error {
	cfg, err := flags.load(cmd)
	if err != nil {
		return err
	}
	app, err := newClientApp(cfg, flags.appOptions())
	if err != nil {
		return err
	}
	return app.RunTask(cmd.Context(), func(ctx context.Context) error {
		client, err := di.Resolve[*api.Client](app.Container, di.Keys.API)
		if err != nil {
			return err
		}
		resolver, err := di.Resolve[*discovery.Resolver](app.Container, di.Keys.APIDomain)
		if err != nil {
			return err
		}
		return fn(ctx, client, resolver)
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
