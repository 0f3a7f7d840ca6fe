package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reactivity-io/reactivity-go/api"
	"github.com/reactivity-io/reactivity-go/bootstrap"
	"github.com/reactivity-io/reactivity-go/devserver"
	"github.com/reactivity-io/reactivity-go/discovery"
	"github.com/reactivity-io/reactivity-go/version"
)

func newDomainsCmd(flags *globalFlags) *cobra.Command {
	var next int
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Fetch the discovery document",
		Long:  "Fetch the discovery document and print the API domains, then the next N base URLs in round-robin order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, flags, func(ctx context.Context, _ *api.Client, resolver *discovery.Resolver) error {
				domains, err := resolver.Domains(ctx)
				if err != nil {
					return err
				}
				out := struct {
					Endpoint string   `json:"endpoint"`
					Domains  []string `json:"domains"`
					Next     []string `json:"next,omitempty"`
				}{Endpoint: resolver.Endpoint(), Domains: domains}
				for i := 0; i < next; i++ {
					url, err := resolver.NextBaseURL(ctx)
					if err != nil {
						return err
					}
					out.Next = append(out.Next, url)
				}
				return writeJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().IntVarP(&next, "next", "n", 0, "also print the next N base URLs")
	return cmd
}

func newOrganizationsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "organizations",
		Aliases: []string{"orgs"},
		Short:   "List the organizations of the current user",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, flags, func(ctx context.Context, client *api.Client, _ *discovery.Resolver) error {
				orgs, err := client.Organizations(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), orgs)
			})
		},
	}
}

type subscription struct {
	Views     []api.ArtifactView `json:"views"`
	Artifacts []api.Artifact     `json:"artifacts"`
}

func newSubscription(groups api.EventGroups) (subscription, error) {
	views, err := groups.Views()
	if err != nil {
		return subscription{}, err
	}
	artifacts, err := groups.Artifacts()
	if err != nil {
		return subscription{}, err
	}
	return subscription{Views: views, Artifacts: artifacts}, nil
}

func newSubscribeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe ORGANIZATION...",
		Short: "Load the views and artifacts of organizations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, flags, func(ctx context.Context, client *api.Client, _ *discovery.Resolver) error {
				all, err := client.SubscribeAll(ctx, args)
				if err != nil {
					return err
				}
				out := make(map[string]subscription, len(all))
				for id, groups := range all {
					if out[id], err = newSubscription(groups); err != nil {
						return fmt.Errorf("organization %s: %w", id, err)
					}
				}
				return writeJSON(cmd.OutOrStdout(), out)
			})
		},
	}
}

func newArtifactsCmd(flags *globalFlags) *cobra.Command {
	var (
		limit  int
		maxAge int64
		minAge int64
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "artifacts VIEW",
		Short: "Load the artifacts of a view",
		Long:  "Load the artifacts of a view, newest first. --maxage and --minage bound the updated time; --all pages through the whole view.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("minage") && (all || cmd.Flags().Changed("maxage")) {
				return fmt.Errorf("--minage cannot be combined with --maxage or --all")
			}
			return withClient(cmd, flags, func(ctx context.Context, client *api.Client, _ *discovery.Resolver) error {
				var (
					events []api.Event
					err    error
				)
				switch {
				case all:
					events, err = client.NewArtifactPager(args[0], limit).All(ctx)
				case cmd.Flags().Changed("minage"):
					events, err = client.ArtifactsSince(ctx, args[0], limit, minAge)
				default:
					events, err = client.Artifacts(ctx, args[0], limit, maxAge)
				}
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), events)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 50, "page size")
	cmd.Flags().Int64Var(&maxAge, "maxage", api.NoMaxAge, "newest updated time to include, -1 for the most recent")
	cmd.Flags().Int64Var(&minAge, "minage", 0, "oldest updated time to include")
	cmd.Flags().BoolVar(&all, "all", false, "page through every artifact of the view")
	return cmd
}

func newServeMockCmd(flags *globalFlags) *cobra.Command {
	var (
		port          int
		failDiscovery bool
		dataset       string
	)
	cmd := &cobra.Command{
		Use:   "serve-mock",
		Short: "Run an in-memory backend that serves its own discovery document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Mock.Port = port
			}
			if failDiscovery {
				cfg.Mock.FailDiscovery = true
			}
			if dataset != "" {
				cfg.Mock.DatasetFile = dataset
			}
			if cmd.Flags().Changed("discovery-path") {
				cfg.Mock.DiscoveryPath = flags.path
			}
			if cmd.Flags().Changed("domain") {
				cfg.Mock.Domains = flags.domains
			}

			var data *devserver.Dataset
			if cfg.Mock.DatasetFile != "" {
				if data, err = devserver.LoadDataset(cfg.Mock.DatasetFile); err != nil {
					return err
				}
			}

			// The summary is what tells the user where the mock listens.
			app, err := bootstrap.NewApp(cfg)
			if err != nil {
				return err
			}
			if err := app.RegisterComponent(devserver.NewComponent(devserver.New(cfg.Mock, data))); err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port, 0 for any free port")
	cmd.Flags().BoolVar(&failDiscovery, "fail-discovery", false, "answer the discovery document with 503")
	cmd.Flags().StringVar(&dataset, "dataset", "", "JSON dataset file (default: built-in sample)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetVersionInfo()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
