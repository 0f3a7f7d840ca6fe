package main

import (
	"fmt"

	"github.com/reactivity-io/reactivity-go/api"
	"github.com/reactivity-io/reactivity-go/bootstrap"
	"github.com/reactivity-io/reactivity-go/di"
	"github.com/reactivity-io/reactivity-go/discovery"
	"github.com/reactivity-io/reactivity-go/httpclient"
	"github.com/reactivity-io/reactivity-go/observability"
)

// clientApp is the application behind the backend commands: telemetry,
// discovery and the API client, registered in start order.
type clientApp struct {
	*bootstrap.App[*Config]
	discovery *discovery.Component
	api       *api.Component
}

func newClientApp(cfg *Config, opts []bootstrap.Option, httpOpts ...httpclient.Option) (*clientApp, error) {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}

	ca := &clientApp{
		App:       app,
		discovery: discovery.NewComponent(cfg.Discovery, httpOpts...),
	}
	ca.api = api.NewComponent(cfg.API, func() (discovery.BaseURLResolver, error) {
		return di.Resolve[*discovery.Resolver](app.Container, di.Keys.APIDomain)
	}).WithHTTPOptions(httpOpts...)

	if err := app.Container.Provide(di.Keys.APIDomain, ca.resolver); err != nil {
		return nil, err
	}
	if err := app.Container.Provide(di.Keys.API, ca.client); err != nil {
		return nil, err
	}
	if err := app.Container.Provide(di.Keys.HTTP, ca.adapter); err != nil {
		return nil, err
	}

	if err := app.RegisterComponent(observability.NewComponent(cfg.Telemetry, cfg.Name, cfg.Version)); err != nil {
		return nil, err
	}
	if err := app.RegisterComponent(ca.discovery); err != nil {
		return nil, err
	}
	if err := app.RegisterComponent(ca.api); err != nil {
		return nil, err
	}
	return ca, nil
}

func (ca *clientApp) resolver() (*discovery.Resolver, error) {
	r := ca.discovery.Resolver()
	if r == nil {
		return nil, fmt.Errorf("discovery component not started")
	}
	return r, nil
}

func (ca *clientApp) client() (*api.Client, error) {
	c := ca.api.Client()
	if c == nil {
		return nil, fmt.Errorf("api component not started")
	}
	return c, nil
}

func (ca *clientApp) adapter() (*httpclient.Adapter, error) {
	a := ca.api.Adapter()
	if a == nil {
		return nil, fmt.Errorf("api component not started")
	}
	return a, nil
}
