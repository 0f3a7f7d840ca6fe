package main

import (
	"fmt"

	"github.com/reactivity-io/reactivity-go/api"
	"github.com/reactivity-io/reactivity-go/config"
	"github.com/reactivity-io/reactivity-go/devserver"
	"github.com/reactivity-io/reactivity-go/discovery"
	"github.com/reactivity-io/reactivity-go/observability"
)

const serviceName = "reactivity"

// Config is the CLI configuration, loaded from reactivity.yml, .env and the
// environment (DISCOVERY_ORIGIN, API_TIMEOUT, ...).
type Config struct {
	config.ServiceConfig `mapstructure:",squash"`

	Discovery discovery.Config     `yaml:"discovery" mapstructure:"discovery"`
	API       api.Config           `yaml:"api" mapstructure:"api"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
	Mock      devserver.Config     `yaml:"mock" mapstructure:"mock"`
}

// ApplyDefaults fills in zero-value fields of every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Discovery.ApplyDefaults()
	c.API.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
	c.Telemetry.Environment = c.Environment
	c.Mock.ApplyDefaults()
}

// Validate checks every section except discovery, which is validated when
// the discovery component starts so that serve-mock runs without an origin.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	return c.Mock.Validate()
}

func loadConfig(path string) (*Config, error) {
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
