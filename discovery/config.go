package discovery

import (
	"time"

	"github.com/reactivity-io/reactivity-go/errors"
	"github.com/reactivity-io/reactivity-go/httpclient"
	"github.com/reactivity-io/reactivity-go/validation"
)

const defaultTimeout = 10 * time.Second

// Config configures API-domain discovery.
type Config struct {
	// Origin is the application origin serving the discovery document.
	Origin string `yaml:"origin" mapstructure:"origin" validate:"omitempty,url"`

	// Path is the document path, DefaultPath or AlternatePath.
	Path string `yaml:"path" mapstructure:"path" validate:"omitempty,startswith=/"`

	// Timeout bounds a single discovery fetch. Zero means the 10s default.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// Warm fetches the document when the component starts instead of on first use.
	Warm bool `yaml:"warm" mapstructure:"warm"`

	// Domains, when set, replaces the fetch with a fixed list.
	Domains []string `yaml:"domains" mapstructure:"domains" validate:"omitempty,dive,url"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the configuration. Either Origin or Domains is required.
func (c *Config) Validate() error {
	if c.Origin == "" && len(c.Domains) == 0 {
		return errors.InvalidInput("discovery.origin", "origin or domains is required")
	}
	return validation.Validate(c)
}

// Endpoint returns the absolute discovery document URL.
func (c *Config) Endpoint() string {
	if c.Origin == "" {
		return ""
	}
	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	return httpclient.JoinURL(c.Origin, path)
}
