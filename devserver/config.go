package devserver

import (
	"fmt"

	"github.com/reactivity-io/reactivity-go/discovery"
	"github.com/reactivity-io/reactivity-go/validation"
)

// Config configures the mock backend.
type Config struct {
	Host string `yaml:"host" mapstructure:"host"`
	// Port 0 picks a free port.
	Port int `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`

	// DiscoveryPath is where the discovery document is served.
	DiscoveryPath string `yaml:"discovery_path" mapstructure:"discovery_path" validate:"omitempty,startswith=/"`

	// Domains are advertised by the discovery document. Empty means the
	// server's own origin.
	Domains []string `yaml:"domains" mapstructure:"domains" validate:"omitempty,dive,url"`

	// FailDiscovery answers the discovery document with 503.
	FailDiscovery bool `yaml:"fail_discovery" mapstructure:"fail_discovery"`

	// DatasetFile is a JSON dataset. Empty uses SampleDataset.
	DatasetFile string `yaml:"dataset_file" mapstructure:"dataset_file"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.DiscoveryPath == "" {
		c.DiscoveryPath = discovery.DefaultPath
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("devserver: %w", err)
	}
	return nil
}
