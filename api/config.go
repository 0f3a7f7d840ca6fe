package api

import (
	"time"

	"github.com/reactivity-io/reactivity-go/httpclient"
	"github.com/reactivity-io/reactivity-go/validation"
	"github.com/reactivity-io/reactivity-go/version"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultPageSize    = 50
	defaultConcurrency = 4
)

// SessionCookie is the backend session cookie sent with every request.
type SessionCookie struct {
	Name  string `yaml:"name" mapstructure:"name"`
	Value string `yaml:"value" mapstructure:"value" validate:"required_with=Name"`
}

// Config configures the backend client.
type Config struct {
	// Timeout bounds each backend request.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// PageSize is the artifact page size used by the pager. Defaults to 50.
	PageSize int `yaml:"page_size" mapstructure:"page_size" validate:"gte=0,lte=1000"`

	// Concurrency bounds the parallel subscriptions of SubscribeAll.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency" validate:"gte=0"`

	// Retry retries 5xx and transport failures with backoff. Off by default.
	Retry bool `yaml:"retry" mapstructure:"retry"`

	// CircuitBreaker fails requests fast after repeated 5xx or transport
	// failures. Off by default.
	CircuitBreaker bool `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`

	// SessionCookie authenticates against a backend that requires a login
	// session. Empty Name sends no cookie.
	SessionCookie SessionCookie `yaml:"session_cookie" mapstructure:"session_cookie"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.PageSize == 0 {
		c.PageSize = defaultPageSize
	}
	if c.Concurrency == 0 {
		c.Concurrency = defaultConcurrency
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// HTTPConfig returns the adapter configuration for backend requests.
func (c *Config) HTTPConfig() httpclient.Config {
	cfg := httpclient.Config{
		Name:    "api",
		Timeout: c.Timeout,
		Headers: map[string]string{"Accept": "application/json", "User-Agent": version.UserAgent()},
	}
	if c.Retry {
		cfg.Retry = httpclient.DefaultRetryConfig()
	}
	if c.SessionCookie.Name != "" {
		cfg.Auth = httpclient.CookieAuth(c.SessionCookie.Name, c.SessionCookie.Value)
	}
	if c.CircuitBreaker {
		cfg.CircuitBreaker = httpclient.DefaultCircuitBreakerConfig("api")
	}
	return cfg
}
