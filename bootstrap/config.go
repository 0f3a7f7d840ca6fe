package bootstrap

import "github.com/reactivity-io/reactivity-go/config"

// Config is the constraint for application configuration types. Structs
// that embed config.ServiceConfig satisfy it through promoted methods.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
