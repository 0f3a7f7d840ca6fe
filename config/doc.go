// Package config loads configuration with Viper.
//
// Values come from a YAML file, then from a .env file, then from the process
// environment. Environment keys are matched to nested config keys by
// splitting on underscores, so DISCOVERY_ORIGIN sets discovery.origin.
//
//	var cfg AppConfig
//	err := config.LoadConfig("reactivity", &cfg, config.WithConfigFile(path))
package config
