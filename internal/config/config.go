// Package config declares the process-wide configuration shape, loaded
// once at startup the way the teacher's own ProvideConfig does.
package config

import "github.com/hayeah/goo"

// Config embeds goo.Config for the ambient process settings (log level,
// environment) and adds the two external services this core talks to.
type Config struct {
	goo.Config
	Coordinator CoordinatorConfig
	Registry    RegistryConfig
}

// CoordinatorConfig holds the coordinator endpoint, loaded once per process.
// Clients are built from BaseURL and each keeps its own copy of the string;
// they do not hold a reference to Config.
type CoordinatorConfig struct {
	BaseURL string `arg:"env:CYAN_COORDINATOR_URL" default:"http://localhost:8081"`
}

// RegistryConfig is the registry service's endpoint and credentials.
type RegistryConfig struct {
	BaseURL string `arg:"env:CYAN_REGISTRY_URL" default:"https://registry.cyanprint.dev"`
	APIKey  string `arg:"env:CYAN_REGISTRY_API_KEY"`
}

// Load parses Config from the environment, exactly as the teacher's
// ProvideConfig does via goo.ParseConfig.
func Load() (*Config, error) {
	return goo.ParseConfig[Config]("")
}
