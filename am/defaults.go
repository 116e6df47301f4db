package am

import (
	"github.com/spf13/viper"

	"github.com/teranos/folio/source"
)

const (
	// ProjectConfigName is looked up from the working directory upwards
	ProjectConfigName = "folio.toml"

	// UserConfigDir holds the user config, relative to the home directory
	UserConfigDir = ".folio"

	// EnvPrefix prefixes environment overrides: FOLIO_COLLECT_OUTPUT
	EnvPrefix = "FOLIO"
)

// Defaults
const (
	DefaultSources  = "portfolio.config.json"
	DefaultOutput   = "src/_portfolio/projects.json"
	DefaultFixture  = "src/_portfolio/projects.sample.json"
	DefaultAPIURL   = "https://api.github.com"
	DefaultTokenEnv = "GITHUB_TOKEN"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("collect.sources", DefaultSources)
	v.SetDefault("collect.schema", "") // embedded
	v.SetDefault("collect.output", DefaultOutput)
	v.SetDefault("collect.fixture", DefaultFixture)
	v.SetDefault("collect.default_path", source.DefaultPath)

	v.SetDefault("github.api_url", DefaultAPIURL)
	v.SetDefault("github.token_env", DefaultTokenEnv)
	v.SetDefault("github.timeout_seconds", 0)     // transport default
	v.SetDefault("github.requests_per_minute", 0) // no pacing
	v.SetDefault("github.allow_private_hosts", false)

	v.SetDefault("log.json", false)
}
