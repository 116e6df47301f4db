// Package am holds folio's configuration.
//
// Settings are layered, lowest precedence first:
//
//	built-in defaults
//	~/.folio/folio.toml             (user)
//	folio.toml                      (project, found by walking up from the working directory)
//	FOLIO_* environment variables   (FOLIO_COLLECT_OUTPUT, FOLIO_GITHUB_TOKEN_ENV, ...)
//
// Relative paths under [collect] resolve against the directory holding the
// project folio.toml, so a build can run from any subdirectory.
package am

import (
	"path/filepath"
	"time"
)

// Config represents the folio configuration
type Config struct {
	Collect CollectConfig `mapstructure:"collect" toml:"collect" json:"collect" yaml:"collect"`
	GitHub  GitHubConfig  `mapstructure:"github" toml:"github" json:"github" yaml:"github"`
	Log     LogConfig     `mapstructure:"log" toml:"log" json:"log" yaml:"log"`

	// ProjectDir anchors relative paths: the project folio.toml's directory,
	// or the working directory when there is none
	ProjectDir string `mapstructure:"-" toml:"-" json:"-" yaml:"-"`
	// ProjectFile is the project folio.toml in effect, if any
	ProjectFile string `mapstructure:"-" toml:"-" json:"-" yaml:"-"`
}

// CollectConfig configures the collection pipeline
type CollectConfig struct {
	// Source list (.json, .yaml, .toml)
	Sources string `mapstructure:"sources" toml:"sources" json:"sources" yaml:"sources"`
	// Empty selects the embedded schema
	Schema string `mapstructure:"schema" toml:"schema" json:"schema" yaml:"schema"`
	// Artifact written for the site
	Output string `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
	// Copied in mock mode
	Fixture string `mapstructure:"fixture" toml:"fixture" json:"fixture" yaml:"fixture"`
	// Document fetched when a source names none
	DefaultPath string `mapstructure:"default_path" toml:"default_path" json:"default_path" yaml:"default_path"`
}

// GitHubConfig configures the contents API client
type GitHubConfig struct {
	APIURL string `mapstructure:"api_url" toml:"api_url" json:"api_url" yaml:"api_url"`
	// Variable holding the token, never the token itself
	TokenEnv string `mapstructure:"token_env" toml:"token_env" json:"token_env" yaml:"token_env"`
	// 0 = no client timeout
	TimeoutSeconds int `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
	// 0 = unpaced
	RequestsPerMinute int `mapstructure:"requests_per_minute" toml:"requests_per_minute" json:"requests_per_minute" yaml:"requests_per_minute"`
	// GitHub Enterprise on a private network
	AllowPrivateHosts bool `mapstructure:"allow_private_hosts" toml:"allow_private_hosts" json:"allow_private_hosts" yaml:"allow_private_hosts"`
}

// LogConfig configures diagnostics
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
}

// Resolve makes a relative path absolute against ProjectDir.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.ProjectDir == "" {
		return path
	}
	return filepath.Join(c.ProjectDir, path)
}

// SourcesPath returns the resolved source list path.
func (c *Config) SourcesPath() string { return c.Resolve(c.Collect.Sources) }

// SchemaPath returns the resolved schema path, or "" for the embedded schema.
func (c *Config) SchemaPath() string { return c.Resolve(c.Collect.Schema) }

// OutputPath returns the resolved artifact path.
func (c *Config) OutputPath() string { return c.Resolve(c.Collect.Output) }

// FixturePath returns the resolved fixture path.
func (c *Config) FixturePath() string { return c.Resolve(c.Collect.Fixture) }

// Timeout returns the GitHub client timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.GitHub.TimeoutSeconds) * time.Second
}
