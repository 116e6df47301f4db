package am

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/teranos/folio/errors"
)

var envNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return errors.Mark(err, errors.ErrInvalidConfig)
	}
	return nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Collect.Sources) == "" {
		return errors.New("collect.sources cannot be empty")
	}
	if strings.TrimSpace(c.Collect.Output) == "" {
		return errors.New("collect.output cannot be empty")
	}
	if strings.TrimSpace(c.Collect.Fixture) == "" {
		return errors.New("collect.fixture cannot be empty")
	}
	if strings.Trim(c.Collect.DefaultPath, " /") == "" {
		return errors.New("collect.default_path cannot be empty")
	}

	u, err := url.Parse(c.GitHub.APIURL)
	if err != nil {
		return errors.Wrapf(err, "github.api_url is not a URL: %q", c.GitHub.APIURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Newf("github.api_url must be http or https, got %q", c.GitHub.APIURL)
	}
	if u.Host == "" {
		return errors.Newf("github.api_url has no host: %q", c.GitHub.APIURL)
	}

	// The token itself never lives in config
	if !envNamePattern.MatchString(c.GitHub.TokenEnv) {
		return errors.Newf("github.token_env must be an environment variable name, got %q", c.GitHub.TokenEnv)
	}

	// 0 = transport default / unpaced, negative = invalid
	if c.GitHub.TimeoutSeconds < 0 {
		return errors.Newf("github.timeout_seconds must be >= 0, got %d", c.GitHub.TimeoutSeconds)
	}
	if c.GitHub.RequestsPerMinute < 0 {
		return errors.Newf("github.requests_per_minute must be >= 0, got %d", c.GitHub.RequestsPerMinute)
	}

	return nil
}
