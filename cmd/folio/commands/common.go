// Package commands holds the folio CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/teranos/folio/am"
	"github.com/teranos/folio/errors"
)

// loadConfig loads and validates the layered configuration.
func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "failed to load configuration"),
			"run 'folio am where' to see which files are read")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "configuration validation failed"),
			"run 'folio am show --sources' to see where each setting comes from")
	}
	return cfg, nil
}

// PrintError writes err followed by any hints attached to it.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}
