// Package source describes where portfolio presentations live.
//
// A Descriptor names one document in one GitHub repository. The list of
// descriptors is read from a small config document:
//
//	{
//	  "repos": [
//	    {"owner": "octo", "repo": "site"},
//	    {"owner": "octo", "repo": "infra", "path": "docs/PORTFOLIO.md"}
//	  ]
//	}
//
// JSON, YAML and TOML files of the same shape are accepted; the format is
// chosen by file extension.
package source

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/folio/errors"
)

// DefaultPath is the document fetched when a descriptor names no path.
const DefaultPath = "PORTFOLIO_PRESENTATION.md"

// Descriptor identifies one remote presentation document.
type Descriptor struct {
	Owner string `json:"owner" yaml:"owner" toml:"owner"`
	Repo  string `json:"repo" yaml:"repo" toml:"repo"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
}

// Label returns the owner/repo form used in diagnostics.
func (d Descriptor) Label() string {
	return d.Owner + "/" + d.Repo
}

// String includes the path when it is not the default.
func (d Descriptor) String() string {
	if d.Path == "" || d.Path == DefaultPath {
		return d.Label()
	}
	return d.Label() + ":" + d.Path
}

// List is the on-disk shape of a source list.
type List struct {
	Repos []Descriptor `json:"repos" yaml:"repos" toml:"repos"`
}

// Format is a source list encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the encoding from the file extension. Unknown
// extensions are treated as JSON, the format of portfolio.config.json.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Load reads a source list file and applies defaultPath to descriptors
// without a path. An empty defaultPath means DefaultPath.
func Load(path, defaultPath string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read source list %s", path)
	}

	descriptors, err := Parse(data, FormatForPath(path), defaultPath)
	if err != nil {
		return nil, errors.Wrapf(err, "source list %s", path)
	}
	return descriptors, nil
}

// Parse decodes a source list, fills in default paths and validates every entry.
func Parse(data []byte, format Format, defaultPath string) ([]Descriptor, error) {
	var list List

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "failed to parse YAML"), errors.ErrInvalidConfig)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &list); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "failed to parse TOML"), errors.ErrInvalidConfig)
		}
	default:
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "failed to parse JSON"), errors.ErrInvalidConfig)
		}
	}

	if defaultPath == "" {
		defaultPath = DefaultPath
	}

	out := make([]Descriptor, 0, len(list.Repos))
	for i, d := range list.Repos {
		d.Owner = strings.TrimSpace(d.Owner)
		d.Repo = strings.TrimSpace(d.Repo)
		d.Path = strings.Trim(strings.TrimSpace(d.Path), "/")
		if d.Path == "" {
			d.Path = defaultPath
		}
		if err := d.Validate(); err != nil {
			return nil, errors.Wrapf(err, "repos[%d]", i)
		}
		out = append(out, d)
	}
	return out, nil
}

// Validate checks that owner and repo are present and free of separators.
func (d Descriptor) Validate() error {
	if d.Owner == "" {
		return errors.Mark(errors.New("owner is required"), errors.ErrInvalidConfig)
	}
	if d.Repo == "" {
		return errors.Mark(errors.New("repo is required"), errors.ErrInvalidConfig)
	}
	if strings.Contains(d.Owner, "/") || strings.Contains(d.Repo, "/") {
		return errors.Mark(errors.Newf("owner and repo must not contain '/': %q", d.Label()), errors.ErrInvalidConfig)
	}
	return nil
}
