// Package frontmatter splits a markdown document into its metadata block
// and body.
//
// YAML front-matter is fenced by "---" lines (the closing fence may also be
// "..."), TOML front-matter by "+++" lines:
//
//	---
//	id: my-project
//	tags: [go, cli]
//	---
//	# My Project
//
// A document without an opening fence has no metadata and is all body.
package frontmatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/folio/errors"
)

const bom = "\ufeff"

// Format identifies the front-matter encoding found in a document.
type Format string

const (
	FormatNone Format = ""
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Document is a parsed markdown document.
type Document struct {
	// Metadata holds JSON-compatible values only; never nil
	Metadata map[string]interface{}
	Body     string
	Format   Format
}

// Split is Parse for callers that only want the two halves.
func Split(content string) (map[string]interface{}, string, error) {
	doc, err := Parse(content)
	if err != nil {
		return nil, "", err
	}
	return doc.Metadata, doc.Body, nil
}

// Parse extracts the front-matter and body of content.
//
// The body is everything after the closing fence line, untouched.
func Parse(content string) (*Document, error) {
	content = strings.TrimPrefix(content, bom)

	first, rest, hasMore := strings.Cut(content, "\n")
	var format Format
	switch strings.TrimRight(first, " \t\r") {
	case "---":
		format = FormatYAML
	case "+++":
		format = FormatTOML
	default:
		return &Document{Metadata: map[string]interface{}{}, Body: content}, nil
	}
	if !hasMore {
		return nil, errors.Newf("unterminated %s front-matter", format)
	}

	offset := 0
	for {
		line, next, ok := strings.Cut(rest[offset:], "\n")
		if isClosingFence(format, strings.TrimRight(line, " \t\r")) {
			meta, err := decode(format, rest[:offset])
			if err != nil {
				return nil, err
			}
			body := ""
			if ok {
				body = next
			}
			return &Document{Metadata: meta, Body: body, Format: format}, nil
		}
		if !ok {
			return nil, errors.Newf("unterminated %s front-matter", format)
		}
		offset += len(line) + 1
	}
}

func isClosingFence(format Format, line string) bool {
	if format == FormatTOML {
		return line == "+++"
	}
	return line == "---" || line == "..."
}

func decode(format Format, block string) (map[string]interface{}, error) {
	if strings.TrimSpace(block) == "" {
		return map[string]interface{}{}, nil
	}

	if format == FormatTOML {
		var meta map[string]interface{}
		if err := toml.Unmarshal([]byte(block), &meta); err != nil {
			return nil, errors.Wrap(err, "failed to parse TOML front-matter")
		}
		return normalizeMap(meta), nil
	}

	var root interface{}
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML front-matter")
	}
	switch m := root.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case map[string]interface{}:
		return normalizeMap(m), nil
	case map[interface{}]interface{}:
		return normalize(m).(map[string]interface{}), nil
	default:
		return nil, errors.Newf("front-matter must be a mapping, got %T", root)
	}
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

// normalize converts decoder output into values encoding/json round-trips:
// string-keyed maps, []interface{}, and dates as strings.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return normalizeMap(t)
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case time.Time:
		return t.Format(time.RFC3339)
	case toml.LocalDate:
		return t.String()
	case toml.LocalDateTime:
		return t.String()
	case toml.LocalTime:
		return t.String()
	default:
		return v
	}
}
