// Package schema validates project metadata against the portfolio JSON Schema.
//
// The draft-07 schema ships embedded in the binary; a file can replace it
// through collect.schema. Validation runs in all-errors mode, so one call
// reports every violation in a document.
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/teranos/folio/errors"
)

//go:embed portfolio-project.schema.json
var embedded []byte

// EmbeddedName identifies the built-in schema in diagnostics.
const EmbeddedName = "embedded:portfolio-project.schema.json"

// Schema is a compiled project schema.
type Schema struct {
	name     string
	compiled *gojsonschema.Schema
}

// Violation is one schema failure.
type Violation struct {
	// Path is a JSON pointer to the failing value, "/" for the document root
	Path string `json:"path"`
	// Keyword names the failed rule: required, enum, pattern, format, ...
	Keyword string `json:"keyword"`
	// Property is the missing or unexpected property for required and
	// additional-property failures
	Property string `json:"property,omitempty"`
	Message  string `json:"message"`
}

func (v Violation) String() string {
	return v.Path + " " + v.Message
}

// Embedded returns the raw built-in schema document.
func Embedded() []byte {
	out := make([]byte, len(embedded))
	copy(out, embedded)
	return out
}

// Default compiles the built-in schema.
func Default() (*Schema, error) {
	return New(embedded, EmbeddedName)
}

// Load compiles the schema at path, or the built-in one when path is empty.
func Load(path string) (*Schema, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read schema %s", path)
	}
	return New(data, path)
}

// New compiles a schema document. name is only used in messages.
func New(data []byte, name string) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to compile schema %s", name), errors.ErrInvalidConfig)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// Name returns the file path or EmbeddedName.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks metadata and returns every violation, sorted by path.
// A nil slice means the metadata is valid. The error is reserved for
// documents that cannot be validated at all.
func (s *Schema) Validate(metadata map[string]interface{}) ([]Violation, error) {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(metadata))
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate metadata")
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		v := Violation{
			Path:    pointer(re.Context().String()),
			Keyword: re.Type(),
			Message: re.Description(),
		}
		if p, ok := re.Details()["property"]; ok {
			v.Property = fmt.Sprint(p)
		}
		violations = append(violations, v)
	}

	sort.SliceStable(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Keyword != b.Keyword {
			return a.Keyword < b.Keyword
		}
		return a.Property < b.Property
	})
	return violations, nil
}

// ValidateRecord validates an emitted artifact record. The markdown body is
// added after validation, so it is not part of the schema and is ignored.
func (s *Schema) ValidateRecord(record map[string]interface{}) ([]Violation, error) {
	metadata := make(map[string]interface{}, len(record))
	for k, v := range record {
		if k == "markdown" {
			continue
		}
		metadata[k] = v
	}
	return s.Validate(metadata)
}

// pointer turns a dotted context path ("(root).links.repo", "(root)") into a JSON
// pointer ("/links/repo", "/").
func pointer(field string) string {
	field = strings.TrimPrefix(field, "(root)")
	field = strings.TrimPrefix(field, ".")
	if field == "" {
		return "/"
	}
	return "/" + strings.ReplaceAll(field, ".", "/")
}
