package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/folio/errors"
)

const sampleFixture = "../src/_portfolio/projects.sample.json"

func validProject(overrides map[string]interface{}) map[string]interface{} {
	p := map[string]interface{}{
		"id":         "test-project",
		"title":      "Test Project",
		"tagline":    "A test project",
		"status":     "live",
		"visibility": "public",
		"tags":       []interface{}{"test"},
		"stack":      []interface{}{"TypeScript"},
	}
	for k, v := range overrides {
		p[k] = v
	}
	return p
}

func mustDefault(t *testing.T) *Schema {
	t.Helper()
	s, err := Default()
	require.NoError(t, err)
	return s
}

func TestValidate_MinimalProject(t *testing.T) {
	violations, err := mustDefault(t).Validate(validProject(nil))
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestValidate_SampleFixture(t *testing.T) {
	data, err := os.ReadFile(sampleFixture)
	require.NoError(t, err)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &records))
	require.NotEmpty(t, records)

	s := mustDefault(t)
	for _, record := range records {
		violations, err := s.ValidateRecord(record)
		require.NoError(t, err)
		assert.Empty(t, violations, "sample project %q failed validation", record["id"])
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	s := mustDefault(t)

	for _, field := range []string{"id", "title", "tagline", "status", "visibility", "tags", "stack"} {
		t.Run(field, func(t *testing.T) {
			p := validProject(nil)
			delete(p, field)

			violations, err := s.Validate(p)
			require.NoError(t, err)
			require.NotEmpty(t, violations)

			found := false
			for _, v := range violations {
				if v.Keyword == "required" && v.Property == field {
					found = true
					assert.Equal(t, "/", v.Path)
				}
			}
			assert.True(t, found, "expected required violation for %q, got %v", field, violations)
		})
	}
}

func TestValidate_Enums(t *testing.T) {
	s := mustDefault(t)

	tests := []struct {
		field string
		value string
	}{
		{"status", "deleted"},
		{"visibility", "unlisted"},
		{"role", "freelance"},
		{"origin", "academic"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			violations, err := s.Validate(validProject(map[string]interface{}{tt.field: tt.value}))
			require.NoError(t, err)
			require.Len(t, violations, 1)
			assert.Equal(t, "/"+tt.field, violations[0].Path)
			assert.Equal(t, "enum", violations[0].Keyword)
		})
	}
}

func TestValidate_IDFormat(t *testing.T) {
	s := mustDefault(t)

	tests := []struct {
		id    string
		valid bool
	}{
		{"My-Project", false},
		{"my project", false},
		{"my-project-", false},
		{"-my-project", false},
		{"my--project", false},
		{"my-cool-project", true},
		{"v2", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			violations, err := s.Validate(validProject(map[string]interface{}{"id": tt.id}))
			require.NoError(t, err)
			if tt.valid {
				assert.Empty(t, violations)
				return
			}
			require.Len(t, violations, 1)
			assert.Equal(t, "/id", violations[0].Path)
			assert.Equal(t, "pattern", violations[0].Keyword)
		})
	}
}

func TestValidate_Links(t *testing.T) {
	s := mustDefault(t)

	t.Run("malformed URI", func(t *testing.T) {
		violations, err := s.Validate(validProject(map[string]interface{}{
			"links": map[string]interface{}{"repo": "not-a-url"},
		}))
		require.NoError(t, err)
		require.Len(t, violations, 1)
		assert.Equal(t, "/links/repo", violations[0].Path)
		assert.Equal(t, "format", violations[0].Keyword)
	})

	t.Run("valid URI", func(t *testing.T) {
		violations, err := s.Validate(validProject(map[string]interface{}{
			"links": map[string]interface{}{"repo": "https://github.com/user/repo"},
		}))
		require.NoError(t, err)
		assert.Empty(t, violations)
	})

	t.Run("null link", func(t *testing.T) {
		violations, err := s.Validate(validProject(map[string]interface{}{
			"links": map[string]interface{}{"repo": nil},
		}))
		require.NoError(t, err)
		assert.Empty(t, violations)
	})
}

func TestValidate_AdditionalProperties(t *testing.T) {
	violations, err := mustDefault(t).Validate(validProject(map[string]interface{}{"unknownField": "value"}))
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "unknownField", violations[0].Property)
}

func TestValidate_MarkdownIsNotMetadata(t *testing.T) {
	s := mustDefault(t)
	record := validProject(map[string]interface{}{"markdown": "# body"})

	violations, err := s.Validate(record)
	require.NoError(t, err)
	assert.NotEmpty(t, violations, "markdown is not a front-matter field")

	violations, err = s.ValidateRecord(record)
	require.NoError(t, err)
	assert.Empty(t, violations)
	assert.Contains(t, record, "markdown", "ValidateRecord must not modify its input")
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	p := validProject(map[string]interface{}{
		"status":     "deleted",
		"visibility": "unlisted",
		"id":         "Bad ID",
	})
	delete(p, "title")

	violations, err := mustDefault(t).Validate(p)
	require.NoError(t, err)
	assert.Len(t, violations, 4)

	// Sorted by path
	paths := make([]string, len(violations))
	for i, v := range violations {
		paths[i] = v.Path
		assert.NotEmpty(t, v.Message)
	}
	assert.Equal(t, []string{"/", "/id", "/status", "/visibility"}, paths)
}

func TestValidate_EmptyMetadata(t *testing.T) {
	violations, err := mustDefault(t).Validate(nil)
	require.NoError(t, err)
	assert.Len(t, violations, 7)
}

func TestLoad(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, EmbeddedName, s.Name())

	path := filepath.Join(t.TempDir(), "strict.schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"object","required":["id"]}`), 0644))
	s, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Name())

	violations, err := s.Validate(map[string]interface{}{})
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "id", violations[0].Property)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = New([]byte(`{not json`), "broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestPointer(t *testing.T) {
	assert.Equal(t, "/", pointer("(root)"))
	assert.Equal(t, "/id", pointer("id"))
	assert.Equal(t, "/links/repo", pointer("links.repo"))
	assert.Equal(t, "/tags/0", pointer("(root).tags.0"))
}

func TestEmbeddedIsCopy(t *testing.T) {
	a := Embedded()
	a[0] = 'X'
	assert.NotEqual(t, a[0], Embedded()[0])
}
