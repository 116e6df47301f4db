package project

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/teranos/folio/errors"
)

// ReadFile loads an artifact.
func ReadFile(path string) ([]Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read artifact %s", path)
	}

	var projects []Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, errors.Wrapf(err, "artifact %s is not a project array", path)
	}
	return projects, nil
}

// ReadRecords loads an artifact without decoding into Project, so unknown
// and null fields survive for schema validation.
func ReadRecords(path string) ([]map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read artifact %s", path)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(err, "artifact %s is not an array of objects", path)
	}
	return records, nil
}

// CountFile returns the number of records in an artifact.
func CountFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read artifact %s", path)
	}
	return Count(data)
}

// Count returns the length of a JSON array document.
func Count(data []byte) (int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, errors.Wrap(err, "artifact is not a JSON array")
	}
	return len(items), nil
}

// Encode renders projects the way the artifact stores them: a JSON array
// indented by two spaces. A nil slice encodes as [].
func Encode(projects []Project) ([]byte, error) {
	if projects == nil {
		projects = []Project{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(projects); err != nil {
		return nil, errors.Wrap(err, "failed to encode projects")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteFile replaces the artifact at path with projects.
func WriteFile(path string, projects []Project) error {
	data, err := Encode(projects)
	if err != nil {
		return err
	}
	return WriteRaw(path, data)
}

// WriteRaw atomically replaces path with data, creating parent directories.
// Readers never observe a partially written artifact.
func WriteRaw(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp file in %s", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", tmpName)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to chmod %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "failed to replace %s", path)
	}
	return nil
}
