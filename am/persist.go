package am

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/teranos/folio/errors"
	"github.com/teranos/folio/logger"
)

// backupCount is how many rotated copies (.back1 .. .back3) are kept
const backupCount = 3

// Set writes key = value into the TOML file at configPath, creating it if
// needed. The value is converted to the type of key's default; unknown keys
// are rejected. The previous file is kept as a rotating backup.
func Set(configPath, key, value string) (interface{}, error) {
	typed, err := coerce(key, value)
	if err != nil {
		return nil, err
	}

	config, err := readTOMLMap(configPath)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(key, ".")
	section := config
	for _, part := range parts[:len(parts)-1] {
		next, ok := section[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			section[part] = next
		}
		section = next
	}
	section[parts[len(parts)-1]] = typed

	if err := saveTOMLMap(configPath, config); err != nil {
		return nil, err
	}
	return typed, nil
}

// Keys lists every known configuration key, sorted.
func Keys() []string {
	v := viper.New()
	SetDefaults(v)
	return v.AllKeys()
}

// coerce converts value to the type of key's default.
func coerce(key, value string) (interface{}, error) {
	v := viper.New()
	SetDefaults(v)
	key = strings.ToLower(key)
	if !v.IsSet(key) {
		return nil, errors.WithHintf(
			errors.Mark(errors.Newf("unknown config key %q", key), errors.ErrInvalidConfig),
			"known keys: %s", strings.Join(Keys(), ", "))
	}

	switch v.Get(key).(type) {
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, errors.Mark(errors.Newf("%s expects true or false, got %q", key, value), errors.ErrInvalidConfig)
		}
		return b, nil
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.Mark(errors.Newf("%s expects an integer, got %q", key, value), errors.ErrInvalidConfig)
		}
		return int64(n), nil
	default:
		return value, nil
	}
}

func readTOMLMap(configPath string) (map[string]interface{}, error) {
	config := make(map[string]interface{})
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", configPath)
	}
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to parse %s", configPath), errors.ErrInvalidConfig)
	}
	return config, nil
}

// saveTOMLMap writes the config with backup
func saveTOMLMap(configPath string, config map[string]interface{}) error {
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", configPath)
	}
	return nil
}

// createBackup rotates .back1 .. .back3 and copies the current file to .back1
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	oldest := backupPath(configPath, backupCount)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		// Don't fail the save over a stale backup
		logger.Warnw("Failed to delete old backup", logger.FieldFile, oldest, logger.FieldError, err)
	}

	for i := backupCount - 1; i >= 1; i-- {
		from := backupPath(configPath, i)
		if _, err := os.Stat(from); err == nil {
			if err := os.Rename(from, backupPath(configPath, i+1)); err != nil {
				return errors.Wrapf(err, "failed to rotate %s", filepath.Base(from))
			}
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(backupPath(configPath, 1), content, 0644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

func backupPath(configPath string, n int) string {
	return configPath + ".back" + strconv.Itoa(n)
}
