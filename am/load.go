package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/folio/errors"
)

var (
	globalConfig *Config
	configFile   string
)

// ConfigFile is one config layer on disk.
type ConfigFile struct {
	Path   string       `json:"path"`
	Source ConfigSource `json:"source"`
}

// Loader resolves the configuration layers for one working directory.
type Loader struct {
	WorkDir string
	HomeDir string

	// ConfigFile replaces the upward folio.toml search (--config)
	ConfigFile string
}

// DefaultLoader loads relative to the process working directory and home.
func DefaultLoader() Loader {
	wd, _ := os.Getwd()
	home, _ := os.UserHomeDir()
	return Loader{WorkDir: wd, HomeDir: home, ConfigFile: configFile}
}

// SetConfigFile makes Load read path instead of searching for folio.toml.
// It clears the cached configuration.
func SetConfigFile(path string) {
	configFile = path
	Reset()
}

// Load reads the folio configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, err := DefaultLoader().Load()
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return globalConfig, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
}

// Load reads every layer and unmarshals the merged result.
func (l Loader) Load() (*Config, error) {
	v, files, err := l.Viper()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	cfg.ProjectDir = l.WorkDir
	for _, f := range files {
		if f.Source == SourceProject {
			cfg.ProjectFile = f.Path
			cfg.ProjectDir = filepath.Dir(f.Path)
		}
	}
	return cfg, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// Viper builds a Viper instance with defaults, the config files and
// environment overrides. It also returns the files that were merged.
func (l Loader) Viper() (*viper.Viper, []ConfigFile, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	files := l.Files()
	for _, f := range files {
		settings, err := readConfigFile(f.Path)
		if err != nil {
			return nil, nil, err
		}
		// MergeConfigMap fills the config layer, so env vars still win
		if err := v.MergeConfigMap(settings); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to merge config file %s", f.Path)
		}
	}

	return v, files, nil
}

// Files lists the config layers that exist, lowest precedence first.
// An explicit ConfigFile is listed even when missing so loading reports it.
func (l Loader) Files() []ConfigFile {
	var files []ConfigFile

	if l.HomeDir != "" {
		userPath := filepath.Join(l.HomeDir, UserConfigDir, ProjectConfigName)
		if fileExists(userPath) {
			files = append(files, ConfigFile{Path: userPath, Source: SourceUser})
		}
	}

	if l.ConfigFile != "" {
		files = append(files, ConfigFile{Path: l.ConfigFile, Source: SourceProject})
	} else if projectPath := l.findProjectConfig(); projectPath != "" {
		files = append(files, ConfigFile{Path: projectPath, Source: SourceProject})
	}

	return files
}

// findProjectConfig searches for folio.toml by walking up the directory tree.
// Returns the first one found, or empty string if none.
func (l Loader) findProjectConfig() string {
	if l.WorkDir == "" {
		return ""
	}

	dir := l.WorkDir
	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if fileExists(candidate) {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

func readConfigFile(path string) (map[string]interface{}, error) {
	temp := viper.New()
	temp.SetConfigFile(path)
	temp.SetConfigType("toml")

	if err := temp.ReadInConfig(); err != nil {
		return nil, errors.Mark(
			errors.Wrapf(err, "failed to read config file %s", path),
			errors.ErrInvalidConfig)
	}
	return temp.AllSettings(), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
