package commands

import (
	"fmt"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/folio/am"
	"github.com/teranos/folio/display"
	"github.com/teranos/folio/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage folio configuration",
	Long: `am - Manage folio configuration ("I am")

Display and manage folio configuration settings.

Configuration sources (in order of precedence):
1. Environment variables (FOLIO_* prefix, e.g. FOLIO_COLLECT_OUTPUT)
2. Project config (folio.toml, searched for from the working directory upwards)
3. User config (~/.folio/folio.toml)
4. Default values

Relative paths under [collect] resolve against the project config's directory.

Examples:
  folio am show                       # Show current configuration
  folio am show --format json         # Show configuration in JSON format
  folio am show --sources             # Show where each setting comes from
  folio am get github.token_env       # Get specific config value
  folio am set collect.output public/projects.json
  folio am validate                   # Validate current configuration`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current folio configuration merged from all sources",
	Args:  cobra.NoArgs,
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., collect.output, github.api_url)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in a config file",
	Long: `Write a configuration value to the project folio.toml (or ~/.folio/folio.toml
with --user). The file is created when missing and the previous version is
kept as folio.toml.back1 (up to three backups).`,
	Args: cobra.ExactArgs(2),
	RunE: runAmSet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate that the current folio configuration is valid",
	Args:  cobra.NoArgs,
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Args:  cobra.NoArgs,
	RunE:  runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	amShowCmd.Flags().Bool("sources", false, "Show the source of every setting")
	amSetCmd.Flags().Bool("user", false, "Write to ~/.folio/folio.toml instead of the project config")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amSetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if withSources, _ := cmd.Flags().GetBool("sources"); withSources {
		intro, err := am.DefaultLoader().Introspect()
		if err != nil {
			return err
		}
		if configFormat == "json" {
			return display.OutputJSON(out, intro)
		}
		data := pterm.TableData{{"Key", "Value", "Source", "From"}}
		for _, s := range intro.Settings {
			data = append(data, []string{s.Key, fmt.Sprintf("%v", s.Value), string(s.Source), s.SourcePath})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, table)
		return nil
	}

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	switch configFormat {
	case "json":
		return display.OutputJSON(out, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# folio configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# folio configuration\n%s", string(data))

	default:
		return errors.Newf("unsupported format: %s (supported: toml, json, yaml)", configFormat)
	}

	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v, _, err := am.DefaultLoader().Viper()
	if err != nil {
		return err
	}
	if !v.IsSet(key) {
		return errors.WithHintf(errors.Newf("configuration key %q not found", key), "known keys: %v", am.Keys())
	}

	fmt.Fprintln(cmd.OutOrStdout(), v.Get(key))
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	path, err := setTarget(cmd)
	if err != nil {
		return err
	}

	value, err := am.Set(path, args[0], args[1])
	if err != nil {
		return err
	}
	am.Reset()

	fmt.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprintf("%s = %v (%s)", args[0], value, path))
	return nil
}

// setTarget picks the file am set writes to.
func setTarget(cmd *cobra.Command) (string, error) {
	loader := am.DefaultLoader()

	if user, _ := cmd.Flags().GetBool("user"); user {
		if loader.HomeDir == "" {
			return "", errors.New("could not determine home directory")
		}
		return filepath.Join(loader.HomeDir, am.UserConfigDir, am.ProjectConfigName), nil
	}

	for _, f := range loader.Files() {
		if f.Source == am.SourceProject {
			return f.Path, nil
		}
	}
	return filepath.Join(loader.WorkDir, am.ProjectConfigName), nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), pterm.Success.Sprint("Configuration is valid"))
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	loader := am.DefaultLoader()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintf(out, "  2. [USER]     %s\n", filepath.Join("~", am.UserConfigDir, am.ProjectConfigName))
	fmt.Fprintf(out, "  3. [PROJECT]  ./%s (searches up directories)\n", am.ProjectConfigName)
	fmt.Fprintf(out, "  4. [ENV]      %s_* environment variables\n", am.EnvPrefix)
	fmt.Fprintln(out)

	files := loader.Files()
	if len(files) == 0 {
		fmt.Fprintln(out, "No config files found, using defaults and environment.")
		return nil
	}
	fmt.Fprintln(out, "Active files:")
	for _, f := range files {
		fmt.Fprintf(out, "  [%s] %s\n", f.Source, f.Path)
	}
	return nil
}
