package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/folio/am"
	"github.com/teranos/folio/cmd/folio/commands"
	"github.com/teranos/folio/errors"
	"github.com/teranos/folio/logger"
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio - portfolio ingestion for a static site",
	Long: `folio - portfolio ingestion for a static site.

folio collects each project's presentation document from its GitHub
repository, validates the front-matter against the project schema and writes
the JSON artifact the site is built from.

Available commands:
  collect  - Fetch presentations and write the projects artifact
  validate - Validate an artifact against the project schema
  list     - List projects in the artifact
  tags     - List tags in the artifact
  show     - Show one project
  am       - Manage folio configuration ("I am")
  version  - Show version information

Examples:
  folio collect            # live with GITHUB_TOKEN, sample data without
  folio collect --mock     # always use sample data
  folio validate           # check the sample fixture
  folio list --tag go      # projects tagged go
  folio am show            # show current configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		am.SetConfigFile(configPath)

		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if !cmd.Flags().Changed("log-json") {
			// Config errors surface from the command itself
			if cfg, err := am.Load(); err == nil {
				jsonLogs = cfg.Log.JSON
			}
		}

		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write log lines as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file to use instead of searching for folio.toml")

	// Add commands
	rootCmd.AddCommand(commands.CollectCmd)
	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.ListCmd)
	rootCmd.AddCommand(commands.TagsCmd)
	rootCmd.AddCommand(commands.ShowCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
