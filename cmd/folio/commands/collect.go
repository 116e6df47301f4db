package commands

import (
	"context"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/folio/am"
	"github.com/teranos/folio/display"
	"github.com/teranos/folio/errors"
	"github.com/teranos/folio/github"
	"github.com/teranos/folio/internal/httpclient"
	"github.com/teranos/folio/ixgest/portfolio"
	"github.com/teranos/folio/logger"
	"github.com/teranos/folio/schema"
	"github.com/teranos/folio/source"
)

// CollectCmd runs the ingestion pipeline
var CollectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch project presentations and write the projects artifact",
	Long: `Fetch each repository's presentation document from GitHub, validate its
front-matter against the project schema and write the projects artifact.

Mode is chosen before any request is made:
  --mock                       copy the sample fixture, no network
  credential variable unset    same as --mock
  credential variable empty    error
  credential variable set      fetch from GitHub

The credential variable is github.token_env (default GITHUB_TOKEN).

A repository whose document cannot be fetched is skipped. A document whose
front-matter violates the schema stops the run and nothing is written. If
every repository is skipped an empty artifact is written and the command
exits non-zero.

Examples:
  folio collect                 # live when GITHUB_TOKEN is set, mock otherwise
  folio collect --mock          # always use the sample fixture
  folio collect --watch         # re-run when the source list or config changes
  folio collect --json          # print the run result as JSON`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

func init() {
	CollectCmd.Flags().Bool("mock", false, "Copy the sample fixture instead of fetching")
	CollectCmd.Flags().BoolP("watch", "w", false, "Re-run when the source list, schema or config file changes")
	CollectCmd.Flags().BoolP("json", "j", false, "Print the run result as JSON")
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	forceMock, _ := cmd.Flags().GetBool("mock")
	watch, _ := cmd.Flags().GetBool("watch")

	if watch {
		return watchCollect(ctx, cmd, forceMock)
	}
	_, err := collectOnce(ctx, cmd, forceMock)
	return err
}

// collectOnce resolves the mode, builds the collaborators and runs the pipeline.
func collectOnce(ctx context.Context, cmd *cobra.Command, forceMock bool) (*portfolio.Result, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	token, tokenSet := portfolio.LookupCredential(cfg.GitHub.TokenEnv)
	mode, err := portfolio.ResolveMode(forceMock, token, tokenSet)
	if err != nil {
		if errors.Is(err, errors.ErrEmptyCredential) {
			return nil, errors.WithHintf(
				errors.Wrapf(err, "%s", cfg.GitHub.TokenEnv),
				"unset %s to use mock data, or set it to a token that can read the repositories", cfg.GitHub.TokenEnv)
		}
		return nil, err
	}
	if mode == portfolio.ModeMock && !forceMock {
		logger.Infow("Credential not set, using mock data", "env", cfg.GitHub.TokenEnv)
	}

	jsonOut := display.ShouldOutputJSON(cmd)
	out := cmd.OutOrStdout()

	opts := portfolio.RunOptions{
		Mode:    mode,
		Fixture: cfg.FixturePath(),
		Output:  cfg.OutputPath(),
		Logger:  logger.ComponentLogger("collect"),
	}
	if !jsonOut {
		opts.OnOutcome = func(o portfolio.Outcome) { display.PrintOutcome(out, o) }
	}

	if mode == portfolio.ModeLive {
		sources, err := source.Load(cfg.SourcesPath(), cfg.Collect.DefaultPath)
		if err != nil {
			return nil, err
		}
		validator, err := schema.Load(cfg.SchemaPath())
		if err != nil {
			return nil, err
		}
		opts.Sources = sources
		opts.Fetcher = newGitHubClient(cfg, token)
		opts.Validator = validator
	}

	logger.Debugw("Resolved collection",
		logger.FieldMode, mode.String(),
		logger.FieldFile, opts.Output,
		"sources_file", cfg.SourcesPath(),
		"schema", schemaLabel(cfg))

	result, runErr := portfolio.Run(ctx, opts)
	if jsonOut {
		if err := display.OutputJSON(out, result); err != nil {
			return result, err
		}
	} else {
		display.PrintResult(out, result)
	}
	return result, runErr
}

func newGitHubClient(cfg *am.Config, token string) *github.Client {
	transport := httpclient.New(httpclient.Options{
		Timeout:           cfg.Timeout(),
		AllowPrivateHosts: cfg.GitHub.AllowPrivateHosts,
	})
	return github.New(token,
		github.WithBaseURL(cfg.GitHub.APIURL),
		github.WithHTTPClient(transport),
		github.WithRateLimit(cfg.GitHub.RequestsPerMinute),
		github.WithLogger(logger.ComponentLogger("github")))
}

func schemaLabel(cfg *am.Config) string {
	if path := cfg.SchemaPath(); path != "" {
		return path
	}
	return schema.EmbeddedName
}

// watchPaths lists the inputs of a run under the current configuration. The
// fixture is included whenever the run would use mock data.
func watchPaths(forceMock bool) ([]string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	paths := []string{cfg.SourcesPath(), cfg.SchemaPath(), cfg.ProjectFile}
	_, tokenSet := portfolio.LookupCredential(cfg.GitHub.TokenEnv)
	if forceMock || !tokenSet {
		paths = append(paths, cfg.FixturePath())
	}
	return paths, nil
}

// watchCollect runs once, then again after every settled change to the
// inputs. A failed run is reported and the watch continues. When a change
// alters the set of inputs the watcher is rebuilt.
func watchCollect(ctx context.Context, cmd *cobra.Command, forceMock bool) error {
	paths, err := watchPaths(forceMock)
	if err != nil {
		return err
	}

	run := func() {
		if _, err := collectOnce(ctx, cmd, forceMock); err != nil {
			PrintError(cmd.ErrOrStderr(), err)
		}
	}
	run()

	for {
		watcher, err := am.NewFileWatcher(paths, am.DefaultDebounce)
		if err != nil {
			return err
		}
		pterm.Info.Printfln("Watching %d files, Ctrl-C to stop", len(watcher.Files()))

		watchCtx, rewatch := context.WithCancel(ctx)
		err = watcher.Run(watchCtx, func(changed []string) {
			logger.Infow("Inputs changed, collecting again",
				logger.FieldCount, len(changed),
				logger.FieldFile, changed[0])
			// Pick up edits to folio.toml
			am.Reset()
			run()

			next, err := watchPaths(forceMock)
			if err != nil || slices.Equal(next, paths) {
				return
			}
			paths = next
			rewatch()
		})
		rewatch()
		if err != nil || ctx.Err() != nil {
			return err
		}
		logger.Infow("Watched inputs changed, rebuilding watcher", logger.FieldCount, len(paths))
	}
}
