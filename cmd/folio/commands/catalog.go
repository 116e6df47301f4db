package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/folio/display"
	"github.com/teranos/folio/errors"
	"github.com/teranos/folio/project"
)

// ListCmd lists the collected projects
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects in the artifact",
	Long: `List the projects of the collected artifact in catalog order: featured
first, then newest start date, then title.

Repeated --tag flags narrow the list to projects carrying every tag.

Examples:
  folio list
  folio list --tag go --tag cli
  folio list --from src/_portfolio/projects.sample.json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// TagsCmd lists the tags used across the artifact
var TagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag in the artifact",
	Args:  cobra.NoArgs,
	RunE:  runTags,
}

// ShowCmd prints one project
var ShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one project from the artifact",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	for _, cmd := range []*cobra.Command{ListCmd, TagsCmd, ShowCmd} {
		cmd.Flags().String("from", "", "Artifact to read (default: collect.output)")
		cmd.Flags().BoolP("json", "j", false, "Output as JSON")
	}
	ListCmd.Flags().StringSliceP("tag", "t", nil, "Only projects with this tag (repeatable)")
}

// readCatalog loads the artifact named by --from, or collect.output.
func readCatalog(cmd *cobra.Command) ([]project.Project, error) {
	path, _ := cmd.Flags().GetString("from")
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.OutputPath()
	}

	projects, err := project.ReadFile(path)
	if err != nil {
		return nil, errors.WithHint(err, "run 'folio collect' first, or pass --from")
	}
	return projects, nil
}

func runList(cmd *cobra.Command, args []string) error {
	projects, err := readCatalog(cmd)
	if err != nil {
		return err
	}
	tags, _ := cmd.Flags().GetStringSlice("tag")

	shown := project.Sort(project.Filter(projects, tags))

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), shown)
	}
	return display.PrintProjects(cmd.OutOrStdout(), shown, len(projects))
}

func runTags(cmd *cobra.Command, args []string) error {
	projects, err := readCatalog(cmd)
	if err != nil {
		return err
	}

	tags := project.Tags(projects)
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), tags)
	}
	for _, tag := range tags {
		fmt.Fprintln(cmd.OutOrStdout(), tag)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	projects, err := readCatalog(cmd)
	if err != nil {
		return err
	}

	p, ok := project.Find(projects, args[0])
	if !ok {
		return errors.Newf("no project with id %q", args[0])
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), p)
	}
	display.PrintProject(cmd.OutOrStdout(), p)
	return nil
}
