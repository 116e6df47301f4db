package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/folio/display"
	"github.com/teranos/folio/errors"
	"github.com/teranos/folio/project"
	"github.com/teranos/folio/schema"
)

// ValidateCmd checks an artifact against the project schema
var ValidateCmd = &cobra.Command{
	Use:   "validate [artifact]",
	Short: "Validate an artifact's records against the project schema",
	Long: `Validate every record of a projects artifact against the project schema
and check that ids are unique. The markdown field is not part of the schema.

Defaults to the sample fixture (collect.fixture), which must always stay valid.

Examples:
  folio validate                              # check the fixture
  folio validate src/_portfolio/projects.json # check the last collected artifact`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	ValidateCmd.Flags().BoolP("json", "j", false, "Output the report as JSON")
}

// RecordReport lists the violations of one record.
type RecordReport struct {
	Index      int                `json:"index"`
	ID         string             `json:"id,omitempty"`
	Violations []schema.Violation `json:"violations"`
}

// ValidationReport is the result of validating an artifact.
type ValidationReport struct {
	Artifact   string         `json:"artifact"`
	Schema     string         `json:"schema"`
	Records    int            `json:"records"`
	Invalid    []RecordReport `json:"invalid"`
	Duplicates []string       `json:"duplicate_ids"`
}

// OK reports whether the artifact passed.
func (r *ValidationReport) OK() bool {
	return len(r.Invalid) == 0 && len(r.Duplicates) == 0
}

// ValidateArtifact validates every record at path against sch.
func ValidateArtifact(path string, sch *schema.Schema) (*ValidationReport, error) {
	records, err := project.ReadRecords(path)
	if err != nil {
		return nil, err
	}

	report := &ValidationReport{
		Artifact:   path,
		Schema:     sch.Name(),
		Records:    len(records),
		Invalid:    []RecordReport{},
		Duplicates: []string{},
	}

	ids := make([]project.Project, 0, len(records))
	for i, record := range records {
		violations, err := sch.ValidateRecord(record)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		id, _ := record["id"].(string)
		if len(violations) > 0 {
			report.Invalid = append(report.Invalid, RecordReport{Index: i, ID: id, Violations: violations})
		}
		if id != "" {
			ids = append(ids, project.Project{ID: id})
		}
	}
	if dups := project.DuplicateIDs(ids); len(dups) > 0 {
		report.Duplicates = dups
	}

	return report, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.FixturePath()
	if len(args) == 1 {
		path = args[0]
	}

	sch, err := schema.Load(cfg.SchemaPath())
	if err != nil {
		return err
	}

	report, err := ValidateArtifact(path, sch)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		if err := display.OutputJSON(out, report); err != nil {
			return err
		}
	} else {
		for _, rec := range report.Invalid {
			label := rec.ID
			if label == "" {
				label = "(no id)"
			}
			fmt.Fprintln(out, pterm.Error.Sprintf("record %d %s: %d violation(s)", rec.Index, label, len(rec.Violations)))
			display.PrintViolations(out, rec.Violations)
		}
		for _, id := range report.Duplicates {
			fmt.Fprintln(out, pterm.Error.Sprintf("duplicate id %q", id))
		}
		if report.OK() {
			fmt.Fprintln(out, pterm.Success.Sprintf("%d records valid in %s", report.Records, path))
		}
	}

	if !report.OK() {
		return errors.Mark(
			errors.Newf("%s: %d of %d records invalid, %d duplicate id(s)",
				path, len(report.Invalid), report.Records, len(report.Duplicates)),
			errors.ErrSchemaViolation)
	}
	return nil
}
