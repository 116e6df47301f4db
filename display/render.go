package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/folio/ixgest/portfolio"
	"github.com/teranos/folio/project"
	"github.com/teranos/folio/schema"
)

var (
	okPrinter = pterm.PrefixPrinter{
		Prefix:       pterm.Prefix{Text: "  OK", Style: pterm.NewStyle(pterm.BgGreen, pterm.FgBlack)},
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
	}
	skipPrinter = pterm.PrefixPrinter{
		Prefix:       pterm.Prefix{Text: "SKIP", Style: pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)},
		MessageStyle: pterm.NewStyle(pterm.FgYellow),
	}
	failPrinter = pterm.PrefixPrinter{
		Prefix:       pterm.Prefix{Text: "FAIL", Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack)},
		MessageStyle: pterm.NewStyle(pterm.FgRed),
	}
)

// PrintOutcome writes one line per source, plus one line per violation
// when the source failed validation.
func PrintOutcome(w io.Writer, o portfolio.Outcome) {
	switch o.Kind {
	case portfolio.OutcomeSuccess:
		fmt.Fprintln(w, okPrinter.Sprint(fmt.Sprintf("%s  %s", o.Source, o.ProjectID)))
	case portfolio.OutcomeSkipped:
		fmt.Fprintln(w, skipPrinter.Sprint(fmt.Sprintf("%s  %s", o.Source, o.Reason)))
	case portfolio.OutcomeFatal:
		fmt.Fprintln(w, failPrinter.Sprint(fmt.Sprintf("%s  %d schema violation(s)", o.Source, len(o.Violations))))
		PrintViolations(w, o.Violations)
	}
}

// PrintViolations lists violations indented under their source.
func PrintViolations(w io.Writer, violations []schema.Violation) {
	for _, v := range violations {
		fmt.Fprintf(w, "        %s\n", v.String())
	}
}

// PrintResult writes the closing summary of a collect run.
func PrintResult(w io.Writer, r *portfolio.Result) {
	if r == nil {
		return
	}
	switch {
	case r.Success:
		fmt.Fprintln(w, pterm.Success.Sprint(r.Message))
	case r.Written:
		fmt.Fprintln(w, pterm.Warning.Sprint(r.Message))
	default:
		fmt.Fprintln(w, pterm.Error.Sprint(r.Message))
	}
	if r.Written {
		fmt.Fprintf(w, "  %s (%d records)\n", r.Output, r.Records)
	}
}

// PrintProjects renders projects as a table.
func PrintProjects(w io.Writer, projects []project.Project, total int) error {
	data := pterm.TableData{{"ID", "Title", "Status", "Start", "Tags", ""}}
	for _, p := range projects {
		featured := ""
		if p.IsFeatured() {
			featured = "★"
		}
		data = append(data, []string{
			p.ID,
			p.Title,
			p.Status,
			p.Start(),
			strings.Join(p.Tags, ", "),
			featured,
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)
	fmt.Fprintln(w, project.CountLabel(len(projects), total))
	return nil
}

// PrintProject renders a single project's details.
func PrintProject(w io.Writer, p project.Project) {
	fmt.Fprintln(w, pterm.DefaultSection.Sprint(p.Title))
	fmt.Fprintf(w, "%s\n\n", p.Tagline)

	rows := [][2]string{
		{"id", p.ID},
		{"status", p.Status},
		{"visibility", p.Visibility},
		{"role", p.Role},
		{"start", p.Start()},
		{"tags", strings.Join(p.Tags, ", ")},
		{"stack", strings.Join(p.Stack, ", ")},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		fmt.Fprintf(w, "  %-11s %s\n", row[0], row[1])
	}
	for _, link := range p.PresentLinks() {
		fmt.Fprintf(w, "  %-11s %s\n", link.Kind, link.URL)
	}
}
