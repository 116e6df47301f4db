package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/teranos/folio/errors"
	"github.com/teranos/folio/project"
	"github.com/teranos/folio/schema"
	"github.com/teranos/folio/source"
)

// Fetcher returns the raw document for a source.
type Fetcher interface {
	Fetch(ctx context.Context, d source.Descriptor) (string, error)
}

// Validator checks front-matter. A non-empty violation list fails the run.
type Validator interface {
	Validate(metadata map[string]interface{}) ([]schema.Violation, error)
}

// OutcomeKind is the result class of one source.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "ok"
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeFatal   OutcomeKind = "failed"
)

// Outcome is what happened to one source.
type Outcome struct {
	Source string      `json:"source"`
	Path   string      `json:"path"`
	Kind   OutcomeKind `json:"status"`

	// Success
	ProjectID string           `json:"project_id,omitempty"`
	Project   *project.Project `json:"-"`

	// Skipped
	Reason     string `json:"reason,omitempty"`
	Class      string `json:"class,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Err        error  `json:"-"`

	// Fatal
	Violations []schema.Violation `json:"violations,omitempty"`
}

// Summary counts a live run.
type Summary struct {
	Total     int `json:"total"`
	Validated int `json:"validated"`
	Skipped   int `json:"skipped"`
}

func (s Summary) String() string {
	return fmt.Sprintf("Fetched %d presentations (%d valid, %d skipped)", s.Total, s.Validated, s.Skipped)
}

// Result describes a finished run, successful or not.
type Result struct {
	RunID     string            `json:"run_id"`
	Mode      string            `json:"mode"`
	Output    string            `json:"output"`
	Written   bool              `json:"written"`
	Records   int               `json:"records"`
	Summary   Summary           `json:"summary"`
	Items     []Outcome         `json:"items,omitempty"`
	Projects  []project.Project `json:"-"`
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
}

// ValidationError aborts a run when a source's front-matter violates the schema.
type ValidationError struct {
	Source     source.Descriptor
	Violations []schema.Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: schema validation failed with %d violation(s)", e.Source.String(), len(e.Violations))
}

func (e *ValidationError) Unwrap() error {
	return errors.ErrSchemaViolation
}
