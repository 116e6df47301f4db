package portfolio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/folio/errors"
	"github.com/teranos/folio/logger"
	"github.com/teranos/folio/project"
	"github.com/teranos/folio/source"
)

// RunOptions configures one pipeline run.
type RunOptions struct {
	Mode Mode

	// Live mode
	Sources   []source.Descriptor
	Fetcher   Fetcher
	Validator Validator

	// Mock mode
	Fixture string

	Output    string
	Logger    *zap.SugaredLogger
	OnOutcome func(Outcome)
}

// Run executes the pipeline and writes the artifact.
//
// The result is returned even when err is non-nil so callers can report
// what happened. Errors:
//   - *ValidationError (ErrSchemaViolation): artifact not written
//   - ErrNoProjects: every source skipped, empty artifact written
//   - filesystem errors
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Logger
	}

	runID := uuid.New().String()
	ctx = logger.WithRunID(ctx, runID)
	log = logger.LoggerFromContext(ctx, log)

	result := &Result{
		RunID:     runID,
		Mode:      opts.Mode.String(),
		Output:    opts.Output,
		StartTime: time.Now(),
	}
	defer func() { result.EndTime = time.Now() }()

	log.Debugw("Starting collection",
		logger.FieldMode, result.Mode,
		logger.FieldFile, opts.Output,
		logger.FieldTotalCount, len(opts.Sources))

	if opts.Mode == ModeMock {
		return runMock(log, opts, result)
	}
	return runLive(ctx, log, opts, result)
}

func runMock(log *zap.SugaredLogger, opts RunOptions, result *Result) (*Result, error) {
	count, err := CopyFixture(opts.Fixture, opts.Output)
	if err != nil {
		result.Message = err.Error()
		return result, err
	}

	result.Written = true
	result.Records = count
	result.Success = true
	result.Message = fmt.Sprintf("Wrote %d sample projects to %s", count, filepath.Base(opts.Output))
	log.Infow("Using mock data",
		logger.FieldFile, opts.Fixture,
		logger.FieldCount, count)
	return result, nil
}

func runLive(ctx context.Context, log *zap.SugaredLogger, opts RunOptions, result *Result) (*Result, error) {
	if opts.Fetcher == nil || opts.Validator == nil {
		return result, errors.New("live mode requires a fetcher and a validator")
	}

	// The collector adds the run id from ctx itself.
	collector := NewCollector(opts.Fetcher, opts.Validator, opts.Logger, opts.OnOutcome)
	batch, err := collector.Collect(ctx, opts.Sources)
	result.Items = batch.Outcomes
	result.Summary = batch.Summary
	result.Projects = batch.Projects
	if err != nil {
		result.Message = err.Error()
		return result, err
	}

	if err := project.WriteFile(opts.Output, batch.Projects); err != nil {
		result.Message = err.Error()
		return result, err
	}
	result.Written = true
	result.Records = len(batch.Projects)
	result.Message = batch.Summary.String()

	log.Infow(result.Message,
		logger.FieldTotalCount, batch.Summary.Total,
		logger.FieldValidated, batch.Summary.Validated,
		logger.FieldSkipped, batch.Summary.Skipped)

	if batch.Summary.Validated == 0 {
		err := errors.WithHint(
			errors.Wrapf(errors.ErrNoProjects, "%d of %d sources skipped", batch.Summary.Skipped, batch.Summary.Total),
			"the site build will have no data; check the skipped sources above or run with --mock")
		return result, err
	}

	result.Success = true
	return result, nil
}

// CopyFixture copies the fixture artifact to output byte for byte and
// returns its record count.
func CopyFixture(fixture, output string) (int, error) {
	data, err := os.ReadFile(fixture)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read fixture %s", fixture)
	}
	if err := project.WriteRaw(output, data); err != nil {
		return 0, err
	}

	count, err := project.Count(data)
	if err != nil {
		return 0, errors.Wrapf(err, "fixture %s", fixture)
	}
	return count, nil
}
