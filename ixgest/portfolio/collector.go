package portfolio

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/folio/errors"
	"github.com/teranos/folio/frontmatter"
	"github.com/teranos/folio/github"
	"github.com/teranos/folio/logger"
	"github.com/teranos/folio/project"
	"github.com/teranos/folio/source"
)

// Collector runs the live per-source steps: fetch, split, validate, append.
type Collector struct {
	fetcher   Fetcher
	validator Validator
	logger    *zap.SugaredLogger
	onOutcome func(Outcome)
}

// Batch is the output of one pass over the sources.
type Batch struct {
	Projects []project.Project
	Outcomes []Outcome
	Summary  Summary
}

// NewCollector creates a collector. onOutcome, if set, is called after every
// source, in order.
func NewCollector(fetcher Fetcher, validator Validator, log *zap.SugaredLogger, onOutcome func(Outcome)) *Collector {
	if log == nil {
		log = logger.Logger
	}
	return &Collector{
		fetcher:   fetcher,
		validator: validator,
		logger:    log,
		onOutcome: onOutcome,
	}
}

// Collect processes sources in order.
//
// The returned batch is always non-nil. On a schema violation it holds the
// outcomes up to and including the failing source, and the error is a
// *ValidationError. A cancelled context stops the pass before the next
// source and returns the context error, including when it was cancelled
// during the last fetch.
func (c *Collector) Collect(ctx context.Context, sources []source.Descriptor) (*Batch, error) {
	batch := &Batch{
		Projects: make([]project.Project, 0, len(sources)),
		Summary:  Summary{Total: len(sources)},
	}
	log := logger.LoggerFromContext(ctx, c.logger)

	for _, d := range sources {
		if err := ctx.Err(); err != nil {
			return batch, errors.Wrapf(err, "collection interrupted after %d of %d sources", len(batch.Outcomes), len(sources))
		}

		outcome := c.process(ctx, log, d)
		batch.Outcomes = append(batch.Outcomes, outcome)
		if c.onOutcome != nil {
			c.onOutcome(outcome)
		}

		switch outcome.Kind {
		case OutcomeSuccess:
			batch.Projects = append(batch.Projects, *outcome.Project)
			batch.Summary.Validated++
		case OutcomeSkipped:
			batch.Summary.Skipped++
		case OutcomeFatal:
			return batch, &ValidationError{Source: d, Violations: outcome.Violations}
		}
	}

	if err := ctx.Err(); err != nil {
		return batch, errors.Wrapf(err, "collection interrupted after %d of %d sources", len(batch.Outcomes), len(sources))
	}
	return batch, nil
}

func (c *Collector) process(ctx context.Context, log *zap.SugaredLogger, d source.Descriptor) Outcome {
	outcome := Outcome{Source: d.Label(), Path: d.Path}

	raw, err := c.fetcher.Fetch(ctx, d)
	if err != nil {
		return c.skip(log, outcome, err)
	}

	metadata, body, err := frontmatter.Split(raw)
	if err != nil {
		return c.skip(log, outcome, errors.Wrap(err, "failed to split front-matter"))
	}

	violations, err := c.validator.Validate(metadata)
	if err != nil {
		return c.skip(log, outcome, err)
	}
	if len(violations) > 0 {
		outcome.Kind = OutcomeFatal
		outcome.Violations = violations
		log.Errorw("Schema validation failed",
			logger.FieldSource, outcome.Source,
			logger.FieldCount, len(violations))
		for _, v := range violations {
			log.Errorw("Schema violation",
				logger.FieldSource, outcome.Source,
				logger.FieldPath, v.Path,
				"keyword", v.Keyword,
				"message", v.Message)
		}
		return outcome
	}

	p, err := project.FromMetadata(metadata, body)
	if err != nil {
		return c.skip(log, outcome, err)
	}

	outcome.Kind = OutcomeSuccess
	outcome.Project = &p
	outcome.ProjectID = p.ID
	log.Infow("Collected presentation",
		logger.FieldSource, outcome.Source,
		"project_id", p.ID)
	return outcome
}

func (c *Collector) skip(log *zap.SugaredLogger, outcome Outcome, err error) Outcome {
	outcome.Kind = OutcomeSkipped
	outcome.Err = err
	outcome.Reason = err.Error()

	var fe *github.FetchError
	if errors.As(err, &fe) {
		outcome.Class = string(fe.Class)
		outcome.StatusCode = fe.StatusCode
	}

	log.Warnw("Skipped presentation",
		logger.FieldSource, outcome.Source,
		logger.FieldReason, outcome.Reason,
		logger.FieldClass, outcome.Class,
		logger.FieldStatus, outcome.StatusCode)
	return outcome
}
