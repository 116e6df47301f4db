// Package errors provides error handling for folio.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints for the operator running the build
//
// Usage:
//
//	if err := fetch(); err != nil {
//	    return errors.Wrap(err, "failed to fetch presentation")
//	}
//
//	return errors.WithHint(ErrEmptyCredential, "unset GITHUB_TOKEN to use mock data")
//
//	if errors.Is(err, errors.ErrSchemaViolation) {
//	    // content error, abort the run
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// Configuration errors. Fatal, reported before any fetch.
var (
	// ErrEmptyCredential means the credential variable is set but empty.
	// An absent credential selects mock mode instead.
	ErrEmptyCredential = New("credential is set but empty")

	// ErrInvalidConfig indicates a malformed configuration or source list
	ErrInvalidConfig = New("invalid configuration")
)

// Transport errors. Per-item and recoverable: the pipeline records a skip.
var (
	ErrUnauthorized = New("unauthorized")
	ErrForbidden    = New("forbidden")
	ErrRateLimited  = New("rate limited")
	ErrNotFound     = New("not found")

	// ErrTransport covers every other non-success fetch outcome
	ErrTransport = New("transport failure")
)

// Batch-fatal errors.
var (
	// ErrSchemaViolation marks a record whose metadata failed validation
	ErrSchemaViolation = New("schema violation")

	// ErrNoProjects is returned when a full pass produced zero records
	ErrNoProjects = New("no valid projects collected")
)

// IsTransportError reports whether err is one of the recoverable transport failures.
func IsTransportError(err error) bool {
	return err != nil && IsAny(err, ErrUnauthorized, ErrForbidden, ErrRateLimited, ErrNotFound, ErrTransport)
}

// IsFatal reports whether err must abort the whole run.
func IsFatal(err error) bool {
	return err != nil && IsAny(err, ErrEmptyCredential, ErrInvalidConfig, ErrSchemaViolation, ErrNoProjects)
}
