// Package errors provides error handling for syllogix.
//
// It re-exports github.com/cockroachdb/errors so callers get stack traces,
// wrapping and user-facing hints from a single import:
//
//	if err := provider.Complete(ctx, req); err != nil {
//	    return errors.Wrap(err, "complete")
//	}
//
//	return errors.WithHint(err, "set OPENAI_API_KEY")
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
	Join         = crdb.Join
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
	Is           = crdb.Is
	IsAny        = crdb.IsAny
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Shared sentinels. Wrap them to add context; test with Is.
var (
	// ErrInvalidInput indicates malformed user or model supplied data
	ErrInvalidInput = New("invalid input")

	// ErrNotFound indicates the requested item does not exist
	ErrNotFound = New("not found")

	// ErrServiceUnavailable indicates an external service could not be reached
	ErrServiceUnavailable = New("service unavailable")

	// ErrInvalidConfig indicates a configuration problem
	ErrInvalidConfig = New("invalid configuration")
)

// IsInvalidInput reports whether err is or wraps ErrInvalidInput
func IsInvalidInput(err error) bool {
	return err != nil && Is(err, ErrInvalidInput)
}

// IsServiceUnavailable reports whether err is or wraps ErrServiceUnavailable
func IsServiceUnavailable(err error) bool {
	return err != nil && Is(err, ErrServiceUnavailable)
}
