// Package errors provides error handling for kirgen.
//
// This package re-exports github.com/cockroachdb/errors so that every
// package reports failures with stack traces, wrapping context and
// user-facing hints, and defines the sentinel errors of the codegen
// failure taxonomy.
//
// Usage:
//
//	if err := kir.Decode(raw); err != nil {
//	    return errors.Wrapf(err, "decode %s", path)
//	}
//
//	if errors.IsDecodeError(err) {
//	    // skip this module, keep going with siblings
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
)

// User-facing messages and details
var (
	WithHint           = crdb.WithHint
	WithHintf          = crdb.WithHintf
	WithDetail         = crdb.WithDetail
	WithDetailf        = crdb.WithDetailf
	WithSecondaryError = crdb.WithSecondaryError
	CombineErrors      = crdb.CombineErrors
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	GetAllDetails = crdb.GetAllDetails
)

// Sentinel errors for the generation pipeline.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrMalformed indicates KIR input that is not valid JSON or CBOR
	ErrMalformed = New("malformed KIR")

	// ErrMissingRoot indicates KIR input whose top-level value is not a document object
	ErrMissingRoot = New("KIR document has no interpretable root")

	// ErrUnresolvedImport indicates an imported module whose KIR file could not be found
	ErrUnresolvedImport = New("unresolved import")

	// ErrPropertySkipped indicates a property value that has no literal form in the target
	ErrPropertySkipped = New("property not reconstructable")

	// ErrOutputWrite indicates a generated file could not be written
	ErrOutputWrite = New("output write failed")

	// ErrNoModules indicates a generation run that produced zero modules
	ErrNoModules = New("no modules generated")

	// ErrUnsupportedTarget indicates a target language with no registered dialect
	ErrUnsupportedTarget = New("unsupported target language")
)

// IsDecodeError checks if an error is or wraps one of the decode sentinels
func IsDecodeError(err error) bool {
	return err != nil && IsAny(err, ErrMalformed, ErrMissingRoot)
}

// IsUnresolvedImportError checks if an error is or wraps ErrUnresolvedImport
func IsUnresolvedImportError(err error) bool {
	return err != nil && Is(err, ErrUnresolvedImport)
}

// IsOutputWriteError checks if an error is or wraps ErrOutputWrite
func IsOutputWriteError(err error) bool {
	return err != nil && Is(err, ErrOutputWrite)
}

// WrapOutputWrite marks err as an output write failure for path
func WrapOutputWrite(err error, path string) error {
	return Wrapf(Wrap(ErrOutputWrite, err.Error()), "write %s", path)
}

// NewUnresolvedImportError creates an unresolved-import error with a formatted message
func NewUnresolvedImportError(format string, args ...interface{}) error {
	return Wrap(ErrUnresolvedImport, Newf(format, args...).Error())
}

// NewMalformedError creates a malformed-input error with a formatted message
func NewMalformedError(format string, args ...interface{}) error {
	return Wrap(ErrMalformed, Newf(format, args...).Error())
}
