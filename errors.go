package mzidstream

import (
	"errors"
	"fmt"

	"github.com/roach88/mzidstream/internal/identity"
)

// DocumentError represents a fatal error detected while composing or
// streaming a document.
//
// Document errors include:
//   - Conflict: two mutually exclusive ways of supplying the same fact
//   - Stream discipline: a section closed out of order, twice, or used
//     outside the writer's Open state
//   - Bad record: a record missing a required field or carrying an
//     unusable value
//
// Dangling cross-references are reported separately as the registry's
// reference error; use IsDanglingReference to classify them.
type DocumentError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Element names the schema element being built, when known.
	Element string

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes document errors.
type ErrorCode string

const (
	// ErrCodeConflict indicates the same fact was supplied two
	// mutually exclusive ways.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeDiscipline indicates a section lifecycle violation.
	ErrCodeDiscipline ErrorCode = "STREAM_DISCIPLINE"

	// ErrCodeBadRecord indicates a record that cannot be built into
	// a valid entity.
	ErrCodeBadRecord ErrorCode = "BAD_RECORD"
)

// Error implements the error interface.
func (e *DocumentError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("%s: %s (element=%s)", e.Code, e.Message, e.Element)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConflict returns true if the error reports two irreconcilable sources
// for one fact. Uses errors.As to handle wrapped errors.
func IsConflict(err error) bool {
	var de *DocumentError
	if errors.As(err, &de) {
		return de.Code == ErrCodeConflict
	}
	return false
}

// IsDiscipline returns true if the error reports a section lifecycle
// violation. Uses errors.As to handle wrapped errors.
func IsDiscipline(err error) bool {
	var de *DocumentError
	if errors.As(err, &de) {
		return de.Code == ErrCodeDiscipline
	}
	return false
}

// IsBadRecord returns true if the error reports an unbuildable record.
func IsBadRecord(err error) bool {
	var de *DocumentError
	if errors.As(err, &de) {
		return de.Code == ErrCodeBadRecord
	}
	return false
}

// IsDanglingReference returns true if the error reports a cross-reference
// to an identifier never registered in the referenced category.
func IsDanglingReference(err error) bool {
	return identity.IsDanglingReference(err)
}

func newConflictError(element, message string) *DocumentError {
	return &DocumentError{Code: ErrCodeConflict, Message: message, Element: element}
}

func newDisciplineError(message string) *DocumentError {
	return &DocumentError{Code: ErrCodeDiscipline, Message: message}
}

func newBadRecordError(element, message string) *DocumentError {
	return &DocumentError{Code: ErrCodeBadRecord, Message: message, Element: element}
}
