package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure of the division data pipeline.
type Kind string

const (
	KindUnknownDivision  Kind = "unknown_division"
	KindFileNotFound     Kind = "file_not_found"
	KindParseError       Kind = "parse_error"
	KindInsufficientData Kind = "insufficient_data"
	KindInternal         Kind = "internal"
)

// ClientError reports whether the failure was caused by the caller's request
// rather than by the deployment or its data.
func (k Kind) ClientError() bool {
	return k == KindUnknownDivision
}

var (
	ErrUnknownDivision  = errors.New("unknown division")
	ErrFileNotFound     = errors.New("file not found")
	ErrParse            = errors.New("malformed CSV")
	ErrInsufficientData = errors.New("no valid records")
)

// Error carries the kind of failure and where it happened. Err is one of the
// sentinel errors above, optionally wrapping the underlying cause.
type Error struct {
	Kind     Kind
	Division string
	File     string
	Err      error
}

func (e *Error) Error() string {
	switch {
	case e.File != "":
		return fmt.Sprintf("%s: %s: %v", e.Division, e.File, e.Err)
	case e.Division != "":
		return fmt.Sprintf("%s: %v", e.Division, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or KindInternal if err carries none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// wrapSentinel joins a sentinel with its cause so errors.Is matches both.
func wrapSentinel(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// NewFileNotFound reports a missing division directory or data file.
func NewFileNotFound(d Division, file string, cause error) error {
	return &Error{Kind: KindFileNotFound, Division: string(d), File: file, Err: wrapSentinel(ErrFileNotFound, cause)}
}

// NewParseError reports file content that is not well-formed delimited text.
func NewParseError(d Division, file string, cause error) error {
	return &Error{Kind: KindParseError, Division: string(d), File: file, Err: wrapSentinel(ErrParse, cause)}
}

// NewInsufficientData reports a file that yielded no valid records.
func NewInsufficientData(d Division, file string) error {
	return &Error{Kind: KindInsufficientData, Division: string(d), File: file, Err: ErrInsufficientData}
}
