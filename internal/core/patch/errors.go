package patch

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed reports source the scanner could not pair up.
	ErrMalformed = errors.New("patch: malformed document")

	// ErrNotApplicable reports a document that lacks the targeted region.
	ErrNotApplicable = errors.New("patch: region not found")

	// ErrDialectMismatch reports a framework version no dialect can be chosen for.
	ErrDialectMismatch = errors.New("patch: unsupported framework version")
)

// NotApplicableError names the region that could not be located and, when
// one exists, the closest name that was present in the document.
type NotApplicableError struct {
	Region string
	Hint   string
}

func (e *NotApplicableError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("region %s not found (did you mean %s?)", e.Region, e.Hint)
	}
	return fmt.Sprintf("region %s not found", e.Region)
}

func (e *NotApplicableError) Unwrap() error { return ErrNotApplicable }

// DialectMismatchError carries the version string that failed to parse.
type DialectMismatchError struct {
	Version string
}

func (e *DialectMismatchError) Error() string {
	if e.Version == "" {
		return "framework version is empty"
	}
	return fmt.Sprintf("framework version %q is not a semantic version", e.Version)
}

func (e *DialectMismatchError) Unwrap() error { return ErrDialectMismatch }
