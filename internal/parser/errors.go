package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDataNotFound means neither the primary nor the fallback input exists.
	ErrDataNotFound = errors.New("data not found")
	// ErrLoad means the input exists but is not a readable results table.
	ErrLoad = errors.New("load error")
	// ErrSchema means required columns are missing.
	ErrSchema = errors.New("schema error")
)

// NotFoundError names both locations that were tried.
type NotFoundError struct {
	Primary  string
	Fallback string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("data file not found at %s or %s", e.Primary, e.Fallback)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrDataNotFound }

// LoadError wraps the underlying read or parse failure. Row is the 1-based
// data row for row-level failures and 0 when the file as a whole is unreadable.
type LoadError struct {
	Path string
	Row  int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("failed to load %s: row %d: %v", e.Path, e.Row, e.Err)
	}
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// SchemaError lists what was required, what the file has, and the difference.
type SchemaError struct {
	Required []string
	Found    []string
	Missing  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns [%s] (required [%s], found [%s])",
		strings.Join(e.Missing, ", "), strings.Join(e.Required, ", "), strings.Join(e.Found, ", "))
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }
