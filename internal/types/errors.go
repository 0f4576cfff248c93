package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for dbdrill operations.
var (
	// ErrNotFound indicates a catalog lookup (resource, search, link,
	// column) found nothing.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedColumnType indicates a native database column type with
	// no bound-parameter mapping. Surfaced as a named gap, never a silent
	// fallback.
	ErrUnsupportedColumnType = errors.New("unsupported column type")

	// ErrParamCountMismatch indicates the caller supplied a different number
	// of parameter strings than the search declares. This is a caller/UI bug,
	// not recoverable user input.
	ErrParamCountMismatch = errors.New("parameter count mismatch")
)

// ConfigError is a fatal startup error: the resources document is malformed
// or violates a catalog invariant. The message identifies the resource, the
// link if any, and the rule that failed.
type ConfigError struct {
	Resource ResourceID
	Link     LinkID
	Rule     string
	Err      error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Link != "" && e.Err != nil:
		return fmt.Sprintf("resource %s: link %s: %s: %v", e.Resource, e.Link, e.Rule, e.Err)
	case e.Link != "":
		return fmt.Sprintf("resource %s: link %s: %s", e.Resource, e.Link, e.Rule)
	case e.Err != nil:
		return fmt.Sprintf("resource %s: %s: %v", e.Resource, e.Rule, e.Err)
	default:
		return fmt.Sprintf("resource %s: %s", e.Resource, e.Rule)
	}
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ParamError is a recoverable user-input error: a textual or JSON-derived
// value failed to convert to its declared parameter type. The triggering
// screen stays active for correction.
type ParamError struct {
	Param string
	Input string
	Type  ParamType
	Err   error
}

func (e *ParamError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("parameter %s: error parsing value as %s: %q: %v", e.Param, e.Type, e.Input, e.Err)
	}
	return fmt.Sprintf("error parsing value as %s: %q: %v", e.Type, e.Input, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }

// CardinalityError indicates a JSONPath evaluation produced a node count
// incompatible with a scalar target (which expects exactly one node).
type CardinalityError struct {
	Want int
	Got  int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("expected %d result, got %d", e.Want, e.Got)
}

// LinkError is a recoverable error while resolving a link against a row:
// JSONPath evaluation or per-element coercion failed. It does not corrupt the
// source row or the navigation stack.
type LinkError struct {
	Link   LinkID
	Column string
	Path   string
	Err    error
}

func (e *LinkError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("link %s: column %s path %s: %v", e.Link, e.Column, e.Path, e.Err)
	}
	return fmt.Sprintf("link %s: column %s: %v", e.Link, e.Column, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }

// QueryError wraps a failure returned by the database itself. Surfaced
// verbatim to the operator; no retry, no reconnection.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string { return fmt.Sprintf("error running SQL query: %v", e.Err) }

func (e *QueryError) Unwrap() error { return e.Err }
