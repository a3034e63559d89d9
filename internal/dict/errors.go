package dict

import "fmt"

// LoadError marks a whole version as unavailable: a required input source was
// missing or unparsable at the structural level. Other versions are unaffected.
type LoadError struct {
	Version string
	Source  string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s: %v", e.Version, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// NotFoundError reports a tag/id/name/msg-type that does not exist in an
// otherwise available version.
type NotFoundError struct {
	Version string
	Entity  string
	Key     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found in %s", e.Entity, e.Key, e.Version)
}

// ValidationError names the offending request parameter. It is always a
// caller mistake, never a data problem.
type ValidationError struct {
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Message)
}

func invalidf(param, format string, args ...any) *ValidationError {
	return &ValidationError{Param: param, Message: fmt.Sprintf(format, args...)}
}

// InternalError surfaces unexpected failures (e.g. a component cycle) with
// enough context to diagnose. Well-formed dictionary data never produces one.
type InternalError struct {
	Version string
	Op      string
	Err     error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Version, e.Op, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }
