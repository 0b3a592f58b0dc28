package config

import "fmt"

// FieldError describes a single malformed line or field encountered
// while loading the manifest or a task CSV. checker.Init reports it as
// checker.ErrBadParameters, with this error's text in the message;
// config itself has no dependency on the checker package — it simply
// carries enough context for the caller to report a useful message.
type FieldError struct {
	File string
	Line int
	Msg  string
}

func (e *FieldError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

func fieldErrorf(file string, line int, format string, args ...any) *FieldError {
	return &FieldError{File: file, Line: line, Msg: fmt.Sprintf(format, args...)}
}
