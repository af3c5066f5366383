package shell

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPipeline     = errors.New("empty command")
	ErrDanglingOperator  = errors.New("operator is missing a command")
	ErrMalformedRedirect = errors.New("redirection needs exactly one file")
	ErrMixedOperators    = errors.New("operators can't be combined on one line")
)

// ParseError is returned when a line can't be turned into a pipeline.
type ParseError struct {
	Line string
	Err  error
}

func newParseError(line string, err error) *ParseError {
	return &ParseError{Line: line, Err: err}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CommandError is a failure of one command in a pipeline.
type CommandError struct {
	Name string
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
