// Package cgerrors defines compgraph's error kinds: configuration, I/O,
// parse, domain, and type-mismatch errors. The Wrap* constructors wrap
// their cause with github.com/pkg/errors for call-site context and stack
// capture; NewDomainError and NewTypeMismatchError keep the cause as given,
// and NewConfigError has none. Every kind implements Unwrap so stdlib
// errors.Is/errors.As keep working across the wrap.
package cgerrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigError reports a fatal configuration mistake: an unknown source
// name at run, a join node missing its side-graph, or a graph built with no
// source operator.
type ConfigError struct {
	Msg   string
	cause error
}

func NewConfigError(msg string) *ConfigError { return &ConfigError{Msg: msg} }

func (e *ConfigError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("config error: %s: %v", e.Msg, e.cause)
	}
	return fmt.Sprintf("config error: %s", e.Msg)
}

func (e *ConfigError) Unwrap() error { return e.cause }

// WrapConfig wraps cause as a ConfigError with the given message.
func WrapConfig(cause error, msg string) *ConfigError {
	return &ConfigError{Msg: msg, cause: errors.Wrap(cause, msg)}
}

// IOError reports a file-source open/read failure, or a spill/merge I/O
// failure in external sort.
type IOError struct {
	Op    string
	Path  string
	cause error
}

func WrapIO(cause error, op, path string) *IOError {
	return &IOError{Op: op, Path: path, cause: errors.Wrapf(cause, "%s %s", op, path)}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s %s: %v", e.Op, e.Path, e.cause)
}

func (e *IOError) Unwrap() error { return e.cause }

// ParseError wraps a failure from a user-supplied file-source parser,
// retaining the offending input line for debuggability.
type ParseError struct {
	Line  string
	cause error
}

func WrapParse(cause error, line string) *ParseError {
	return &ParseError{Line: line, cause: errors.Wrap(cause, "parse row")}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on line %q: %v", e.Line, e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }

// DomainError reports a failure in a catalog operator's own logic (division
// by zero in Speed, a missing column, an invalid datetime format). Keys
// holds a snapshot of the columns the failing operator read (its input
// columns, not the pipeline's sort or join keys) so a caller can identify
// which row failed without retaining the whole row.
type DomainError struct {
	Op    string
	Keys  map[string]string // column name -> stringified value, for debuggability
	cause error
}

func NewDomainError(op string, keys map[string]string, cause error) *DomainError {
	return &DomainError{Op: op, Keys: keys, cause: cause}
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain error in %s (keys=%v): %v", e.Op, e.Keys, e.cause)
}

func (e *DomainError) Unwrap() error { return e.cause }

// TypeMismatchError reports that a key tuple held values whose types cannot
// be meaningfully ordered together during sort or merge-join.
type TypeMismatchError struct {
	Column string
	cause  error
}

func NewTypeMismatchError(column string, cause error) *TypeMismatchError {
	return &TypeMismatchError{Column: column, cause: cause}
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch in key column %q: %v", e.Column, e.cause)
}

func (e *TypeMismatchError) Unwrap() error { return e.cause }
