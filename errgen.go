/*
Package errgen is a code generator producing Go error types from short declarative descriptions.

Consists of subpackages:
  - cmd/errgen: console utility translating error-spec files to Go source files;
  - source: defines source buffer and cursor used by lexer and parser;
  - lexer: lexical analyzer;
  - errspec: converts error-spec description to abstract syntax tree and validates it;
  - gen: emits Go type definitions and error-contract boilerplate for parsed specs.

Typical usage is:

1. Describe error types in the error-spec language, e.g.

	OpenFailed
	"cannot open {name}"
	(name: string, cause: string)

2. Translate descriptions to Go source using either gen subpackage "on the fly"
or the errgen utility (optionally driven by a YAML manifest).

3. Build the generated file as part of the host package; referenced source-error
types and message placeholders are checked by the Go compiler, not by the generator.
*/
package errgen

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	SpecErrors    = 1   // used by errspec
	LexicalErrors = 101 // used by lexer
	GenErrors     = 201 // used by gen
)

// Error is the error type used by errgen subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and lexer.Token implement this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
