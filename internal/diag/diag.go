// Package diag implements the closed error-kind set the semantic core
// raises. Every error carries the source position of the offending token
// and renders a caret-annotated excerpt when the source line is available.
package diag

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/xenon-lang/xenon/internal/token"
)

// Kind is the closed set of semantic-failure categories. The set is closed:
// callers should exhaust it in a switch, not extend it ad hoc.
type Kind string

const (
	UnknownName             Kind = "unknown name"
	NotClassOrNamespace     Kind = "not a class or namespace"
	NotClass                Kind = "not a class"
	NotPointer              Kind = "not a pointer"
	NotGeneric              Kind = "not a generic"
	NotClassType            Kind = "expression has not class type"
	InvalidLeftValue        Kind = "invalid left value"
	InvalidRightValue       Kind = "invalid right value"
	InvalidValue            Kind = "invalid value"
	InvalidType             Kind = "invalid type"
	InvalidRange            Kind = "invalid range"
	InvalidInputConstraint  Kind = "invalid input constraint"
	NoFunctionMatch         Kind = "no function match"
	MultipleInstances       Kind = "multiple instances"
	PropertyNotFound        Kind = "property not found"
	ReturnOutsideFunction   Kind = "return outside function"
	ReturnTypeMismatch      Kind = "return value does not match return type"
	Syntax                  Kind = "syntax"
	OpaqueTypeNotAllowed    Kind = "opaque type not allowed"
	ImportFailure           Kind = "import failure"
	Unimplemented           Kind = "unimplemented"
)

// Error is the single error type the core ever raises. Message is a short,
// human-readable rendering of the payload; Cause, when present, is the
// lower-level error (e.g. a filesystem error) that triggered this one.
type Error struct {
	Kind    Kind
	Pos     token.Position
	Message string
	Source  string // the offending source line, if known
	Cause   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n  at %s\n", e.Kind, e.Message, e.Pos)
	if e.Source != "" {
		fmt.Fprintf(&sb, "\n  %d | %s\n", e.Pos.Line, e.Source)
		sb.WriteString(strings.Repeat(" ", len(fmt.Sprintf("  %d | ", e.Pos.Line))))
		if e.Pos.Column > 0 {
			sb.WriteString(strings.Repeat(" ", e.Pos.Column-1))
		}
		sb.WriteString("^\n")
	}
	return sb.String()
}

// Unwrap exposes Cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// New constructs a Kind-tagged error at pos with a formatted message.
func New(kind Kind, pos token.Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags a lower-level error (e.g. from internal/importer) with a Kind,
// preserving its stack trace via github.com/pkg/errors so it remains
// reachable through errors.Cause.
func Wrap(kind Kind, pos token.Position, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Cause:   errors.Wrap(cause, string(kind)),
	}
}

// WithSource attaches the offending source line for caret rendering.
func (e *Error) WithSource(line string) *Error {
	e.Source = line
	return e
}
