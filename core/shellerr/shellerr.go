// Package shellerr holds the error type shared by every stage of the shell.
//
// A ShellError is a proximate error plus an optional cause, which could have
// its own cause, forming a chain from the most recent context down to the
// root fault.
package shellerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/josephlewis42/queenshell/core/span"
)

// Kind distinguishes the two proximate error types.
type Kind int

const (
	// KindParse is a lexical or structural fault with a source location.
	KindParse Kind = iota
	// KindRuntime is any semantic fault.
	KindRuntime
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindRuntime:
		return "runtime"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// UnderlineMarker is repeated under the offending range of a parse error.
const UnderlineMarker = "^"

// Proximate is the error detected by a single layer.
type Proximate struct {
	Kind Kind
	// Span is only set for KindParse.
	Span span.Span
	// Reason is the parse failure reason or the runtime message.
	Reason string
}

func (p Proximate) String() string {
	switch p.Kind {
	case KindParse:
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", p.Span.Start))
		sb.WriteString(strings.Repeat(UnderlineMarker, p.Span.Len()))
		if p.Reason != "" {
			if p.Span.Len() > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(p.Reason)
		}
		return sb.String()
	default:
		return p.Reason
	}
}

// ShellError is a proximate error with an optional cause chain.
type ShellError struct {
	Proximate Proximate
	Cause     *ShellError
}

var _ error = (*ShellError)(nil)

// ParseError creates a new error for the given source location.
func ParseError(s span.Span, reason string) *ShellError {
	return &ShellError{Proximate: Proximate{Kind: KindParse, Span: s, Reason: reason}}
}

// RuntimeError creates a new error with the given message.
func RuntimeError(message string) *ShellError {
	return &ShellError{Proximate: Proximate{Kind: KindRuntime, Reason: message}}
}

// RuntimeErrorf creates a runtime error with a formatted message.
func RuntimeErrorf(format string, a ...interface{}) *ShellError {
	return RuntimeError(fmt.Sprintf(format, a...))
}

// From converts an arbitrary error into a ShellError. ShellErrors are
// returned as-is, anything else becomes a RuntimeError with its text.
func From(err error) *ShellError {
	if err == nil {
		return nil
	}

	var se *ShellError
	if errors.As(err, &se) {
		return se
	}
	return RuntimeError(err.Error())
}

// Wrap returns a copy of outer's chain with err attached below its root.
// Neither outer nor err is modified.
func Wrap(err error, outer *ShellError) *ShellError {
	wrapped := From(err)
	chain := outer.Chain()
	for i := len(chain) - 1; i >= 0; i-- {
		wrapped = &ShellError{Proximate: chain[i].Proximate, Cause: wrapped}
	}
	return wrapped
}

// Error implements error, it only prints the proximate error.
func (e *ShellError) Error() string {
	return e.Proximate.String()
}

// Unwrap returns the cause.
func (e *ShellError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// IsParse is true if the proximate error is a parse error.
func (e *ShellError) IsParse() bool {
	return e.Proximate.Kind == KindParse
}

// IsRuntime is true if the proximate error is a runtime error.
func (e *ShellError) IsRuntime() bool {
	return e.Proximate.Kind == KindRuntime
}

// Chain lists the error followed by each of its causes.
func (e *ShellError) Chain() []*ShellError {
	var out []*ShellError
	for cur := e; cur != nil; cur = cur.Cause {
		out = append(out, cur)
	}
	return out
}

// Root returns the last error in the cause chain.
func (e *ShellError) Root() *ShellError {
	cur := e
	for cur.Cause != nil {
		cur = cur.Cause
	}
	return cur
}

// Render formats the error for display. Parse errors show the line of source
// they refer to with the offending range underlined below it.
func (e *ShellError) Render(source string) string {
	if !e.IsParse() || e.Proximate.Span.IsUnknown() {
		return e.Error()
	}

	return source + "\n" + e.Error()
}

// Equal compares two errors and their causes.
func (e *ShellError) Equal(other *ShellError) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Proximate != other.Proximate {
		return false
	}
	return e.Cause.Equal(other.Cause)
}
