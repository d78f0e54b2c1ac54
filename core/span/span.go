// Package span tracks byte ranges of source text.
package span

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) into a source string.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// New creates a span, it panics if start > end.
func New(start, end int) Span {
	if start > end {
		panic(fmt.Sprintf("invalid span: start %d is after end %d", start, end))
	}

	return Span{Start: start, End: end}
}

// Unknown is used for errors that have no source location.
func Unknown() Span {
	return Span{}
}

// IsUnknown is true for the Unknown sentinel.
func (s Span) IsUnknown() bool {
	return s == Span{}
}

// Len returns the number of bytes covered.
func (s Span) Len() int {
	return s.End - s.Start
}

// Until returns a span covering from the start of s to the end of other.
func (s Span) Until(other Span) Span {
	if other.End < s.Start {
		return New(s.Start, s.Start)
	}
	return New(s.Start, other.End)
}

// Slice returns the text the span covers, clamped to the source.
func (s Span) Slice(source string) string {
	start, end := s.Start, s.End
	if end > len(source) {
		end = len(source)
	}
	if start > end {
		return ""
	}
	return source[start:end]
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// Spanned pairs an item with the span of source it came from.
type Spanned[T any] struct {
	Item T    `json:"item"`
	Span Span `json:"span"`
}

// With attaches a span to an item.
func With[T any](item T, s Span) Spanned[T] {
	return Spanned[T]{Item: item, Span: s}
}
