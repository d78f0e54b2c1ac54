package parser

import (
	"encoding/json"

	"github.com/josephlewis42/queenshell/core/span"
)

// ClassifiedCommand is either an *InternalCommand or an *ExternalCommand.
type ClassifiedCommand interface {
	// CommandName is the resolved command name.
	CommandName() string
	// Span covers the command and its arguments.
	Span() span.Span

	classified()
}

// InternalCommand is a command found in the registry.
type InternalCommand struct {
	Name     string    `json:"name"`
	NameSpan span.Span `json:"name_span"`
	Call     *Call     `json:"call"`
}

var _ ClassifiedCommand = (*InternalCommand)(nil)

func (c *InternalCommand) CommandName() string { return c.Name }
func (c *InternalCommand) Span() span.Span     { return c.Call.Span }
func (*InternalCommand) classified()           {}

// MarshalJSON implements json.Marshaler.
func (c *InternalCommand) MarshalJSON() ([]byte, error) {
	type internal InternalCommand
	return json.Marshal(struct {
		Type string `json:"type"`
		*internal
	}{"internal", (*internal)(c)})
}

// ExternalArgs are the raw words passed to an external command.
type ExternalArgs struct {
	Args []string  `json:"args"`
	Span span.Span `json:"span"`
}

// ExternalCommand is a command the registry doesn't know.
type ExternalCommand struct {
	Name     string       `json:"name"`
	NameSpan span.Span    `json:"name_span"`
	Args     ExternalArgs `json:"args"`
}

var _ ClassifiedCommand = (*ExternalCommand)(nil)

func (c *ExternalCommand) CommandName() string { return c.Name }
func (*ExternalCommand) classified()           {}

func (c *ExternalCommand) Span() span.Span {
	if len(c.Args.Args) == 0 {
		return c.NameSpan
	}
	return c.NameSpan.Until(c.Args.Span)
}

// MarshalJSON implements json.Marshaler.
func (c *ExternalCommand) MarshalJSON() ([]byte, error) {
	type external ExternalCommand
	return json.Marshal(struct {
		Type string `json:"type"`
		*external
	}{"external", (*external)(c)})
}

// Pipeline is one parsed input line, commands run in order.
type Pipeline struct {
	Commands []ClassifiedCommand `json:"commands"`
	Span     span.Span           `json:"span"`
}
