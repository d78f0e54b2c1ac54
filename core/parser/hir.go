package parser

import (
	"encoding/json"
	"fmt"

	"github.com/josephlewis42/queenshell/core/span"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// NamedValueKind says whether a flag was supplied and how.
type NamedValueKind int

const (
	// AbsentSwitch is a declared switch that wasn't given.
	AbsentSwitch NamedValueKind = iota
	// PresentSwitch is a switch that was given, Span points at the flag.
	PresentSwitch
	// AbsentValue is a declared valued flag that wasn't given.
	AbsentValue
	// Value is a valued flag, Token holds its argument.
	Value
)

var namedValueKindNames = []string{
	AbsentSwitch:  "absent_switch",
	PresentSwitch: "present_switch",
	AbsentValue:   "absent_value",
	Value:         "value",
}

func (k NamedValueKind) String() string {
	if int(k) >= 0 && int(k) < len(namedValueKindNames) {
		return namedValueKindNames[k]
	}
	return fmt.Sprintf("named_value(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k NamedValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *NamedValueKind) UnmarshalText(text []byte) error {
	for i, name := range namedValueKindNames {
		if name == string(text) {
			*k = NamedValueKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown named value kind: %q", string(text))
}

// NamedValue is the state of one flag in a call.
type NamedValue struct {
	Kind NamedValueKind `json:"kind"`
	// Span is set for PresentSwitch.
	Span span.Span `json:"span"`
	// Token is set for Value.
	Token SpannedToken `json:"token"`
}

// SwitchPresent creates a PresentSwitch at the flag's span.
func SwitchPresent(s span.Span) NamedValue {
	return NamedValue{Kind: PresentSwitch, Span: s}
}

// ValueOf creates a Value holding tok.
func ValueOf(tok SpannedToken) NamedValue {
	return NamedValue{Kind: Value, Token: tok}
}

// IsPresent is true if the flag appeared in the source.
func (n NamedValue) IsPresent() bool {
	return n.Kind == PresentSwitch || n.Kind == Value
}

// NamedArguments maps flag names to values, keeping insertion order.
type NamedArguments struct {
	named *orderedmap.OrderedMap[string, NamedValue]
}

// NewNamedArguments creates an empty mapping.
func NewNamedArguments() *NamedArguments {
	return &NamedArguments{named: orderedmap.New[string, NamedValue]()}
}

// Set inserts or replaces a flag, a replaced flag keeps its position.
func (n *NamedArguments) Set(name string, v NamedValue) {
	n.named.Set(name, v)
}

// Get looks up a flag.
func (n *NamedArguments) Get(name string) (NamedValue, bool) {
	if n == nil {
		return NamedValue{}, false
	}
	return n.named.Get(name)
}

// Len returns the number of flags.
func (n *NamedArguments) Len() int {
	if n == nil {
		return 0
	}
	return n.named.Len()
}

// Each calls fn for every flag in order.
func (n *NamedArguments) Each(fn func(name string, v NamedValue)) {
	if n == nil {
		return
	}
	for pair := n.named.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Equal compares names, order and values.
func (n *NamedArguments) Equal(other *NamedArguments) bool {
	if n.Len() != other.Len() {
		return false
	}
	if n == nil || other == nil {
		return n.Len() == 0 && other.Len() == 0
	}

	a, b := n.named.Oldest(), other.named.Oldest()
	for ; a != nil && b != nil; a, b = a.Next(), b.Next() {
		if a.Key != b.Key || a.Value != b.Value {
			return false
		}
	}
	return true
}

// MarshalJSON implements json.Marshaler.
func (n *NamedArguments) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.named)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NamedArguments) UnmarshalJSON(data []byte) error {
	n.named = orderedmap.New[string, NamedValue]()
	return json.Unmarshal(data, n.named)
}

// Call is one command invocation with its arguments still as tokens.
type Call struct {
	Head SpannedToken `json:"head"`
	// Positional is nil if no positional arguments were given. Arguments
	// beyond the declared positionals belong to the rest parameter.
	Positional []SpannedToken `json:"positional"`
	// Named is nil if the command declares no flags.
	Named *NamedArguments `json:"named"`
	Span  span.Span       `json:"span"`
}
