// Package signature declares the parameter shapes of commands. Signatures
// drive both call building and argument binding.
package signature

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// RestName is the field name the rest parameter binds to.
const RestName = "rest"

// PositionalSpec describes one positional parameter.
type PositionalSpec struct {
	Name        string      `json:"name"`
	Shape       SyntaxShape `json:"shape"`
	Required    bool        `json:"required"`
	Description string      `json:"description"`
}

// NamedKind is the kind of a named flag.
type NamedKind int

const (
	// NamedSwitch takes no value.
	NamedSwitch NamedKind = iota
	// NamedOptional takes a value and may be left out.
	NamedOptional
	// NamedMandatory takes a value and must be supplied.
	NamedMandatory
)

var namedKindNames = []string{
	NamedSwitch:    "switch",
	NamedOptional:  "optional",
	NamedMandatory: "mandatory",
}

func (k NamedKind) String() string {
	if int(k) >= 0 && int(k) < len(namedKindNames) {
		return namedKindNames[k]
	}
	return fmt.Sprintf("named(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k NamedKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// NamedSpec describes a --flag.
type NamedSpec struct {
	Name        string      `json:"name"`
	Kind        NamedKind   `json:"kind"`
	Shape       SyntaxShape `json:"shape"`
	Description string      `json:"description"`
}

// TakesValue is true if the flag consumes the following word.
func (n NamedSpec) TakesValue() bool {
	return n.Kind != NamedSwitch
}

// RestSpec collects every positional left after the declared ones.
type RestSpec struct {
	Shape       SyntaxShape `json:"shape"`
	Description string      `json:"description"`
}

// Signature is the declared parameter shape of a command.
type Signature struct {
	Name       string
	Usage      string
	Positional []PositionalSpec
	Rest       *RestSpec

	named *orderedmap.OrderedMap[string, NamedSpec]
}

// Build starts a signature with no parameters.
func Build(name string) *Signature {
	return &Signature{
		Name:  name,
		named: orderedmap.New[string, NamedSpec](),
	}
}

// Desc sets the one line usage description.
func (s *Signature) Desc(usage string) *Signature {
	s.Usage = usage
	return s
}

// Required adds a mandatory positional parameter. It panics if an optional
// positional was already declared.
func (s *Signature) Required(name string, shape SyntaxShape, desc string) *Signature {
	for _, p := range s.Positional {
		if !p.Required {
			panic(fmt.Sprintf("signature %s: required %q follows optional %q", s.Name, name, p.Name))
		}
	}
	return s.addPositional(PositionalSpec{Name: name, Shape: shape, Required: true, Description: desc})
}

// Optional adds an optional positional parameter.
func (s *Signature) Optional(name string, shape SyntaxShape, desc string) *Signature {
	return s.addPositional(PositionalSpec{Name: name, Shape: shape, Description: desc})
}

func (s *Signature) addPositional(spec PositionalSpec) *Signature {
	if _, ok := s.PositionalIndex(spec.Name); ok {
		panic(fmt.Sprintf("signature %s: duplicate positional %q", s.Name, spec.Name))
	}
	s.Positional = append(s.Positional, spec)
	return s
}

// RestArgs collects remaining positionals into a list bound to RestName.
func (s *Signature) RestArgs(shape SyntaxShape, desc string) *Signature {
	s.Rest = &RestSpec{Shape: shape, Description: desc}
	return s
}

// Switch adds a flag that takes no value.
func (s *Signature) Switch(name, desc string) *Signature {
	return s.addNamed(NamedSpec{Name: name, Kind: NamedSwitch, Description: desc})
}

// Named adds an optional flag that takes a value.
func (s *Signature) Named(name string, shape SyntaxShape, desc string) *Signature {
	return s.addNamed(NamedSpec{Name: name, Kind: NamedOptional, Shape: shape, Description: desc})
}

// RequiredNamed adds a flag that takes a value and must be supplied.
func (s *Signature) RequiredNamed(name string, shape SyntaxShape, desc string) *Signature {
	return s.addNamed(NamedSpec{Name: name, Kind: NamedMandatory, Shape: shape, Description: desc})
}

func (s *Signature) addNamed(spec NamedSpec) *Signature {
	if s.named == nil {
		s.named = orderedmap.New[string, NamedSpec]()
	}
	s.named.Set(spec.Name, spec)
	return s
}

// PositionalIndex finds a positional parameter by name.
func (s *Signature) PositionalIndex(name string) (int, bool) {
	for i, p := range s.Positional {
		if p.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Flag looks up a named flag.
func (s *Signature) Flag(name string) (NamedSpec, bool) {
	if s.named == nil {
		return NamedSpec{}, false
	}
	return s.named.Get(name)
}

// Flags lists the named flags in declaration order.
func (s *Signature) Flags() []NamedSpec {
	if s.named == nil {
		return nil
	}
	out := make([]NamedSpec, 0, s.named.Len())
	for pair := s.named.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// HasFlags is true if any named flags were declared.
func (s *Signature) HasFlags() bool {
	return s.named != nil && s.named.Len() > 0
}

// UsageLine renders a synopsis like: mkdir [--parents] <path> [mode] ...rest
func (s *Signature) UsageLine() string {
	parts := []string{s.Name}
	for _, f := range s.Flags() {
		switch f.Kind {
		case NamedSwitch:
			parts = append(parts, fmt.Sprintf("[--%s]", f.Name))
		case NamedOptional:
			parts = append(parts, fmt.Sprintf("[--%s <%s>]", f.Name, f.Shape))
		case NamedMandatory:
			parts = append(parts, fmt.Sprintf("--%s <%s>", f.Name, f.Shape))
		}
	}
	for _, p := range s.Positional {
		if p.Required {
			parts = append(parts, fmt.Sprintf("<%s>", p.Name))
		} else {
			parts = append(parts, fmt.Sprintf("[%s]", p.Name))
		}
	}
	if s.Rest != nil {
		parts = append(parts, "..."+RestName)
	}
	return strings.Join(parts, " ")
}

// PrintHelp writes the usage, synopsis and parameter table.
func (s *Signature) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, s.Usage)
	fmt.Fprintln(w)
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.UsageLine())

	if len(s.Positional) == 0 && s.Rest == nil && !s.HasFlags() {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Parameters:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range s.Positional {
		fmt.Fprintf(tw, "  %s\t<%s>\t%s\n", p.Name, p.Shape, p.Description)
	}
	if s.Rest != nil {
		fmt.Fprintf(tw, "  ...%s\t<%s>\t%s\n", RestName, s.Rest.Shape, s.Rest.Description)
	}
	for _, f := range s.Flags() {
		shape := ""
		if f.TakesValue() {
			shape = fmt.Sprintf("<%s>", f.Shape)
		}
		fmt.Fprintf(tw, "  --%s\t%s\t%s\n", f.Name, shape, f.Description)
	}
	tw.Flush()
}

type jsonSignature struct {
	Name       string                                    `json:"name"`
	Usage      string                                    `json:"usage"`
	Positional []PositionalSpec                          `json:"positional"`
	Rest       *RestSpec                                 `json:"rest,omitempty"`
	Named      *orderedmap.OrderedMap[string, NamedSpec] `json:"named"`
}

// MarshalJSON implements json.Marshaler, named flags keep declaration order.
func (s *Signature) MarshalJSON() ([]byte, error) {
	named := s.named
	if named == nil {
		named = orderedmap.New[string, NamedSpec]()
	}
	positional := s.Positional
	if positional == nil {
		positional = []PositionalSpec{}
	}
	return json.Marshal(jsonSignature{
		Name:       s.Name,
		Usage:      s.Usage,
		Positional: positional,
		Rest:       s.Rest,
		Named:      named,
	})
}
