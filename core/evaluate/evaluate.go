// Package evaluate turns token-valued calls into runtime values.
package evaluate

import (
	"encoding/json"

	"github.com/josephlewis42/queenshell/core/parser"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/span"
	"github.com/josephlewis42/queenshell/core/value"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// EvaluatedArgs are the values of a call's arguments. Absent flags are left
// out of Named.
type EvaluatedArgs struct {
	// Positional is nil if no positional arguments were given.
	Positional []value.Value
	// Named is nil if the command declares no flags.
	Named *orderedmap.OrderedMap[string, value.Value]
}

// Nth returns the i-th positional argument.
func (e EvaluatedArgs) Nth(i int) (value.Value, bool) {
	if i < 0 || i >= len(e.Positional) {
		return value.Nothing(), false
	}
	return e.Positional[i], true
}

// Get returns a flag's value if it was given.
func (e EvaluatedArgs) Get(name string) (value.Value, bool) {
	if e.Named == nil {
		return value.Nothing(), false
	}
	return e.Named.Get(name)
}

// Has is true if the flag was given.
func (e EvaluatedArgs) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

type jsonArgs struct {
	Positional []value.Value                               `json:"positional"`
	Named      *orderedmap.OrderedMap[string, value.Value] `json:"named"`
}

// MarshalJSON implements json.Marshaler.
func (e EvaluatedArgs) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonArgs(e))
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *EvaluatedArgs) UnmarshalJSON(data []byte) error {
	var in jsonArgs
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = EvaluatedArgs(in)
	return nil
}

// CallInfo is everything a command gets to know about how it was invoked.
type CallInfo struct {
	Name     string        `json:"name"`
	NameSpan span.Span     `json:"name_span"`
	Args     EvaluatedArgs `json:"args"`
}

// Evaluate converts every argument of call into a value.
func Evaluate(call *parser.Call, source string) (EvaluatedArgs, error) {
	var out EvaluatedArgs

	for _, tok := range call.Positional {
		v, err := Token(tok, source)
		if err != nil {
			return EvaluatedArgs{}, err
		}
		out.Positional = append(out.Positional, v)
	}

	if call.Named != nil {
		out.Named = orderedmap.New[string, value.Value]()

		var err error
		call.Named.Each(func(name string, nv parser.NamedValue) {
			if err != nil {
				return
			}
			switch nv.Kind {
			case parser.PresentSwitch:
				out.Named.Set(name, value.Boolean(true))
			case parser.Value:
				var v value.Value
				if v, err = Token(nv.Token, source); err == nil {
					out.Named.Set(name, v)
				}
			}
		})
		if err != nil {
			return EvaluatedArgs{}, err
		}
	}

	return out, nil
}

// EvaluateCall evaluates a classified internal command.
func EvaluateCall(cmd *parser.InternalCommand, source string) (*CallInfo, error) {
	args, err := Evaluate(cmd.Call, source)
	if err != nil {
		return nil, err
	}
	return &CallInfo{Name: cmd.Name, NameSpan: cmd.NameSpan, Args: args}, nil
}

// Token evaluates a single word. Words evaluate to their text, globs are not
// expanded here.
func Token(tok parser.SpannedToken, source string) (value.Value, error) {
	switch tok.Item.Kind {
	case parser.TokenString:
		return value.String(tok.Item.Inner.Slice(source)), nil
	case parser.TokenBare, parser.TokenGlobPattern, parser.TokenExternalWord:
		return value.String(parser.Literal(tok, source)), nil
	default:
		return value.Nothing(), shellerr.RuntimeErrorf("unexpected %s", tok.Item.Kind.Desc())
	}
}
