package parser

import (
	"fmt"

	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/signature"
)

// BuildCall binds argument tokens to the slots of a signature.
//
// Flags bind by name, switches are recorded where they appear and valued
// flags take the next word. Every other word fills the next positional slot
// and then the rest parameter. Numeric shapes are checked against the word's
// text, everything else is left for the command to interpret.
func BuildCall(sig *signature.Signature, head SpannedToken, args []SpannedToken, source string) (*Call, error) {
	call := &Call{Head: head, Span: head.Span}
	if sig.HasFlags() {
		call.Named = NewNamedArguments()
		for _, flag := range sig.Flags() {
			if flag.TakesValue() {
				call.Named.Set(flag.Name, NamedValue{Kind: AbsentValue})
			} else {
				call.Named.Set(flag.Name, NamedValue{Kind: AbsentSwitch})
			}
		}
	}

	for i := 0; i < len(args); i++ {
		tok := args[i]
		if IsSpace(tok) {
			continue
		}
		call.Span = call.Span.Until(tok.Span)

		if tok.Item.Kind == TokenFlag {
			name := tok.Item.Inner.Slice(source)
			flag, ok := sig.Flag(name)
			if !ok {
				return nil, shellerr.ParseError(tok.Span, fmt.Sprintf("unknown flag --%s", name))
			}

			if !flag.TakesValue() {
				call.Named.Set(name, SwitchPresent(tok.Span))
				continue
			}

			next := nextWord(args, i+1)
			if next < 0 || args[next].Item.Kind == TokenFlag {
				return nil, shellerr.ParseError(tok.Span, fmt.Sprintf("missing value for --%s", name))
			}
			if err := checkShape(flag.Shape, args[next], source); err != nil {
				return nil, err
			}
			call.Named.Set(name, ValueOf(args[next]))
			call.Span = call.Span.Until(args[next].Span)
			i = next
			continue
		}

		var shape signature.SyntaxShape
		switch slot := len(call.Positional); {
		case slot < len(sig.Positional):
			shape = sig.Positional[slot].Shape
		case sig.Rest != nil:
			shape = sig.Rest.Shape
		default:
			return nil, shellerr.ParseError(tok.Span, "unexpected argument")
		}
		if err := checkShape(shape, tok, source); err != nil {
			return nil, err
		}
		call.Positional = append(call.Positional, tok)
	}

	for _, p := range sig.Positional[min(len(call.Positional), len(sig.Positional)):] {
		if p.Required {
			return nil, shellerr.ParseError(head.Span, fmt.Sprintf("missing required argument <%s>", p.Name))
		}
	}
	for _, flag := range sig.Flags() {
		if v, _ := call.Named.Get(flag.Name); flag.Kind == signature.NamedMandatory && !v.IsPresent() {
			return nil, shellerr.ParseError(head.Span, fmt.Sprintf("missing required flag --%s", flag.Name))
		}
	}

	return call, nil
}

// nextWord finds the index of the next non-space token at or after start.
func nextWord(tokens []SpannedToken, start int) int {
	for i := start; i < len(tokens); i++ {
		if !IsSpace(tokens[i]) {
			return i
		}
	}
	return -1
}

func checkShape(shape signature.SyntaxShape, tok SpannedToken, source string) error {
	if shape.Accepts(Content(tok, source)) {
		return nil
	}
	return shellerr.ParseError(tok.Span, fmt.Sprintf("expected %s", shape))
}
