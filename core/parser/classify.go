package parser

import (
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/span"
)

// Signatures resolves command names to their signatures.
type Signatures interface {
	Signature(name string) (*signature.Signature, bool)
}

// Parse tokenizes and classifies a line.
func Parse(source string, sigs Signatures) (*Pipeline, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Classify(tokens, source, sigs)
}

// Classify splits tokens on separators and resolves each command. Commands
// with a registered signature become internal and get their call built,
// everything else is external.
func Classify(tokens []SpannedToken, source string, sigs Signatures) (*Pipeline, error) {
	pipeline := &Pipeline{}
	if len(tokens) > 0 {
		pipeline.Span = tokens[0].Span.Until(tokens[len(tokens)-1].Span)
	}

	for _, node := range splitNodes(tokens) {
		cmd, err := classifyNode(node, source, sigs)
		if err != nil {
			return nil, err
		}
		pipeline.Commands = append(pipeline.Commands, cmd)
	}

	return pipeline, nil
}

// splitNodes breaks tokens into commands, dropping whitespace around them.
// Empty commands are skipped.
func splitNodes(tokens []SpannedToken) [][]SpannedToken {
	var out [][]SpannedToken
	var current []SpannedToken

	flush := func() {
		for len(current) > 0 && current[len(current)-1].Item.Kind == TokenWhitespace {
			current = current[:len(current)-1]
		}
		if len(current) > 0 {
			out = append(out, current)
		}
		current = nil
	}

	for _, tok := range tokens {
		switch {
		case tok.Item.Kind == TokenSeparator:
			flush()
		case tok.Item.Kind == TokenWhitespace && len(current) == 0:
		default:
			current = append(current, tok)
		}
	}
	flush()

	return out
}

func classifyNode(node []SpannedToken, source string, sigs Signatures) (ClassifiedCommand, error) {
	head, args := node[0], node[1:]
	name := Content(head, source)

	if sig, ok := sigs.Signature(name); ok {
		call, err := BuildCall(sig, head, args, source)
		if err != nil {
			return nil, err
		}
		return &InternalCommand{Name: name, NameSpan: head.Span, Call: call}, nil
	}

	external := &ExternalCommand{
		Name:     name,
		NameSpan: head.Span,
		Args:     ExternalArgs{Span: span.New(head.Span.End, head.Span.End)},
	}
	var first, last *SpannedToken
	for i := range args {
		if IsSpace(args[i]) {
			continue
		}
		if first == nil {
			first = &args[i]
		}
		last = &args[i]
		external.Args.Args = append(external.Args.Args, Content(args[i], source))
	}
	if first != nil {
		external.Args.Span = first.Span.Until(last.Span)
	}

	return external, nil
}
