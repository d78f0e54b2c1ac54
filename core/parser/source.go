package parser

import (
	"strings"
)

// Quote renders s so that lexing the result gives back s as a single word.
// Words that already lex as one plain token are returned unchanged. The
// grammar has no escapes, so a word containing both quote characters can't
// be represented and is wrapped in single quotes as-is.
func Quote(s string) string {
	if tokens, consumed := TokenList(s); len(tokens) == 1 && consumed.End == len(s) {
		switch tokens[0].Item.Kind {
		case TokenBare, TokenGlobPattern, TokenExternalWord:
			return s
		}
	}

	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		return `"` + s + `"`
	}
	return "'" + s + "'"
}

// Source renders the pipeline back to canonical shell text, commands joined
// by "; " and words by single spaces. Internal commands list their given
// flags first, in declaration order, followed by positional arguments.
func (p *Pipeline) Source(source string) string {
	var commands []string
	for _, cmd := range p.Commands {
		words := []string{Quote(cmd.CommandName())}

		switch cmd := cmd.(type) {
		case *InternalCommand:
			cmd.Call.Named.Each(func(name string, v NamedValue) {
				switch v.Kind {
				case PresentSwitch:
					words = append(words, "--"+name)
				case Value:
					words = append(words, "--"+name, Literal(v.Token, source))
				}
			})
			for _, tok := range cmd.Call.Positional {
				words = append(words, Literal(tok, source))
			}

		case *ExternalCommand:
			for _, arg := range cmd.Args.Args {
				words = append(words, Quote(arg))
			}
		}

		commands = append(commands, strings.Join(words, " "))
	}

	return strings.Join(commands, "; ")
}
