package commands

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/josephlewis42/queenshell/core/deserializer"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
)

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-7][0-7]?[0-7]?`)
	unescapeHex     = regexp.MustCompile(`\\x[0-9a-fA-F][0-9a-fA-F]?`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n", // newline
		`\r`, "\r", // carriage return
		`\t`, "\t", // horizontal tab
		`\\`, `\`, // backslash literal
		`\b`, "\b", // backspace
		`\a`, "\a", // alert
		`\f`, "\f", // form feed
		`\v`, "\v", // vertical tab
	)
)

func unescape(s string) string {
	s = unescapeReplace.Replace(s)
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 8, 32)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	s = unescapeHex.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 16, 32)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	return s
}

// EchoArgs are the arguments of echo.
type EchoArgs struct {
	Upper  bool
	Escape bool
	Words  []string
}

func (a *EchoArgs) DecodeArgs(d *deserializer.Decoder) error {
	a.Upper = d.Bool("upper")
	a.Escape = d.Bool("escape")
	a.Words = d.Rest(signature.RestName)
	return d.Err()
}

// Echo outputs its arguments joined by spaces.
var Echo = &SimpleCommand{
	Sig: signature.Build("echo").
		Desc("Display a line of text.").
		Switch("upper", "convert the text to upper case").
		Switch("escape", "interpret backslash escapes").
		RestArgs(signature.ShapeAny, "words to display"),
	Callback: func(inv *Invocation) ([]value.Value, error) {
		var args EchoArgs
		if err := inv.Bind(&args); err != nil {
			return nil, err
		}

		text := strings.Join(args.Words, " ")
		if args.Escape {
			text = unescape(text)
		}
		if args.Upper {
			text = strings.ToUpper(text)
		}
		return []value.Value{value.String(text)}, nil
	},
}

func init() {
	addCommand(Echo)
}
