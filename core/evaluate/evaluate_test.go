package evaluate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/josephlewis42/queenshell/core/parser"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/span"
	"github.com/josephlewis42/queenshell/core/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCall(t *testing.T, sig *signature.Signature, source string) *parser.Call {
	t.Helper()

	tokens, err := parser.Tokenize(source)
	require.NoError(t, err)
	call, err := parser.BuildCall(sig, tokens[0], tokens[1:], source)
	require.NoError(t, err)
	return call
}

func TestEvaluate(t *testing.T) {
	sig := signature.Build("echo").
		Switch("upper", "").
		Named("sep", signature.ShapeString, "").
		Named("count", signature.ShapeInt, "").
		RestArgs(signature.ShapeAny, "")

	t.Run("words and flags", func(t *testing.T) {
		src := `echo --upper 'a b' *.go a,b --sep ", "`
		args, err := Evaluate(buildCall(t, sig, src), src)
		require.NoError(t, err)

		assert.Equal(t, []value.Value{value.String("a b"), value.String("*.go"), value.String("a,b")}, args.Positional)

		upper, ok := args.Get("upper")
		assert.True(t, ok)
		assert.Equal(t, value.Boolean(true), upper)

		sep, ok := args.Get("sep")
		assert.True(t, ok)
		assert.Equal(t, value.String(", "), sep)

		assert.False(t, args.Has("count"), "absent flags are omitted")
		assert.Equal(t, 2, args.Named.Len())
	})

	t.Run("no arguments", func(t *testing.T) {
		args, err := Evaluate(buildCall(t, sig, "echo"), "echo")
		require.NoError(t, err)
		assert.Nil(t, args.Positional)
		assert.NotNil(t, args.Named)
		assert.Equal(t, 0, args.Named.Len())

		_, ok := args.Nth(0)
		assert.False(t, ok)
	})

	t.Run("no flags declared", func(t *testing.T) {
		src := "cd src"
		args, err := Evaluate(buildCall(t, signature.Build("cd").Optional("destination", signature.ShapePath, ""), src), src)
		require.NoError(t, err)
		assert.Nil(t, args.Named)

		v, ok := args.Nth(0)
		assert.True(t, ok)
		assert.Equal(t, value.String("src"), v)
	})
}

func TestToken(t *testing.T) {
	for _, kind := range []parser.TokenKind{parser.TokenFlag, parser.TokenWhitespace, parser.TokenSeparator} {
		t.Run(kind.Desc(), func(t *testing.T) {
			_, err := Token(parser.Spanned(kind, span.New(0, 1)), " ")
			require.Error(t, err)
			assert.True(t, shellerr.From(err).IsRuntime())
			assert.Equal(t, "unexpected "+kind.Desc(), err.Error())
		})
	}
}

func TestEvaluateCall(t *testing.T) {
	src := "cd /tmp"
	pipeline, err := parser.Parse(src, signatures{"cd": signature.Build("cd").Optional("destination", signature.ShapePath, "")})
	require.NoError(t, err)

	info, err := EvaluateCall(pipeline.Commands[0].(*parser.InternalCommand), src)
	require.NoError(t, err)
	assert.Equal(t, "cd", info.Name)
	assert.Equal(t, span.New(0, 2), info.NameSpan)
	assert.Equal(t, []value.Value{value.String("/tmp")}, info.Args.Positional)
}

type signatures map[string]*signature.Signature

func (s signatures) Signature(name string) (*signature.Signature, bool) {
	sig, ok := s[name]
	return sig, ok
}

// roundTrip quotes s, lexes it back and evaluates the resulting word.
func roundTrip(t *testing.T, s string) value.Value {
	t.Helper()

	src := "echo " + parser.Quote(s)
	tokens, err := parser.Tokenize(src)
	require.NoError(t, err, "source: %q", src)
	require.Len(t, tokens, 3, "source: %q", src)

	v, err := Token(tokens[2], src)
	require.NoError(t, err)
	return v
}

func TestQuotedStringsRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"with space",
		"--looks-like-a-flag",
		"*.txt",
		"it's",
		`say "hi"`,
		"semi;colon",
		"$HOME",
		"trailing ",
		" leading",
		"multi\nline",
		"unicode ファイル",
	}

	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			assert.Equal(t, value.String(s), roundTrip(t, s))
		})
	}
}

func FuzzQuotedStringsRoundTrip(f *testing.F) {
	f.Add("plain")
	f.Add("it's")
	f.Add(`"x"`)

	f.Fuzz(func(t *testing.T, s string) {
		if strings.ContainsRune(s, '\'') && strings.ContainsRune(s, '"') {
			t.Skip("no quoting can represent both quote characters")
		}
		if got := roundTrip(t, s); !got.Equal(value.String(s)) {
			t.Fatalf("round trip of %q gave %#v", s, got)
		}
	})
}

func TestEvaluatedArgsJSON(t *testing.T) {
	src := "echo --upper x"
	sig := signature.Build("echo").Switch("upper", "").Named("sep", signature.ShapeString, "").RestArgs(signature.ShapeAny, "")
	args, err := Evaluate(buildCall(t, sig, src), src)
	require.NoError(t, err)

	out, err := json.Marshal(args)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"positional": [{"kind": "string", "value": "x"}],
		"named": {"upper": {"kind": "boolean", "value": true}}
	}`, string(out))

	var decoded EvaluatedArgs
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, args.Positional, decoded.Positional)
	upper, ok := decoded.Get("upper")
	assert.True(t, ok)
	assert.True(t, upper.Equal(value.Boolean(true)))
}
