package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnescape(t *testing.T) {
	cases := []struct {
		escaped  string
		expected string
	}{
		{"not escaped", "not escaped"},
		{`newline\n`, "newline\n"},
		{`double-escape\\n`, `double-escape\n`},
		{`double-escape\\n`, `double-escape\n`},
		// Octal
		{`\07`, string(rune(7))},
		{`\011`, "\t"},
		{`\0101`, "A"},
		// Hex
		{`\x7`, string(rune(07))},
		{`\x9`, "\t"},
		{`\x4A`, "J"},
	}

	for _, tc := range cases {
		t.Run(tc.escaped, func(t *testing.T) {
			actual := unescape(tc.escaped)

			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestEcho(t *testing.T) {
	cases := map[string]struct {
		line     string
		expected []string
	}{
		"words":          {"echo hello world", []string{"hello world"}},
		"no words":       {"echo", []string{""}},
		"quoted":         {`echo "hello  world" x`, []string{"hello  world x"}},
		"upper":          {"echo --upper hello world", []string{"HELLO WORLD"}},
		"escape":         {`echo --escape 'a\tb'`, []string{"a\tb"}},
		"no escape":      {`echo 'a\tb'`, []string{`a\tb`}},
		"two lines":      {"echo a; echo b", []string{"a", "b"}},
		"flag after arg": {"echo a --upper", []string{"A"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			env := newTestEnv(t)
			out, err := env.run(t, tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, out)
		})
	}
}
