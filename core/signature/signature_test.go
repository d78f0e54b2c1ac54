package signature

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirSignature() *Signature {
	return Build("mkdir").
		Desc("Make directories.").
		Switch("parents", "make parent directories").
		Required("path", ShapePath, "first directory").
		RestArgs(ShapePath, "more directories")
}

func TestPrintHelp(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)

	cases := map[string]*Signature{
		"mkdir-help": mkdirSignature(),
		"pwd-help":   Build("pwd").Desc("Print the working directory."),
	}

	for tn, sig := range cases {
		buf := &bytes.Buffer{}
		sig.PrintHelp(buf)
		g.Assert(t, tn, buf.Bytes())
	}
}

func TestUsageLine(t *testing.T) {
	cases := []struct {
		sig      *Signature
		expected string
	}{
		{Build("pwd"), "pwd"},
		{Build("cd").Optional("destination", ShapePath, ""), "cd [destination]"},
		{mkdirSignature(), "mkdir [--parents] <path> ...rest"},
		{Build("head").Named("lines", ShapeInt, "").RequiredNamed("file", ShapePath, ""), "head [--lines <int>] --file <path>"},
	}

	for _, tc := range cases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.sig.UsageLine())
		})
	}
}

func TestBuilder(t *testing.T) {
	t.Run("required after optional", func(t *testing.T) {
		assert.Panics(t, func() {
			Build("x").Optional("a", ShapeAny, "").Required("b", ShapeAny, "")
		})
	})

	t.Run("duplicate positional", func(t *testing.T) {
		assert.Panics(t, func() {
			Build("x").Required("a", ShapeAny, "").Optional("a", ShapeAny, "")
		})
	})

	t.Run("lookups", func(t *testing.T) {
		sig := Build("ls").
			Optional("path", ShapePattern, "").
			Switch("all", "").
			Named("width", ShapeInt, "")

		idx, ok := sig.PositionalIndex("path")
		assert.True(t, ok)
		assert.Equal(t, 0, idx)

		flag, ok := sig.Flag("width")
		require.True(t, ok)
		assert.True(t, flag.TakesValue())

		flag, ok = sig.Flag("all")
		require.True(t, ok)
		assert.False(t, flag.TakesValue())

		_, ok = sig.Flag("missing")
		assert.False(t, ok)

		var names []string
		for _, f := range sig.Flags() {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{"all", "width"}, names)
	})

	t.Run("zero value signature", func(t *testing.T) {
		sig := &Signature{Name: "bare"}
		assert.False(t, sig.HasFlags())
		assert.Empty(t, sig.Flags())
		_, ok := sig.Flag("x")
		assert.False(t, ok)
	})
}

func TestShapeAccepts(t *testing.T) {
	assert.True(t, ShapeInt.Accepts("-12"))
	assert.True(t, ShapeInt.Accepts("123456789012345678901234567890"))
	assert.False(t, ShapeInt.Accepts("1.5"))
	assert.True(t, ShapeNumber.Accepts("1.5"))
	assert.False(t, ShapeNumber.Accepts("abc"))
	assert.True(t, ShapePath.Accepts("abc"))
}

func TestShapeText(t *testing.T) {
	var shape SyntaxShape
	require.NoError(t, shape.UnmarshalText([]byte("pattern")))
	assert.Equal(t, ShapePattern, shape)
	assert.Error(t, shape.UnmarshalText([]byte("bogus")))
}

func TestJSON(t *testing.T) {
	out, err := json.Marshal(mkdirSignature())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"name": "mkdir",
		"usage": "Make directories.",
		"positional": [{"name": "path", "shape": "path", "required": true, "description": "first directory"}],
		"rest": {"shape": "path", "description": "more directories"},
		"named": {"parents": {"name": "parents", "kind": "switch", "shape": "any", "description": "make parent directories"}}
	}`, string(out))
}
