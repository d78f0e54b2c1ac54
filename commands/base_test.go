package commands

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/josephlewis42/queenshell/core/parser"
	"github.com/josephlewis42/queenshell/core/registry"
	"github.com/josephlewis42/queenshell/core/shell"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHome = "/home/user"

type testEnv struct {
	ctx   *registry.Context
	shell *shell.FilesystemShell
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testHome+"/src", 0755))
	for _, name := range []string{"a.txt", "b.go", "src/main.go"} {
		require.NoError(t, afero.WriteFile(fs, testHome+"/"+name, []byte(name), 0644))
	}

	sh, err := shell.NewFilesystemShell(fs, testHome, nil, io.Discard)
	require.NoError(t, err)

	reg := registry.New()
	RegisterAll(reg)

	return &testEnv{
		ctx:   registry.NewContext(reg, sh),
		shell: sh,
	}
}

// run executes a line and returns its output one value per line.
func (e *testEnv) run(t *testing.T, line string) ([]string, error) {
	t.Helper()

	pipeline, err := parser.Parse(line, e.ctx.Registry)
	if err != nil {
		return nil, err
	}

	values, err := e.ctx.RunPipeline(pipeline, line)
	var out []string
	for _, v := range values {
		out = append(out, v.String())
	}
	return out, err
}

func TestAllCommands(t *testing.T) {
	for _, cmd := range ListBuiltinCommands() {
		t.Run(cmd.Name(), func(t *testing.T) {
			require.NotNil(t, cmd.Signature())
			assert.Equal(t, cmd.Name(), cmd.Signature().Name)
			assert.NotEmpty(t, cmd.Usage())
		})
	}

	reg := registry.New()
	RegisterAll(reg)
	assert.Equal(t, []string{"cat", "cd", "echo", "help", "ls", "mkdir", "pwd", "rm", "rmdir", "touch", "wc"}, reg.Names())
}

func TestFilesystemCommands(t *testing.T) {
	cases := map[string]struct {
		line     string
		expected []string
	}{
		"pwd":          {"pwd", []string{testHome}},
		"cd then pwd":  {"cd src; pwd", []string{testHome + "/src"}},
		"cd home":      {"cd src; cd; pwd", []string{testHome}},
		"cd tilde":     {"cd /; cd ~/src; pwd", []string{testHome + "/src"}},
		"ls":           {"ls", []string{"f: a.txt", "f: b.go", "d: src"}},
		"ls directory": {"ls src", []string{"f: main.go"}},
		"ls glob":      {"ls *.go", []string{"f: b.go"}},
		"mkdir":        {"mkdir x/y z; ls", []string{"f: a.txt", "f: b.go", "d: src", "d: x", "d: z"}},
		"mkdir nested": {"mkdir x/y; cd x; ls", []string{"d: y"}},
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

func TestCdBindsDestination(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "cd src")
	require.NoError(t, err)
	assert.Equal(t, testHome+"/src", env.shell.Path())
}

func TestCommandErrors(t *testing.T) {
	cases := map[string]struct {
		line     string
		expected string
	}{
		"cd missing":     {"cd nope", "cd: no such directory: nope"},
		"cd extra":       {"cd a b", "unexpected argument"},
		"ls missing":     {"ls nope", `ls: cannot access "nope": no such file or directory`},
		"mkdir operand":  {"mkdir", "mkdir: missing operand"},
		"help unknown":   {"help frob", "Could not load command: frob"},
		"unknown flag":   {"pwd --all", "unknown flag --all"},
		"external":       {"frob", "frob: command not found"},
		"stops on error": {"cd nope; mkdir new", "cd: no such directory: nope"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.run(t, tc.line)
			require.Error(t, err)
			assert.Equal(t, tc.expected, shellerr.From(err).Proximate.Reason)

			exists, statErr := afero.DirExists(env.shell.Fs(), testHome+"/new")
			require.NoError(t, statErr)
			assert.False(t, exists)
		})
	}
}

func TestLsCancelled(t *testing.T) {
	env := newTestEnv(t)

	pipeline, err := parser.Parse("ls", env.ctx.Registry)
	require.NoError(t, err)
	internal := pipeline.Commands[0].(*parser.InternalCommand)

	env.ctx.Cancel.Store(true)
	out, err := env.ctx.RunInternal(internal, "ls", nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNoShell(t *testing.T) {
	reg := registry.New()
	RegisterAll(reg)
	ctx := registry.NewContext(reg, nil)

	pipeline, err := parser.Parse("pwd", reg)
	require.NoError(t, err)

	_, err = ctx.RunPipeline(pipeline, "pwd")
	assert.EqualError(t, err, "pwd: no shell available")
}

func TestHelp(t *testing.T) {
	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)

	cases := map[string]string{
		"help-list": "help",
		"help-echo": "help echo",
		"help-cd":   "help cd",
	}

	for tn, line := range cases {
		env := newTestEnv(t)
		out, err := env.run(t, line)
		require.NoError(t, err)

		var buf bytes.Buffer
		buf.WriteString(strings.Join(out, "\n"))
		buf.WriteString("\n")
		g.Assert(t, tn, buf.Bytes())
	}
}
