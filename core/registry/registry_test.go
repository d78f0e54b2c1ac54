package registry

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/josephlewis42/queenshell/core/deserializer"
	"github.com/josephlewis42/queenshell/core/evaluate"
	"github.com/josephlewis42/queenshell/core/parser"
	"github.com/josephlewis42/queenshell/core/shell"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wordsArgs struct {
	Words []string
}

func (a *wordsArgs) DecodeArgs(d *deserializer.Decoder) error {
	a.Words = d.Rest(signature.RestName)
	return d.Err()
}

// echoCommand outputs each of its arguments.
type echoCommand struct{}

func (echoCommand) Name() string  { return "echo" }
func (echoCommand) Usage() string { return "Output each argument." }

func (c echoCommand) Signature() *signature.Signature {
	return signature.Build(c.Name()).Desc(c.Usage()).RestArgs(signature.ShapeAny, "words")
}

func (c echoCommand) Run(call *evaluate.CallInfo, _ []value.Value, _ *atomic.Bool, _ shell.Shell, _ *Registry) ([]value.Value, error) {
	var args wordsArgs
	if err := deserializer.Decode(c.Signature(), call.Args, &args); err != nil {
		return nil, err
	}

	var out []value.Value
	for _, word := range args.Words {
		out = append(out, value.String(word))
	}
	return out, nil
}

// failCommand always fails with a plain error.
type failCommand struct{}

func (failCommand) Name() string                    { return "fail" }
func (failCommand) Usage() string                   { return "Always fail." }
func (failCommand) Signature() *signature.Signature { return signature.Build("fail") }

func (failCommand) Run(*evaluate.CallInfo, []value.Value, *atomic.Bool, shell.Shell, *Registry) ([]value.Value, error) {
	return nil, fmt.Errorf("it broke")
}

func newTestRegistry() *Registry {
	reg := New()
	reg.Register(echoCommand{})
	reg.Register(failCommand{})
	return reg
}

func TestRegistry(t *testing.T) {
	reg := newTestRegistry()

	assert.Equal(t, []string{"echo", "fail"}, reg.Names())
	assert.Len(t, reg.Commands(), 2)
	assert.True(t, reg.Has("echo"))
	assert.False(t, reg.Has("cat"))

	sig, ok := reg.Signature("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", sig.Name)

	_, ok = reg.Signature("cat")
	assert.False(t, ok)

	reg.Register(echoCommand{})
	assert.Equal(t, []string{"echo", "fail"}, reg.Names(), "re-registering keeps the position")
}

func TestExpectCommand(t *testing.T) {
	reg := newTestRegistry()

	cmd, err := reg.ExpectCommand("echo")
	require.NoError(t, err)
	assert.Equal(t, "echo", cmd.Name())

	_, err = reg.ExpectCommand("foo")
	require.Error(t, err)
	assert.Equal(t, "Could not load command: foo", err.Error())
	assert.True(t, shellerr.From(err).IsRuntime())
}

func TestRunInternalUnknown(t *testing.T) {
	ctx := NewContext(newTestRegistry(), nil)

	_, err := ctx.RunInternal(&parser.InternalCommand{Name: "foo", Call: &parser.Call{}}, "foo", nil)
	require.Error(t, err)
	assert.Equal(t, "Could not load command: foo", err.Error())
}

func TestRunPipeline(t *testing.T) {
	run := func(t *testing.T, ctx *Context, src string) ([]string, error) {
		t.Helper()

		pipeline, err := parser.Parse(src, ctx.Registry)
		require.NoError(t, err)

		values, err := ctx.RunPipeline(pipeline, src)
		var out []string
		for _, v := range values {
			out = append(out, v.String())
		}
		return out, err
	}

	t.Run("commands run in order", func(t *testing.T) {
		ctx := NewContext(newTestRegistry(), nil)
		out, err := run(t, ctx, "echo a 'b c'; echo d")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b c", "d"}, out)
		assert.Empty(t, ctx.Errors())
	})

	t.Run("stops at unknown command", func(t *testing.T) {
		ctx := NewContext(newTestRegistry(), nil)

		var seen []string
		ctx.OnCommand = func(cmd parser.ClassifiedCommand, err error) {
			seen = append(seen, fmt.Sprintf("%s %v", cmd.CommandName(), err))
		}

		out, err := run(t, ctx, "echo a; frob x; echo b")
		assert.EqualError(t, err, "frob: command not found")
		assert.Equal(t, []string{"a"}, out)
		assert.Equal(t, []string{"echo <nil>", "frob frob: command not found"}, seen)
		require.Len(t, ctx.Errors(), 1)
	})

	t.Run("command errors become runtime errors", func(t *testing.T) {
		ctx := NewContext(newTestRegistry(), nil)
		_, err := run(t, ctx, "fail")
		require.Error(t, err)

		shellErr := shellerr.From(err)
		assert.True(t, shellErr.IsRuntime())
		assert.Equal(t, "it broke", shellErr.Error())
	})

	t.Run("custom external runner", func(t *testing.T) {
		ctx := NewContext(newTestRegistry(), nil)
		ctx.External = func(cmd *parser.ExternalCommand, _ shell.Shell) ([]value.Value, error) {
			return []value.Value{value.String(cmd.Name), value.IntFrom(int64(len(cmd.Args.Args)))}, nil
		}

		out, err := run(t, ctx, "frob x y")
		require.NoError(t, err)
		assert.Equal(t, []string{"frob", "2"}, out)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx := NewContext(newTestRegistry(), nil)
		ctx.Cancel.Store(true)

		out, err := run(t, ctx, "echo a")
		assert.EqualError(t, err, "interrupted")
		assert.Empty(t, out)
	})
}

func TestErrorsAreCapped(t *testing.T) {
	ctx := NewContext(newTestRegistry(), nil)
	pipeline, err := parser.Parse("fail", ctx.Registry)
	require.NoError(t, err)

	for i := 0; i < MaxErrors+10; i++ {
		_, err := ctx.RunPipeline(pipeline, "fail")
		require.Error(t, err)
	}
	assert.Len(t, ctx.Errors(), MaxErrors)

	ctx.External = func(*parser.ExternalCommand, shell.Shell) ([]value.Value, error) {
		return nil, fmt.Errorf("latest")
	}
	external, err := parser.Parse("frob", ctx.Registry)
	require.NoError(t, err)
	_, err = ctx.RunPipeline(external, "frob")
	require.Error(t, err)

	errs := ctx.Errors()
	require.Len(t, errs, MaxErrors)
	assert.Equal(t, "latest", errs[len(errs)-1].Error())
}

func TestConcurrentAccess(t *testing.T) {
	reg := newTestRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.Register(echoCommand{})
		}()
		go func() {
			defer wg.Done()
			_, _ = reg.ExpectCommand("echo")
			_ = reg.Names()
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"echo", "fail"}, reg.Names())
}
