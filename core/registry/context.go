package registry

import (
	"sync"
	"sync/atomic"

	"github.com/josephlewis42/queenshell/core/evaluate"
	"github.com/josephlewis42/queenshell/core/parser"
	"github.com/josephlewis42/queenshell/core/shell"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/value"
)

// ExternalRunner runs a command that isn't a built-in.
type ExternalRunner func(cmd *parser.ExternalCommand, sh shell.Shell) ([]value.Value, error)

// CommandNotFound is the default ExternalRunner.
func CommandNotFound(cmd *parser.ExternalCommand, _ shell.Shell) ([]value.Value, error) {
	return nil, shellerr.RuntimeErrorf("%s: command not found", cmd.Name)
}

// MaxErrors is how many errors a Context keeps, older ones are dropped first.
const MaxErrors = 64

// Context is the state shared by the commands of one shell session.
type Context struct {
	Registry *Registry
	Shell    shell.Shell
	// Cancel is set to interrupt the running command.
	Cancel *atomic.Bool
	// External runs commands the registry doesn't know.
	External ExternalRunner
	// OnCommand, if set, is called after each command in a pipeline ran.
	OnCommand func(cmd parser.ClassifiedCommand, err error)

	mu     sync.Mutex
	errors []*shellerr.ShellError
}

// NewContext creates a context with a fresh cancellation flag.
func NewContext(reg *Registry, sh shell.Shell) *Context {
	return &Context{
		Registry: reg,
		Shell:    sh,
		Cancel:   &atomic.Bool{},
		External: CommandNotFound,
	}
}

// Errors returns the most recent errors pipelines run by this context failed
// with, oldest first.
func (c *Context) Errors() []*shellerr.ShellError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*shellerr.ShellError(nil), c.errors...)
}

func (c *Context) addError(err *shellerr.ShellError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, err)
	if over := len(c.errors) - MaxErrors; over > 0 {
		c.errors = append(c.errors[:0], c.errors[over:]...)
	}
}

// RunCommand evaluates the call of an internal command and runs cmd with it.
func (c *Context) RunCommand(cmd Command, internal *parser.InternalCommand, source string, input []value.Value) ([]value.Value, error) {
	call, err := evaluate.EvaluateCall(internal, source)
	if err != nil {
		return nil, err
	}

	out, err := cmd.Run(call, input, c.Cancel, c.Shell, c.Registry)
	if err != nil {
		return out, shellerr.From(err)
	}
	return out, nil
}

// RunInternal resolves an internal command by name and runs it.
func (c *Context) RunInternal(internal *parser.InternalCommand, source string, input []value.Value) ([]value.Value, error) {
	cmd, err := c.Registry.ExpectCommand(internal.Name)
	if err != nil {
		return nil, err
	}
	return c.RunCommand(cmd, internal, source, input)
}

// RunPipeline runs each command of the pipeline in order, nothing is passed
// between them. It stops at the first failure or when cancelled and returns
// the output produced until then.
func (c *Context) RunPipeline(pipeline *parser.Pipeline, source string) ([]value.Value, error) {
	var out []value.Value
	for _, cmd := range pipeline.Commands {
		if c.Cancel.Load() {
			return out, c.fail(shellerr.RuntimeError("interrupted"))
		}

		var values []value.Value
		var err error
		switch cmd := cmd.(type) {
		case *parser.InternalCommand:
			values, err = c.RunInternal(cmd, source, nil)
		case *parser.ExternalCommand:
			external := c.External
			if external == nil {
				external = CommandNotFound
			}
			values, err = external(cmd, c.Shell)
		}
		out = append(out, values...)

		if c.OnCommand != nil {
			c.OnCommand(cmd, err)
		}
		if err != nil {
			return out, c.fail(err)
		}
	}
	return out, nil
}

func (c *Context) fail(err error) error {
	shellErr := shellerr.From(err)
	c.addError(shellErr)
	return shellErr
}
