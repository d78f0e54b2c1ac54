package core

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/josephlewis42/queenshell/core/logger"
	"github.com/josephlewis42/queenshell/core/parser"
	"github.com/josephlewis42/queenshell/core/registry"
	"github.com/josephlewis42/queenshell/core/shell"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/value"
)

const (
	DefaultPrompt = `\u@\h:\w\$ `

	exitCommand = "exit"
)

var (
	ColorBoldBlue  = forceColor(color.New(color.FgBlue, color.Bold))
	ColorBoldGreen = forceColor(color.New(color.FgGreen, color.Bold))
	ColorBoldRed   = forceColor(color.New(color.FgRed, color.Bold))
)

// forceColor makes c ignore whether the process's own stdout is a terminal,
// sessions decide for themselves through ColorPrinter.
func forceColor(c *color.Color) *color.Color {
	c.EnableColor()
	return c
}

// ColorPrinter colors text only when enabled.
type ColorPrinter struct {
	Enabled bool
}

func (c ColorPrinter) Sprint(col *color.Color, text string) string {
	if !c.Enabled || text == "" {
		return text
	}
	return col.Sprint(text)
}

// LineEditor reads lines after displaying a prompt, it's satisfied by
// *readline.Instance.
type LineEditor interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

var _ LineEditor = (*readline.Instance)(nil)

// InterpreterOptions customize an Interpreter.
type InterpreterOptions struct {
	// Prompt is the template shown before each line, DefaultPrompt if empty.
	Prompt   string
	Hostname string
	User     string
	Colors   ColorPrinter
	// Logger records events, nothing is recorded if nil.
	Logger *logger.SessionLogger
	// ErrorLog receives failures to record events.
	ErrorLog *log.Logger
}

// Interpreter parses and runs lines against a registry and shell.
type Interpreter struct {
	ctx  *registry.Context
	out  io.Writer
	opts InterpreterOptions

	// line is the source of the pipeline being run.
	line string
}

// NewInterpreter creates an interpreter writing output to out.
func NewInterpreter(reg *registry.Registry, sh shell.Shell, out io.Writer, opts InterpreterOptions) *Interpreter {
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	if opts.ErrorLog == nil {
		opts.ErrorLog = log.New(io.Discard, "", 0)
	}

	interp := &Interpreter{
		ctx:  registry.NewContext(reg, sh),
		out:  out,
		opts: opts,
	}
	interp.ctx.OnCommand = interp.logCommand
	return interp
}

// Context is the command context shared by every line.
func (i *Interpreter) Context() *registry.Context {
	return i.ctx
}

// Interrupt asks the running command to stop.
func (i *Interpreter) Interrupt() {
	i.ctx.Cancel.Store(true)
}

// Prompt renders the prompt template: \w is the working directory with the
// home directory abbreviated to ~, \h the hostname, \u the user and \$ a
// dollar sign.
func (i *Interpreter) Prompt() string {
	pwd := ""
	if sh := i.ctx.Shell; sh != nil {
		pwd = sh.Path()
		home := sh.HomeDir()
		if pwd == home || strings.HasPrefix(pwd, home+"/") {
			pwd = "~" + strings.TrimPrefix(pwd, home)
		}
	}

	colors := i.opts.Colors
	return strings.NewReplacer(
		`\u`, colors.Sprint(ColorBoldGreen, i.opts.User),
		`\h`, colors.Sprint(ColorBoldGreen, i.opts.Hostname),
		`\w`, colors.Sprint(ColorBoldBlue, pwd),
		`\$`, "$",
	).Replace(i.opts.Prompt)
}

// Execute parses and runs a line, returning its output. Parse failures are
// returned without running anything.
func (i *Interpreter) Execute(line string) ([]value.Value, error) {
	i.ctx.Cancel.Store(false)
	i.line = line

	pipeline, err := parser.Parse(line, i.ctx.Registry)
	if err != nil {
		i.logParseFailure(line, shellerr.From(err))
		return nil, err
	}

	return i.ctx.RunPipeline(pipeline, line)
}

// RunLine executes a line and prints its output and any error. It returns
// false if the line asked to exit.
func (i *Interpreter) RunLine(line string) bool {
	if strings.TrimSpace(line) == exitCommand {
		return false
	}

	out, err := i.Execute(line)
	fmt.Fprint(i.out, FormatValues(out))
	if err != nil {
		i.PrintError(line, err)
	}
	return true
}

// PrintError writes err for display, parse errors are rendered under the
// line that caused them.
func (i *Interpreter) PrintError(line string, err error) {
	shellErr := shellerr.From(err)
	if shellErr.IsParse() {
		fmt.Fprintln(i.out, shellErr.Render(line))
	} else {
		fmt.Fprintf(i.out, "%s %s\n", i.opts.Colors.Sprint(ColorBoldRed, "error:"), shellErr.Error())
	}

	for _, cause := range shellErr.Chain()[1:] {
		fmt.Fprintf(i.out, "  caused by: %s\n", cause.Render(line))
	}
}

// Run reads and runs lines until the input ends or exit is entered.
func (i *Interpreter) Run(editor LineEditor) error {
	for {
		editor.SetPrompt(i.Prompt())
		line, err := editor.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue // Discard the line being edited.

		case err != nil:
			return err

		case strings.TrimSpace(line) == "":
			continue

		default:
			if !i.RunLine(line) {
				return nil
			}
		}
	}
}

func (i *Interpreter) record(event logger.LogType) {
	if i.opts.Logger == nil {
		return
	}
	if err := i.opts.Logger.Record(event); err != nil {
		i.opts.ErrorLog.Printf("couldn't record event: %v", err)
	}
}

func (i *Interpreter) logParseFailure(line string, err *shellerr.ShellError) {
	sp := err.Proximate.Span
	i.record(&logger.ParseFailure{
		Source: line,
		Reason: err.Proximate.Reason,
		Start:  sp.Start,
		End:    sp.End,
	})
}

func (i *Interpreter) logCommand(cmd parser.ClassifiedCommand, err error) {
	switch cmd := cmd.(type) {
	case *parser.InternalCommand:
		var args []string
		for _, tok := range cmd.Call.Positional {
			args = append(args, parser.Content(tok, i.line))
		}
		i.record(&logger.RunCommand{
			Name:   cmd.Name,
			Args:   args,
			Source: cmd.Span().Slice(i.line),
		})
		if err != nil {
			i.record(&logger.CommandError{Name: cmd.Name, Error: err.Error()})
		}

	case *parser.ExternalCommand:
		i.record(&logger.UnknownCommand{Name: cmd.Name, Args: cmd.Args.Args})
	}
}

// FormatValues renders values one per line.
func FormatValues(values []value.Value) string {
	var sb strings.Builder
	for _, v := range values {
		sb.WriteString(v.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
