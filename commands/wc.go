package commands

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/josephlewis42/queenshell/core/deserializer"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
)

type wcCount struct {
	bytes int
	lines int
	chars int
	words int
	name  string

	inSpace bool
}

func (w *wcCount) Write(data []byte) (int, error) {
	for _, c := range data {
		isFirstByte := w.bytes == 0
		w.bytes++

		// Assume UTF-8, continuation bytes start with 0b10.
		if c < 0b10000000 || c > 0b10111111 {
			w.chars++
		}

		if c == '\n' {
			w.lines++
		}

		if unicode.IsSpace(rune(c)) {
			w.inSpace = true
		} else {
			if w.inSpace || isFirstByte {
				w.words++
			}
			w.inSpace = false
		}
	}

	return len(data), nil
}

func (w *wcCount) add(other *wcCount) {
	w.bytes += other.bytes
	w.chars += other.chars
	w.lines += other.lines
	w.words += other.words
}

// WcArgs are the arguments of wc.
type WcArgs struct {
	Lines bool
	Words bool
	Bytes bool
	Chars bool
	Paths []string
}

func (a *WcArgs) DecodeArgs(d *deserializer.Decoder) error {
	a.Lines = d.Bool("lines")
	a.Words = d.Bool("words")
	a.Bytes = d.Bool("bytes")
	a.Chars = d.Bool("chars")
	a.Paths = d.Rest(signature.RestName)
	return d.Err()
}

// columns picks the counts to show, lines, words and bytes if none were asked
// for.
func (a *WcArgs) columns() []func(*wcCount) int {
	nonePicked := !(a.Lines || a.Words || a.Bytes || a.Chars)

	var cols []func(*wcCount) int
	if a.Lines || nonePicked {
		cols = append(cols, func(w *wcCount) int { return w.lines })
	}
	if a.Words || nonePicked {
		cols = append(cols, func(w *wcCount) int { return w.words })
	}
	if a.Bytes || nonePicked {
		cols = append(cols, func(w *wcCount) int { return w.bytes })
	}
	if a.Chars {
		cols = append(cols, func(w *wcCount) int { return w.chars })
	}
	return cols
}

// Wc counts the newlines, words and bytes of files.
var Wc = &SimpleCommand{
	Sig: signature.Build("wc").
		Desc("Count the newlines, words and bytes in files.").
		Switch("lines", "print the newline counts").
		Switch("words", "print the word counts").
		Switch("bytes", "print the byte counts").
		Switch("chars", "print the character counts").
		RestArgs(signature.ShapePath, "files to count"),
	Callback: func(inv *Invocation) ([]value.Value, error) {
		var args WcArgs
		if err := inv.Bind(&args); err != nil {
			return nil, err
		}
		files, err := inv.RequireFiles()
		if err != nil {
			return nil, err
		}
		if len(args.Paths) == 0 {
			return nil, shellerr.RuntimeError("wc: missing operand")
		}

		var counts []*wcCount
		for _, name := range args.Paths {
			if inv.Cancel.Load() {
				break
			}
			fd, err := files.Fs().Open(files.Resolve(name))
			if err != nil {
				return nil, shellerr.RuntimeErrorf("wc: %s: no such file or directory", name)
			}

			count := &wcCount{name: name}
			_, err = io.Copy(count, fd)
			fd.Close()
			if err != nil {
				return nil, shellerr.Wrap(err, shellerr.RuntimeErrorf("wc: %s", name))
			}
			counts = append(counts, count)
		}

		if len(counts) > 1 {
			total := &wcCount{name: "total"}
			for _, count := range counts {
				total.add(count)
			}
			counts = append(counts, total)
		}

		cols := args.columns()
		var out []value.Value
		for _, count := range counts {
			var fields []string
			for _, col := range cols {
				fields = append(fields, fmt.Sprint(col(count)))
			}
			fields = append(fields, count.name)
			out = append(out, value.String(strings.Join(fields, " ")))
		}
		return out, nil
	},
}

func init() {
	addCommand(Wc)
}
