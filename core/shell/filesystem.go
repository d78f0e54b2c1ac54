package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/value"
	"github.com/spf13/afero"
)

// LineReader supplies input lines, e.g. a readline instance.
type LineReader interface {
	Readline() (string, error)
}

// FilesystemShell is a Shell over an afero filesystem.
type FilesystemShell struct {
	fs   afero.Fs
	home string
	cwd  string

	in  LineReader
	out io.Writer
}

var _ Shell = (*FilesystemShell)(nil)

// NewFilesystemShell creates a shell that starts in home, creating it if
// needed. in may be nil if the shell never reads input.
func NewFilesystemShell(fs afero.Fs, home string, in LineReader, out io.Writer) (*FilesystemShell, error) {
	home = filepath.Clean(home)
	if !filepath.IsAbs(home) {
		return nil, fmt.Errorf("home directory must be absolute, got %q", home)
	}
	if err := fs.MkdirAll(home, 0755); err != nil {
		return nil, fmt.Errorf("couldn't create home directory: %w", err)
	}

	return &FilesystemShell{
		fs:   fs,
		home: home,
		cwd:  home,
		in:   in,
		out:  out,
	}, nil
}

func (s *FilesystemShell) Name() string {
	return "filesystem"
}

func (s *FilesystemShell) HomeDir() string {
	return s.home
}

func (s *FilesystemShell) Path() string {
	return s.cwd
}

// Fs returns the underlying filesystem.
func (s *FilesystemShell) Fs() afero.Fs {
	return s.fs
}

func (s *FilesystemShell) Readline() (string, error) {
	if s.in == nil {
		return "", io.EOF
	}
	return s.in.Readline()
}

func (s *FilesystemShell) Print(text string) {
	fmt.Fprint(s.out, text)
}

// Resolve makes name absolute, ~ expands to the home directory.
func (s *FilesystemShell) Resolve(name string) string {
	switch {
	case name == "~":
		return s.home
	case strings.HasPrefix(name, "~/"):
		return filepath.Join(s.home, name[2:])
	case filepath.IsAbs(name):
		return filepath.Clean(name)
	default:
		return filepath.Join(s.cwd, name)
	}
}

// display renders an absolute path relative to the working directory if it
// is below it.
func (s *FilesystemShell) display(abs string) string {
	rel, err := filepath.Rel(s.cwd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return abs
	}
	return rel
}

func (s *FilesystemShell) Ls(args LsArgs, cancel *atomic.Bool) ([]value.Value, error) {
	target := s.cwd
	if args.Path != nil {
		target = s.Resolve(*args.Path)
	}

	var matches []string
	isDir, err := afero.IsDir(s.fs, target)
	switch {
	case err == nil && isDir:
		infos, err := afero.ReadDir(s.fs, target)
		if err != nil {
			return nil, shellerr.Wrap(err, shellerr.RuntimeErrorf("ls: cannot read directory %q", s.display(target)))
		}
		for _, info := range infos {
			matches = append(matches, filepath.Join(target, info.Name()))
		}

	case err == nil:
		matches = []string{target}

	case hasMeta(target):
		matches, err = afero.Glob(s.fs, target)
		if err != nil {
			return nil, shellerr.Wrap(err, shellerr.RuntimeErrorf("ls: invalid pattern %q", s.display(target)))
		}
		if len(matches) == 0 {
			return nil, shellerr.RuntimeErrorf("ls: no matches for %q", s.display(target))
		}

	default:
		return nil, shellerr.RuntimeErrorf("ls: cannot access %q: no such file or directory", s.display(target))
	}

	var out []value.Value
	for _, match := range matches {
		if cancel != nil && cancel.Load() {
			break
		}

		info, err := s.fs.Stat(match)
		if err != nil {
			// Entries can disappear between listing and stat.
			continue
		}

		name := info.Name()
		if !isDir {
			name = s.display(match)
		}
		out = append(out, value.String(entryLine(info, name)))
	}

	return out, nil
}

func entryLine(info os.FileInfo, name string) string {
	if info.IsDir() {
		return "d: " + name
	}
	return "f: " + name
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, `*?[`)
}

func (s *FilesystemShell) Cd(args CdArgs) ([]value.Value, error) {
	target := s.home
	if args.Destination != nil {
		target = s.Resolve(*args.Destination)
	}

	ok, err := afero.DirExists(s.fs, target)
	switch {
	case err != nil:
		return nil, shellerr.Wrap(err, shellerr.RuntimeErrorf("cd: cannot access %q", s.display(target)))
	case !ok:
		name := target
		if args.Destination != nil {
			name = *args.Destination
		}
		return nil, shellerr.RuntimeErrorf("cd: no such directory: %s", name)
	}

	s.cwd = target
	return nil, nil
}

func (s *FilesystemShell) Mkdir(args MkdirArgs, cancel *atomic.Bool) ([]value.Value, error) {
	if len(args.Paths) == 0 {
		return nil, shellerr.RuntimeError("mkdir: missing operand")
	}

	for _, dir := range args.Paths {
		if cancel != nil && cancel.Load() {
			break
		}
		if err := s.fs.MkdirAll(s.Resolve(dir), 0755); err != nil {
			return nil, shellerr.Wrap(err, shellerr.RuntimeErrorf("mkdir: cannot create directory %q", dir))
		}
	}
	return nil, nil
}

func (s *FilesystemShell) Pwd() ([]value.Value, error) {
	return []value.Value{value.Path(s.cwd)}, nil
}
