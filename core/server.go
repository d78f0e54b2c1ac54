package core

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"sync/atomic"

	"github.com/abiosoft/readline"
	"github.com/gliderlabs/ssh"
	"github.com/josephlewis42/queenshell/core/config"
	"github.com/josephlewis42/queenshell/core/logger"
	"github.com/josephlewis42/queenshell/core/registry"
	"github.com/josephlewis42/queenshell/core/shell"
	"github.com/juju/ratelimit"
	"github.com/spf13/afero"
)

// Server serves the shell over SSH. Every session works on its own writable
// layer over a shared read-only base filesystem.
type Server struct {
	configuration *config.Configuration
	registry      *registry.Registry
	base          afero.Fs
	logger        *logger.Logger
	errorLog      *log.Logger
	sshServer     *ssh.Server
}

// NewServer creates a server for the configuration. Events are recorded to
// eventLog and operational errors go to errorLog.
func NewServer(configuration *config.Configuration, reg *registry.Registry, eventLog *logger.Logger, errorLog *log.Logger) (*Server, error) {
	server := &Server{
		configuration: configuration,
		registry:      reg,
		base:          afero.NewReadOnlyFs(configuration.SandboxFs()),
		logger:        eventLog,
		errorLog:      errorLog,
	}

	server.sshServer = &ssh.Server{
		Addr: fmt.Sprintf(":%d", configuration.SSHPort),
		Handler: func(s ssh.Session) {
			if err := server.HandleSession(s); err != nil {
				errorLog.Printf("session from %s ended: %v", s.RemoteAddr(), err)
			}
		},
	}

	keyPem, err := configuration.PrivateKeyPem()
	if err != nil {
		return nil, fmt.Errorf("couldn't read host key: %w", err)
	}
	if err := server.sshServer.SetOption(ssh.HostKeyPEM(keyPem)); err != nil {
		return nil, fmt.Errorf("invalid host key: %w", err)
	}

	return server, nil
}

// sessionFs layers a private in-memory filesystem over the shared base.
func (s *Server) sessionFs() afero.Fs {
	return afero.NewCopyOnWriteFs(s.base, afero.NewMemMapFs())
}

// sessionInput throttles reads from the client if a rate is configured.
func (s *Server) sessionInput(r io.Reader) io.Reader {
	rate := s.configuration.MaxInputBytesPerSecond
	if rate <= 0 {
		return r
	}
	return ratelimit.Reader(r, ratelimit.NewBucketWithRate(float64(rate), rate))
}

// HandleSession runs a shell for a single SSH session.
func (s *Server) HandleSession(session ssh.Session) error {
	sessionLogger := s.logger.NewSession("")
	if err := sessionLogger.Record(&logger.SessionStart{
		User:       session.User(),
		RemoteAddr: session.RemoteAddr().String(),
	}); err != nil {
		s.errorLog.Printf("couldn't record event: %v", err)
	}

	fs := s.sessionFs()
	ptyInfo, winch, isPty := session.Pty()
	options := InterpreterOptions{
		Prompt:   s.configuration.Prompt,
		Hostname: s.configuration.Hostname,
		User:     session.User(),
		Colors:   ColorPrinter{Enabled: s.configuration.ShouldColor(isPty)},
		Logger:   sessionLogger,
		ErrorLog: s.errorLog,
	}
	if options.User == "" {
		options.User = s.configuration.User
	}

	// ssh host -- command runs a single line.
	if command := session.RawCommand(); command != "" {
		sh, err := shell.NewFilesystemShell(fs, s.configuration.Home, nil, session)
		if err != nil {
			session.Exit(1)
			return err
		}

		interp := NewInterpreter(s.registry, sh, session, options)
		out, err := interp.Execute(command)
		fmt.Fprint(session, FormatValues(out))
		if err != nil {
			interp.PrintError(command, err)
			return session.Exit(1)
		}
		return session.Exit(0)
	}

	var windowWidth atomic.Int64
	windowWidth.Store(int64(ptyInfo.Window.Width))
	if isPty {
		go (func() {
			for window := range winch {
				windowWidth.Store(int64(window.Width))
			}
		})()
	}

	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(s.sessionInput(session)),
		Stdout: session,
		Stderr: session.Stderr(),
		FuncGetWidth: func() int {
			return int(windowWidth.Load())
		},
		FuncIsTerminal: func() bool {
			return isPty
		},
	}
	if err := cfg.Init(); err != nil {
		session.Exit(1)
		return err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		session.Exit(1)
		return err
	}
	defer rl.Close()

	sh, err := shell.NewFilesystemShell(fs, s.configuration.Home, rl, rl)
	if err != nil {
		session.Exit(1)
		return err
	}

	if banner := s.configuration.SSHBanner; banner != "" {
		fmt.Fprintln(rl, banner)
	}

	interp := NewInterpreter(s.registry, sh, rl, options)
	if err := interp.Run(rl); err != nil {
		session.Exit(1)
		return err
	}
	return session.Exit(0)
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return s.sshServer.Addr
}

func (s *Server) ListenAndServe() error {
	s.errorLog.Printf("- Starting SSH server on %s\n", s.sshServer.Addr)
	return s.sshServer.ListenAndServe()
}

func (s *Server) Serve(l net.Listener) error {
	return s.sshServer.Serve(l)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.sshServer.Shutdown(ctx)
}
