package core

import (
	"bytes"
	"context"
	"io"
	"log"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/josephlewis42/queenshell/commands"
	"github.com/josephlewis42/queenshell/core/config"
	"github.com/josephlewis42/queenshell/core/logger"
	"github.com/josephlewis42/queenshell/core/registry"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gossh "golang.org/x/crypto/ssh"
)

// syncBuffer is a bytes.Buffer safe for use by sessions and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.buf.Bytes()...)
}

func newTestServer(t *testing.T, events io.Writer) (*Server, string) {
	t.Helper()

	configFs := afero.NewMemMapFs()
	require.NoError(t, config.InitializeFs(configFs, log.New(io.Discard, "", 0)))
	cfg, err := config.LoadFs(configFs)
	require.NoError(t, err)
	cfg.MaxInputBytesPerSecond = 1 << 20

	reg := registry.New()
	commands.RegisterAll(reg)

	server, err := NewServer(cfg, reg, logger.NewJsonLinesLogRecorder(events), log.New(io.Discard, "", 0))
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go server.Serve(listener)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	})

	return server, listener.Addr().String()
}

func runRemote(t *testing.T, addr, command string) (string, error) {
	t.Helper()

	client, err := gossh.Dial("tcp", addr, &gossh.ClientConfig{
		User:            "alice",
		HostKeyCallback: gossh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	require.NoError(t, err)
	defer client.Close()

	session, err := client.NewSession()
	require.NoError(t, err)
	defer session.Close()

	out, err := session.CombinedOutput(command)
	return string(out), err
}

func TestServerCommand(t *testing.T) {
	events := &syncBuffer{}
	server, addr := newTestServer(t, events)
	assert.Equal(t, ":2222", server.Addr())

	out, err := runRemote(t, addr, "mkdir projects; cd projects; pwd; echo --upper hi")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/projects\nHI\n", out)

	t.Run("sessions are isolated", func(t *testing.T) {
		out, err := runRemote(t, addr, "cd projects")
		assert.Error(t, err)
		assert.Equal(t, "error: cd: no such directory: projects\n", out)
	})

	t.Run("events", func(t *testing.T) {
		report := &logger.Report{}
		require.NoError(t, logger.ReadJSONLinesLog(bytes.NewReader(events.Bytes()), report.Update))
		assert.Equal(t, 2, report.SessionStart.Users.Count("alice"))
		assert.Equal(t, 2, report.RunCommand.CommandNames.Count("cd"))
		assert.Equal(t, 1, report.CommandError.CommandNames.Count("cd"))
	})
}

func TestNewServerMissingKey(t *testing.T) {
	configFs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(configFs, config.ConfigurationName, []byte(`prompt: "$ "
hostname: localhost
user: user
home: /home/user
sandbox_root: ""
history_file: ""
color: never
ssh_port: 0
ssh_banner: ""
max_input_bytes_per_second: 0
app_log: app.log
`), 0600))
	cfg, err := config.LoadFs(configFs)
	require.NoError(t, err)

	_, err = NewServer(cfg, registry.New(), logger.NopLogger(), log.New(io.Discard, "", 0))
	assert.Error(t, err)
}
