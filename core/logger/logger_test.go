package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.UnixMicro(1650000000000001)
}

func recordSession(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	logger := NewJsonLinesLogRecorder(buf)
	logger.Now = fixedClock

	session := logger.NewSession("s1")
	events := []LogType{
		&SessionStart{User: "alice", RemoteAddr: "10.0.0.1:22"},
		&RunCommand{Name: "cd", Args: []string{"src"}, Source: "cd src"},
		&UnknownCommand{Name: "frob", Args: []string{"x"}},
		&ParseFailure{Source: "echo 'a", Reason: "unterminated string", Start: 5, End: 7},
		&RunCommand{Name: "cd", Source: "cd nope"},
		&CommandError{Name: "cd", Error: "cd: no such directory: nope"},
	}
	for _, event := range events {
		require.NoError(t, session.Record(event))
	}
	require.NoError(t, logger.Sessionless().Record(&RunCommand{Name: "pwd", Source: "pwd"}))
	return buf
}

func TestJsonLinesLogRecorder(t *testing.T) {
	buf := recordSession(t)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.JSONEq(t,
		`{"timestamp_micros":1650000000000001,"session_id":"s1","session_start":{"user":"alice","remote_addr":"10.0.0.1:22"}}`,
		lines[0])
	assert.JSONEq(t,
		`{"timestamp_micros":1650000000000001,"run_command":{"name":"pwd","source":"pwd"}}`,
		lines[6])
}

func TestNewSession(t *testing.T) {
	logger := NopLogger()
	assert.Equal(t, "abc", logger.NewSession("abc").SessionID())
	assert.NotEmpty(t, logger.NewSession("").SessionID())
	assert.Empty(t, logger.Sessionless().SessionID())
	assert.NoError(t, logger.NewSession("").Record(&SessionStart{}))
}

func TestReadJSONLinesLog(t *testing.T) {
	buf := recordSession(t)

	var entries []*LogEntry
	require.NoError(t, ReadJSONLinesLog(buf, func(le *LogEntry) {
		entries = append(entries, le)
	}))
	require.Len(t, entries, 7)

	assert.Equal(t, int64(1650000000000001), entries[0].TimestampMicros)
	assert.Equal(t, &SessionStart{User: "alice", RemoteAddr: "10.0.0.1:22"}, entries[0].GetLogType())
	assert.Equal(t, &ParseFailure{Source: "echo 'a", Reason: "unterminated string", Start: 5, End: 7}, entries[3].GetLogType())
	assert.Nil(t, (&LogEntry{}).GetLogType())

	err := ReadJSONLinesLog(strings.NewReader("{not json"), func(*LogEntry) {})
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	buf := recordSession(t)

	report := &Report{}
	bugs := NewBugReport()
	interactions := &InteractionReport{}
	require.NoError(t, ReadJSONLinesLog(buf, func(le *LogEntry) {
		report.Update(le)
		bugs.Update(le)
		interactions.Update(le)
	}))

	assert.Equal(t, 7, report.LogEntries)
	assert.Equal(t, 1, report.SessionStart.Count)
	assert.Equal(t, 1, report.SessionStart.Users.Count("alice"))
	assert.Equal(t, 2, report.RunCommand.CommandNames.Count("cd"))
	assert.Equal(t, 1, report.RunCommand.CommandNames.Count("pwd"))
	assert.Equal(t, 1, report.UnknownCommand.CommandNames.Count("frob"))
	assert.Equal(t, 1, report.ParseFailure.Reasons.Count("unterminated string"))
	assert.Equal(t, 1, report.CommandError.CommandNames.Count("cd"))

	assert.Equal(t, 1, bugs.CommandErrors.Count("cd", "cd: no such directory: nope"))
	assert.Equal(t, 1, bugs.UnknownCommands.Count("frob"))

	sessions := interactions.Sessions()
	require.Len(t, sessions, 1)
	session := sessions["s1"]
	assert.Equal(t, "alice", session.User)
	assert.Equal(t, 6, session.LogEntries)
	assert.Equal(t, []string{"cd src", "echo 'a", "cd nope"}, session.Commands)
	assert.Equal(t, []string{"frob: command not found", "unterminated string", "cd: no such directory: nope"}, session.Errors)
}

func TestPathCounter(t *testing.T) {
	ctr := NewPathCounter("command", "error")
	ctr.Increment("ls", "boom")
	ctr.Increment("cd", "nope")
	ctr.Increment("cd", "nope")

	out, err := json.Marshal(ctr)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"count": 2, "event": {"command": "cd", "error": "nope"}},
		{"count": 1, "event": {"command": "ls", "error": "boom"}}
	]`, string(out))

	assert.Panics(t, func() { ctr.Increment("too few") })

	empty, err := json.Marshal(NewPathCounter("x"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}
