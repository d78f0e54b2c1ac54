package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures interaction event logs of shell sessions.
type Logger struct {
	Record LogRecorder
	// Now returns the current time, it defaults to time.Now.
	Now func() time.Time
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NopLogger discards every event.
func NopLogger() *Logger {
	return &Logger{
		Record: func(*LogEntry) error { return nil },
	}
}

func (l *Logger) recordLogType(sessionID string, event LogType) error {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}

	le := &LogEntry{}
	le.TimestampMicros = now().UnixMicro()
	le.SessionID = sessionID
	event.set(le)

	return l.Record(le)
}

// NewSession creates a logger with attached session ID, a random ID is
// generated if id is empty.
func (l *Logger) NewSession(id string) *SessionLogger {
	if id == "" {
		id = fmt.Sprintf("%d", rand.Uint64())
	}
	return &SessionLogger{Logger: l, sessionID: id}
}

// Sessionless creates a logger without a session ID.
func (l *Logger) Sessionless() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: ""}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID stamped on every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

func (l *SessionLogger) Record(event LogType) error {
	return l.recordLogType(l.sessionID, event)
}
