package logger

// LogType is implemented by every event that can be recorded.
type LogType interface {
	isLogType()
	set(le *LogEntry)
}

// LogEntry is a single recorded event. Exactly one of the event fields is
// set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart   *SessionStart   `json:"session_start,omitempty"`
	RunCommand     *RunCommand     `json:"run_command,omitempty"`
	UnknownCommand *UnknownCommand `json:"unknown_command,omitempty"`
	ParseFailure   *ParseFailure   `json:"parse_failure,omitempty"`
	CommandError   *CommandError   `json:"command_error,omitempty"`
}

// GetLogType returns the event held by the entry or nil if there is none.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.SessionStart != nil:
		return le.SessionStart
	case le.RunCommand != nil:
		return le.RunCommand
	case le.UnknownCommand != nil:
		return le.UnknownCommand
	case le.ParseFailure != nil:
		return le.ParseFailure
	case le.CommandError != nil:
		return le.CommandError
	default:
		return nil
	}
}

// SessionStart is logged when a user connects.
type SessionStart struct {
	User       string `json:"user"`
	RemoteAddr string `json:"remote_addr,omitempty"`
}

// RunCommand is logged for each built-in that's run.
type RunCommand struct {
	Name   string   `json:"name"`
	Args   []string `json:"args,omitempty"`
	Source string   `json:"source"`
}

// UnknownCommand is logged when a command isn't a built-in.
type UnknownCommand struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

// ParseFailure is logged when a line can't be parsed.
type ParseFailure struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// CommandError is logged when a built-in fails.
type CommandError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

func (*SessionStart) isLogType()   {}
func (*RunCommand) isLogType()     {}
func (*UnknownCommand) isLogType() {}
func (*ParseFailure) isLogType()   {}
func (*CommandError) isLogType()   {}

func (e *SessionStart) set(le *LogEntry)   { le.SessionStart = e }
func (e *RunCommand) set(le *LogEntry)     { le.RunCommand = e }
func (e *UnknownCommand) set(le *LogEntry) { le.UnknownCommand = e }
func (e *ParseFailure) set(le *LogEntry)   { le.ParseFailure = e }
func (e *CommandError) set(le *LogEntry)   { le.CommandError = e }
