package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// NewBugReport creates an empty BugReport.
func NewBugReport() *BugReport {
	return &BugReport{
		CommandErrors:   NewPathCounter("command", "error"),
		UnknownCommands: NewPathCounter("command"),
		ParseFailures:   NewPathCounter("reason", "source"),
	}
}

// BugReport pulls events that are likely gaps in the shell.
type BugReport struct {
	LogEntries int `json:"log_entries"`

	CommandErrors   *PathCounter `json:"command_errors"`
	UnknownCommands *PathCounter `json:"unknown_commands"`
	ParseFailures   *PathCounter `json:"parse_failures"`
}

func (r *BugReport) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.GetLogType().(type) {
	case *CommandError:
		r.CommandErrors.Increment(event.Name, event.Error)
	case *UnknownCommand:
		r.UnknownCommands.Increment(event.Name)
	case *ParseFailure:
		r.ParseFailures.Increment(event.Reason, event.Source)
	}
}

// InteractionReport groups events by session.
type InteractionReport struct {
	// Map of sessionID -> interactions
	interactions map[string]*InteractiveSession
}

// InteractiveSession summarizes a single session.
type InteractiveSession struct {
	User       string   `json:"user"`
	RemoteAddr string   `json:"remote_addr,omitempty"`
	LogEntries int      `json:"log_entries"`
	Commands   []string `json:"commands"`
	Errors     []string `json:"errors,omitempty"`
}

func (i *InteractiveSession) Update(le *LogEntry) {
	i.LogEntries++

	switch event := le.GetLogType().(type) {
	case *SessionStart:
		i.User = event.User
		i.RemoteAddr = event.RemoteAddr
	case *RunCommand:
		i.Commands = append(i.Commands, event.Source)
	case *UnknownCommand:
		i.Errors = append(i.Errors, fmt.Sprintf("%s: command not found", event.Name))
	case *ParseFailure:
		i.Commands = append(i.Commands, event.Source)
		i.Errors = append(i.Errors, event.Reason)
	case *CommandError:
		i.Errors = append(i.Errors, event.Error)
	}
}

func (i *InteractionReport) init() {
	if i.interactions == nil {
		i.interactions = make(map[string]*InteractiveSession)
	}
}

// Sessions returns the summary of each session seen.
func (i *InteractionReport) Sessions() map[string]*InteractiveSession {
	i.init()
	return i.interactions
}

// MarshalJSON implements a custom JSON marshaler.
func (i *InteractionReport) MarshalJSON() ([]byte, error) {
	i.init()

	return json.Marshal(i.interactions)
}

func (i *InteractionReport) Update(le *LogEntry) {
	i.init()

	sessionID := le.SessionID
	if sessionID == "" {
		return
	}
	report, ok := i.interactions[sessionID]
	if !ok {
		report = &InteractiveSession{}
		i.interactions[sessionID] = report
	}

	report.Update(le)
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	SessionStart   SessionStartReport   `json:"session_start_report"`
	RunCommand     RunCommandReport     `json:"run_command_report"`
	UnknownCommand UnknownCommandReport `json:"unknown_command_report"`
	ParseFailure   ParseFailureReport   `json:"parse_failure_report"`
	CommandError   CommandErrorReport   `json:"command_error_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.GetLogType().(type) {
	case *SessionStart:
		r.SessionStart.update(event)
	case *RunCommand:
		r.RunCommand.update(event)
	case *UnknownCommand:
		r.UnknownCommand.update(event)
	case *ParseFailure:
		r.ParseFailure.update(event)
	case *CommandError:
		r.CommandError.update(event)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

type SessionStartReport struct {
	Count int `json:"count"`
	// List of users and their counts.
	Users StrCounter `json:"users"`
}

func (r *SessionStartReport) update(ss *SessionStart) {
	r.Count++
	r.Users.Increment(ss.User)
}

type RunCommandReport struct {
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	r.CommandNames.Increment(rc.Name)
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(uc *UnknownCommand) {
	r.CommandNames.Increment(uc.Name)
}

type ParseFailureReport struct {
	Reasons StrCounter `json:"reasons"`
}

func (r *ParseFailureReport) update(pf *ParseFailure) {
	r.Reasons.Increment(pf.Reason)
}

type CommandErrorReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *CommandErrorReport) update(ce *CommandError) {
	r.CommandNames.Increment(ce.Name)
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Count returns how many times key was seen.
func (s StrCounter) Count(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts tuples of strings.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Count returns how many times the tuple was seen.
func (ctr *PathCounter) Count(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements a custom JSON marshaler, the most frequent tuples
// come first.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
