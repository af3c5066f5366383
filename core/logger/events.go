package logger

// LogEntry is a single line in the event log. Exactly one of the event fields
// is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	Login          *Login          `json:"login,omitempty"`
	RunCommand     *RunCommand     `json:"run_command,omitempty"`
	UnknownCommand *UnknownCommand `json:"unknown_command,omitempty"`
	SyntaxError    *SyntaxError    `json:"syntax_error,omitempty"`
	Elevation      *Elevation      `json:"elevation,omitempty"`
	Download       *Download       `json:"download,omitempty"`
}

// LogType is implemented by every event that can be recorded.
type LogType interface {
	attach(le *LogEntry)
}

// Login is recorded when a session starts.
type Login struct {
	Username   string `json:"username"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	Terminal   string `json:"terminal,omitempty"`
	IsPTY      bool   `json:"is_pty"`
}

// RunCommand is recorded for every dispatched builtin.
type RunCommand struct {
	Command []string `json:"command"`
	Status  int      `json:"status"`
	Error   string   `json:"error,omitempty"`
}

// UnknownCommand is recorded when a command name isn't registered.
type UnknownCommand struct {
	Command []string `json:"command"`
}

// SyntaxError is recorded when a line can't be parsed.
type SyntaxError struct {
	Line  string `json:"line"`
	Error string `json:"error"`
}

// Elevation is recorded for every sudo password attempt.
type Elevation struct {
	Username string `json:"username"`
	Success  bool   `json:"success"`
}

// Download is recorded when the package manager fetches a file.
type Download struct {
	Source string `json:"source"`
	Name   string `json:"name"`
	Bytes  int64  `json:"bytes"`
}

func (e *Login) attach(le *LogEntry)          { le.Login = e }
func (e *RunCommand) attach(le *LogEntry)     { le.RunCommand = e }
func (e *UnknownCommand) attach(le *LogEntry) { le.UnknownCommand = e }
func (e *SyntaxError) attach(le *LogEntry)    { le.SyntaxError = e }
func (e *Elevation) attach(le *LogEntry)      { le.Elevation = e }
func (e *Download) attach(le *LogEntry)       { le.Download = e }
