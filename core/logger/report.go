package logger

import (
	"encoding/json"
	"io"
	"sort"
	"strings"
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

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`
	Sessions       StrCounter `json:"sessions"`

	Login          LoginReport          `json:"login_report"`
	RunCommand     RunCommandReport     `json:"run_command_report"`
	UnknownCommand UnknownCommandReport `json:"unknown_command_report"`
	SyntaxError    SyntaxErrorReport    `json:"syntax_error_report"`
	Elevation      ElevationReport      `json:"elevation_report"`
	Download       DownloadReport       `json:"download_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	if le.SessionID != "" {
		r.Sessions.Increment(le.SessionID)
	}

	switch {
	case le.Login != nil:
		r.Login.update(le.Login)
	case le.RunCommand != nil:
		r.RunCommand.update(le.RunCommand)
	case le.UnknownCommand != nil:
		r.UnknownCommand.update(le.UnknownCommand)
	case le.SyntaxError != nil:
		r.SyntaxError.update(le.SyntaxError)
	case le.Elevation != nil:
		r.Elevation.update(le.Elevation)
	case le.Download != nil:
		r.Download.update(le.Download)
	default:
		r.InvalidEntries.Increment("empty")
	}
}

type LoginReport struct {
	Usernames StrCounter `json:"usernames"`
	Terminals StrCounter `json:"terminals"`
}

func (r *LoginReport) update(l *Login) {
	r.Usernames.Increment(l.Username)
	if l.Terminal != "" {
		r.Terminals.Increment(l.Terminal)
	}
}

type RunCommandReport struct {
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	// Failing invocations by command and error.
	Failures *PathCounter `json:"failures"`
}

func (r *RunCommandReport) update(rc *RunCommand) {
	if len(rc.Command) == 0 {
		return
	}
	r.CommandNames.Increment(rc.Command[0])
	if rc.Error != "" {
		if r.Failures == nil {
			r.Failures = NewPathCounter("command", "error")
		}
		r.Failures.Increment(rc.Command[0], rc.Error)
	}
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(logEntry *UnknownCommand) {
	if len(logEntry.Command) > 0 {
		r.CommandNames.Increment(logEntry.Command[0])
	}
}

type SyntaxErrorReport struct {
	Lines []string `json:"lines"`
}

func (r *SyntaxErrorReport) update(se *SyntaxError) {
	r.Lines = append(r.Lines, strings.TrimSpace(se.Line))
}

type ElevationReport struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

func (r *ElevationReport) update(e *Elevation) {
	if e.Success {
		r.Succeeded++
	} else {
		r.Failed++
	}
}

type DownloadReport struct {
	Count   int        `json:"count"`
	Bytes   int64      `json:"bytes"`
	Sources StrCounter `json:"sources"`
}

func (r *DownloadReport) update(d *Download) {
	r.Count++
	r.Bytes += d.Bytes
	r.Sources.Increment(d.Source)
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

// Get returns the count for the given key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of tuples seen.
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

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	var out []Count
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
