// Package history keeps the command lines entered into a session.
package history

import (
	"fmt"
	"strings"
	"sync"
)

// Log is an append-only list of raw command lines, safe for use from
// background jobs. Entries are never reordered or removed.
type Log struct {
	mu      sync.Mutex
	entries []string
}

// NewLog creates an empty history log.
func NewLog() *Log {
	return &Log{}
}

// Append adds a line and returns its index.
func (l *Log) Append(line string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, line)
	return len(l.entries) - 1
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// Entries returns a copy of the entries in the order they were appended.
func (l *Log) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// String formats the log as numbered lines.
func (l *Log) String() string {
	sb := &strings.Builder{}
	for i, line := range l.Entries() {
		fmt.Fprintf(sb, "% 5d  %s\n", i, line)
	}
	return sb.String()
}
