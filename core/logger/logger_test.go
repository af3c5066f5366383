package logger

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func TestJsonLinesRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewJsonLinesLogRecorder(buf)
	l.Now = func() time.Time {
		return time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC)
	}

	session := l.NewSession()
	assert.NotEmpty(t, session.SessionID())
	require.Nil(t, session.Record(&RunCommand{Command: []string{"ls"}, Status: 0}))
	require.Nil(t, session.Record(&RunCommand{Command: []string{"cat", "x"}, Status: 1, Error: "not found"}))
	require.Nil(t, session.Record(&UnknownCommand{Command: []string{"vim"}}))
	require.Nil(t, session.Record(&Elevation{Username: "tiks", Success: false}))
	require.Nil(t, session.Record(&Elevation{Username: "tiks", Success: true}))
	require.Nil(t, l.Sessionless().Record(&Download{Source: "http://x/a", Name: "a", Bytes: 12}))

	var entries []*LogEntry
	var report Report
	err := ReadJSONLinesLog(buf, func(le *LogEntry) {
		entries = append(entries, le)
		report.Update(le)
	})
	require.Nil(t, err)
	require.Len(t, entries, 6)

	assert.Equal(t, session.SessionID(), entries[0].SessionID)
	assert.Equal(t, time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC).UnixMicro(), entries[0].TimestampMicros)
	assert.Equal(t, []string{"cat", "x"}, entries[1].RunCommand.Command)
	assert.Equal(t, "", entries[5].SessionID)

	assert.Equal(t, 6, report.LogEntries)
	assert.Equal(t, 1, report.RunCommand.CommandNames.Get("ls"))
	assert.Equal(t, 1, report.UnknownCommand.CommandNames.Get("vim"))
	assert.Equal(t, 1, report.Elevation.Succeeded)
	assert.Equal(t, 1, report.Elevation.Failed)
	assert.Equal(t, int64(12), report.Download.Bytes)
	assert.Equal(t, 5, report.Sessions.Get(session.SessionID()))

	out, err := yaml.Marshal(report)
	require.Nil(t, err)
	assert.Contains(t, string(out), "not found")
}

func TestNilSessionLogger(t *testing.T) {
	var l *SessionLogger
	assert.Nil(t, l.Record(&RunCommand{}))
	assert.Equal(t, "", l.SessionID())
}

func TestConcurrentRecord(t *testing.T) {
	buf := &bytes.Buffer{}
	session := NewJsonLinesLogRecorder(buf).NewSession()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session.Record(&RunCommand{Command: []string{"pwd"}})
		}()
	}
	wg.Wait()

	count := 0
	assert.Nil(t, ReadJSONLinesLog(buf, func(*LogEntry) { count++ }))
	assert.Equal(t, 20, count)
}
