package commands

import (
	"path/filepath"
	"testing"

	"github.com/josephlewis42/tiks/core/session/sessiontest"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)
}

func TestHistory(t *testing.T) {
	s, _ := sessiontest.NewDeterministicSession()
	s.RecordHistory("ls")
	s.RecordHistory("cd /tmp | pwd")
	s.RecordHistory("history")

	res, err := run(s, "history")
	require.NoError(t, err)

	newGoldie(t).Assert(t, "three-entries", []byte(res.Text))
}

func TestHelp(t *testing.T) {
	r := make(Registry)
	r.Register("whoami", "Print the current user", BuiltinFunc(Whoami))
	r.Register("cd", "Change directory", BuiltinFunc(Cd))
	r.Register("pwd", "View current directory", BuiltinFunc(Pwd))

	newGoldie(t).Assert(t, "listing", []byte(helpText(r)))
}

func TestHelp_all(t *testing.T) {
	s, _ := sessiontest.NewDeterministicSession()

	res, err := run(s, "help")
	require.NoError(t, err)
	for _, name := range []string{"cd", "grep", "sudo", "tar", "apt", "history"} {
		assert.Contains(t, res.Text, name)
	}
}

func TestTime(t *testing.T) {
	s, _ := sessiontest.NewDeterministicSession()

	res, err := run(s, "time")
	require.NoError(t, err)
	assert.Equal(t, sessiontest.Now().Local().Format(TimeFormat), res.Text)
}

func TestExit(t *testing.T) {
	s, _ := sessiontest.NewDeterministicSession()

	_, err := run(s, "exit")
	require.NoError(t, err)
	assert.True(t, s.Exited())
}

func TestClear(t *testing.T) {
	s, out := sessiontest.NewDeterministicSession()

	res, err := run(s, "clear")
	require.NoError(t, err)
	assert.Empty(t, res.Text)
	assert.Equal(t, "\033[H\033[2J", out.String())
}
