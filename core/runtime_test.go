package core

import (
	"bytes"
	"context"
	"io/ioutil"
	"log"
	"testing"

	"github.com/josephlewis42/tiks/commands"
	"github.com/josephlewis42/tiks/core/config"
	"github.com/josephlewis42/tiks/core/shell"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime(t *testing.T) (*Runtime, *bytes.Buffer) {
	t.Helper()

	cfg, err := config.Initialize(t.TempDir(), log.New(ioutil.Discard, "", 0))
	require.NoError(t, err)

	events := &bytes.Buffer{}
	rt, err := NewRuntime(cfg, events)
	require.NoError(t, err)
	t.Cleanup(func() { rt.Close() })

	return rt, events
}

func TestRuntime_NewSession(t *testing.T) {
	rt, events := newTestRuntime(t)
	require.NotNil(t, rt.Store, "archive is enabled by default")

	memFs := afero.NewMemMapFs()
	require.NoError(t, memFs.MkdirAll("/home/alice", 0755))
	s := rt.NewSession(memFs, "alice", "/home/alice")

	assert.Equal(t, "alice", s.Identity())
	assert.Equal(t, "/home/alice", s.Getwd())
	assert.NotEmpty(t, s.ID())
	assert.NotNil(t, s.Packages)
	assert.NotNil(t, s.Archiver)

	t.Run("sudo password from config", func(t *testing.T) {
		assert.Error(t, s.Elevate("wrong"))
		require.NoError(t, s.Elevate(config.DefaultPassword))
		assert.Equal(t, "root", s.Identity())
		s.Drop()

		assert.Contains(t, events.String(), `"elevation":{"username":"alice","success":true}`)
	})

	t.Run("history is archived", func(t *testing.T) {
		_, err := shell.NewExecutor(rt.Builtins).Run("cat missing.txt", s)
		require.Error(t, err)

		recent, err := rt.Store.Recent(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, recent, 1)
		assert.Equal(t, "cat missing.txt", recent[0].CommandText)
		assert.Equal(t, commands.StatusFailure, recent[0].Status)
		assert.Equal(t, s.ID(), recent[0].SessionID)
		assert.Equal(t, "alice", recent[0].Username)
	})
}

func TestRuntime_noArchive(t *testing.T) {
	cfg, err := config.Initialize(t.TempDir(), log.New(ioutil.Discard, "", 0))
	require.NoError(t, err)
	cfg.History.Archive = false

	rt, err := NewRuntime(cfg, ioutil.Discard)
	require.NoError(t, err)
	assert.Nil(t, rt.Store)

	s := rt.NewSession(afero.NewMemMapFs(), "bob", "/")
	assert.Nil(t, s.Archive)
	s.RecordHistory("pwd")
	assert.Equal(t, []string{"pwd"}, s.History.Entries())
	assert.NoError(t, rt.Close())
}
