package core

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/josephlewis42/tiks/commands"
	"github.com/josephlewis42/tiks/core/config"
	"github.com/josephlewis42/tiks/core/pkgmgr"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_checkPassword(t *testing.T) {
	rt, _ := newTestRuntime(t)

	server, err := NewServer(rt)
	require.NoError(t, err)

	assert.True(t, server.checkPassword(config.DefaultPassword))
	assert.False(t, server.checkPassword("hunter2"))
	assert.False(t, server.checkPassword(""))
}

func TestServer_sandboxFs(t *testing.T) {
	rt, _ := newTestRuntime(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "motd"), []byte("hello"), 0644))
	rt.Config.SSH.Root = root

	server, err := NewServer(rt)
	require.NoError(t, err)
	sandbox := server.sandboxFs()

	contents, err := afero.ReadFile(sandbox, "/motd")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(contents))

	require.NoError(t, afero.WriteFile(sandbox, "/motd", []byte("changed"), 0644))
	require.NoError(t, afero.WriteFile(sandbox, "/new.txt", []byte("new"), 0644))

	onDisk, err := os.ReadFile(filepath.Join(root, "motd"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(onDisk), "host files are never modified")

	_, err = os.Stat(filepath.Join(root, "new.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestServer_sandboxedPackages(t *testing.T) {
	packageServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("package contents"))
	}))
	t.Cleanup(packageServer.Close)

	rt, _ := newTestRuntime(t)
	rt.Config.SSH.Root = t.TempDir()
	rt.Config.Packages.Index = []config.Package{
		{Name: "hello", Version: "1.0", URL: packageServer.URL + "/hello.tar.gz"},
	}

	server, err := NewServer(rt)
	require.NoError(t, err)
	sandbox := server.sandboxFs()
	require.NoError(t, sandbox.MkdirAll("/home/alice", 0755))

	sess := rt.NewSandboxedSession(sandbox, "alice", "/home/alice")
	manager, ok := sess.Packages.(*pkgmgr.Manager)
	require.True(t, ok)
	manager.Client = packageServer.Client()
	require.NoError(t, sess.Elevate(config.DefaultPassword))

	downloadsBefore, err := os.ReadDir(filepath.Join(rt.Config.Dir(), config.DownloadDirName))
	require.NoError(t, err)

	t.Run("install stays in the sandbox", func(t *testing.T) {
		res, err := commands.AllBuiltins.Dispatch(&commands.Invocation{
			Name:    "apt",
			Options: []string{"-i"},
			Args:    []string{"hello"},
		}, sess)
		require.NoError(t, err)
		assert.Contains(t, res.Text, "Successfully downloaded package hello 1.0")

		contents, err := afero.ReadFile(sandbox, "/home/alice/downloads/hello.tar.gz")
		require.NoError(t, err)
		assert.Equal(t, "package contents", string(contents))

		downloadsAfter, err := os.ReadDir(filepath.Join(rt.Config.Dir(), config.DownloadDirName))
		require.NoError(t, err)
		assert.Len(t, downloadsAfter, len(downloadsBefore), "config dir is untouched")

		_, err = os.Stat(filepath.Join(rt.Config.SSH.Root, "home"))
		assert.True(t, os.IsNotExist(err), "ssh root is untouched")
	})

	t.Run("updates are refused", func(t *testing.T) {
		_, err := commands.AllBuiltins.Dispatch(&commands.Invocation{
			Name:    "apt",
			Options: []string{"-update"},
			Args:    []string{"99.0.0"},
		}, sess)
		assert.ErrorIs(t, err, pkgmgr.ErrUpdatesDisabled)

		_, err = os.Stat(rt.Config.Path(config.UpdateScriptName))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestCrlfWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &crlfWriter{buf}

	n, err := w.Write([]byte("a\nb\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "a\r\nb\r\n", buf.String())
}
