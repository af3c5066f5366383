package core

import (
	"io"
	"os"
	"path"

	"github.com/josephlewis42/tiks/commands"
	"github.com/josephlewis42/tiks/core/archive"
	"github.com/josephlewis42/tiks/core/config"
	"github.com/josephlewis42/tiks/core/history"
	"github.com/josephlewis42/tiks/core/logger"
	"github.com/josephlewis42/tiks/core/pkgmgr"
	"github.com/josephlewis42/tiks/core/session"
	"github.com/josephlewis42/tiks/core/shell"
	"github.com/spf13/afero"
)

// Runtime holds the collaborators shared by every session in the process.
type Runtime struct {
	Config   *config.Configuration
	Logger   *logger.Logger
	Builtins commands.Registry

	// Store is nil when the history archive is disabled.
	Store *history.Store
}

// NewRuntime creates a runtime that writes events to eventLog.
func NewRuntime(cfg *config.Configuration, eventLog io.Writer) (*Runtime, error) {
	rt := &Runtime{
		Config:   cfg,
		Logger:   logger.NewJsonLinesLogRecorder(eventLog),
		Builtins: commands.AllBuiltins,
	}

	if cfg.History.Archive {
		store, err := history.NewStore(cfg.Path(config.HistoryDBName))
		if err != nil {
			return nil, err
		}
		rt.Store = store
	}

	return rt, nil
}

// NewSession creates a session for username over the filesystem, starting in
// home.
func (rt *Runtime) NewSession(filesystem afero.Fs, username, home string) *session.Session {
	s := session.New(filesystem, session.Identity{
		Username:     username,
		ElevatedName: rt.Config.User.ElevatedIdentity,
		Home:         home,
		Verifier:     session.BcryptVerifier(rt.Config.User.SudoPasswordHash),
	})

	s.Logger = rt.Logger.NewSession()
	s.Packages = pkgmgr.New(rt.Config, s.Logger)
	s.Archiver = archive.New(filesystem)
	if rt.Store != nil {
		s.Archive = rt.Store
	}

	return s
}

// NewSandboxedSession creates a session for a remote user. Packages are
// downloaded into the session's own filesystem and updates are disabled so
// nothing reaches the host.
func (rt *Runtime) NewSandboxedSession(filesystem afero.Fs, username, home string) *session.Session {
	s := rt.NewSession(filesystem, username, home)
	s.Packages = pkgmgr.NewSandboxed(rt.Config, s.Logger, filesystem, path.Join(home, config.DownloadDirName))
	return s
}

// NewShell attaches a REPL for the session to the terminal.
func (rt *Runtime) NewShell(s *session.Session, term shell.Terminal) (*shell.Shell, error) {
	sh, err := shell.NewShell(s, shell.NewExecutor(rt.Builtins), term)
	if err != nil {
		return nil, err
	}

	sh.PromptFormat = rt.Config.Shell.Prompt
	if host, err := os.Hostname(); err == nil {
		sh.Hostname = host
	}
	return sh, nil
}

// Close releases the history archive.
func (rt *Runtime) Close() error {
	if rt.Store == nil {
		return nil
	}
	return rt.Store.Close()
}
