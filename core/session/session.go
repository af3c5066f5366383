// Package session holds the state shared by every command run in one
// interactive shell: identity, privilege, working directory and history.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sync"
	"syscall"
	"time"

	"github.com/josephlewis42/tiks/core/history"
	"github.com/josephlewis42/tiks/core/logger"
	"github.com/spf13/afero"
)

// Prompter reads secrets interactively, e.g. for sudo.
type Prompter interface {
	ReadSecret(prompt string) (string, error)
}

// Package describes an installable package.
type Package struct {
	Name    string
	Version string
	URL     string
}

// PackageManager fetches and installs packages. Calls block until done.
type PackageManager interface {
	Find(name string) (Package, bool)
	Install(ctx context.Context, pkg Package) (string, error)
	Update(ctx context.Context, version string) (string, error)
}

// Archiver creates and extracts tar.gz archives.
type Archiver interface {
	Compress(file, destination string) (string, error)
	Decompress(archive, directory string) (string, error)
}

// Recorder archives command lines beyond the lifetime of the session.
type Recorder interface {
	Record(ctx context.Context, cmd *history.Command) error
}

// Identity describes who is using the session.
type Identity struct {
	Username string
	// ElevatedName is reported by whoami while elevated.
	ElevatedName string
	Home         string
	Verifier     Verifier
}

// Session is the state of a single interactive shell. It is never shared
// between shells.
type Session struct {
	identity Identity
	fs       afero.Fs

	mu       sync.RWMutex
	cwd      string
	elevated bool
	quit     bool

	stdout *syncWriter
	stderr *syncWriter

	History  *history.Log
	Archive  Recorder
	Logger   *logger.SessionLogger
	Prompter Prompter
	Packages PackageManager
	Archiver Archiver

	// Color enables ANSI colors in builtin output.
	Color bool
	// Now is the session's clock.
	Now func() time.Time
}

// New creates a session over the filesystem, starting in the identity's home
// directory.
func New(filesystem afero.Fs, identity Identity) *Session {
	if identity.Home == "" {
		identity.Home = "/"
	}
	if identity.ElevatedName == "" {
		identity.ElevatedName = "root"
	}

	return &Session{
		identity: identity,
		fs:       filesystem,
		cwd:      path.Clean(identity.Home),
		stdout:   &syncWriter{w: io.Discard},
		stderr:   &syncWriter{w: io.Discard},
		History:  history.NewLog(),
		Now:      time.Now,
	}
}

// ID gets the session ID used in event logs.
func (s *Session) ID() string {
	return s.Logger.SessionID()
}

// Fs is the filesystem commands operate on.
func (s *Session) Fs() afero.Fs {
	return s.fs
}

// Username is the real name of the user, regardless of elevation.
func (s *Session) Username() string {
	return s.identity.Username
}

// Home is the user's home directory.
func (s *Session) Home() string {
	return s.identity.Home
}

// Identity is the name the session currently acts as.
func (s *Session) Identity() string {
	if s.Elevated() {
		return s.identity.ElevatedName
	}
	return s.identity.Username
}

// Elevated reports whether the session has been granted privileges.
func (s *Session) Elevated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.elevated
}

// Elevate checks the secret and elevates the session if it matches. A wrong
// secret returns ErrElevationFailed.
func (s *Session) Elevate(secret string) error {
	if s.identity.Verifier == nil {
		return ErrNoVerifier
	}
	err := s.identity.Verifier.Verify(secret)
	s.Logger.Record(&logger.Elevation{Username: s.identity.Username, Success: err == nil})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.elevated = true
	return nil
}

// Drop returns an elevated session to normal privileges.
func (s *Session) Drop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.elevated = false
}

// Getwd returns the current working directory.
func (s *Session) Getwd() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cwd
}

// Resolve turns a possibly relative path into an absolute one.
func (s *Session) Resolve(name string) string {
	if path.IsAbs(name) {
		return path.Clean(name)
	}
	return path.Join(s.Getwd(), name)
}

// Chdir changes the working directory, the target must be a directory.
func (s *Session) Chdir(dir string) error {
	target := s.Resolve(dir)
	info, err := s.fs.Stat(target)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "chdir", Path: target, Err: syscall.ENOTDIR}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cwd = target
	return nil
}

// Exit marks the session as finished.
func (s *Session) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quit = true
}

// Exited reports whether Exit was called.
func (s *Session) Exited() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.quit
}

// SetOutput changes where interactive messages go. Writes are serialized so
// background jobs can share the terminal.
func (s *Session) SetOutput(stdout, stderr io.Writer) {
	s.stdout.set(stdout)
	s.stderr.set(stderr)
}

func (s *Session) Stdout() io.Writer {
	return s.stdout
}

func (s *Session) Stderr() io.Writer {
	return s.stderr
}

// Print writes text to stdout, terminating it with a newline if needed.
func (s *Session) Print(text string) {
	if text == "" {
		return
	}
	if text[len(text)-1] != '\n' {
		text += "\n"
	}
	io.WriteString(s.stdout, text)
}

// PrintError writes a diagnostic for a failed command.
func (s *Session) PrintError(name string, err error) {
	fmt.Fprintf(s.stderr, "%s: %v\n", name, err)
}

// RecordHistory appends the line to the history log. The returned entry
// describes where and when the line was entered; set its status once the line
// has run and pass it to ArchiveHistory.
func (s *Session) RecordHistory(line string) *history.Command {
	s.History.Append(line)

	return &history.Command{
		Timestamp:   s.Now(),
		SessionID:   s.ID(),
		Username:    s.Username(),
		Cwd:         s.Getwd(),
		CommandText: line,
	}
}

// ArchiveHistory stores a finished command in the archive, if there is one.
func (s *Session) ArchiveHistory(cmd *history.Command) {
	if s.Archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Archive.Record(ctx, cmd); err != nil {
		fmt.Fprintf(s.stderr, "history: %v\n", err)
	}
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	s.w = w
}

func (s *syncWriter) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(b)
}

var (
	// ErrElevationFailed is returned when the secret doesn't match.
	ErrElevationFailed = errors.New("incorrect password")
	// ErrNoVerifier is returned when the session can't be elevated at all.
	ErrNoVerifier = errors.New("elevation is not configured")
)
