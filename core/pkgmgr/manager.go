// Package pkgmgr downloads packages from the configured index and updates
// tiks by running a downloaded update script.
package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"path"
	"strings"
	"time"

	"github.com/anmitsu/go-shlex"
	"github.com/dustin/go-humanize"
	"github.com/josephlewis42/tiks/core/config"
	"github.com/josephlewis42/tiks/core/logger"
	"github.com/josephlewis42/tiks/core/session"
	"github.com/juju/ratelimit"
	"github.com/spf13/afero"
)

// LatestVersionText is returned when updating to the running version.
const LatestVersionText = "The current version is the latest one"

// VersionPlaceholder is replaced with the requested version in the update URL.
const VersionPlaceholder = "{version}"

var (
	// ErrNoUpdateURL is returned when updates aren't configured.
	ErrNoUpdateURL = errors.New("no update_url configured")
	// ErrUpdatesDisabled is returned by sandboxed managers.
	ErrUpdatesDisabled = errors.New("updates are disabled in this session")
)

// Runner executes a command to completion and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands on the host.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

var defaultClient = &http.Client{
	Timeout: 10 * time.Minute,
}

// Manager implements session.PackageManager.
type Manager struct {
	Config *config.Configuration
	Client *http.Client
	Run    Runner
	Logger *logger.SessionLogger

	// Downloads receives installed packages. When nil they're written to the
	// configuration's downloads directory.
	Downloads   afero.Fs
	DownloadDir string
	// DisableUpdates stops Update from running scripts on the host.
	DisableUpdates bool
}

var _ session.PackageManager = (*Manager)(nil)

// New creates a manager for the configuration that reports downloads to l.
func New(cfg *config.Configuration, l *logger.SessionLogger) *Manager {
	return &Manager{
		Config: cfg,
		Client: defaultClient,
		Run:    ExecRunner,
		Logger: l,
	}
}

// NewSandboxed creates a manager that installs packages into dir on
// filesystem and refuses to run update scripts.
func NewSandboxed(cfg *config.Configuration, l *logger.SessionLogger, filesystem afero.Fs, dir string) *Manager {
	m := New(cfg, l)
	m.Downloads = filesystem
	m.DownloadDir = dir
	m.DisableUpdates = true
	return m
}

// Find looks up a package in the configured index.
func (m *Manager) Find(name string) (session.Package, bool) {
	pkg, ok := m.Config.FindPackage(name)
	if !ok {
		return session.Package{}, false
	}
	return session.Package{Name: pkg.Name, Version: pkg.Version, URL: pkg.URL}, true
}

// Install downloads the package into the downloads directory.
func (m *Manager) Install(ctx context.Context, pkg session.Package) (string, error) {
	name := path.Base(pkg.URL)
	if name == "." || name == "/" {
		name = pkg.Name
	}

	fd, err := m.createDownload(name)
	if err != nil {
		return "", fmt.Errorf("couldn't create download: %w", err)
	}
	defer fd.Close()

	n, err := m.fetch(ctx, pkg.URL, fd)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Successfully downloaded package %s %s (%s)", pkg.Name, pkg.Version, humanize.Bytes(uint64(n))), nil
}

// Update downloads the update script for the version and runs it with the
// configured update command. The script is removed if it succeeds.
func (m *Manager) Update(ctx context.Context, version string) (string, error) {
	settings := m.Config.Packages
	if version == settings.CurrentVersion {
		return LatestVersionText, nil
	}
	if m.DisableUpdates {
		return "", ErrUpdatesDisabled
	}
	if settings.UpdateURL == "" {
		return "", ErrNoUpdateURL
	}

	argv, err := shlex.Split(settings.UpdateCommand, true)
	if err != nil {
		return "", fmt.Errorf("invalid update_command: %w", err)
	}
	if len(argv) == 0 {
		argv = []string{"bash"}
	}

	fd, err := m.Config.CreateUpdateScript()
	if err != nil {
		return "", fmt.Errorf("couldn't create update script: %w", err)
	}

	source := strings.ReplaceAll(settings.UpdateURL, VersionPlaceholder, version)
	_, err = m.fetch(ctx, source, fd)
	if closeErr := fd.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", err
	}

	scriptPath := m.Config.Path(config.UpdateScriptName)
	out, err := m.Run(ctx, argv[0], append(argv[1:], scriptPath)...)
	if err != nil {
		return "", fmt.Errorf("update script failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	if err := m.Config.RemoveUpdateScript(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully updated to version %s", version), nil
}

func (m *Manager) createDownload(name string) (afero.File, error) {
	if m.Downloads == nil {
		return m.Config.CreateDownload(name)
	}
	if err := m.Downloads.MkdirAll(m.DownloadDir, 0755); err != nil {
		return nil, err
	}
	return m.Downloads.Create(path.Join(m.DownloadDir, path.Base(name)))
}

// fetch copies the body at source into w, throttled to the configured rate.
func (m *Manager) fetch(ctx context.Context, source string, w io.Writer) (int64, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return 0, err
	}

	response, err := m.Client.Do(request)
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetching %s: %s", source, response.Status)
	}

	var body io.Reader = response.Body
	if rate := m.Config.Packages.RateLimitBytes; rate > 0 {
		tokenBucket := ratelimit.NewBucketWithRate(float64(rate), rate)
		body = ratelimit.Reader(response.Body, tokenBucket)
	}

	n, err := io.Copy(w, body)
	m.Logger.Record(&logger.Download{Source: source, Name: path.Base(request.URL.Path), Bytes: n})
	return n, err
}
