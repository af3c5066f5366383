package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	DownloadDirName   = "downloads"
	PrivateKeyName    = "private_key"
	AppLogName        = "app.log"
	HistoryDBName     = "history.db"
	UpdateScriptName  = "update_script.sh"

	// DefaultPassword is the sudo and SSH password written by Initialize.
	DefaultPassword = "tiks"
)

type Configuration struct {
	configFs         afero.Fs
	configurationDir string

	User     User     `json:"user"`
	Shell    Shell    `json:"shell"`
	History  History  `json:"history"`
	SSH      SSH      `json:"ssh"`
	Packages Packages `json:"packages"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

type User struct {
	Username         string `json:"username"`
	ElevatedIdentity string `json:"elevated_identity" validate:"required"`
	SudoPasswordHash string `json:"sudo_password_hash" validate:"required"`
}

type Shell struct {
	Prompt string `json:"prompt" validate:"required"`
	Color  string `json:"color" validate:"oneof=always auto never"`
	Banner bool   `json:"banner"`
}

// ShouldColor resolves the color setting against whether output is a terminal.
func (s Shell) ShouldColor(isTerminal bool) bool {
	switch s.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTerminal
	}
}

type History struct {
	Archive bool `json:"archive"`
}

type SSH struct {
	Port         int    `json:"port" validate:"gte=0,lte=65535"`
	PasswordHash string `json:"password_hash" validate:"required"`
	Root         string `json:"root" validate:"required"`
}

type Packages struct {
	CurrentVersion string    `json:"current_version" validate:"required"`
	UpdateURL      string    `json:"update_url" validate:"omitempty,url"`
	UpdateCommand  string    `json:"update_command" validate:"required"`
	RateLimitBytes int64     `json:"rate_limit_bytes" validate:"gte=0"`
	Index          []Package `json:"index" validate:"unique=Name,dive"`
}

type Package struct {
	Name    string `json:"name" validate:"required"`
	Version string `json:"version" validate:"required"`
	URL     string `json:"url" validate:"required,url"`
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// Dir is the directory the configuration was loaded from.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

// Path resolves a name inside the configuration directory on the host.
func (c *Configuration) Path(name string) string {
	return filepath.Join(c.configurationDir, name)
}

// CreateDownload creates a download with the given name.
func (c *Configuration) CreateDownload(name string) (afero.File, error) {
	if err := c.fs().MkdirAll(DownloadDirName, 0700); err != nil {
		return nil, err
	}
	toCreate := filepath.Join(DownloadDirName, filepath.Base(name))
	return c.fs().Create(toCreate)
}

// CreateUpdateScript creates the script run by the package manager on update.
func (c *Configuration) CreateUpdateScript() (afero.File, error) {
	return c.fs().OpenFile(UpdateScriptName, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0700)
}

// RemoveUpdateScript deletes the update script.
func (c *Configuration) RemoveUpdateScript() error {
	return c.fs().Remove(UpdateScriptName)
}

// PrivateKeyPem returns the bytes of the SSH host key.
func (c *Configuration) PrivateKeyPem() ([]byte, error) {
	return afero.ReadFile(c.fs(), PrivateKeyName)
}

// OpenAppLog opens the application log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

func (c *Configuration) ReadAppLog() (afero.File, error) {
	return c.fs().OpenFile(AppLogName, os.O_RDONLY, 0600)
}

// FindPackage looks up a package in the index by name.
func (c *Configuration) FindPackage(name string) (Package, bool) {
	for _, pkg := range c.Packages.Index {
		if pkg.Name == name {
			return pkg, true
		}
	}
	return Package{}, false
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
