package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/ssh"
	"sigs.k8s.io/yaml"
)

// HashPassword creates the bcrypt hash stored in the configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Initialize writes a default configuration to dir and loads it. Existing files
// are left untouched.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	if err := initializeFs(afero.NewBasePathFs(afero.NewOsFs(), dir), logger); err != nil {
		return nil, err
	}
	return Load(dir)
}

func initializeFs(configFs afero.Fs, logger *log.Logger) error {
	exists, err := afero.Exists(configFs, ConfigurationName)
	switch {
	case err != nil:
		return err
	case exists:
		logger.Printf("%s already exists, skipping", ConfigurationName)
	default:
		cfg := defaultConfig()

		passwordHash, err := HashPassword(DefaultPassword)
		if err != nil {
			return err
		}
		cfg.User.SudoPasswordHash = passwordHash
		cfg.SSH.PasswordHash = passwordHash

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		if err := afero.WriteFile(configFs, ConfigurationName, out, 0600); err != nil {
			return err
		}
		logger.Printf("Wrote %s, the sudo and ssh password is %q", ConfigurationName, DefaultPassword)
	}

	if _, err := configFs.Stat(PrivateKeyName); errors.Is(err, fs.ErrNotExist) {
		keyPem, err := generateHostKey()
		if err != nil {
			return err
		}
		if err := afero.WriteFile(configFs, PrivateKeyName, keyPem, 0600); err != nil {
			return err
		}
		logger.Printf("Generated SSH host key %s", PrivateKeyName)
	}

	if err := configFs.MkdirAll(filepath.Join(DownloadDirName), 0700); err != nil {
		return fmt.Errorf("couldn't create %s: %w", DownloadDirName, err)
	}

	return nil
}

func generateHostKey() ([]byte, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	block, err := ssh.MarshalPrivateKey(privateKey, "tiks host key")
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(block), nil
}
