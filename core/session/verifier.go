package session

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Verifier validates elevation secrets.
type Verifier interface {
	Verify(secret string) error
}

// BcryptVerifier checks secrets against a bcrypt hash.
type BcryptVerifier string

func (hash BcryptVerifier) Verify(secret string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrElevationFailed
	default:
		return err
	}
}

var _ Verifier = BcryptVerifier("")
