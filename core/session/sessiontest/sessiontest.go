// Package sessiontest provides deterministic sessions for tests.
package sessiontest

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/josephlewis42/tiks/core/session"
	"github.com/spf13/afero"
	"golang.org/x/crypto/bcrypt"
)

const (
	Username = "tiks"
	Home     = "/home/tiks"
	Password = "hunter2"
)

// ErrNoMoreSecrets is returned by a ScriptedPrompter after its last secret.
var ErrNoMoreSecrets = errors.New("no more secrets")

// Now is the fixed clock of deterministic sessions: Go's reference timestamp.
func Now() time.Time {
	return time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC)
}

// Output captures a session's stdout and stderr.
type Output struct {
	mu     sync.Mutex
	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

func (o *Output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Stdout.String()
}

func (o *Output) ErrString() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Stderr.String()
}

type lockedBuffer struct {
	mu  *sync.Mutex
	buf *bytes.Buffer
}

func (l lockedBuffer) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(b)
}

// NewDeterministicSession creates a session over an in-memory filesystem with
// the home directory already created. The sudo password is Password.
func NewDeterministicSession() (*session.Session, *Output) {
	fs := afero.NewMemMapFs()
	fs.MkdirAll(Home, 0755)

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s := session.New(fs, session.Identity{
		Username:     Username,
		ElevatedName: "root",
		Home:         Home,
		Verifier:     session.BcryptVerifier(hash),
	})
	s.Now = Now

	out := &Output{}
	s.SetOutput(lockedBuffer{&out.mu, &out.Stdout}, lockedBuffer{&out.mu, &out.Stderr})
	return s, out
}

// ScriptedPrompter answers prompts from a fixed list, then fails.
type ScriptedPrompter struct {
	mu      sync.Mutex
	Secrets []string
	Prompts []string
}

func NewScriptedPrompter(secrets ...string) *ScriptedPrompter {
	return &ScriptedPrompter{Secrets: secrets}
}

func (p *ScriptedPrompter) ReadSecret(prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Prompts = append(p.Prompts, prompt)
	if len(p.Secrets) == 0 {
		return "", ErrNoMoreSecrets
	}
	next := p.Secrets[0]
	p.Secrets = p.Secrets[1:]
	return next, nil
}

var _ session.Prompter = (*ScriptedPrompter)(nil)
