package shell

import (
	"errors"
	"io"
	"log"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/tiks/core/session"
)

// DefaultPrompt is used when no prompt is configured.
const DefaultPrompt = `\u@\h:\w\$ `

// Terminal is the I/O a Shell reads lines from and writes output to.
type Terminal struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTerminal reports whether Stdin is interactive.
	IsTerminal func() bool
	// Width reports the current width of the terminal in columns.
	Width func() int
}

// Shell is an interactive read-eval-print loop over a session.
type Shell struct {
	Session  *session.Session
	Executor *Executor
	Readline *readline.Instance

	// PromptFormat supports \u (user), \h (host), \w (directory) and \$.
	PromptFormat string
	Hostname     string
}

// NewShell attaches the session to the terminal. The shell becomes the
// session's prompter for secrets.
func NewShell(s *session.Session, executor *Executor, term Terminal) (*Shell, error) {
	cfg := &readline.Config{
		Stdin:          readline.NewCancelableStdin(term.Stdin),
		Stdout:         term.Stdout,
		Stderr:         term.Stderr,
		FuncGetWidth:   term.Width,
		FuncIsTerminal: term.IsTerminal,
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	sh := &Shell{
		Session:      s,
		Executor:     executor,
		Readline:     rl,
		PromptFormat: DefaultPrompt,
		Hostname:     "localhost",
	}
	s.SetOutput(term.Stdout, term.Stderr)
	s.Prompter = sh

	return sh, nil
}

// Prompt renders the prompt for the session's current state.
func (sh *Shell) Prompt() string {
	prompt := sh.PromptFormat
	if prompt == "" {
		prompt = DefaultPrompt
	}

	pwd := sh.Session.Getwd()
	home := sh.Session.Home()
	if home != "/" && (pwd == home || strings.HasPrefix(pwd, home+"/")) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}

	dollar := "$"
	if sh.Session.Elevated() {
		dollar = "#"
	}

	return strings.NewReplacer(
		`\u`, sh.Session.Identity(),
		`\h`, sh.Hostname,
		`\w`, pwd,
		`\$`, dollar,
	).Replace(prompt)
}

// ReadSecret reads a line without echoing it.
func (sh *Shell) ReadSecret(prompt string) (string, error) {
	secret, err := sh.Readline.ReadPassword(prompt)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

var _ session.Prompter = (*Shell)(nil)

// Run reads and executes lines until the input closes or the session exits.
// Failures are printed and never end the loop. Outstanding background
// segments are waited for before returning.
func (sh *Shell) Run() error {
	defer sh.Executor.Wait()

	for !sh.Session.Exited() {
		sh.Readline.SetPrompt(sh.Prompt())
		line, err := sh.Readline.Readline()

		switch {
		case errors.Is(err, io.EOF):
			return nil // Input closed, quit.

		case errors.Is(err, readline.ErrInterrupt):
			continue

		case err != nil:
			log.Printf("Error readline: %v", err)
			return err

		case strings.TrimSpace(line) == "":
			continue // empty line
		}

		sh.Eval(line)
	}

	return nil
}

// Eval executes one line and prints its output or error.
func (sh *Shell) Eval(line string) {
	res, err := sh.Executor.Run(line, sh.Session)
	if err != nil {
		io.WriteString(sh.Session.Stderr(), err.Error()+"\n")
		return
	}
	sh.Session.Print(res.Text)
}

// Close releases the terminal.
func (sh *Shell) Close() error {
	return sh.Readline.Close()
}
