package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"sync"

	"github.com/gliderlabs/ssh"
	"github.com/josephlewis42/tiks/core/logger"
	"github.com/josephlewis42/tiks/core/shell"
	"github.com/spf13/afero"
	"golang.org/x/crypto/bcrypt"
	gossh "golang.org/x/crypto/ssh"
)

// Server gives each SSH connection its own shell session. Sessions see the
// configured root directory read-only with their changes kept in memory.
type Server struct {
	runtime   *Runtime
	sshServer *ssh.Server
}

// NewServer creates an SSH server using the runtime's host key.
func NewServer(rt *Runtime) (*Server, error) {
	server := &Server{runtime: rt}

	server.sshServer = &ssh.Server{
		Addr: fmt.Sprintf(":%d", rt.Config.SSH.Port),
		Handler: func(s ssh.Session) {
			if err := server.HandleConnection(s); err != nil {
				log.Printf("session error: %v", err)
			}
		},
		PasswordHandler: func(ctx ssh.Context, password string) bool {
			return server.checkPassword(password)
		},
	}

	pem, err := rt.Config.PrivateKeyPem()
	if err != nil {
		return nil, fmt.Errorf("couldn't read host key, run init: %w", err)
	}
	signer, err := gossh.ParsePrivateKey(pem)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse host key: %w", err)
	}
	server.sshServer.AddHostKey(signer)

	return server, nil
}

func (s *Server) checkPassword(password string) bool {
	hash := []byte(s.runtime.Config.SSH.PasswordHash)
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// sandboxFs exposes the configured root read-only with an in-memory overlay.
func (s *Server) sandboxFs() afero.Fs {
	base := afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), s.runtime.Config.SSH.Root))
	return afero.NewCopyOnWriteFs(base, afero.NewMemMapFs())
}

// HandleConnection runs a shell for the connection until it exits.
func (s *Server) HandleConnection(conn ssh.Session) error {
	fs := s.sandboxFs()
	home := path.Join("/home", conn.User())
	if err := fs.MkdirAll(home, 0755); err != nil {
		return err
	}

	sess := s.runtime.NewSandboxedSession(fs, conn.User(), home)

	ptyInfo, winch, isPTY := conn.Pty()
	sess.Logger.Record(&logger.Login{
		Username:   conn.User(),
		RemoteAddr: conn.RemoteAddr().String(),
		Terminal:   ptyInfo.Term,
		IsPTY:      isPTY,
	})
	sess.Color = s.runtime.Config.Shell.ShouldColor(isPTY)

	// Watch for window changes.
	var mu sync.Mutex
	width := ptyInfo.Window.Width
	go func() {
		for window := range winch {
			mu.Lock()
			width = window.Width
			mu.Unlock()
		}
	}()

	var stdout, stderr io.Writer = conn, conn.Stderr()
	if isPTY {
		stdout, stderr = &crlfWriter{conn}, &crlfWriter{conn.Stderr()}
	}

	sh, err := s.runtime.NewShell(sess, shell.Terminal{
		Stdin:  conn,
		Stdout: stdout,
		Stderr: stderr,
		IsTerminal: func() bool {
			return isPTY
		},
		Width: func() int {
			mu.Lock()
			defer mu.Unlock()
			return width
		},
	})
	if err != nil {
		conn.Exit(1)
		return err
	}
	defer sh.Close()

	if s.runtime.Config.Shell.Banner {
		shell.WriteBanner(stdout, sess)
	}

	err = sh.Run()
	if err != nil {
		conn.Exit(1)
		return err
	}
	return conn.Exit(0)
}

func (s *Server) ListenAndServe() error {
	log.Printf("- Starting SSH server on %s\n", s.sshServer.Addr)
	return s.sshServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.sshServer.Shutdown(ctx)
}

// crlfWriter translates newlines for terminals in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (c *crlfWriter) Write(b []byte) (int, error) {
	converted := bytes.ReplaceAll(b, []byte("\n"), []byte("\r\n"))
	if _, err := c.w.Write(converted); err != nil {
		return 0, err
	}
	return len(b), nil
}
