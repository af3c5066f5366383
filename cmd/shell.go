package cmd

import (
	"fmt"
	"log"
	"os"
	"os/user"

	"github.com/josephlewis42/tiks/core"
	"github.com/josephlewis42/tiks/core/logger"
	"github.com/josephlewis42/tiks/core/session"
	"github.com/josephlewis42/tiks/core/shell"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const fallbackWidth = 80

var shellCommand string

// shellCmd runs an interactive shell over the local filesystem
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell in the current directory.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logFd, err := cfg.OpenAppLog()
		if err != nil {
			return err
		}
		defer logFd.Close()

		runtime, err := core.NewRuntime(cfg, logFd)
		if err != nil {
			return err
		}
		defer runtime.Close()

		username := cfg.User.Username
		if username == "" {
			username = currentUsername()
		}
		home, err := os.UserHomeDir()
		if err != nil {
			home = "/"
		}

		s := runtime.NewSession(afero.NewOsFs(), username, home)
		if cwd, err := os.Getwd(); err == nil {
			if err := s.Chdir(cwd); err != nil {
				log.Printf("couldn't start in %s: %v", cwd, err)
			}
		}

		stdinIsTerminal := term.IsTerminal(int(os.Stdin.Fd()))
		s.Color = cfg.Shell.ShouldColor(term.IsTerminal(int(os.Stdout.Fd())))
		s.Logger.Record(&logger.Login{
			Username: username,
			Terminal: os.Getenv("TERM"),
			IsPTY:    stdinIsTerminal,
		})

		if shellCommand != "" {
			return runOnce(cmd, runtime, s, shellCommand)
		}

		sh, err := runtime.NewShell(s, shell.Terminal{
			Stdin:  os.Stdin,
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
			IsTerminal: func() bool {
				return stdinIsTerminal
			},
			Width: terminalWidth,
		})
		if err != nil {
			return err
		}
		defer sh.Close()

		if cfg.Shell.Banner && stdinIsTerminal {
			shell.WriteBanner(cmd.OutOrStdout(), s)
		}

		return sh.Run()
	},
}

// runOnce executes a single line and waits for any background segments.
func runOnce(cmd *cobra.Command, runtime *core.Runtime, s *session.Session, line string) error {
	s.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

	executor := shell.NewExecutor(runtime.Builtins)
	res, err := executor.Run(line, s)
	if waitErr := executor.Wait(); err == nil {
		err = waitErr
	}
	if err != nil {
		return err
	}

	s.Print(res.Text)
	if res.Status != 0 {
		return fmt.Errorf("exit status %d", res.Status)
	}
	return nil
}

func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "tiks"
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().StringVarP(&shellCommand, "command", "c", "", "run a single line and exit")
}
