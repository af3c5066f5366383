package commands

import (
	"errors"
	"fmt"

	"github.com/josephlewis42/tiks/core/session"
)

// Sudo elevates the session after verifying the user's password.
//
// A wrong password prompts again with no retry limit; only a failure to read
// from the prompter ends the loop. With -k the session drops back to normal.
func Sudo(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "sudo [-k]",
		Short: "Switch to the elevated identity.",
	}
	reset := cmd.Flags().Bool('k', "drop elevated privileges")

	return cmd.Run(inv, func() (Result, error) {
		if *reset {
			s.Drop()
			return OK(""), nil
		}

		if s.Elevated() {
			return OK(fmt.Sprintf("Already running as %s", s.Identity())), nil
		}

		if s.Prompter == nil {
			return Failed(), errors.New("no terminal to read the password from")
		}

		prompt := fmt.Sprintf("[sudo] password for %s: ", s.Username())
		for {
			secret, err := s.Prompter.ReadSecret(prompt)
			if err != nil {
				return Failed(), err
			}

			err = s.Elevate(secret)
			switch {
			case err == nil:
				return OK(fmt.Sprintf("Switched to %s", s.Identity())), nil
			case errors.Is(err, session.ErrElevationFailed):
				fmt.Fprintln(s.Stderr(), "Sorry, try again.")
			default:
				return Failed(), err
			}
		}
	})
}

var _ BuiltinFunc = Sudo

func init() {
	addBuiltin("sudo", "Run as the elevated user", Sudo)
}
