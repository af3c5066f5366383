package commands

import (
	"fmt"

	"github.com/josephlewis42/tiks/core/session"
)

// Cd changes the session's working directory, defaulting to home.
func Cd(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "cd [DIR]",
		Short: "Change the working directory.",
	}

	return cmd.Run(inv, func() (Result, error) {
		dir := inv.Arg(0)
		if dir == "" {
			dir = s.Home()
		}

		if err := s.Chdir(dir); err != nil {
			return fsFailure("cd", dir, err)
		}
		return OK(fmt.Sprintf("Successfully changed directory to %s.", dir)), nil
	})
}

var _ BuiltinFunc = Cd

func init() {
	addBuiltin("cd", "Change directory", Cd)
}
