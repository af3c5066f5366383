package commands

import (
	"github.com/josephlewis42/tiks/core/session"
)

// Pwd implements the UNIX pwd command.
func Pwd(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "pwd",
		Short: "Print the name of the current working directory.",
	}

	return cmd.Run(inv, func() (Result, error) {
		return OK(s.Getwd()), nil
	})
}

var _ BuiltinFunc = Pwd

func init() {
	addBuiltin("pwd", "View current directory", Pwd)
}
