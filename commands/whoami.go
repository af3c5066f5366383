package commands

import (
	"github.com/josephlewis42/tiks/core/session"
)

// Whoami prints the current user, or the elevated identity after sudo.
func Whoami(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "whoami [OPTION]...",
		Short: "Print the current user.",

		// Never bail, even if args are bad.
		NeverBail: true,
	}

	return cmd.Run(inv, func() (Result, error) {
		return OK(s.Identity()), nil
	})
}

var _ BuiltinFunc = Whoami

func init() {
	addBuiltin("whoami", "Print the current user", Whoami)
}
