package commands

import (
	"github.com/josephlewis42/tiks/core/session"
)

// Exit ends the interactive session after the current line.
func Exit(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "exit",
		Short: "Exit the shell.",

		NeverBail: true,
	}

	return cmd.Run(inv, func() (Result, error) {
		s.Exit()
		return OK(""), nil
	})
}

var _ BuiltinFunc = Exit

func init() {
	addBuiltin("exit", "Exit the shell", Exit)
}
