package commands

import (
	"io"

	"github.com/josephlewis42/tiks/core/session"
)

// Clear implements the UNIX clear command.
func Clear(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "clear",
		Short: "Clear the terminal screen.",
	}

	return cmd.Run(inv, func() (Result, error) {
		// Assumes VT100 compatibility.
		io.WriteString(s.Stdout(), "\033[H\033[2J")
		return OK(""), nil
	})
}

var _ BuiltinFunc = Clear

func init() {
	addBuiltin("clear", "Clear the screen", Clear)
}
