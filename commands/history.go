package commands

import (
	"strings"

	"github.com/josephlewis42/tiks/core/session"
)

// History prints the lines entered in this session, oldest first.
func History(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "history",
		Short: "Display the command history list with line numbers.",
	}

	return cmd.Run(inv, func() (Result, error) {
		return OK(strings.TrimSuffix(s.History.String(), "\n")), nil
	})
}

var _ BuiltinFunc = History

func init() {
	addBuiltin("history", "View command history", History)
}
