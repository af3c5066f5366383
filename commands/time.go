package commands

import (
	"github.com/josephlewis42/tiks/core/session"
)

// TimeFormat is the layout used by the time builtin.
const TimeFormat = "2006-01-02 15:04:05"

// Time prints the session's local time.
func Time(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "time",
		Short: "Print the current local time.",
	}

	return cmd.Run(inv, func() (Result, error) {
		return OK(s.Now().Local().Format(TimeFormat)), nil
	})
}

var _ BuiltinFunc = Time

func init() {
	addBuiltin("time", "Print the current time", Time)
}
