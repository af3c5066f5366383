package commands

import (
	"fmt"

	"github.com/josephlewis42/tiks/core/session"
)

// Mkdir creates a directory and any missing parents.
func Mkdir(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "mkdir DIRECTORY",
		Short: "Create a directory, including parents, if it doesn't exist.",
	}

	return cmd.Run(inv, func() (Result, error) {
		dir := inv.Arg(0)
		if dir == "" {
			return Nothing(NoDirText), nil
		}

		if err := s.Fs().MkdirAll(s.Resolve(dir), 0755); err != nil {
			return fsFailure("mkdir", dir, err)
		}
		return OK(fmt.Sprintf("Successfully created %s", dir)), nil
	})
}

var _ BuiltinFunc = Mkdir

func init() {
	addBuiltin("mkdir", "Create a new directory", Mkdir)
}
