package commands

import (
	"fmt"
	"os"

	"github.com/josephlewis42/tiks/core/session"
)

// Touch creates a new empty file, failing if it already exists.
func Touch(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "touch FILE",
		Short: "Create a new empty file.",
	}

	return cmd.Run(inv, func() (Result, error) {
		file := inv.Arg(0)
		if file == "" {
			return Nothing(NoFileText), nil
		}

		fd, err := s.Fs().OpenFile(s.Resolve(file), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err != nil {
			return fsFailure("touch", file, err)
		}
		if err := fd.Close(); err != nil {
			return fsFailure("touch", file, err)
		}

		return OK(fmt.Sprintf("Successfully created %s", file)), nil
	})
}

var _ BuiltinFunc = Touch

func init() {
	addBuiltin("touch", "Create a new file", Touch)
}
