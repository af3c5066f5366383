package commands

import (
	"github.com/josephlewis42/tiks/core/session"
	"github.com/spf13/afero"
)

// Cat returns the contents of a file.
func Cat(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "cat FILE",
		Short: "Print the contents of a file.",
	}

	return cmd.Run(inv, func() (Result, error) {
		file := inv.Arg(0)
		if file == "" {
			return Nothing(NoFileText), nil
		}

		contents, err := afero.ReadFile(s.Fs(), s.Resolve(file))
		if err != nil {
			return fsFailure("cat", file, err)
		}
		return OK(string(contents)), nil
	})
}

var _ BuiltinFunc = Cat

func init() {
	addBuiltin("cat", "View file only read", Cat)
}
