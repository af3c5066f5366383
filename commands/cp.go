package commands

import (
	"fmt"

	"github.com/josephlewis42/tiks/core/session"
	"github.com/spf13/afero"
)

// Cp copies the contents of one file to another.
func Cp(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "cp SOURCE DEST",
		Short: "Copy a file.",
	}

	return cmd.Run(inv, func() (Result, error) {
		source, dest := inv.Arg(0), inv.Arg(1)
		if source == "" || dest == "" {
			return Nothing(NoPatternText), nil
		}

		contents, err := afero.ReadFile(s.Fs(), s.Resolve(source))
		if err != nil {
			return fsFailure("cp", source, err)
		}
		if err := afero.WriteFile(s.Fs(), s.Resolve(dest), contents, 0644); err != nil {
			return fsFailure("cp", dest, err)
		}
		return OK(fmt.Sprintf("Successfully copied to %s", dest)), nil
	})
}

var _ BuiltinFunc = Cp

func init() {
	addBuiltin("cp", "Copy a file", Cp)
}
