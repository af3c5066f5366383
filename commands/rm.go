package commands

import (
	"errors"

	"github.com/josephlewis42/tiks/core/session"
)

var errDirNotEmpty = errors.New("directory not empty")

// Rm removes a file, or a directory if the path currently is one.
func Rm(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "rm PATH",
		Short: "Remove a file or an empty directory.",
	}

	return cmd.Run(inv, func() (Result, error) {
		file := inv.Arg(0)
		if file == "" {
			return Nothing(NoFileText), nil
		}

		target := s.Resolve(file)
		stat, err := s.Fs().Stat(target)
		if err != nil {
			return fsFailure("rm", file, err)
		}

		// Directories are only removed when empty, like rmdir.
		if stat.IsDir() {
			if err := removeEmptyDir(s, target); err != nil {
				return fsFailure("rm", file, err)
			}
			return OK(""), nil
		}

		if err := s.Fs().Remove(target); err != nil {
			return fsFailure("rm", file, err)
		}
		return OK(""), nil
	})
}

func removeEmptyDir(s *session.Session, dir string) error {
	fd, err := s.Fs().Open(dir)
	if err != nil {
		return err
	}
	names, err := fd.Readdirnames(1)
	fd.Close()
	if err == nil && len(names) > 0 {
		return errDirNotEmpty
	}
	return s.Fs().Remove(dir)
}

var _ BuiltinFunc = Rm

func init() {
	addBuiltin("rm", "Delete directory or file", Rm)
}
