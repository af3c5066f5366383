package commands

import (
	"path"

	"github.com/josephlewis42/tiks/core/session"
)

// Rn renames a file or directory.
func Rn(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "rn OLD NEW",
		Short: "Rename a file or directory.",
	}

	return cmd.Run(inv, func() (Result, error) {
		return rename(s, "rn", inv.Arg(0), inv.Arg(1), false)
	})
}

// Mv renames a file or directory. If the destination is an existing
// directory the source is moved into it.
func Mv(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "mv SOURCE DEST",
		Short: "Move a file or directory.",
	}

	return cmd.Run(inv, func() (Result, error) {
		return rename(s, "mv", inv.Arg(0), inv.Arg(1), true)
	})
}

func rename(s *session.Session, name, source, dest string, intoDir bool) (Result, error) {
	if source == "" || dest == "" {
		return Nothing(NoFileText), nil
	}

	from := s.Resolve(source)
	to := s.Resolve(dest)
	if intoDir {
		if stat, err := s.Fs().Stat(to); err == nil && stat.IsDir() {
			to = path.Join(to, path.Base(from))
		}
	}

	if err := s.Fs().Rename(from, to); err != nil {
		return fsFailure(name, source, err)
	}
	return OK(""), nil
}

var (
	_ BuiltinFunc = Rn
	_ BuiltinFunc = Mv
)

func init() {
	addBuiltin("rn", "Rename directory or file", Rn)
	addBuiltin("mv", "Move file's path", Mv)
}
