package commands

import (
	"errors"

	"github.com/josephlewis42/tiks/core/session"
)

// Tar creates or extracts gzipped tape archives.
//
//	tar -zxvf FILE ARCHIVE   compresses FILE into ARCHIVE
//	tar -xvf ARCHIVE         extracts ARCHIVE into the working directory
func Tar(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "tar -zxvf FILE ARCHIVE | tar -xvf ARCHIVE",
		Short: "Compress a file into a tar.gz archive or extract one.",
	}

	opts := cmd.Flags()
	compress := opts.Bool('z', "compress FILE into ARCHIVE")
	extract := opts.Bool('x', "extract ARCHIVE")
	opts.Bool('v', "verbose, accepted for compatibility")
	opts.Bool('f', "use archive file, accepted for compatibility")

	return cmd.Run(inv, func() (Result, error) {
		if s.Archiver == nil {
			return Failed(), errors.New("archives are not supported")
		}

		switch {
		case *compress:
			file, archive := inv.Arg(0), inv.Arg(1)
			if file == "" || archive == "" {
				return Nothing(NoFileText), nil
			}
			text, err := s.Archiver.Compress(s.Resolve(file), s.Resolve(archive))
			if err != nil {
				return Failed(), err
			}
			return OK(text), nil

		case *extract:
			archive := inv.Arg(0)
			if archive == "" {
				return Nothing(NoFileText), nil
			}
			text, err := s.Archiver.Decompress(s.Resolve(archive), s.Getwd())
			if err != nil {
				return Failed(), err
			}
			return OK(text), nil

		default:
			return Result{Status: StatusUsage}, ErrUsage
		}
	})
}

var _ BuiltinFunc = Tar

func init() {
	addBuiltin("tar", "Compress or extract a tar.gz archive", Tar)
}
