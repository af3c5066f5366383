package commands

import (
	"context"
	"fmt"

	"github.com/josephlewis42/tiks/core/session"
)

const aptUsage = "apt -i PACKAGE | apt -update VERSION"

// Apt installs packages or updates tiks itself. It needs an elevated session.
//
// The options are single-dash long words so they're matched directly rather
// than through getopt.
func Apt(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   aptUsage,
		Short: "Install packages or update to a new version.",

		// -update isn't a getopt flag.
		NeverBail: true,
	}

	return cmd.Run(inv, func() (Result, error) {
		if !s.Elevated() {
			return Failed(), ErrPermissionDenied
		}
		if s.Packages == nil {
			return Failed(), fmt.Errorf("no package sources configured")
		}

		var action string
		for _, opt := range inv.Options {
			switch opt {
			case "-i", "-update":
				action = opt
			default:
				return Result{Status: StatusUsage}, fmt.Errorf("%w: unknown option %q (usage: %s)", ErrUsage, opt, aptUsage)
			}
		}

		operand := inv.Arg(0)
		switch {
		case action == "":
			return Result{Status: StatusUsage}, fmt.Errorf("%w: usage: %s", ErrUsage, aptUsage)
		case operand == "":
			return Nothing(NoPatternText), nil
		}

		// Downloads block until they complete.
		ctx := context.Background()
		if action == "-update" {
			text, err := s.Packages.Update(ctx, operand)
			if err != nil {
				return Failed(), err
			}
			return OK(text), nil
		}

		pkg, ok := s.Packages.Find(operand)
		if !ok {
			return Failed(), fmt.Errorf("unable to locate package %s", operand)
		}
		text, err := s.Packages.Install(ctx, pkg)
		if err != nil {
			return Failed(), err
		}
		return OK(text), nil
	})
}

var _ BuiltinFunc = Apt

func init() {
	addBuiltin("apt", "Install a package or update (needs sudo)", Apt)
}
