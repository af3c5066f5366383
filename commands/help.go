package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/josephlewis42/tiks/core/session"
)

// Help lists the registered builtins with a short description.
func Help(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "help",
		Short: "List the available commands.",
	}

	return cmd.Run(inv, func() (Result, error) {
		return OK(helpText(AllBuiltins)), nil
	})
}

func helpText(r Registry) string {
	sb := &strings.Builder{}
	tw := tabwriter.NewWriter(sb, 0, 0, 2, ' ', 0)
	for _, entry := range r.List() {
		fmt.Fprintf(tw, "%s\t%s\n", entry.Name, entry.Short)
	}
	tw.Flush()
	return strings.TrimSuffix(sb.String(), "\n")
}

var _ BuiltinFunc = Help

func init() {
	addBuiltin("help", "List commands", Help)
}
