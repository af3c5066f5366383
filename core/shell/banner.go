package shell

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/josephlewis42/tiks/core/session"
)

// WriteBanner greets the user when a shell starts.
func WriteBanner(w io.Writer, s *session.Session) {
	title := color.New(color.FgCyan, color.Bold)
	hint := color.New(color.Faint)
	if s.Color {
		title.EnableColor()
		hint.EnableColor()
	} else {
		title.DisableColor()
		hint.DisableColor()
	}

	fmt.Fprintln(w, title.Sprintf("Welcome to tiks, %s!", s.Username()))
	fmt.Fprintln(w, hint.Sprint("Type 'help' to list commands, 'exit' to quit."))
	fmt.Fprintln(w, hint.Sprint("Join commands with |, run them in the background with & or save output with >."))
}
