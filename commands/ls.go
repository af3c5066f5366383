package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/josephlewis42/tiks/core/session"
	"github.com/spf13/afero"
)

// Ls implements a short listing of the working directory.
func Ls(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "ls [OPTION]... [DIR]",
		Short: "List the entries in DIR (the current directory by default).",
	}
	listAll := cmd.Flags().Bool('a', "don't ignore entries starting with .")

	return cmd.Run(inv, func() (Result, error) {
		dir := listTarget(inv)
		entries, err := readDir(s, dir, *listAll)
		if err != nil {
			return fsFailure("ls", dir, err)
		}

		var names []string
		for _, entry := range entries {
			names = append(names, dirColor(s, entry))
		}
		return OK(strings.Join(names, "  ")), nil
	})
}

// Ll implements a long listing with type, owner, size and modification time.
func Ll(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "ll [OPTION]... [DIR]",
		Short: "List the entries in DIR in long format.",
	}
	opts := cmd.Flags()
	listAll := opts.Bool('a', "don't ignore entries starting with .")
	humanSize := opts.Bool('h', "print human readable sizes")
	// -h is taken by the size flag.
	cmd.ShowHelp = opts.BoolLong("help", 0, "show this help and exit")

	return cmd.Run(inv, func() (Result, error) {
		dir := listTarget(inv)
		entries, err := readDir(s, dir, *listAll)
		if err != nil {
			return fsFailure("ll", dir, err)
		}

		sizeFmt := func(bytes int64) string {
			return fmt.Sprintf("%d", bytes)
		}
		if *humanSize {
			sizeFmt = func(bytes int64) string {
				return humanize.Bytes(uint64(bytes))
			}
		}

		sb := &strings.Builder{}
		tw := tabwriter.NewWriter(sb, 0, 0, 1, ' ', 0)
		for _, f := range entries {
			kind := "file"
			if f.IsDir() {
				kind = "dir"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				f.Mode().String(),
				kind,
				fileOwner(s, f),
				sizeFmt(f.Size()),
				f.ModTime().Format("Jan _2 15:04"),
				dirColor(s, f))
		}
		tw.Flush()

		return OK(strings.TrimSuffix(sb.String(), "\n")), nil
	})
}

func listTarget(inv *Invocation) string {
	if dir := inv.Arg(0); dir != "" {
		return dir
	}
	return "."
}

func readDir(s *session.Session, dir string, all bool) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(s.Fs(), s.Resolve(dir))
	if err != nil {
		return nil, err
	}

	var out []os.FileInfo
	for _, entry := range entries {
		if !all && strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		out = append(out, entry)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name() < out[j].Name()
	})
	return out, nil
}

func dirColor(s *session.Session, f os.FileInfo) string {
	switch {
	case f.IsDir():
		return colorize(s, f.Name(), color.FgGreen, color.Bold)
	case f.Mode()&0111 != 0:
		return colorize(s, f.Name(), color.FgCyan)
	default:
		return f.Name()
	}
}

var (
	_ BuiltinFunc = Ls
	_ BuiltinFunc = Ll
)

func init() {
	addBuiltin("ls", "View directory", Ls)
	addBuiltin("ll", "View directory with details", Ll)
}
