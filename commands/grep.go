package commands

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/tiks/core/session"
	"github.com/spf13/afero"
)

// Grep searches a file, or failing that a literal string, for a pattern.
//
// If TARGET names an existing file its lines are searched, otherwise TARGET
// is split on whitespace and each word is searched. Every match is returned
// on its own line with the pattern highlighted. No matches is not an error.
func Grep(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "grep [-i] PATTERN TARGET",
		Short: "Print lines of a file or words of a string matching a pattern.",
	}
	ignoreCase := cmd.Flags().Bool('i', "ignore case distinctions")

	return cmd.Run(inv, func() (Result, error) {
		pattern, target := inv.Arg(0), inv.Arg(1)
		if pattern == "" || target == "" {
			return Nothing(NoPatternText), nil
		}

		expr := regexp.QuoteMeta(pattern)
		if *ignoreCase {
			expr = "(?i)" + expr
		}
		matcher := regexp.MustCompile(expr)

		candidates, err := grepCandidates(s, target)
		if err != nil {
			return fsFailure("grep", target, err)
		}

		var out []string
		for _, candidate := range candidates {
			if !matcher.MatchString(candidate) {
				continue
			}
			out = append(out, matcher.ReplaceAllStringFunc(candidate, func(match string) string {
				return highlight(match)
			}))
		}
		return OK(strings.Join(out, "\n")), nil
	})
}

// grepCandidates returns the lines of target if it's a readable file or its
// whitespace separated words otherwise.
func grepCandidates(s *session.Session, target string) ([]string, error) {
	name := s.Resolve(target)
	if stat, err := s.Fs().Stat(name); err != nil || stat.IsDir() {
		return strings.Fields(target), nil
	}

	contents, err := afero.ReadFile(s.Fs(), name)
	if err != nil {
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(contents))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// highlight marks a match in bold red, ignoring the session's color setting.
func highlight(match string) string {
	c := color.New(color.FgRed, color.Bold)
	c.EnableColor()
	return c.Sprint(match)
}

var _ BuiltinFunc = Grep

func init() {
	addBuiltin("grep", "Search for a pattern in a file or string", Grep)
}
