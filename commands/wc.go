package commands

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/josephlewis42/tiks/core/session"
)

type wcCount struct {
	bytes int
	lines int
	chars int
	words int
	name  string

	inSpace bool
}

func (w *wcCount) Write(data []byte) (int, error) {
	for _, c := range data {
		isFirstByte := w.bytes == 0
		w.bytes++

		// Assume UTF-8 characters. Bytes following the leading byte always
		// have MSB of 0b10 indicating they're part of a previous character.
		if c < 0b10000000 || c > 0b10111111 {
			w.chars++
		}

		if c == '\n' {
			w.lines++
		}

		if unicode.IsSpace(rune(c)) {
			w.inSpace = true
		} else {
			if w.inSpace || isFirstByte {
				w.words++
			}
			w.inSpace = false
		}
	}

	return len(data), nil
}

func NewWcCount(name string, fd io.Reader) (*wcCount, error) {
	var out wcCount
	out.name = name

	if _, err := io.Copy(&out, fd); err != nil {
		return nil, err
	}

	return &out, nil
}

// Wc counts the lines, words and bytes of a file or, when the operand isn't a
// file, of the operand text itself. The latter makes it useful at the end of a
// pipe, e.g. `cat notes.txt | wc -l`.
func Wc(s *session.Session, inv *Invocation) (Result, error) {
	cmd := &SimpleCommand{
		Use:   "wc [-c|-m] [-lw] FILE|TEXT...",
		Short: "Print the number of newlines, words, and bytes in a file or text.",
	}

	opts := cmd.Flags()
	writeLines := opts.BoolLong("l", 'l', "write the number of newlines")
	writeWords := opts.BoolLong("w", 'w', "write the number of words")
	writeBytes := opts.BoolLong("c", 'c', "write the number of bytes")
	writeChars := opts.BoolLong("m", 'm', "write the number of characters")

	return cmd.Run(inv, func() (Result, error) {
		if len(inv.Args) == 0 {
			return Nothing(NoPatternText), nil
		}

		count, err := wcOperand(s, inv.Args)
		if err != nil {
			return fsFailure("wc", inv.Arg(0), err)
		}

		anyPicked := *writeLines || *writeWords || *writeBytes || *writeChars
		nonePicked := !anyPicked

		var cols []string
		if *writeLines || nonePicked {
			cols = append(cols, fmt.Sprint(count.lines))
		}
		if *writeWords || nonePicked {
			cols = append(cols, fmt.Sprint(count.words))
		}
		if *writeBytes || nonePicked {
			cols = append(cols, fmt.Sprint(count.bytes))
		}
		if *writeChars {
			cols = append(cols, fmt.Sprint(count.chars))
		}
		if count.name != "" {
			cols = append(cols, count.name)
		}

		return OK(strings.Join(cols, " ")), nil
	})
}

// wcOperand counts the file named by a single argument, or the arguments
// joined by spaces when they don't name a file.
func wcOperand(s *session.Session, args []string) (*wcCount, error) {
	if len(args) == 1 {
		name := s.Resolve(args[0])
		if stat, err := s.Fs().Stat(name); err == nil && !stat.IsDir() {
			fd, err := s.Fs().Open(name)
			if err != nil {
				return nil, err
			}
			defer fd.Close()
			return NewWcCount(args[0], fd)
		}
	}

	return NewWcCount("", strings.NewReader(strings.Join(args, " ")))
}

var _ BuiltinFunc = Wc

func init() {
	addBuiltin("wc", "Count lines, words and bytes", Wc)
}
