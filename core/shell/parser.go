// Package shell parses command lines into pipelines and executes them against
// a session.
//
// Lines are split on whitespace. Quotes are not interpreted, so `echo "a b"`
// passes the two arguments `"a` and `b"`.
package shell

import (
	"strings"

	"github.com/josephlewis42/tiks/commands"
)

// Operator joins the segments of a pipeline.
type Operator int

const (
	// OpNone is used by pipelines with a single segment.
	OpNone Operator = iota
	// OpPipe appends each segment's output to the next segment's arguments.
	OpPipe
	// OpBackground runs every segment concurrently without waiting.
	OpBackground
)

// Operator tokens.
const (
	PipeToken       = "|"
	BackgroundToken = "&"
	RedirectToken   = ">"
)

func (o Operator) String() string {
	switch o {
	case OpPipe:
		return PipeToken
	case OpBackground:
		return BackgroundToken
	default:
		return ""
	}
}

// Pipeline is a parsed line.
type Pipeline struct {
	// Raw is the line as it was entered.
	Raw      string
	Segments []*commands.Invocation
	// Operator joins every adjacent pair of segments.
	Operator Operator
	// Redirect is the file the output is written to, if set.
	Redirect string
}

// Parse splits a line into a pipeline.
//
// A line joins its segments with a single kind of operator. A redirection
// must be the only operator on the line and is followed by exactly one file.
// Every operator must be followed by a command.
func Parse(line string) (*Pipeline, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, newParseError(line, ErrEmptyPipeline)
	}

	p := &Pipeline{Raw: line}
	var current []string

	setOperator := func(op Operator) error {
		if len(current) == 0 {
			return ErrDanglingOperator
		}
		if p.Operator != OpNone && p.Operator != op {
			return ErrMixedOperators
		}
		p.Operator = op
		p.Segments = append(p.Segments, newInvocation(current))
		current = nil
		return nil
	}

	for i, tok := range tokens {
		var err error
		switch tok {
		case PipeToken:
			err = setOperator(OpPipe)
		case BackgroundToken:
			err = setOperator(OpBackground)
		case RedirectToken:
			err = p.setRedirect(current, tokens[i+1:])
			if err == nil {
				return p, nil
			}
		default:
			current = append(current, tok)
		}

		if err != nil {
			return nil, newParseError(line, err)
		}
	}

	if len(current) == 0 {
		return nil, newParseError(line, ErrDanglingOperator)
	}
	p.Segments = append(p.Segments, newInvocation(current))

	return p, nil
}

func (p *Pipeline) setRedirect(current, rest []string) error {
	switch {
	case p.Operator != OpNone:
		return ErrMixedOperators
	case len(current) == 0:
		return ErrDanglingOperator
	case len(rest) != 1 || isOperator(rest[0]):
		return ErrMalformedRedirect
	}

	p.Segments = append(p.Segments, newInvocation(current))
	p.Redirect = rest[0]
	return nil
}

func isOperator(tok string) bool {
	return tok == PipeToken || tok == BackgroundToken || tok == RedirectToken
}

// newInvocation splits a segment's tokens into a name, options that begin
// with a dash and positional arguments.
func newInvocation(tokens []string) *commands.Invocation {
	inv := &commands.Invocation{Name: tokens[0]}
	for _, tok := range tokens[1:] {
		if len(tok) > 1 && strings.HasPrefix(tok, "-") {
			inv.Options = append(inv.Options, tok)
		} else {
			inv.Args = append(inv.Args, tok)
		}
	}
	return inv
}
