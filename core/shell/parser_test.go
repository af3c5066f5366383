package shell

import (
	"testing"

	"github.com/josephlewis42/tiks/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]struct {
		line     string
		segments []*commands.Invocation
		op       Operator
		redirect string
	}{
		"single": {
			line:     "ls",
			segments: []*commands.Invocation{{Name: "ls"}},
		},
		"options and args": {
			line: "  grep -i foo   bar.txt ",
			segments: []*commands.Invocation{
				{Name: "grep", Options: []string{"-i"}, Args: []string{"foo", "bar.txt"}},
			},
		},
		"lone dash is an argument": {
			line:     "cat -",
			segments: []*commands.Invocation{{Name: "cat", Args: []string{"-"}}},
		},
		"pipe": {
			line: "pwd | grep tiks",
			segments: []*commands.Invocation{
				{Name: "pwd"},
				{Name: "grep", Args: []string{"tiks"}},
			},
			op: OpPipe,
		},
		"background": {
			line: "touch a & mkdir b & ls",
			segments: []*commands.Invocation{
				{Name: "touch", Args: []string{"a"}},
				{Name: "mkdir", Args: []string{"b"}},
				{Name: "ls"},
			},
			op: OpBackground,
		},
		"redirect": {
			line:     "echo hello > out.txt",
			segments: []*commands.Invocation{{Name: "echo", Args: []string{"hello"}}},
			redirect: "out.txt",
		},
		"quotes are not interpreted": {
			line:     `echo "a b"`,
			segments: []*commands.Invocation{{Name: "echo", Args: []string{`"a`, `b"`}}},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			p, err := Parse(tc.line)
			require.NoError(t, err)

			assert.Equal(t, tc.line, p.Raw)
			assert.Equal(t, tc.segments, p.Segments)
			assert.Equal(t, tc.op, p.Operator)
			assert.Equal(t, tc.redirect, p.Redirect)
		})
	}
}

func TestParse_errors(t *testing.T) {
	cases := map[string]struct {
		line     string
		expected error
	}{
		"empty":                {"", ErrEmptyPipeline},
		"blank":                {"   \t ", ErrEmptyPipeline},
		"leading pipe":         {"| ls", ErrDanglingOperator},
		"trailing pipe":        {"ls |", ErrDanglingOperator},
		"double pipe":          {"ls | | pwd", ErrDanglingOperator},
		"double background":    {"ls & & pwd", ErrDanglingOperator},
		"trailing background":  {"ls &", ErrDanglingOperator},
		"trailing after chain": {"touch a & touch b &", ErrDanglingOperator},
		"leading redirect":     {"> out.txt", ErrDanglingOperator},
		"mixed":                {"ls | grep a & pwd", ErrMixedOperators},
		"pipe then redirect":   {"ls | grep a > out", ErrMixedOperators},
		"redirect no target":   {"echo hi >", ErrMalformedRedirect},
		"redirect two target":  {"echo hi > a b", ErrMalformedRedirect},
		"redirect operator":    {"echo hi > |", ErrMalformedRedirect},
		"redirect then pipe":   {"echo hi > a | cat", ErrMalformedRedirect},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			p, err := Parse(tc.line)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tc.expected)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tc.line, parseErr.Line)
			assert.Contains(t, err.Error(), "syntax error")
		})
	}
}
