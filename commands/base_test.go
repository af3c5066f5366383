package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/josephlewis42/tiks/core/session"
	"github.com/josephlewis42/tiks/core/session/sessiontest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// invoke splits words into options and arguments the same way the shell does.
func invoke(name string, words ...string) *Invocation {
	inv := &Invocation{Name: name}
	for _, word := range words {
		if len(word) > 1 && strings.HasPrefix(word, "-") {
			inv.Options = append(inv.Options, word)
		} else {
			inv.Args = append(inv.Args, word)
		}
	}
	return inv
}

func run(s *session.Session, name string, words ...string) (Result, error) {
	return AllBuiltins.Dispatch(invoke(name, words...), s)
}

func TestAllBuiltins(t *testing.T) {
	for _, entry := range AllBuiltins.List() {
		t.Run(entry.Name, func(t *testing.T) {
			assert.NotNil(t, entry.Builtin)
			assert.NotEmpty(t, entry.Short)
		})
	}
}

func TestRegistry_List(t *testing.T) {
	r := make(Registry)
	r.Register("b", "second", BuiltinFunc(Pwd))
	r.Register("a", "first", BuiltinFunc(Pwd))

	var names []string
	for _, entry := range r.List() {
		names = append(names, entry.Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestRegistry_Dispatch(t *testing.T) {
	s, _ := sessiontest.NewDeterministicSession()

	t.Run("unknown", func(t *testing.T) {
		res, err := run(s, "frobnicate")
		assert.ErrorIs(t, err, ErrUnsupportedCommand)
		assert.Contains(t, err.Error(), "frobnicate")
		assert.NotEqual(t, StatusOK, res.Status)
	})

	t.Run("case-sensitive", func(t *testing.T) {
		_, err := run(s, "PWD")
		assert.ErrorIs(t, err, ErrUnsupportedCommand)
	})

	t.Run("error forces failure status", func(t *testing.T) {
		r := make(Registry)
		r.Register("broken", "always fails", BuiltinFunc(func(*session.Session, *Invocation) (Result, error) {
			return OK("partial"), errors.New("boom")
		}))

		res, err := r.Dispatch(invoke("broken"), s)
		assert.EqualError(t, err, "boom")
		assert.Equal(t, StatusFailure, res.Status)
	})
}

func TestSimpleCommand(t *testing.T) {
	s, _ := sessiontest.NewDeterministicSession()

	t.Run("help", func(t *testing.T) {
		res, err := run(s, "pwd", "--help")
		require.NoError(t, err)
		assert.Equal(t, StatusOK, res.Status)
		assert.Contains(t, res.Text, "usage: pwd")
		assert.Contains(t, res.Text, "Print the name of the current working directory.")
	})

	t.Run("bad option", func(t *testing.T) {
		res, err := run(s, "pwd", "-z")
		assert.ErrorIs(t, err, ErrUsage)
		assert.Equal(t, StatusUsage, res.Status)
	})

	t.Run("never bail", func(t *testing.T) {
		res, err := run(s, "whoami", "-z")
		require.NoError(t, err)
		assert.Equal(t, sessiontest.Username, res.Text)
	})
}

func TestInvocation(t *testing.T) {
	inv := invoke("grep", "-i", "foo")

	extended := inv.WithArgs("bar baz")
	assert.Equal(t, []string{"foo", "bar baz"}, extended.Args)
	assert.Equal(t, []string{"-i"}, extended.Options)
	assert.Equal(t, []string{"foo"}, inv.Args, "original is unchanged")

	assert.Equal(t, "", inv.Arg(3))
	assert.Equal(t, "grep -i foo", inv.String())
}

func TestNewFilesystemError(t *testing.T) {
	s, _ := sessiontest.NewDeterministicSession()

	_, err := run(s, "cat", "missing.txt")

	var fsErr *FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, "cat", fsErr.Op)
	assert.Equal(t, "missing.txt", fsErr.Path)
}
