package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/tiks/core/session"
	getopt "github.com/pborman/getopt/v2"
)

// Status codes carried by a Result.
const (
	StatusOK      = 0
	StatusFailure = 1
	StatusUsage   = 2
)

// Placeholder texts returned when a required operand is empty. An empty
// operand is never an error.
const (
	NoFileText    = "missing file operand, nothing to do"
	NoDirText     = "missing directory operand, nothing to do"
	NoPatternText = "missing operand, nothing to do"
)

var (
	// ErrUnsupportedCommand is returned when no builtin has the given name.
	ErrUnsupportedCommand = errors.New("command not found")
	// ErrUsage is returned when a builtin's options can't be parsed.
	ErrUsage = errors.New("invalid usage")
	// ErrPermissionDenied is returned by privileged builtins in a normal session.
	ErrPermissionDenied = errors.New("permission denied, try sudo")
)

// Result is the outcome of a builtin. An empty Text means "no output".
type Result struct {
	Status int
	Text   string
}

// OK creates a successful result.
func OK(text string) Result {
	return Result{Status: StatusOK, Text: text}
}

// Nothing is the successful result for an operation with nothing to do.
func Nothing(text string) Result {
	return OK(text)
}

// Failed is the result accompanying a returned error.
func Failed() Result {
	return Result{Status: StatusFailure}
}

// Invocation is a single parsed command: its name, the option tokens that
// started with a dash and the positional arguments.
type Invocation struct {
	Name    string
	Options []string
	Args    []string
}

// Arg returns the i'th positional argument or the empty string.
func (inv *Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}

// WithArgs returns a copy of the invocation with the extra arguments appended.
func (inv *Invocation) WithArgs(extra ...string) *Invocation {
	args := make([]string, 0, len(inv.Args)+len(extra))
	args = append(args, inv.Args...)
	args = append(args, extra...)

	return &Invocation{
		Name:    inv.Name,
		Options: append([]string(nil), inv.Options...),
		Args:    args,
	}
}

// Argv flattens the invocation back into a command line.
func (inv *Invocation) Argv() []string {
	out := []string{inv.Name}
	out = append(out, inv.Options...)
	return append(out, inv.Args...)
}

func (inv *Invocation) String() string {
	return strings.Join(inv.Argv(), " ")
}

// FilesystemError is a failure reported by the filesystem. Op names the
// command that failed, it's left out of the message because the shell already
// prefixes diagnostics with the command name.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// NewFilesystemError wraps err, dropping the duplicated details of a
// *fs.PathError.
func NewFilesystemError(op, path string, err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	return &FilesystemError{Op: op, Path: path, Err: err}
}

func fsFailure(op, path string, err error) (Result, error) {
	return Failed(), NewFilesystemError(op, path, err)
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool
	// NeverBail ignores option parsing failures and always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run parses the invocation's options, if parsing was successful call the
// callback.
func (s *SimpleCommand) Run(inv *Invocation, callback func() (Result, error)) (Result, error) {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(append([]string{inv.Name}, inv.Options...), nil)
	if err != nil && !s.NeverBail {
		return Result{Status: StatusUsage}, fmt.Errorf("%w: %v (usage: %s)", ErrUsage, err, s.Use)
	}

	if *s.ShowHelp {
		sb := &strings.Builder{}
		s.PrintHelp(sb)
		return OK(sb.String()), nil
	}

	return callback()
}

// Builtin is an in-process command.
type Builtin interface {
	Main(s *session.Session, inv *Invocation) (Result, error)
}

// BuiltinFunc adapts a function to a Builtin.
type BuiltinFunc func(s *session.Session, inv *Invocation) (Result, error)

func (f BuiltinFunc) Main(s *session.Session, inv *Invocation) (Result, error) {
	return f(s, inv)
}

var _ Builtin = (BuiltinFunc)(nil)

// Entry is a registered builtin.
type Entry struct {
	Name    string
	Short   string
	Builtin Builtin
}

// Registry maps command names to builtins.
type Registry map[string]Entry

// AllBuiltins holds every registered builtin.
var AllBuiltins = make(Registry)

// Register adds a builtin under name, replacing any existing one.
func (r Registry) Register(name, short string, builtin Builtin) {
	r[name] = Entry{Name: name, Short: short, Builtin: builtin}
}

// Dispatch runs the builtin named by the invocation. Unknown names fail with
// ErrUnsupportedCommand. Whenever an error is returned the status is non-zero.
func (r Registry) Dispatch(inv *Invocation, s *session.Session) (Result, error) {
	entry, ok := r[inv.Name]
	if !ok {
		return Failed(), fmt.Errorf("%s: %w", inv.Name, ErrUnsupportedCommand)
	}

	res, err := entry.Builtin.Main(s, inv)
	if err != nil && res.Status == StatusOK {
		res.Status = StatusFailure
	}
	return res, err
}

// List returns the registered builtins sorted by name.
func (r Registry) List() []Entry {
	var out []Entry
	for _, entry := range r {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func addBuiltin(name, short string, fn BuiltinFunc) {
	AllBuiltins.Register(name, short, fn)
}

// colorize applies the attributes when the session allows colors.
func colorize(s *session.Session, text string, attrs ...color.Attribute) string {
	if !s.Color {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}
