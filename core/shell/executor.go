package shell

import (
	"errors"
	"fmt"
	"sync"

	"github.com/josephlewis42/tiks/commands"
	"github.com/josephlewis42/tiks/core/logger"
	"github.com/josephlewis42/tiks/core/session"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Dispatcher runs a single command.
type Dispatcher interface {
	Dispatch(inv *commands.Invocation, s *session.Session) (commands.Result, error)
}

var _ Dispatcher = commands.Registry(nil)

// Executor runs pipelines.
type Executor struct {
	Dispatcher Dispatcher

	pending sync.WaitGroup

	mu      sync.Mutex
	running int
	errs    []error
}

// NewExecutor creates an executor dispatching to d.
func NewExecutor(d Dispatcher) *Executor {
	return &Executor{Dispatcher: d}
}

// Run parses the line, records it in the session's history and executes it.
// The line is archived with its status once it finishes. Lines that don't
// parse are not recorded.
func (e *Executor) Run(line string, s *session.Session) (commands.Result, error) {
	p, err := Parse(line)
	if err != nil {
		s.Logger.Record(&logger.SyntaxError{Line: line, Error: err.Error()})
		return commands.Result{Status: commands.StatusUsage}, err
	}

	entry := s.RecordHistory(p.Raw)
	res, err := e.Execute(p, s)
	entry.Status = res.Status
	s.ArchiveHistory(entry)
	return res, err
}

// Execute runs a parsed pipeline.
//
// Piped segments run in order with each result's text appended to the next
// segment's arguments; the first failure stops the chain. Background segments
// are started concurrently and their output is printed when they finish, the
// returned result is always empty. A redirected segment's text is written to
// the target file.
func (e *Executor) Execute(p *Pipeline, s *session.Session) (commands.Result, error) {
	if len(p.Segments) == 0 {
		return commands.Result{Status: commands.StatusUsage}, newParseError(p.Raw, ErrEmptyPipeline)
	}

	switch {
	case p.Redirect != "":
		return e.redirect(p, s)
	case p.Operator == OpBackground:
		return e.background(p, s)
	default:
		return e.pipe(p, s)
	}
}

func (e *Executor) pipe(p *Pipeline, s *session.Session) (commands.Result, error) {
	var res commands.Result
	for i, seg := range p.Segments {
		inv := seg
		if i > 0 {
			inv = seg.WithArgs(res.Text)
		}

		var err error
		res, err = e.dispatch(inv, s)
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

func (e *Executor) background(p *Pipeline, s *session.Session) (commands.Result, error) {
	g := new(errgroup.Group)
	for _, seg := range p.Segments {
		seg := seg
		g.Go(func() error {
			res, err := e.dispatch(seg, s)
			if err != nil {
				fmt.Fprintln(s.Stderr(), err)
				return err
			}
			s.Print(res.Text)
			return nil
		})
	}

	e.track(g)
	return commands.OK(""), nil
}

func (e *Executor) redirect(p *Pipeline, s *session.Session) (commands.Result, error) {
	res, err := e.dispatch(p.Segments[0], s)
	if err != nil {
		return res, err
	}

	if err := afero.WriteFile(s.Fs(), s.Resolve(p.Redirect), []byte(res.Text), 0644); err != nil {
		return commands.Failed(), &CommandError{
			Name: RedirectToken,
			Err:  commands.NewFilesystemError("write", p.Redirect, err),
		}
	}
	return commands.OK(fmt.Sprintf("Successfully wrote output to %s", p.Redirect)), nil
}

// dispatch runs a single invocation and logs it.
func (e *Executor) dispatch(inv *commands.Invocation, s *session.Session) (commands.Result, error) {
	res, err := e.Dispatcher.Dispatch(inv, s)

	switch {
	case errors.Is(err, commands.ErrUnsupportedCommand):
		s.Logger.Record(&logger.UnknownCommand{Command: inv.Argv()})
		return res, err

	case err != nil:
		s.Logger.Record(&logger.RunCommand{Command: inv.Argv(), Status: res.Status, Error: err.Error()})
		return res, &CommandError{Name: inv.Name, Err: err}

	default:
		s.Logger.Record(&logger.RunCommand{Command: inv.Argv(), Status: res.Status})
		return res, nil
	}
}

// track forgets the job once it finishes, keeping only its error.
func (e *Executor) track(g *errgroup.Group) {
	e.mu.Lock()
	e.running++
	e.mu.Unlock()

	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		err := g.Wait()

		e.mu.Lock()
		defer e.mu.Unlock()
		e.running--
		if err != nil {
			e.errs = append(e.errs, err)
		}
	}()
}

// Running returns the number of background lines that haven't finished.
func (e *Executor) Running() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.running
}

// Wait blocks until every background segment started so far has finished and
// returns the errors of the jobs that failed since the last call.
func (e *Executor) Wait() error {
	e.pending.Wait()

	e.mu.Lock()
	errs := e.errs
	e.errs = nil
	e.mu.Unlock()

	return errors.Join(errs...)
}
