// Package session gates entry into a patch stepping session.
//
// A Controller holds the two raw text inputs, a base document and a patch,
// while Idle.  Begin parses both and, only if both parse, creates the queue
// engine and moves to Active.  While Active the inputs are read-only.  End
// and Reset discard the engine and return to Idle.
//
// Every change is reported to subscribers as an Event carrying a fresh
// snapshot, so a front end can re-render without polling.
package session

import (
	"errors"
	"fmt"

	"github.com/ananthakrishna-hs/patchstep/debug"
	"github.com/ananthakrishna-hs/patchstep/ir"
	"github.com/ananthakrishna-hs/patchstep/parse"
	"github.com/ananthakrishna-hs/patchstep/queue"

	"github.com/google/uuid"
)

var (
	ErrLocked    = errors.New("inputs are locked while a session is active")
	ErrNotActive = errors.New("no active session")
	ErrActive    = errors.New("session already active")
)

type Phase int

const (
	Idle Phase = iota
	Active
)

func (p Phase) String() string {
	if p == Active {
		return "active"
	}
	return "idle"
}

// Focus names the part of the view a front end should bring into view after
// an event.
type Focus int

const (
	FocusNone Focus = iota
	FocusEditor
	FocusOperations
)

// State is a snapshot of a Controller.  Queue is nil while Idle.
type State struct {
	ID        string
	Phase     Phase
	BaseText  string
	PatchText string
	Queue     *queue.State
}

type Event struct {
	State State
	Focus Focus
}

type Controller struct {
	phase     Phase
	id        string
	baseText  string
	patchText string
	engine    *queue.Engine
	unsub     func()

	parseOpts []parse.ParseOption
	queueOpts []queue.Option
	observers []func(Event)
}

type Option func(*Controller)

func WithParseOptions(opts ...parse.ParseOption) Option {
	return func(c *Controller) { c.parseOpts = append(c.parseOpts, opts...) }
}

func WithQueueOptions(opts ...queue.Option) Option {
	return func(c *Controller) { c.queueOpts = append(c.queueOpts, opts...) }
}

func New(opts ...Option) *Controller {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// Engine returns the queue engine of the active session, or nil while Idle.
func (c *Controller) Engine() *queue.Engine {
	return c.engine
}

func (c *Controller) SetBaseText(s string) error {
	if c.phase == Active {
		return ErrLocked
	}
	c.baseText = s
	c.notify(FocusNone)
	return nil
}

func (c *Controller) SetPatchText(s string) error {
	if c.phase == Active {
		return ErrLocked
	}
	c.patchText = s
	c.notify(FocusNone)
	return nil
}

// Begin parses the inputs and starts a session.  On failure the controller
// stays Idle with no engine and the error is a *parse.Error.
func (c *Controller) Begin() error {
	if c.phase == Active {
		return ErrActive
	}
	base, ops, err := parse.Inputs(c.baseText, c.patchText, c.parseOpts...)
	if err != nil {
		if debug.Session() {
			debug.Logf("begin failed: %v\n", err)
		}
		return err
	}
	c.start(base, ops)
	return nil
}

// BeginWith starts a session from already parsed inputs.  The text inputs
// are left as they are.
func (c *Controller) BeginWith(base ir.Document, ops []ir.Operation) error {
	if c.phase == Active {
		return ErrActive
	}
	c.start(base, ops)
	return nil
}

func (c *Controller) start(base ir.Document, ops []ir.Operation) {
	c.engine = queue.New(base, ops, c.queueOpts...)
	c.id = uuid.NewString()
	c.phase = Active
	c.unsub = c.engine.Subscribe(func(queue.State) {
		c.notify(FocusNone)
	})
	if debug.Session() {
		debug.Logf("session %s started with %d operations\n", c.id, len(ops))
	}
	c.notify(FocusOperations)
}

// End discards the session, if any, clears both inputs and returns to Idle.
func (c *Controller) End() {
	c.discard()
	c.baseText = ""
	c.patchText = ""
	c.notify(FocusEditor)
}

// Reset is End.
func (c *Controller) Reset() {
	c.End()
}

func (c *Controller) discard() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
	if debug.Session() && c.phase == Active {
		debug.Logf("session %s ended\n", c.id)
	}
	c.engine = nil
	c.id = ""
	c.phase = Idle
}

// Active returns the engine or ErrNotActive.
func (c *Controller) Active() (*queue.Engine, error) {
	if c.phase != Active || c.engine == nil {
		return nil, ErrNotActive
	}
	return c.engine, nil
}

func (c *Controller) State() State {
	st := State{
		ID:        c.id,
		Phase:     c.phase,
		BaseText:  c.baseText,
		PatchText: c.patchText,
	}
	if c.engine != nil {
		qs := c.engine.State()
		st.Queue = &qs
	}
	return st
}

// Subscribe registers f to be called after every change.
func (c *Controller) Subscribe(f func(Event)) {
	c.observers = append(c.observers, f)
}

func (c *Controller) notify(focus Focus) {
	if len(c.observers) == 0 {
		return
	}
	ev := Event{State: c.State(), Focus: focus}
	for _, f := range c.observers {
		f(ev)
	}
}

func (s State) String() string {
	if s.Queue == nil {
		return s.Phase.String()
	}
	return fmt.Sprintf("%s %s: %d pending, selection %s", s.Phase, s.ID, len(s.Queue.Pending), s.Queue.Selection)
}
