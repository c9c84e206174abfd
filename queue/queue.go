// Package queue steps through a list of pending JSON Patch operations,
// applying or rejecting them one at a time against a compiled document.
//
// An Engine is not safe for concurrent use.  Every method either completes
// or leaves the engine exactly as it was.
package queue

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ananthakrishna-hs/patchstep/debug"
	"github.com/ananthakrishna-hs/patchstep/filter"
	"github.com/ananthakrishna-hs/patchstep/ir"
	"github.com/ananthakrishna-hs/patchstep/libdiff"
	"github.com/ananthakrishna-hs/patchstep/patch"
)

type Outcome int

const (
	Applied Outcome = iota
	Rejected
)

func (o Outcome) String() string {
	if o == Rejected {
		return "rejected"
	}
	return "applied"
}

// Entry records a consumed operation.  Index is its position in the pending
// queue when it was consumed.
type Entry struct {
	Op      ir.Operation
	Index   int
	Outcome Outcome
}

// State is a snapshot of an Engine.  It shares nothing with the engine.
type State struct {
	Base      ir.Document
	Compiled  ir.Document
	Pending   []ir.Operation
	Selection Selection
	Applied   int
	Rejected  int
}

// CanApplyNext reports whether there is a next operation to apply.
func (s State) CanApplyNext() bool {
	return len(s.Pending) != 0
}

type Engine struct {
	applier   patch.Applier
	base      ir.Document
	compiled  ir.Document
	pending   []ir.Operation
	sel       Selection
	history   []Entry
	observers map[int]func(State)
	nextObs   int
}

type Option func(*Engine)

// WithApplier replaces the default evanphx/json-patch applier.
func WithApplier(a patch.Applier) Option {
	return func(e *Engine) { e.applier = a }
}

// New creates an engine whose compiled document starts as a copy of base and
// whose pending queue holds ops in order.
func New(base ir.Document, ops []ir.Operation, opts ...Option) *Engine {
	e := &Engine{
		applier:  patch.JSONPatch{},
		base:     base.Clone(),
		compiled: base.Clone(),
		pending:  slices.Clone(ops),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Len() int {
	return len(e.pending)
}

func (e *Engine) Base() ir.Document {
	return e.base.Clone()
}

func (e *Engine) Compiled() ir.Document {
	return e.compiled.Clone()
}

func (e *Engine) Pending() []ir.Operation {
	return slices.Clone(e.pending)
}

func (e *Engine) Selection() Selection {
	return e.sel
}

func (e *Engine) HasSelection() bool {
	return !e.sel.IsNone()
}

func (e *Engine) CanApplyNext() bool {
	return len(e.pending) != 0
}

// History returns consumed operations in the order they were consumed.
func (e *Engine) History() []Entry {
	return slices.Clone(e.history)
}

func (e *Engine) State() State {
	st := State{
		Base:      e.base.Clone(),
		Compiled:  e.compiled.Clone(),
		Pending:   slices.Clone(e.pending),
		Selection: e.sel,
	}
	for _, h := range e.history {
		switch h.Outcome {
		case Applied:
			st.Applied++
		case Rejected:
			st.Rejected++
		}
	}
	return st
}

// ApplyAt applies the pending operation at i to the compiled document and
// removes it from the queue.  If the operation does not apply the returned
// error is a *patch.ApplyError and nothing changes.
func (e *Engine) ApplyAt(i int) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	op := e.pending[i]
	res, err := e.applier.Apply([]ir.Operation{op}, e.compiled)
	if err != nil {
		if !errors.Is(err, patch.ErrApply) {
			err = &patch.ApplyError{Op: op, Err: err}
		}
		if debug.Queue() {
			debug.Logf("apply at %d failed: %v\n", i, err)
		}
		return err
	}
	e.compiled = res
	e.consume(i, Applied)
	return nil
}

// ApplyNext applies the first pending operation.
func (e *Engine) ApplyNext() error {
	if len(e.pending) == 0 {
		return ErrEmpty
	}
	return e.ApplyAt(0)
}

// ApplySelected applies the selected operation.
func (e *Engine) ApplySelected() error {
	i, ok := e.sel.Index()
	if !ok {
		return ErrNoSelection
	}
	return e.ApplyAt(i)
}

// Select selects the pending operation at i.
func (e *Engine) Select(i int) error {
	if err := e.checkIndex(i); err != nil {
		return err
	}
	if e.sel.Is(i) {
		return nil
	}
	e.sel = At(i)
	if debug.Queue() {
		debug.Logf("selected %d\n", i)
	}
	e.notify()
	return nil
}

// SelectWhere selects the first pending operation matching p and returns its
// index.
func (e *Engine) SelectWhere(p *filter.Predicate) (int, error) {
	i, err := p.First(e.pending)
	if err != nil {
		return -1, err
	}
	if i < 0 {
		return -1, fmt.Errorf("%w %s", ErrNoMatch, p)
	}
	if err := e.Select(i); err != nil {
		return -1, err
	}
	return i, nil
}

func (e *Engine) Deselect() {
	if e.sel.IsNone() {
		return
	}
	e.sel = None()
	e.notify()
}

// RejectSelected removes the selected operation without applying it.  It
// fails with ErrNoSelection when nothing is selected.
func (e *Engine) RejectSelected() error {
	i, ok := e.sel.Index()
	if !ok {
		return ErrNoSelection
	}
	e.consume(i, Rejected)
	return nil
}

// Preview returns the compiled document as it would be after applying the
// pending operation at i, without changing anything.
func (e *Engine) Preview(i int) (ir.Document, error) {
	if err := e.checkIndex(i); err != nil {
		return ir.Null(), err
	}
	op := e.pending[i]
	res, err := e.applier.Apply([]ir.Operation{op}, e.compiled.Clone())
	if err != nil {
		if !errors.Is(err, patch.ErrApply) {
			err = &patch.ApplyError{Op: op, Err: err}
		}
		return ir.Null(), err
	}
	return res, nil
}

// Diff returns the net change from the base document to the compiled
// document as a JSON Patch.
func (e *Engine) Diff() ([]ir.Operation, error) {
	return libdiff.Patch(e.base, e.compiled)
}

// Subscribe registers f to be called with a new snapshot after every change.
// The returned function removes f.
func (e *Engine) Subscribe(f func(State)) func() {
	if e.observers == nil {
		e.observers = map[int]func(State){}
	}
	id := e.nextObs
	e.nextObs++
	e.observers[id] = f
	return func() { delete(e.observers, id) }
}

func (e *Engine) consume(i int, o Outcome) {
	op := e.pending[i]
	pending := slices.Clone(e.pending)
	e.pending = slices.Delete(pending, i, i+1)
	e.sel = None()
	e.history = append(e.history, Entry{Op: op, Index: i, Outcome: o})
	if debug.Queue() {
		debug.Logf("%s %d: %s, %d pending\n", o, i, op, len(e.pending))
	}
	e.notify()
}

func (e *Engine) checkIndex(i int) error {
	if i < 0 || i >= len(e.pending) {
		return fmt.Errorf("%w %d (%d pending)", ErrIndex, i, len(e.pending))
	}
	return nil
}

func (e *Engine) notify() {
	if len(e.observers) == 0 {
		return
	}
	st := e.State()
	ids := make([]int, 0, len(e.observers))
	for id := range e.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		f := e.observers[id]
		if f != nil {
			f(st)
		}
	}
}
