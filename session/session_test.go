package session

import (
	"errors"
	"testing"

	"github.com/ananthakrishna-hs/patchstep/parse"
	"github.com/ananthakrishna-hs/patchstep/patch"
	"github.com/ananthakrishna-hs/patchstep/queue"
)

func begin(t *testing.T, c *Controller, base, patch string) error {
	t.Helper()
	if err := c.SetBaseText(base); err != nil {
		t.Fatal(err)
	}
	if err := c.SetPatchText(patch); err != nil {
		t.Fatal(err)
	}
	return c.Begin()
}

func TestBeginValid(t *testing.T) {
	tests := []struct {
		base, patch string
		n           int
	}{
		{`{"a":1}`, `[{"op":"replace","path":"/a","value":2}]`, 1},
		{`{}`, `[ {"op":"add","path":"/x","value":1}, {"op":"remove","path":"/x"} ]`, 2},
		{`[]`, `[]`, 0},
		{`"s"`, `[1, 2, 3]`, 3},
	}
	for i, test := range tests {
		c := New()
		if err := begin(t, c, test.base, test.patch); err != nil {
			t.Errorf("[%d] %v", i, err)
			continue
		}
		st := c.State()
		if st.Phase != Active || st.Queue == nil || st.ID == "" {
			t.Errorf("[%d] not active: %s", i, st)
			continue
		}
		if len(st.Queue.Pending) != test.n {
			t.Errorf("[%d] %d pending, want %d", i, len(st.Queue.Pending), test.n)
		}
		if !st.Queue.Selection.IsNone() {
			t.Errorf("[%d] selection %s", i, st.Queue.Selection)
		}
		if !st.Queue.Compiled.Equal(st.Queue.Base) {
			t.Errorf("[%d] compiled %s differs from base %s", i, st.Queue.Compiled, st.Queue.Base)
		}
	}
}

func TestBeginInvalid(t *testing.T) {
	tests := []struct {
		base, patch string
		input       parse.Input
	}{
		{`{"a":`, `[]`, parse.BaseInput},
		{``, `[]`, parse.BaseInput},
		{`{}`, `{"op":"add"}`, parse.PatchInput},
		{`{}`, `[{"op":"add",}]`, parse.PatchInput},
		{`{}`, ``, parse.PatchInput},
	}
	for i, test := range tests {
		c := New()
		err := begin(t, c, test.base, test.patch)
		var pe *parse.Error
		if !errors.As(err, &pe) || pe.Input != test.input {
			t.Errorf("[%d] expected %s parse error, got %v", i, test.input, err)
		}
		st := c.State()
		if st.Phase != Idle || st.Queue != nil || c.Engine() != nil {
			t.Errorf("[%d] session created: %s", i, st)
		}
		if st.BaseText != test.base || st.PatchText != test.patch {
			t.Errorf("[%d] inputs lost", i)
		}
	}
}

func TestLockedWhileActive(t *testing.T) {
	c := New()
	if err := begin(t, c, `{}`, `[]`); err != nil {
		t.Fatal(err)
	}
	if err := c.SetBaseText(`{"b":1}`); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked, got %v", err)
	}
	if err := c.SetPatchText(`[]`); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked, got %v", err)
	}
	if err := c.Begin(); !errors.Is(err, ErrActive) {
		t.Errorf("expected ErrActive, got %v", err)
	}
	if st := c.State(); st.BaseText != `{}` {
		t.Errorf("base text changed: %q", st.BaseText)
	}
}

func TestEndClears(t *testing.T) {
	for _, end := range []func(*Controller){(*Controller).End, (*Controller).Reset} {
		c := New()
		if err := begin(t, c, `{"a":1}`, `[{"op":"remove","path":"/a"}]`); err != nil {
			t.Fatal(err)
		}
		end(c)
		st := c.State()
		if st.Phase != Idle || st.Queue != nil || st.ID != "" {
			t.Errorf("still active: %s", st)
		}
		if st.BaseText != "" || st.PatchText != "" {
			t.Errorf("inputs not cleared: %q %q", st.BaseText, st.PatchText)
		}
		if _, err := c.Active(); !errors.Is(err, ErrNotActive) {
			t.Errorf("expected ErrNotActive, got %v", err)
		}
		if err := c.SetBaseText(`{}`); err != nil {
			t.Errorf("inputs still locked: %v", err)
		}
	}
}

func TestEndWhileIdle(t *testing.T) {
	c := New()
	if err := c.SetBaseText(`{"a":1}`); err != nil {
		t.Fatal(err)
	}
	c.End()
	if st := c.State(); st.Phase != Idle || st.BaseText != "" {
		t.Errorf("got %s %q", st, st.BaseText)
	}
}

func TestNewSessionReplacesOld(t *testing.T) {
	c := New()
	if err := begin(t, c, `{"a":1}`, `[{"op":"remove","path":"/a"}]`); err != nil {
		t.Fatal(err)
	}
	first := c.State().ID
	old := c.Engine()
	if err := old.ApplyNext(); err != nil {
		t.Fatal(err)
	}
	c.End()
	if err := begin(t, c, `{"b":1}`, `[]`); err != nil {
		t.Fatal(err)
	}
	st := c.State()
	if st.ID == first {
		t.Errorf("session id reused")
	}
	if st.Queue.Compiled.String() != `{"b":1}` || st.Queue.Applied != 0 {
		t.Errorf("state leaked from previous session: %s applied %d", st.Queue.Compiled, st.Queue.Applied)
	}
}

func TestEvents(t *testing.T) {
	c := New()
	var events []Event
	c.Subscribe(func(ev Event) { events = append(events, ev) })
	if err := begin(t, c, `{}`, `[{"op":"add","path":"/a","value":1},{"op":"test","path":"/a","value":2}]`); err != nil {
		t.Fatal(err)
	}
	// two edits and the start
	if len(events) != 3 {
		t.Fatalf("got %d events", len(events))
	}
	if events[2].Focus != FocusOperations || events[2].State.Phase != Active {
		t.Errorf("start event %+v", events[2])
	}
	e := c.Engine()
	if err := e.ApplyNext(); err != nil {
		t.Fatal(err)
	}
	if len(events) != 4 || events[3].Focus != FocusNone {
		t.Fatalf("apply event missing: %d", len(events))
	}
	if got := events[3].State.Queue.Compiled.String(); got != `{"a":1}` {
		t.Errorf("apply event state %s", got)
	}
	if err := e.ApplyNext(); !errors.Is(err, patch.ErrApply) {
		t.Fatalf("expected apply error, got %v", err)
	}
	if len(events) != 4 {
		t.Errorf("failed apply produced an event")
	}
	c.Reset()
	last := events[len(events)-1]
	if last.Focus != FocusEditor || last.State.Phase != Idle {
		t.Errorf("reset event %+v", last)
	}
	// the discarded engine no longer reaches the controller's observers
	n := len(events)
	if err := e.Select(0); err != nil {
		t.Fatal(err)
	}
	if len(events) != n {
		t.Errorf("event from discarded engine")
	}
}

func TestBeginWith(t *testing.T) {
	c := New(WithQueueOptions(queue.WithApplier(patch.JSONPatch{})))
	base, ops, err := parse.Inputs(`{"a":1}`, `[{"op":"remove","path":"/a"}]`)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.BeginWith(base, ops); err != nil {
		t.Fatal(err)
	}
	if err := c.Engine().ApplyNext(); err != nil {
		t.Fatal(err)
	}
	if got := c.State().Queue.Compiled.String(); got != `{}` {
		t.Errorf("got %s", got)
	}
}

func TestParseOptions(t *testing.T) {
	c := New(WithParseOptions(parse.KeepWhitespace(true), parse.Lenient(true)))
	err := begin(t, c, `{"a": "x"} // base`, `[{"op":"replace","path":"/a","value":"y z"},]`)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Engine().ApplyNext(); err != nil {
		t.Fatal(err)
	}
	if got := c.State().Queue.Compiled.String(); got != `{"a":"y z"}` {
		t.Errorf("got %s", got)
	}
}
