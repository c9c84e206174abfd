package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ananthakrishna-hs/patchstep/debug"
	"github.com/ananthakrishna-hs/patchstep/encode"
	"github.com/ananthakrishna-hs/patchstep/session"

	"github.com/google/go-cmp/cmp"
)

func TestMain(m *testing.M) {
	debug.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// script runs lines through a fresh REPL and returns it with its output.
func script(t *testing.T, lines ...string) (*REPL, string) {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	out := bytes.NewBuffer(nil)
	r := newREPL(&MainConfig{}, in, out)
	if err := r.loop(); err != nil {
		t.Fatal(err)
	}
	return r, out.String()
}

func compiled(t *testing.T, r *REPL) string {
	t.Helper()
	e, err := r.ctl.Active()
	if err != nil {
		t.Fatal(err)
	}
	return encode.MustString(e.Compiled())
}

func TestREPLApplyInOrder(t *testing.T) {
	r, out := script(t,
		`base {"a":1}`,
		`patch [{"op":"add","path":"/b","value":2},{"op":"replace","path":"/a","value":3}]`,
		`start`,
		`next`,
		`next`,
	)
	if r.ctl.Phase() != session.Active {
		t.Fatalf("phase %s", r.ctl.Phase())
	}
	if got, want := compiled(t, r), "{\n  a: 3\n  b: 2\n}"; got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
	if !strings.Contains(out, "session "+r.ctl.State().ID+" started") {
		t.Errorf("no start notice in\n%s", out)
	}
	if !strings.Contains(out, "-- pending (0) --") {
		t.Errorf("queue not drained in\n%s", out)
	}
}

func TestREPLSelectOutOfOrder(t *testing.T) {
	r, _ := script(t,
		`base {"a":1}`,
		`patch [{"op":"add","path":"/b","value":2},{"op":"remove","path":"/a"}]`,
		`start`,
		`select 1`,
		`apply`,
	)
	if got, want := compiled(t, r), "{}"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
	e := r.ctl.Engine()
	if e.Len() != 1 || e.Pending()[0].Op() != "add" {
		t.Errorf("pending %v", e.Pending())
	}
	if e.HasSelection() {
		t.Errorf("selection survived apply")
	}
}

func TestREPLReject(t *testing.T) {
	r, _ := script(t,
		`base {"a":1}`,
		`patch [{"op":"remove","path":"/a"}]`,
		`start`,
		`where op == "remove"`,
		`reject`,
		`history`,
	)
	e := r.ctl.Engine()
	if e.Len() != 0 {
		t.Errorf("%d pending", e.Len())
	}
	if got, want := compiled(t, r), "{\n  a: 1\n}"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
	h := e.History()
	if len(h) != 1 || h[0].Outcome.String() != "rejected" {
		t.Errorf("history %v", h)
	}
}

func TestREPLParseFailure(t *testing.T) {
	r, out := script(t,
		`base {"a":`,
		`patch []`,
		`start`,
	)
	if r.ctl.Phase() != session.Idle {
		t.Errorf("phase %s", r.ctl.Phase())
	}
	if !strings.Contains(out, alertParse) {
		t.Errorf("no alert in\n%s", out)
	}
}

func TestREPLApplyFailure(t *testing.T) {
	r, out := script(t,
		`base {"a":1}`,
		`patch [{"op":"test","path":"/a","value":2}]`,
		`start`,
		`next`,
	)
	if !strings.Contains(out, alertApply) {
		t.Errorf("no alert in\n%s", out)
	}
	if r.ctl.Engine().Len() != 1 {
		t.Errorf("failed operation was consumed")
	}
}

func TestREPLGates(t *testing.T) {
	_, out := script(t,
		`next`,
		`base {}`,
		`patch []`,
		`start`,
		`apply`,
		`start`,
	)
	for _, want := range []string{
		"next is not available now",
		"apply is not available now",
		"start is not available now",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestREPLLockedAndReset(t *testing.T) {
	r, out := script(t,
		`base {"a":1}`,
		`patch []`,
		`start`,
		`base {"b":2}`,
		`reset`,
	)
	if !strings.Contains(out, session.ErrLocked.Error()) {
		t.Errorf("edit while active not refused in\n%s", out)
	}
	if !strings.Contains(out, "session cleared") {
		t.Errorf("no clear notice in\n%s", out)
	}
	st := r.ctl.State()
	if st.Phase != session.Idle || st.BaseText != "" || st.PatchText != "" {
		t.Errorf("state after reset %+v", st)
	}
}

func TestREPLReadBlock(t *testing.T) {
	r, _ := script(t,
		`base`,
		`{`,
		`  "a": 1`,
		`}`,
		`.`,
	)
	want := "{\n  \"a\": 1\n}"
	if diff := cmp.Diff(want, r.ctl.State().BaseText); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestREPLLoadAndExport(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.json")
	if err := os.WriteFile(base, []byte(`{"a":1}`), 0644); err != nil {
		t.Fatal(err)
	}
	page := filepath.Join(dir, "page.html")
	_, out := script(t,
		"load base "+base,
		`patch [{"op":"add","path":"/b","value":2}]`,
		`start`,
		"export "+page,
	)
	if !strings.Contains(out, "wrote "+page) {
		t.Fatalf("no export in\n%s", out)
	}
	d, err := os.ReadFile(page)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(d, []byte(`class="operation"`)) {
		t.Errorf("page has no operation:\n%s", d)
	}
}

func TestREPLPreviewAndDiff(t *testing.T) {
	_, out := script(t,
		`base {"a":1}`,
		`patch [{"op":"replace","path":"/a","value":2}]`,
		`start`,
		`preview`,
		`next`,
		`diff`,
	)
	for _, want := range []string{
		"-- preview 0 --",
		"-   a: 1",
		"+   a: 2",
		`"op": "replace"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestREPLQuit(t *testing.T) {
	r, _ := script(t,
		`quit`,
		`base {}`,
	)
	if r.ctl.State().BaseText != "" {
		t.Errorf("input read after quit")
	}
}
