package view

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/ananthakrishna-hs/patchstep/encode"
	"github.com/ananthakrishna-hs/patchstep/session"
)

// Terminal writes a text rendering of st.  While Idle it shows the two
// inputs; while Active it shows the compiled document, the actions on offer
// and the pending operations with the selection marked.
func Terminal(w io.Writer, st session.State, opts ...encode.EncodeOption) error {
	tw := &termWriter{w: w}
	if st.Phase != session.Active || st.Queue == nil {
		tw.heading("base")
		tw.text(st.BaseText)
		tw.heading("patch")
		tw.text(st.PatchText)
		tw.actions(st)
		return tw.err
	}
	q := st.Queue
	tw.heading(fmt.Sprintf("document (%d applied, %d rejected)", q.Applied, q.Rejected))
	if tw.err == nil {
		tw.err = encode.Encode(q.Compiled, w, opts...)
	}
	tw.actions(st)
	tw.heading(fmt.Sprintf("pending (%d)", len(q.Pending)))
	for i, op := range q.Pending {
		mark := "  "
		if q.Selection.Is(i) {
			mark = "> "
		}
		label := fmt.Sprintf("%s%d ", mark, i)
		tw.printf("%s", label)
		if tw.err != nil {
			break
		}
		eOpts := append(slices.Clip(opts), encode.EncodePrefix(strings.Repeat(" ", len(label))))
		tw.err = encode.Encode(op.Document(), w, eOpts...)
	}
	return tw.err
}

type termWriter struct {
	w   io.Writer
	err error
}

func (t *termWriter) printf(f string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, f, args...)
}

func (t *termWriter) heading(s string) {
	t.printf("-- %s --\n", s)
}

func (t *termWriter) text(s string) {
	if s == "" {
		t.printf("(empty)\n")
		return
	}
	t.printf("%s\n", strings.TrimRight(s, "\n"))
}

func (t *termWriter) actions(st session.State) {
	as := Affordances(st)
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = "[" + string(a) + "]"
	}
	t.printf("%s\n", strings.Join(parts, " "))
}
