package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ananthakrishna-hs/patchstep/debug"
	"github.com/ananthakrishna-hs/patchstep/encode"
	"github.com/ananthakrishna-hs/patchstep/filter"
	"github.com/ananthakrishna-hs/patchstep/format"
	"github.com/ananthakrishna-hs/patchstep/ir"
	"github.com/ananthakrishna-hs/patchstep/libdiff"
	"github.com/ananthakrishna-hs/patchstep/parse"
	"github.com/ananthakrishna-hs/patchstep/patch"
	"github.com/ananthakrishna-hs/patchstep/session"
	"github.com/ananthakrishna-hs/patchstep/view"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
)

const (
	alertParse = "Invalid base object/patch"
	alertApply = "Invalid patch"
)

// REPL holds the state of an interactive session.
type REPL struct {
	ctl     *session.Controller
	in      *bufio.Reader
	out     io.Writer
	encOpts []encode.EncodeOption
	colored bool

	dirty bool
	focus session.Focus
}

func repl(cfg *ReplConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Repl.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: repl takes no arguments, got %v", cli.ErrUsage, args)
	}
	r := newREPL(cfg.MainConfig, cc.In, cc.Out)
	if cfg.Base != "" {
		r.load((*session.Controller).SetBaseText, cfg.Base)
	}
	if cfg.Patch != "" {
		r.load((*session.Controller).SetPatchText, cfg.Patch)
	}
	if cfg.Start {
		r.start()
	}
	r.flush()
	return r.loop()
}

func newREPL(cfg *MainConfig, in io.Reader, out io.Writer) *REPL {
	r := &REPL{
		ctl:     session.New(cfg.sessionOpts()...),
		in:      bufio.NewReader(in),
		out:     out,
		encOpts: cfg.encOpts(out),
		colored: cfg.colors(out),
	}
	r.ctl.Subscribe(func(ev session.Event) {
		r.dirty = true
		if ev.Focus != session.FocusNone {
			r.focus = ev.Focus
		}
	})
	return r
}

func (r *REPL) loop() error {
	for {
		r.printf("%s", r.prompt())
		input, err := r.in.ReadString('\n')
		if err != nil && input == "" {
			if errors.Is(err, io.EOF) {
				r.printf("\n")
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !r.handleCommand(input) {
			return nil
		}
		r.flush()
	}
}

func (r *REPL) prompt() string {
	if r.ctl.Phase() == session.Active {
		return "patchstep*> "
	}
	return "patchstep> "
}

func (r *REPL) handleCommand(input string) bool {
	cmd, rest, _ := strings.Cut(input, " ")
	cmd = strings.ToLower(cmd)
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch cmd {
	case "help", "?":
		r.printHelp()

	case "quit", "exit", "q":
		return false

	case "base", "patch":
		text := rest
		if text == "" {
			text = r.readBlock()
		}
		set := r.ctl.SetBaseText
		if cmd == "patch" {
			set = r.ctl.SetPatchText
		}
		if err := set(text); err != nil {
			r.report(err)
		}

	case "load":
		if len(args) != 2 || (args[0] != "base" && args[0] != "patch") {
			r.printf("usage: load base|patch <file>\n")
			break
		}
		set := (*session.Controller).SetBaseText
		if args[0] == "patch" {
			set = (*session.Controller).SetPatchText
		}
		r.load(set, args[1])

	case "start":
		if r.gate(view.Start) {
			r.start()
		}

	case "clear":
		if r.gate(view.Clear) {
			r.ctl.End()
		}

	case "reset":
		if r.gate(view.Reset) {
			r.ctl.Reset()
		}

	case "next", "n":
		if r.gate(view.ApplyNext) {
			r.report(r.ctl.Engine().ApplyNext())
		}

	case "select", "s":
		e, err := r.ctl.Active()
		if err != nil {
			r.report(err)
			break
		}
		i, err := indexArg(args)
		if err != nil {
			r.report(err)
			break
		}
		r.report(e.Select(i))

	case "where", "w":
		e, err := r.ctl.Active()
		if err != nil {
			r.report(err)
			break
		}
		p, err := filter.Compile(rest)
		if err != nil {
			r.report(err)
			break
		}
		if _, err := e.SelectWhere(p); err != nil {
			r.report(err)
		}

	case "deselect", "d":
		if r.gate(view.Deselect) {
			r.ctl.Engine().Deselect()
		}

	case "apply", "a":
		if r.gate(view.Apply) {
			r.report(r.ctl.Engine().ApplySelected())
		}

	case "reject", "x":
		if r.gate(view.Reject) {
			r.report(r.ctl.Engine().RejectSelected())
		}

	case "preview", "p":
		r.preview(args)

	case "diff":
		r.diff()

	case "history", "h":
		r.history()

	case "show", "ls":
		r.dirty = true

	case "export":
		if len(args) != 1 {
			r.printf("usage: export <file>\n")
			break
		}
		r.export(args[0])

	default:
		r.printf("unknown command %q, type 'help' for commands\n", cmd)
	}
	return true
}

func (r *REPL) printHelp() {
	r.printf(`Inputs (idle):
  base [json]            set the base document; without json, read lines up to "."
  patch [json]           set the patch; without json, read lines up to "."
  load base|patch FILE   read an input from FILE
  start                  parse the inputs and start the session
  clear                  clear the inputs

Session (active):
  next, n                apply the next operation
  select, s I            select pending operation I
  where, w EXPR          select the first operation matching EXPR
                         (names: index op path from value record; under(path, prefix))
  apply, a               apply the selected operation
  reject, x              reject the selected operation
  deselect, d            clear the selection
  preview, p [I]         show the document before and after operation I
  diff                   show the net patch from the base to the compiled document
  history, h             list applied and rejected operations
  reset                  end the session and clear the inputs

Other:
  show, ls               redraw
  export FILE            write the current view as an html page
  help, ?                this text
  quit, exit, q          leave
`)
}

// gate reports whether a is on offer, telling the user when it is not.
func (r *REPL) gate(a view.Affordance) bool {
	if view.Offers(r.ctl.State(), a) {
		return true
	}
	r.printf("%s is not available now\n", a)
	return false
}

func (r *REPL) start() {
	if err := r.ctl.Begin(); err != nil {
		r.report(err)
	}
}

func (r *REPL) load(set func(*session.Controller, string) error, file string) {
	d, err := os.ReadFile(file)
	if err != nil {
		r.report(err)
		return
	}
	r.report(set(r.ctl, string(d)))
}

func (r *REPL) readBlock() string {
	var lines []string
	for {
		r.printf(". ")
		ln, err := r.in.ReadString('\n')
		trimmed := strings.TrimRight(ln, "\r\n")
		if trimmed == "." {
			break
		}
		if ln != "" {
			lines = append(lines, trimmed)
		}
		if err != nil {
			break
		}
	}
	return strings.Join(lines, "\n")
}

func (r *REPL) preview(args []string) {
	e, err := r.ctl.Active()
	if err != nil {
		r.report(err)
		return
	}
	i := 0
	if len(args) != 0 {
		i, err = indexArg(args)
		if err != nil {
			r.report(err)
			return
		}
	} else if j, ok := e.Selection().Index(); ok {
		i = j
	}
	after, err := e.Preview(i)
	if err != nil {
		r.report(err)
		return
	}
	from, err := treeString(e.Compiled())
	if err != nil {
		r.report(err)
		return
	}
	to, err := treeString(after)
	if err != nil {
		r.report(err)
		return
	}
	lines := libdiff.DiffLines(from, to)
	if !libdiff.Changed(lines) {
		r.printf("operation %d makes no change\n", i)
		return
	}
	r.printf("-- preview %d --\n", i)
	for _, ln := range lines {
		s := ln.String()
		if r.colored {
			switch ln.Kind {
			case libdiff.LineInsert:
				s = color.GreenString("%s", s)
			case libdiff.LineDelete:
				s = color.RedString("%s", s)
			}
		}
		r.printf("%s\n", s)
	}
}

func (r *REPL) diff() {
	e, err := r.ctl.Active()
	if err != nil {
		r.report(err)
		return
	}
	ops, err := e.Diff()
	if err != nil {
		r.report(err)
		return
	}
	if ops == nil {
		ops = []ir.Operation{}
	}
	d, err := json.MarshalIndent(ops, "", "  ")
	if err != nil {
		r.report(err)
		return
	}
	r.printf("%s\n", d)
}

func (r *REPL) history() {
	e, err := r.ctl.Active()
	if err != nil {
		r.report(err)
		return
	}
	h := e.History()
	if len(h) == 0 {
		r.printf("nothing consumed yet\n")
		return
	}
	for i, entry := range h {
		r.printf("%d %s (was %d) %s\n", i, entry.Outcome, entry.Index, entry.Op)
	}
}

func (r *REPL) export(file string) {
	f, err := os.Create(file)
	if err != nil {
		r.report(err)
		return
	}
	if err := view.HTML(f, r.ctl.State()); err != nil {
		f.Close()
		r.report(err)
		return
	}
	if err := f.Close(); err != nil {
		r.report(err)
		return
	}
	r.printf("wrote %s\n", file)
}

// flush redraws the view if anything changed since the last draw.
func (r *REPL) flush() {
	if !r.dirty {
		return
	}
	r.dirty = false
	switch r.focus {
	case session.FocusOperations:
		r.printf("session %s started\n", r.ctl.State().ID)
	case session.FocusEditor:
		r.printf("session cleared\n")
	}
	r.focus = session.FocusNone
	if err := view.Terminal(r.out, r.ctl.State(), r.encOpts...); err != nil {
		debug.Logf("error rendering: %v\n", err)
	}
}

// report shows err to the user.  Parse and apply failures are shown as a
// generic alert; their detail only goes to the debug log.
func (r *REPL) report(err error) {
	if err == nil {
		return
	}
	var msg string
	switch {
	case errors.Is(err, parse.ErrParse):
		msg = alertParse
	case errors.Is(err, patch.ErrApply):
		msg = alertApply
	default:
		msg = err.Error()
	}
	debug.Logf("%v\n", err)
	if r.colored {
		msg = color.New(color.FgRed, color.Bold).Sprint(msg)
	}
	r.printf("%s\n", msg)
}

func (r *REPL) printf(f string, args ...any) {
	fmt.Fprintf(r.out, f, args...)
}

func indexArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one index argument")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("bad index %q", args[0])
	}
	return i, nil
}

func treeString(d ir.Document) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(d, buf, encode.EncodeFormat(format.TreeFormat)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
