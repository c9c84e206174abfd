package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/ananthakrishna-hs/patchstep/debug"
	"github.com/ananthakrishna-hs/patchstep/encode"
	"github.com/ananthakrishna-hs/patchstep/ir"
	"github.com/ananthakrishna-hs/patchstep/parse"
	"github.com/ananthakrishna-hs/patchstep/patch"
	"github.com/ananthakrishna-hs/patchstep/queue"

	"github.com/scott-cotton/cli"
)

func run(cfg *RunConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Run.Parse(cc, args)
	if err != nil {
		cfg.Run.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: run requires 2 arguments, a base document and a patch", cli.ErrUsage)
	}
	base, ops, err := loadInputs(cfg.MainConfig, cc, args[0], args[1])
	if err != nil {
		return err
	}
	e := queue.New(base, ops)
	var log io.Writer = io.Discard
	if !cfg.Quiet {
		log = debug.Output()
	}
	if err := runAll(e, cfg.Skip, log); err != nil {
		return err
	}
	st := e.State()
	fmt.Fprintf(log, "%d applied, %d rejected\n", st.Applied, st.Rejected)
	if err := encode.Encode(st.Compiled, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

// runAll applies every pending operation in order.  An operation that does
// not apply stops the run unless skip is set, in which case it is rejected.
func runAll(e *queue.Engine, skip bool, log io.Writer) error {
	n := 0
	for e.CanApplyNext() {
		op := e.Pending()[0]
		err := e.ApplyNext()
		if err == nil {
			fmt.Fprintf(log, "applied %d: %s\n", n, op)
			n++
			continue
		}
		if !skip || !errors.Is(err, patch.ErrApply) {
			return fmt.Errorf("operation %d: %w", n, err)
		}
		if err := e.Select(0); err != nil {
			return err
		}
		if err := e.RejectSelected(); err != nil {
			return err
		}
		fmt.Fprintf(log, "rejected %d: %v\n", n, err)
		n++
	}
	return nil
}

func loadInputs(cfg *MainConfig, cc *cli.Context, basePath, patchPath string) (ir.Document, []ir.Operation, error) {
	if basePath == "-" && patchPath == "-" {
		return ir.Null(), nil, fmt.Errorf("%w: only one input can be read from stdin", cli.ErrUsage)
	}
	bd, err := readInput(cc, basePath)
	if err != nil {
		return ir.Null(), nil, err
	}
	pd, err := readInput(cc, patchPath)
	if err != nil {
		return ir.Null(), nil, err
	}
	base, ops, err := parse.Inputs(string(bd), string(pd), cfg.parseOpts()...)
	if err != nil {
		return ir.Null(), nil, fmt.Errorf("error loading inputs: %w", err)
	}
	return base, ops, nil
}
