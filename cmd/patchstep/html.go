package main

import (
	"fmt"

	"github.com/ananthakrishna-hs/patchstep/session"
	"github.com/ananthakrishna-hs/patchstep/view"

	"github.com/scott-cotton/cli"
)

func htmlPage(cfg *HTMLConfig, cc *cli.Context, args []string) error {
	args, err := cfg.HTML.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: html requires 2 arguments, a base document and a patch", cli.ErrUsage)
	}
	bd, err := readInput(cc, args[0])
	if err != nil {
		return err
	}
	pd, err := readInput(cc, args[1])
	if err != nil {
		return err
	}
	ctl := session.New(cfg.sessionOpts()...)
	if err := ctl.SetBaseText(string(bd)); err != nil {
		return err
	}
	if err := ctl.SetPatchText(string(pd)); err != nil {
		return err
	}
	if err := ctl.Begin(); err != nil {
		return fmt.Errorf("error starting session: %w", err)
	}
	if cfg.Select >= 0 {
		if err := ctl.Engine().Select(cfg.Select); err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	return view.HTML(cc.Out, ctl.State())
}
