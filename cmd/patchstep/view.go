package main

import (
	"fmt"
	"io"

	"github.com/ananthakrishna-hs/patchstep/encode"
	"github.com/ananthakrishna-hs/patchstep/parse"

	"github.com/scott-cotton/cli"
)

func viewDocs(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for i, file := range args {
		if err := viewFile(cfg, cc, cc.Out, file); err != nil {
			return err
		}
		if i < len(args)-1 {
			if _, err := io.WriteString(cc.Out, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func viewFile(cfg *ViewConfig, cc *cli.Context, w io.Writer, file string) error {
	d, err := readInput(cc, file)
	if err != nil {
		return fmt.Errorf("could not read %q: %w", file, err)
	}
	doc, err := parse.Document(d, cfg.parseOpts()...)
	if err != nil {
		return fmt.Errorf("error processing %s: %w", file, err)
	}
	if err := encode.Encode(doc, w, cfg.encOpts(w)...); err != nil {
		return fmt.Errorf("error encoding %s: %w", file, err)
	}
	return nil
}
