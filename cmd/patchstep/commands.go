package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: tree/t, json/j, yaml/y",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "patchstep").
		WithSynopsis("patchstep [opts] command [opts]").
		WithDescription("patchstep steps through JSON Patch operations one at a time.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patchstepMain(cfg, cc, args)
		}).
		WithSubs(
			ReplCommand(cfg),
			RunCommand(cfg),
			HTMLCommand(cfg),
			ViewCommand(cfg))
}

func ReplCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ReplConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Repl, "repl").
		WithAliases("r", "i").
		WithSynopsis("repl [-base file] [-patch file] [-start]").
		WithDescription(replDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return repl(cfg, cc, args)
		})
}

const replDescription = `repl runs an interactive patch stepping session.

While idle, enter a base document and a patch, then start.  While active the
inputs are locked; the compiled document is shown with the pending operations
below it.  Apply the next operation, or select one to apply, reject or
preview it.  Reset ends the session and clears the inputs.

Type 'help' in the session for the list of commands.`

func RunCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RunConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Run, "run").
		WithSynopsis("run [-skip] [-q] <base> <patch>").
		WithDescription("apply every operation in order and output the compiled document").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

func HTMLCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &HTMLConfig{MainConfig: mainCfg, Select: -1}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.HTML, "html").
		WithSynopsis("html [-select i] <base> <patch>").
		WithDescription("write an html page showing the session as started from base and patch").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return htmlPage(cfg, cc, args)
		})
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithSynopsis("view [files]").
		WithDescription("view json documents as trees").
		WithRun(func(cc *cli.Context, args []string) error {
			return viewDocs(cfg, cc, args)
		})
}
