package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ananthakrishna-hs/patchstep/encode"
	"github.com/ananthakrishna-hs/patchstep/format"
	"github.com/ananthakrishna-hs/patchstep/parse"
	"github.com/ananthakrishna-hs/patchstep/session"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='render with color'"`
	WireOut bool `cli:"name=wire desc='output json on one line'"`
	Keep    bool `cli:"name=keep desc='keep whitespace in patch text'"`
	Lenient bool `cli:"name=lenient desc='accept comments and trailing commas'"`
	Debug   bool `cli:"name=debug desc='turn on all debug logging'"`

	OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	return []parse.ParseOption{
		parse.KeepWhitespace(cfg.Keep),
		parse.Lenient(cfg.Lenient),
	}
}

func (cfg *MainConfig) sessionOpts() []session.Option {
	return []session.Option{
		session.WithParseOptions(cfg.parseOpts()...),
	}
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	f := format.TreeFormat
	if cfg.OutFormat != nil {
		f = *cfg.OutFormat
	}
	res := []encode.EncodeOption{
		encode.EncodeFormat(f),
		encode.EncodeWire(cfg.WireOut),
	}
	if cfg.colors(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// colors reports whether output to w should be colored: -color wins,
// otherwise color is used on terminals.
func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	if cfg.Main != nil {
		for _, opt := range cfg.Main.Opts {
			if opt.Name != "color" {
				continue
			}
			if opt.Value != nil {
				return false
			}
			break
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type ReplConfig struct {
	*MainConfig
	Base  string `cli:"name=base desc='file to load as the base document'"`
	Patch string `cli:"name=patch desc='file to load as the patch'"`
	Start bool   `cli:"name=start desc='start the session once inputs are loaded'"`

	Repl *cli.Command
}

type RunConfig struct {
	*MainConfig
	Skip  bool `cli:"name=skip desc='reject operations that do not apply instead of stopping'"`
	Quiet bool `cli:"name=q desc='do not report each operation'"`

	Run *cli.Command
}

type HTMLConfig struct {
	*MainConfig
	Select int `cli:"name=select desc='index of the operation to show as selected'"`

	HTML *cli.Command
}

type ViewConfig struct {
	*MainConfig
	View *cli.Command
}
