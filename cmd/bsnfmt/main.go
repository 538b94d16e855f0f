// Command bsnfmt parses, validates, and pretty-prints BSN scene files
// (spec §6 "CLI surface: None; library core" — this tool is ambient
// developer tooling around the library, not part of the core itself).
package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/bsn/pkg"
)

func main() {
	var cli CLI

	parser := kong.Must(&cli,
		kong.Name(pkg.Name+"fmt"),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.ExplicitGroups([]kong.Group{cli.Pprof.group()}),
		kong.BindSingletonProvider(func() context.Context {
			return context.Background()
		}),
		cli.Pprof.vars(),
	)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	defer cli.Pprof.start()()

	kctx.FatalIfErrorf(kctx.Run())
}

// CLI is the top-level bsnfmt command set.
type CLI struct {
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Format   Format   `cmd:"" default:"withargs" help:"Pretty-print a scene file."`
	Validate Validate `cmd:""                    help:"Parse a scene file and check its sub-scene references."`
}
