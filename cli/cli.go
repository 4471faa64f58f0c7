package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/calc/cli/cmd"
	"github.com/ardnew/calc/pkg"
)

// CLI is the top-level command-line interface for calc.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit."`

	Source []string `help:"Read expressions from file(s); '-' is stdin." name:"source" short:"s" type:"existingfile"`

	Eval  cmd.Eval  `cmd:"" default:"withargs" help:"Evaluate expressions (default)."`
	Fmt   cmd.Fmt   `cmd:""                    help:"Format an expression."`
	Funcs cmd.Funcs `cmd:""                    help:"List operators and builtin functions."`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive session."`
}

// Run executes the calc CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when kong
// exits early, e.g. after printing help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	vars := kong.Vars{
		"version": pkg.Name + " " + pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong reports any parse errors.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(loadYAML, configPath(baseConfig+".yaml"), configPath(baseConfig+".yml")),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)

	// Reapply with every parsed value, including those from config files.
	if err := cli.Log.start(ctx); err != nil {
		return err
	}

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
