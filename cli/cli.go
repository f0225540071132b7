package cli

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/plume/cli/cmd"
	"github.com/ardnew/plume/lang"
	"github.com/ardnew/plume/pkg"
)

// CLI is the top-level command-line interface for plume.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Include []string `help:"Directory searched for scripts before those listed in ${pathEnv}." name:"include" placeholder:"DIR" short:"I" type:"path"`

	Run     cmd.Run     `cmd:"" default:"withargs" help:"Evaluate a script and print its result."`
	Ast     cmd.Ast     `cmd:""                    help:"Print the syntax tree of a script."`
	Fmt     cmd.Fmt     `cmd:""                    help:"Format scripts in canonical form."`
	Repl    cmd.Repl    `cmd:""                    help:"Start an interactive session."`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file."`
	Version cmd.Version `cmd:""                    help:"Print version information."`
}

// Run executes the plume CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath(baseConfig + ".yaml"),
		cmd.CacheIdentifier:  cacheDir(),
		"pathEnv":            pkg.PathEnv,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong reports anything, wherever they appear
	// on the command line.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(append([]kong.Group{cli.Log.group()}, cli.Pprof.groups()...)),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolveYAML, configPath(baseConfig+".yaml")),
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
	ctx = cmd.WithSearchPath(ctx, searchPath(cli.Include))

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}

// searchPath returns the directories searched for scripts: include followed
// by those listed in the environment, skipping empty elements.
func searchPath(include []string) string {
	return lang.SearchPath(
		os.Getenv(pkg.PathEnv),
		func(dir string) bool { return dir != "" },
		include...,
	)
}
