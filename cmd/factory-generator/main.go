// Package main provides the CLI entrypoint for factory-generator.
//
// factory-generator reads builder declarations marked with a //factory:
// directive and writes their setters, capability interfaces, Insert,
// IdentifierOf and Create methods next to the declaring file.
//
// Usage:
//
//	factory-generator gen [flags] [packages]        write generated files
//	factory-generator check [flags] [packages]      fail when generated files are stale
//	factory-generator analyze [flags] [packages]    print the analyzed declarations
//	factory-generator init [-config path] [-force]  write the default config file
//
// Typical use from a declaring package:
//
//	//go:generate go run factory-generator/cmd/factory-generator gen .
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"factory-generator/internal/config"
)

const usage = `usage: factory-generator <gen|check|analyze|init> [flags] [packages]

Commands:
  gen      write <file>_factory.go for every file holding declarations
  check    exit 1 when a generated file is missing, stale or orphaned
  analyze  print the analyzed declarations (-format yaml|dump)
  init     write the default configuration to ./`+config.DefaultFile+` (-config path, -force)

Run "factory-generator <command> -h" for flags.`

// Exit codes.
const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

// errReported marks failures already printed to the user.
var errReported = errors.New("failed")

type options struct {
	configPath string
	jobs       int
	verbose    bool
	format     string
	force      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)

		return exitUsage
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "gen", "check", "analyze", "init":
	case "-h", "-help", "--help", "help":
		fmt.Fprintln(stdout, usage)

		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s\n", cmd, usage)

		return exitUsage
	}

	var opts options

	fset := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVar(&opts.configPath, "config", "",
		"config file (default $"+config.EnvConfig+", then ./"+config.DefaultFile+" when present)")
	fset.IntVar(&opts.jobs, "jobs", runtime.GOMAXPROCS(0), "packages processed concurrently")
	fset.BoolVar(&opts.verbose, "v", false, "enable debug logging")

	switch cmd {
	case "analyze":
		fset.StringVar(&opts.format, "format", "yaml", "output format: yaml or dump")
	case "init":
		fset.BoolVar(&opts.force, "force", false, "overwrite an existing config file")
	}

	if err := fset.Parse(rest); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	if cmd == "analyze" && opts.format != "yaml" && opts.format != "dump" {
		fmt.Fprintf(stderr, "unknown format %q (want yaml or dump)\n", opts.format)

		return exitUsage
	}

	logger := newLogger(stderr, opts.verbose)

	if cmd == "init" {
		if fset.NArg() > 0 {
			fmt.Fprintf(stderr, "init takes no packages\n\n%s\n", usage)

			return exitUsage
		}

		if err := initConfig(opts.configPath, opts.force, logger); err != nil {
			logger.Error("init failed", slog.Any("error", err))

			return exitFail
		}

		return exitOK
	}

	patterns := fset.Args()
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg, err := loadConfig(opts.configPath, stderr)
	if err != nil {
		if !errors.Is(err, errReported) {
			logger.Error("loading config", slog.Any("error", err))
		}

		return exitFail
	}

	app := &app{
		cfg:    cfg,
		jobs:   max(opts.jobs, 1),
		logger: logger,
		stdout: stdout,
		stderr: stderr,
	}

	switch cmd {
	case "gen":
		err = app.gen(ctx, patterns)
	case "check":
		err = app.check(ctx, patterns)
	case "analyze":
		err = app.analyze(ctx, patterns, opts.format)
	}

	if err != nil {
		if !errors.Is(err, errReported) {
			logger.Error(cmd+" failed", slog.Any("error", err))
		}

		return exitFail
	}

	return exitOK
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// initConfig writes the default configuration to path, DefaultFile when
// empty. An existing file is only replaced with force.
func initConfig(path string, force bool, logger *slog.Logger) error {
	if path == "" {
		path = config.DefaultFile
	}

	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return fmt.Errorf("%s already exists (use -force to overwrite)", path)
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if err := config.WriteFile(config.Default(), path); err != nil {
		return err
	}

	logger.Info("wrote", slog.String("path", path))

	return nil
}

func loadConfig(path string, stderr io.Writer) (*config.Config, error) {
	cfg, err := config.Resolve(path)
	if err != nil {
		return nil, err
	}

	diags := config.Validate(cfg)
	for _, d := range diags.Errors {
		fmt.Fprintln(stderr, d.String())
	}

	if diags.HasErrors() {
		return nil, errReported
	}

	return cfg, nil
}
