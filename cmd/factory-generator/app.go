package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"factory-generator/internal/analyze"
	"factory-generator/internal/config"
	"factory-generator/internal/diagnostic"
	"factory-generator/internal/gen"
	"factory-generator/internal/plan"
)

type app struct {
	cfg    *config.Config
	jobs   int
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

// result is the outcome of one package. plan is nil when the package failed
// to load.
type result struct {
	pkg     *analyze.Package
	plan    *plan.Plan
	files   []gen.GeneratedFile
	orphans []string
	err     error
}

// process loads patterns, then analyzes and optionally generates every
// package concurrently. A failing package does not stop the others.
func (a *app) process(ctx context.Context, patterns []string, generate bool) ([]result, error) {
	pkgs, err := analyze.NewLoader(a.cfg.RuntimeImport, "", a.logger).Load(ctx, patterns...)
	if err != nil {
		return nil, err
	}

	analyzer := plan.NewAnalyzer(a.cfg.AnalyzerConfig())
	generator := gen.NewGenerator(a.cfg.GeneratorConfig(), a.logger)

	results := make([]result, len(pkgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.jobs)

	for i, pkg := range pkgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			r := &results[i]
			r.pkg = pkg

			if pkg.Err != nil {
				r.err = pkg.Err

				return nil
			}

			r.plan = analyzer.AnalyzePackage(pkg)

			if !generate || r.plan.Diagnostics.HasErrors() {
				return nil
			}

			r.files, r.err = generator.Generate(r.plan)
			if r.err != nil || pkg.Dir == "" {
				return nil
			}

			r.orphans, r.err = gen.Orphans(pkg.Dir, a.cfg.OutputSuffix, r.files)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Debug("processed packages", slog.Int("count", len(results)))

	return results, nil
}

// report prints diagnostics and per-package errors and reports whether any
// package failed.
func (a *app) report(results []result) bool {
	failed := false

	for _, r := range results {
		if r.plan != nil {
			printDiagnostics(a.stderr, r.plan.Diagnostics)
		}

		if r.plan != nil && r.plan.Diagnostics.HasErrors() {
			fmt.Fprintf(a.stderr, "%s: declaration errors, nothing generated\n", r.pkg.Path)

			failed = true
		}

		if r.err != nil {
			fmt.Fprintf(a.stderr, "%s: %v\n", r.pkg.Path, r.err)

			failed = true
		}
	}

	return failed
}

// ok reports whether the package produced files to write or check.
func (r result) ok() bool {
	return r.err == nil && r.plan != nil && !r.plan.Diagnostics.HasErrors()
}

func printDiagnostics(w io.Writer, d diagnostic.Diagnostics) {
	for _, list := range [][]diagnostic.Diagnostic{d.Errors, d.Warnings} {
		for _, item := range list {
			fmt.Fprintf(w, "%s: %s\n", item.Severity, item.String())
		}
	}
}

func (a *app) gen(ctx context.Context, patterns []string) error {
	results, err := a.process(ctx, patterns, true)
	if err != nil {
		return err
	}

	failed := a.report(results)

	for _, r := range results {
		if !r.ok() {
			continue
		}

		if _, err := gen.WriteFiles(r.files, a.logger); err != nil {
			return err
		}

		for _, orphan := range r.orphans {
			if err := os.Remove(orphan); err != nil {
				return fmt.Errorf("removing orphaned %s: %w", orphan, err)
			}

			a.logger.Info("removed", slog.String("path", orphan))
		}
	}

	if failed {
		return errReported
	}

	return nil
}

func (a *app) check(ctx context.Context, patterns []string) error {
	results, err := a.process(ctx, patterns, true)
	if err != nil {
		return err
	}

	failed := a.report(results)

	for _, r := range results {
		if !r.ok() {
			continue
		}

		stale, err := gen.Stale(r.files)
		if err != nil {
			return err
		}

		for _, path := range stale {
			fmt.Fprintf(a.stdout, "stale: %s\n", path)
		}

		for _, path := range r.orphans {
			fmt.Fprintf(a.stdout, "orphaned: %s\n", path)
		}

		if len(stale) > 0 || len(r.orphans) > 0 {
			failed = true
		}
	}

	if failed {
		return errReported
	}

	return nil
}

func (a *app) analyze(ctx context.Context, patterns []string, format string) error {
	results, err := a.process(ctx, patterns, false)
	if err != nil {
		return err
	}

	failed := false

	plans := make([]*plan.Plan, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(a.stderr, "%s: %v\n", r.pkg.Path, r.err)

			failed = true

			continue
		}

		plans = append(plans, r.plan)
	}

	switch format {
	case "dump":
		dumper := spew.ConfigState{
			Indent:                  "  ",
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		dumper.Fdump(a.stdout, plans)
	default:
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)

		if err := enc.Encode(plans); err != nil {
			return fmt.Errorf("encoding plans: %w", err)
		}

		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding plans: %w", err)
		}
	}

	for _, p := range plans {
		if p.Diagnostics.HasErrors() {
			failed = true
		}
	}

	if failed {
		return errReported
	}

	return nil
}
