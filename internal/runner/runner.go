// Package runner orchestrates the read -> rewrite -> output pipeline.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/jrefactor/internal/config"
	"github.com/donaldgifford/jrefactor/internal/edit"
	"github.com/donaldgifford/jrefactor/internal/parser"
	"github.com/donaldgifford/jrefactor/internal/refactor"
	"github.com/donaldgifford/jrefactor/internal/rules"
	"github.com/donaldgifford/jrefactor/internal/source"
	"github.com/donaldgifford/jrefactor/pkg/diff"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitChanged = 1
	ExitError   = 2
)

// stdinName labels standard input in diffs and listings.
const stdinName = "<stdin>"

// Options configures the runner behavior.
type Options struct {
	// Paths are files or directories. Directories are walked for files
	// matching the configured include patterns. No paths means stdin.
	Paths      []string
	Check      bool
	Diff       bool
	Write      bool
	List       bool
	ConfigPath string
	Quiet      bool
	Color      bool // Colorize diffs.

	// Jobs and MaxPasses override the config file when positive.
	Jobs      int
	MaxPasses int

	// Rules restricts the run to the named rules.
	Rules []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// LogValue implements slog.LogValuer.
func (o *Options) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("mode", o.mode()),
		slog.Int("paths", len(o.Paths)),
		slog.String("config", o.ConfigPath),
		slog.Int("jobs", o.Jobs),
		slog.Int("max_passes", o.MaxPasses),
		slog.Any("rules", o.Rules),
		slog.Bool("color", o.Color),
	)
}

func (o *Options) mode() string {
	switch {
	case o.List:
		return "list"
	case o.Check:
		return "check"
	case o.Diff:
		return "diff"
	case o.Write || len(o.Paths) > 0:
		return "write"
	default:
		return "print"
	}
}

// result is the outcome of processing one input.
type result struct {
	path   string
	input  string
	output string
	edits  []edit.Edit // First-pass edits, list mode only.
	res    refactor.Result
	err    error
}

// Run executes the rewrite pipeline and returns an exit code.
func Run(ctx context.Context, opts *Options) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger := opts.Logger

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		writeErr(opts.Stderr, "jrefactor: %v\n", err)
		return ExitError
	}
	if opts.Jobs > 0 {
		cfg.Jobs = opts.Jobs
	}
	if opts.MaxPasses > 0 {
		cfg.MaxPasses = opts.MaxPasses
	}

	selected, err := rules.Select(cfg.Rules, opts.Rules)
	if err != nil {
		writeErr(opts.Stderr, "jrefactor: %v\n", err)
		return ExitError
	}
	logger.Debug("starting", slog.Any("options", opts), slog.Any("config", cfg))

	engine := refactor.NewEngine(selected, refactor.Options{
		MaxPasses: cfg.MaxPasses,
		Logger:    logger,
	})

	// stdin mode: no paths given.
	if len(opts.Paths) == 0 {
		src, err := io.ReadAll(opts.Stdin)
		if err != nil {
			writeErr(opts.Stderr, "jrefactor: reading stdin: %v\n", err)
			return ExitError
		}
		r := process(engine, opts, stdinName, string(src))
		return report(opts, r)
	}

	files, err := collectFiles(opts.Paths, cfg.Files)
	if err != nil {
		writeErr(opts.Stderr, "jrefactor: %v\n", err)
		return ExitError
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = result{path: path, err: err}
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				results[i] = result{path: path, err: err}
				return nil
			}
			results[i] = process(engine, opts, path, string(src))
			return nil
		})
	}
	// Per-file failures are kept in results; only cancellation surfaces here.
	if err := g.Wait(); err != nil {
		logger.Debug("run canceled", slog.Any("error", err))
	}

	exitCode := ExitOK
	for _, r := range results {
		exitCode = max(exitCode, report(opts, r))
	}
	return exitCode
}

// process rewrites one input. In list mode it stops after the first pass.
func process(engine *refactor.Engine, opts *Options, path, input string) result {
	r := result{path: path, input: input, output: input}
	opts.Logger.Debug("processing", slog.String("path", path))

	if opts.List {
		tree, err := parser.Parse(input)
		if err != nil {
			r.err = err
			return r
		}
		q, err := engine.Pass(tree)
		if err != nil {
			r.err = err
			return r
		}
		r.edits = q.Edits()
		return r
	}

	res, err := engine.Rewrite(input)
	if err != nil {
		r.err = err
		return r
	}
	r.res = res
	r.output = res.Output
	return r
}

// report prints r according to the selected mode and returns its exit code.
func report(opts *Options, r result) int {
	if r.err != nil {
		writeErr(opts.Stderr, "jrefactor: %s: %v\n", r.path, r.err)
		return ExitError
	}

	switch {
	case opts.List:
		if len(r.edits) == 0 {
			return ExitOK
		}
		writeOut(opts.Stdout, listing(r.path, r.input, r.edits))
		return ExitChanged

	case opts.Check:
		if !r.res.Changed() {
			return ExitOK
		}
		if !opts.Quiet {
			writeErr(opts.Stderr, "%s\n", r.path)
		}
		return ExitChanged

	case opts.Diff:
		d := diff.Unified(r.path, r.input, r.output)
		if d == "" {
			return ExitOK
		}
		if opts.Color {
			d = diff.Colorize(d)
		}
		writeOut(opts.Stdout, d)
		return ExitChanged

	case r.path == stdinName:
		writeOut(opts.Stdout, r.output)
		return ExitOK
	}

	// Write mode (default for path args).
	if !r.res.Changed() {
		return ExitOK
	}
	if err := writeFile(r.path, r.output); err != nil {
		writeErr(opts.Stderr, "jrefactor: writing %s: %v\n", r.path, err)
		return ExitError
	}
	opts.Logger.Info("rewrote", slog.String("path", r.path),
		slog.Int("edits", r.res.Edits), slog.Int("passes", r.res.Passes))
	return ExitOK
}

// listing renders one "path:line:col: rule: edit" line per edit, in source
// order.
func listing(path, input string, edits []edit.Edit) string {
	lines := source.NewLineIndex(input)
	slices.SortStableFunc(edits, func(a, b edit.Edit) int {
		return offset(a) - offset(b)
	})

	var b strings.Builder
	for _, e := range edits {
		fmt.Fprintf(&b, "%s:%s: %s: %s\n", path, lines.Position(offset(e)), e.Rule, e)
	}
	return b.String()
}

func offset(e edit.Edit) int {
	if e.Kind == edit.Insert {
		return e.At
	}
	return e.Loc.Start
}

func writeFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), info.Mode().Perm())
}

// writeOut writes to stdout.
func writeOut(w io.Writer, s string) {
	fmt.Fprint(w, s)
}

// writeErr formats and writes to stderr.
func writeErr(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
