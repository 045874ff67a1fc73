// Package main is the entry point for jrefactor.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"fortio.org/safecast"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/donaldgifford/jrefactor/internal/rules"
	"github.com/donaldgifford/jrefactor/internal/runner"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line args and returns the process exit code.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	code := runner.ExitOK
	root := newRootCmd(stdin, stdout, stderr, &code)
	if args == nil {
		// Cobra falls back to os.Args on nil.
		args = []string{}
	}
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "jrefactor: %v\n", err)
		return runner.ExitError
	}
	return code
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer, code *int) *cobra.Command {
	opts := &runner.Options{Stdin: stdin, Stdout: stdout, Stderr: stderr}
	var (
		verbose   bool
		colorMode string
	)

	cmd := &cobra.Command{
		Use:   "jrefactor [flags] [paths...]",
		Short: "Apply mechanical cleanups to Java source",
		Long: `jrefactor removes redundant semicolons and puts modifiers in canonical
order. Directories are searched for Java files. With no paths, reads from
stdin and writes to stdout; otherwise files are rewritten in place.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			color, err := useColor(colorMode, stdout)
			if err != nil {
				return err
			}
			opts.Paths = args
			opts.Color = color
			opts.Logger = newLogger(stderr, verbose)
			*code = runner.Run(cmd.Context(), opts)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.Check, "check", false, "exit 1 if any file would change")
	f.BoolVar(&opts.Diff, "diff", false, "print unified diff of changes")
	f.BoolVarP(&opts.Write, "write", "w", false, "write result to file")
	f.BoolVarP(&opts.List, "list", "l", false, "list the edits of the first pass")
	f.StringVar(&opts.ConfigPath, "config", "", "path to config file")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "suppress informational output")
	f.BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
	f.IntVarP(&opts.Jobs, "jobs", "j", 0, "files processed in parallel (default GOMAXPROCS)")
	f.IntVar(&opts.MaxPasses, "max-passes", 0, "rewrite pass budget per file (default from config)")
	f.StringSliceVar(&opts.Rules, "rule", nil, "run only the named rule (repeatable)")
	f.StringVar(&colorMode, "color", "auto", "colorize diffs (auto|on|off)")
	cmd.MarkFlagsMutuallyExclusive("check", "diff", "write", "list")

	cmd.AddCommand(newRulesCmd(stdout), newVersionCmd(stdout))
	return cmd
}

func newRulesCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the available rules in execution order",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			for _, r := range rules.All() {
				fmt.Fprintf(stdout, "%-20s %s\n", r.Name(), r.Description())
			}
		},
	}
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(stdout, "jrefactor %s (%s) %s\n", version, commit, date)
		},
	}
}

// useColor resolves the --color flag. Auto enables colors only when
// stdout is a terminal.
func useColor(mode string, stdout io.Writer) (bool, error) {
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		f, ok := stdout.(*os.File)
		return ok && isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color %q (want auto, on or off)", mode)
	}
}

func isTerminal(f *os.File) bool {
	fd, err := safecast.Conv[int](f.Fd())
	return err == nil && term.IsTerminal(fd)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
