package runner

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/jrefactor/internal/config"
	_ "github.com/donaldgifford/jrefactor/internal/rules" // Register rules via init().
)

const (
	messy = "class A {\n    final static int X = 1;;\n}\n"
	clean = "class A {\n    static final int X = 1;\n}\n"
)

func writeJava(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func filesConfig(exclude []string) config.FilesConfig {
	files := config.DefaultConfig().Files
	files.Exclude = exclude
	return files
}

func run(t *testing.T, opts *Options) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	opts.Stdout = &out
	opts.Stderr = &errOut
	code = Run(context.Background(), opts)
	return code, out.String(), errOut.String()
}

func TestRunStdin(t *testing.T) {
	code, stdout, stderr := run(t, &Options{Stdin: strings.NewReader(messy)})

	assert.Equal(t, ExitOK, code, stderr)
	assert.Equal(t, clean, stdout)
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	bad := writeJava(t, dir, "Bad.java", messy)
	good := writeJava(t, dir, "Good.java", clean)

	code, _, stderr := run(t, &Options{Paths: []string{bad}, Check: true})
	assert.Equal(t, ExitChanged, code)
	assert.Equal(t, bad+"\n", stderr)

	code, _, stderr = run(t, &Options{Paths: []string{bad}, Check: true, Quiet: true})
	assert.Equal(t, ExitChanged, code)
	assert.Empty(t, stderr)

	code, _, _ = run(t, &Options{Paths: []string{good}, Check: true})
	assert.Equal(t, ExitOK, code)

	// Check never writes.
	data, err := os.ReadFile(bad)
	require.NoError(t, err)
	assert.Equal(t, messy, string(data))
}

func TestRunDiff(t *testing.T) {
	path := writeJava(t, t.TempDir(), "A.java", messy)

	code, stdout, _ := run(t, &Options{Paths: []string{path}, Diff: true})

	assert.Equal(t, ExitChanged, code)
	assert.Contains(t, stdout, "--- a/"+path)
	assert.Contains(t, stdout, "-    final static int X = 1;;\n")
	assert.Contains(t, stdout, "+    static final int X = 1;\n")
	assert.NotContains(t, stdout, "\x1b[")
}

func TestRunDiffColor(t *testing.T) {
	path := writeJava(t, t.TempDir(), "A.java", messy)

	code, stdout, _ := run(t, &Options{Paths: []string{path}, Diff: true, Color: true})

	assert.Equal(t, ExitChanged, code)
	assert.Contains(t, stdout, "\x1b[32m+    static final int X = 1;\x1b[0m")
}

func TestRunAlreadyClean(t *testing.T) {
	path := writeJava(t, t.TempDir(), "A.java", clean)

	code, stdout, _ := run(t, &Options{Paths: []string{path}, Diff: true})

	assert.Equal(t, ExitOK, code)
	assert.Empty(t, stdout)
}

func TestRunWrite(t *testing.T) {
	path := writeJava(t, t.TempDir(), "A.java", messy)

	code, stdout, stderr := run(t, &Options{Paths: []string{path}, Write: true})

	assert.Equal(t, ExitOK, code, stderr)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, clean, string(data))
}

func TestRunList(t *testing.T) {
	path := writeJava(t, t.TempDir(), "A.java", messy)

	code, stdout, _ := run(t, &Options{Paths: []string{path}, List: true})

	assert.Equal(t, ExitChanged, code)
	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, path+":2:"), line)
	}
	assert.Contains(t, stdout, path+":2:5: modifier_order: move [14, 19) to ")

	// List never writes.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, messy, string(data))
}

func TestRunDirectory(t *testing.T) {
	dir := t.TempDir()
	a := writeJava(t, dir, "src/A.java", messy)
	b := writeJava(t, dir, "src/pkg/B.java", messy)
	gen := writeJava(t, dir, "build/generated/C.java", messy)
	writeJava(t, dir, "src/notes.txt", "final static;;\n")

	cfg := filepath.Join(t.TempDir(), "jrefactor.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("files:\n  exclude: [\"build/**\"]\n"), 0o644))

	code, _, stderr := run(t, &Options{Paths: []string{dir}, Check: true, ConfigPath: cfg, Jobs: 2})

	assert.Equal(t, ExitChanged, code)
	assert.Equal(t, a+"\n"+b+"\n", stderr)
	assert.NotContains(t, stderr, gen)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeJava(t, dir, "A.java", clean)
	b := writeJava(t, dir, "x/B.java", clean)
	writeJava(t, dir, "x/gen/C.java", clean)

	files, err := collectFiles([]string{b, dir, "missing.java"}, filesConfig([]string{"x/gen/**"}))
	require.NoError(t, err)
	assert.Equal(t, []string{b, a, "missing.java"}, files)
}

func TestRunMultipleFilesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"D.java", "C.java", "B.java", "A.java"} {
		paths = append(paths, writeJava(t, dir, name, messy))
	}

	code, _, stderr := run(t, &Options{Paths: paths, Check: true, Jobs: 4})

	assert.Equal(t, ExitChanged, code)
	assert.Equal(t, strings.Join(paths, "\n")+"\n", stderr)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	broken := writeJava(t, dir, "Broken.java", "class A {\n")
	bad := writeJava(t, dir, "Bad.java", messy)

	code, _, stderr := run(t, &Options{Paths: []string{"/nonexistent/A.java"}})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "jrefactor: /nonexistent/A.java:")

	// A parse error wins over a pending change.
	code, _, stderr = run(t, &Options{Paths: []string{bad, broken}, Check: true})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, bad+"\n")
	assert.Contains(t, stderr, "jrefactor: "+broken+": pass 1: ")

	code, _, stderr = run(t, &Options{Paths: []string{bad}, Rules: []string{"typo"}})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, `unknown rule "typo"`)

	code, _, stderr = run(t, &Options{Paths: []string{bad}, ConfigPath: "/nonexistent/jrefactor.yml"})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "config file not found")
}

func TestRunRuleSelection(t *testing.T) {
	code, stdout, _ := run(t, &Options{
		Stdin: strings.NewReader(messy),
		Rules: []string{"semicolon_cleanup"},
	})

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "class A {\n    final static int X = 1;\n}\n", stdout)
}

func TestRunMaxPasses(t *testing.T) {
	// A fixed point needs a final pass that queues nothing.
	code, _, stderr := run(t, &Options{Stdin: strings.NewReader(messy), MaxPasses: 1})

	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "no fixed point")
}

func TestRunVerbose(t *testing.T) {
	path := writeJava(t, t.TempDir(), "A.java", messy)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	code, _, _ := run(t, &Options{Paths: []string{path}, Write: true, Logger: logger})

	assert.Equal(t, ExitOK, code)
	assert.Contains(t, logs.String(), "msg=processing path="+path)
	assert.Contains(t, logs.String(), "msg=rewrote path="+path)
	assert.Contains(t, logs.String(), "options.mode=write")
}
