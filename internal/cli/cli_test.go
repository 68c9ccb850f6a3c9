package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/dottex/pkg/errors"
)

// isolate points config and cache lookups at fresh temp directories.
func isolate(t *testing.T) (configHome, cacheHome string) {
	t.Helper()
	configHome, cacheHome = t.TempDir(), t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	return configHome, cacheHome
}

// runCLI executes the root command with args and stdin, returning stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// fakeDot writes a shell script standing in for the Graphviz binary.
func fakeDot(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "dot")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestQuoteCommand(t *testing.T) {
	isolate(t)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"latex arg", "", []string{"quote", "latex", "coucou"}, `\text{coucou}`},
		{"latex tex", "", []string{"quote", "latex", "--tex", `\frac{1}{2}`}, `\frac{1}{2}`},
		{"str stdin", "a{b}\"c\"\n", []string{"quote", "str"}, "abc"},
		{"key joined args", "", []string{"quote", "key", "x.y", "(z)"}, "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("quote error: %v", err)
			}
			if got := strings.TrimSuffix(out, "\n"); got != tt.want {
				t.Errorf("quote output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuoteCommandUnknownKind(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "", "quote", "yaml", "x")
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("quote yaml error = %v, want %s", err, errs.ErrCodeInvalidInput)
	}
}

func TestDotCommand(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "a -> b : x_1\n", "dot", "--tex")
	if err != nil {
		t.Fatalf("dot error: %v", err)
	}
	for _, want := range []string{"digraph", `"a" -> "b"`, "texlbl="} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "a -> b\n", "dot", "--undirected")
	if err != nil {
		t.Fatalf("dot --undirected error: %v", err)
	}
	if !strings.Contains(out, `"a" -- "b"`) {
		t.Errorf("undirected output missing edge:\n%s", out)
	}
}

func TestDotCommandWritesFile(t *testing.T) {
	isolate(t)

	in := filepath.Join(t.TempDir(), "edges.txt")
	if err := os.WriteFile(in, []byte("a -> b\n"), 0644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(t.TempDir(), "g.dot")

	if _, err := runCLI(t, "", "dot", in, "-o", outPath); err != nil {
		t.Fatalf("dot error: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("output file = %q, want a digraph", data)
	}
}

func TestCheckCommandMissingBinary(t *testing.T) {
	isolate(t)
	t.Setenv("DOTTEX_LAYOUT_BINARY", filepath.Join(t.TempDir(), "no-such-dot"))

	out, err := runCLI(t, "", "check", "--backend", "exec")
	if !errs.Is(err, errs.ErrCodeToolMissing) {
		t.Fatalf("check error = %v, want %s", err, errs.ErrCodeToolMissing)
	}
	if !strings.Contains(out, "not installed") {
		t.Errorf("check output = %q, want it to mention the missing tool", out)
	}
}

func TestCheckCommandBrokenBinary(t *testing.T) {
	isolate(t)
	t.Setenv("DOTTEX_LAYOUT_BINARY", fakeDot(t, "echo broken >&2; exit 1"))

	_, err := runCLI(t, "", "check", "--backend", "exec", "--quiet")
	if !errs.Is(err, errs.ErrCodeToolMisconfigured) {
		t.Errorf("check error = %v, want %s", err, errs.ErrCodeToolMisconfigured)
	}
}

func TestCheckCommandWorkingBinary(t *testing.T) {
	isolate(t)
	t.Setenv("DOTTEX_LAYOUT_BINARY", fakeDot(t, `cat >/dev/null
echo "graph 1 0 0"
echo "stop"`))

	out, err := runCLI(t, "", "check", "--backend", "exec")
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	if !strings.Contains(out, "available") {
		t.Errorf("check output = %q, want it to report availability", out)
	}
}

func TestPositionsCommand(t *testing.T) {
	_, cacheHome := isolate(t)
	t.Setenv("DOTTEX_LAYOUT_BACKEND", "exec")
	t.Setenv("DOTTEX_LAYOUT_BINARY", fakeDot(t, `cat >/dev/null
echo "graph 1 2 1"
echo "node a 1 0.5 0.75 0.5 a solid ellipse black lightgrey"
echo "stop"`))

	out, err := runCLI(t, "graph { a }", "positions")
	if err != nil {
		t.Fatalf("positions error: %v", err)
	}

	var pos map[string][]float64
	if err := json.Unmarshal([]byte(out), &pos); err != nil {
		t.Fatalf("positions output is not JSON: %v\n%s", err, out)
	}
	if got := pos["a"]; len(got) != 2 || got[0] != 72 || got[1] != 36 {
		t.Errorf("positions[a] = %v, want [72 36]", got)
	}

	entries, err := os.ReadDir(filepath.Join(cacheHome, appName))
	if err != nil || len(entries) == 0 {
		t.Errorf("expected a cached layout under %s (err=%v)", cacheHome, err)
	}
}

func TestPositionsCommandRejectsEmptyInput(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "   ", "positions")
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("positions error = %v, want %s", err, errs.ErrCodeInvalidInput)
	}
}

func TestPositionsCommandRejectsUnknownEngine(t *testing.T) {
	isolate(t)

	_, err := runCLI(t, "graph {}", "positions", "--engine", "bogus")
	if !errs.Is(err, errs.ErrCodeInvalidEngine) {
		t.Errorf("positions error = %v, want %s", err, errs.ErrCodeInvalidEngine)
	}
}

func TestCachePathAndClear(t *testing.T) {
	_, cacheHome := isolate(t)
	dir := filepath.Join(cacheHome, appName)

	out, err := runCLI(t, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if got := strings.TrimSpace(out); got != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}

	shard := filepath.Join(dir, "ab")
	if err := os.MkdirAll(shard, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(shard, "abcdef.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err = runCLI(t, "", "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(out, "Cleared 1") {
		t.Errorf("cache clear output = %q", out)
	}
}

func TestConfigCommand(t *testing.T) {
	configHome, _ := isolate(t)

	out, err := runCLI(t, "", "config", "--path")
	if err != nil {
		t.Fatalf("config --path error: %v", err)
	}
	want := filepath.Join(configHome, appName, "config.toml")
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("config --path = %q, want %q", got, want)
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[layout]\nengine = \"neato\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err = runCLI(t, "", "--config", path, "config")
	if err != nil {
		t.Fatalf("config error: %v", err)
	}
	if !strings.Contains(out, `engine = "neato"`) {
		t.Errorf("config output missing engine:\n%s", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, "", "completion", "bash")
	if err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion should mention the binary name")
	}
}
