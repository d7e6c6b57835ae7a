package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"sigtype/internal/diagfmt"
	"sigtype/internal/observ"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes a fresh command tree with an isolated config file.
func runCLI(t *testing.T, config string, args ...string) cliResult {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "sigtype.toml")
	if err := os.WriteFile(cfgPath, []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfgPath, "--color", "off"}, args...))
	err := root.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCommandFormats(t *testing.T) {
	res := runCLI(t, "", "parse", "--format", "sig", "def f(Integer a, key: 1) => String")
	if res.err != nil {
		t.Fatalf("parse failed: %v\n%s", res.err, res.stderr)
	}
	if got, want := res.stdout, "# @sig (Integer a, key: ?untyped) -> String\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	res = runCLI(t, "", "parse", "def", "self.build(a)", "=>", "X")
	if res.err != nil {
		t.Fatalf("parse failed: %v", res.err)
	}
	if !strings.HasPrefix(res.stdout, "self.build => X\n") {
		t.Fatalf("unexpected pretty output %q", res.stdout)
	}

	res = runCLI(t, "", "parse", "--format", "json", "def f(a)")
	if res.err != nil {
		t.Fatalf("parse failed: %v", res.err)
	}
	var out diagfmt.FileOutput
	if err := json.Unmarshal([]byte(res.stdout), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, res.stdout)
	}
	if len(out.Signatures) != 1 || out.Signatures[0].Name != "f" || out.Signatures[0].ReturnType.Type != "void" {
		t.Fatalf("unexpected payload %+v", out)
	}
}

func TestParseCommandRejectsNonSignature(t *testing.T) {
	res := runCLI(t, "", "parse", "not a signature")
	if res.err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(res.stderr, "SYN2001") {
		t.Fatalf("expected SYN2001 in stderr, got %q", res.stderr)
	}
}

func TestParseCommandUsesGrammarFromConfig(t *testing.T) {
	cfg := "[grammar]\ndef_keyword = \"fn\"\nreturn_marker = \"->\"\n"
	res := runCLI(t, cfg, "parse", "--format", "sig", "fn go(Int y) -> Bool")
	if res.err != nil {
		t.Fatalf("parse failed: %v\n%s", res.err, res.stderr)
	}
	if got, want := res.stdout, "# @sig (Int y) -> Bool\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTokenizeCommand(t *testing.T) {
	res := runCLI(t, "", "tokenize", "--format", "json", "f(a)")
	if res.err != nil {
		t.Fatalf("tokenize failed: %v", res.err)
	}
	var tree diagfmt.TokenOutput
	if err := json.Unmarshal([]byte(res.stdout), &tree); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, res.stdout)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected text and group children, got %+v", tree.Children)
	}

	res = runCLI(t, "", "tokenize", `x = "open`)
	if res.err == nil || !strings.Contains(res.stderr, "LEX1001") {
		t.Fatalf("expected unterminated quote failure, err=%v stderr=%q", res.err, res.stderr)
	}

	res = runCLI(t, "", "tokenize")
	if res.err == nil {
		t.Fatalf("expected an error without input")
	}
}

func TestScanCommandSigFormat(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.rb", "class A\n  def greet(String name) => String\n  end\nend\n")
	writeSource(t, dir, "notes.txt", "def ignored(x)\n")

	res := runCLI(t, "", "--path-mode", "basename", "scan", "--format", "sig", "--ui", "off", dir)
	if res.err != nil {
		t.Fatalf("scan failed: %v\n%s", res.err, res.stderr)
	}
	if got, want := res.stdout, "a.rb:2: # @sig (String name) -> String\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestScanCommandJSONAndErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.rb", "def ok(a, b) => Integer\n")
	bad := writeSource(t, dir, "bad.rb", "def broken(a = \"open) => X\n")
	missing := filepath.Join(dir, "missing.rb")

	res := runCLI(t, "", "scan", "--format", "json", "--ui", "off", good, bad, missing)
	if res.err == nil {
		t.Fatalf("expected scan to report errors")
	}
	var files []diagfmt.FileOutput
	if err := json.Unmarshal([]byte(res.stdout), &files); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, res.stdout)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	byName := map[string]diagfmt.FileOutput{}
	for _, f := range files {
		byName[filepath.Base(f.Path)] = f
	}
	if sigs := byName["good.rb"].Signatures; len(sigs) != 1 || len(sigs[0].Arguments) != 2 {
		t.Fatalf("unexpected signatures for good.rb: %+v", sigs)
	}
	if d := byName["bad.rb"].Diagnostics; len(d) != 1 || d[0].Code != "LEX1001" {
		t.Fatalf("unexpected diagnostics for bad.rb: %+v", d)
	}
	if d := byName["missing.rb"].Diagnostics; len(d) != 1 || d[0].Code != "IO4001" {
		t.Fatalf("unexpected diagnostics for missing.rb: %+v", d)
	}
}

func TestScanCommandCacheAndTimings(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.rb", "def f(Integer a) => String\n")
	cfg := "[scan]\ncache_dir = " + strconv.Quote(filepath.Join(dir, "cache")) + "\n"

	for i := 0; i < 2; i++ {
		res := runCLI(t, cfg, "--timings", "scan", "--cache", "--format", "json", "--ui", "off", src)
		if res.err != nil {
			t.Fatalf("run %d failed: %v\n%s", i, res.err, res.stderr)
		}
		var files []diagfmt.FileOutput
		if err := json.Unmarshal([]byte(res.stdout), &files); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if files[0].Cached != (i == 1) {
			t.Fatalf("run %d: cached=%v", i, files[0].Cached)
		}
		var rep observ.Report
		if err := json.Unmarshal([]byte(res.stderr), &rep); err != nil {
			t.Fatalf("expected JSON timings in stderr, got %q: %v", res.stderr, err)
		}
		var phases []string
		for _, p := range rep.Phases {
			phases = append(phases, p.Name)
		}
		if !slices.Contains(phases, "scan") || !slices.Contains(phases, "render") {
			t.Fatalf("unexpected phases %v", phases)
		}
	}

	res := runCLI(t, "", "--timings", "parse", "def f(a)")
	if res.err != nil {
		t.Fatalf("parse failed: %v", res.err)
	}
	if !strings.Contains(res.stderr, "timings:") || !strings.Contains(res.stderr, "parse") {
		t.Fatalf("expected text timings in stderr, got %q", res.stderr)
	}
}

func TestScanCommandTrace(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.rb", "def f(a)\n")
	for _, mode := range []string{"stream", "ring"} {
		t.Run(mode, func(t *testing.T) {
			res := runCLI(t, "", "--trace", "-", "--trace-level", "phase", "--trace-mode", mode,
				"scan", "--quiet", "--ui", "off", src)
			if res.err != nil {
				t.Fatalf("scan failed: %v", res.err)
			}
			if !strings.Contains(res.stderr, "→ scan") {
				t.Fatalf("expected the scan span in the trace, got %q", res.stderr)
			}
		})
	}
}

func TestInvalidFlagValues(t *testing.T) {
	tests := [][]string{
		{"--color", "sometimes", "parse", "def f"},
		{"--path-mode", "weird", "parse", "def f"},
		{"--trace-level", "loud", "parse", "def f"},
		{"scan", "--ui", "maybe"},
		{"scan", "--format", "xml"},
		{"version", "--format", "yaml"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if res := runCLI(t, "", args...); res.err == nil {
				t.Fatalf("expected an error for %v", args)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	res := runCLI(t, "", "version", "--format", "json", "--full")
	if res.err != nil {
		t.Fatal(res.err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(res.stdout), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "sigtype" || payload.Version == "" || payload.GitCommit == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}

	res = runCLI(t, "", "version")
	if res.err != nil || !strings.HasPrefix(res.stdout, "sigtype ") {
		t.Fatalf("unexpected output %q (%v)", res.stdout, res.err)
	}
}

func TestParseSwitch(t *testing.T) {
	for in, want := range map[string]switchMode{"": switchAuto, "AUTO": switchAuto, " on ": switchOn, "always": switchOn, "never": switchOff} {
		got, err := parseSwitch("ui", in)
		if err != nil || got != want {
			t.Fatalf("parseSwitch(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := parseSwitch("ui", "maybe"); err == nil || !strings.Contains(err.Error(), "--ui") {
		t.Fatalf("expected an error naming the flag, got %v", err)
	}
	if switchAuto.enabled(&bytes.Buffer{}) {
		t.Fatalf("a buffer is not a terminal")
	}
	if !switchOn.enabled(&bytes.Buffer{}) {
		t.Fatalf("on forces the feature")
	}
}
