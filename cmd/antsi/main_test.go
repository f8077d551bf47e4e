package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/antsi"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv(configEnv, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestOpenInputFileAndURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.antsi")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	reader, closer, err := openInputs([]string{path})
	if err != nil {
		t.Fatalf("openInputs file: %v", err)
	}
	defer func() { _ = closer.Close() }()
	buf, _ := io.ReadAll(reader)
	if string(buf) != "hello" {
		t.Fatalf("unexpected file content: %q", string(buf))
	}

	reader, closer, err = openInputs([]string{"file://" + path})
	if err != nil {
		t.Fatalf("openInputs file URL: %v", err)
	}
	defer func() { _ = closer.Close() }()
	buf, _ = io.ReadAll(reader)
	if string(buf) != "hello" {
		t.Fatalf("unexpected file URL content: %q", string(buf))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[fg:red](stream)"))
	}))
	defer srv.Close()
	reader, closer, err = openInputs([]string{srv.URL})
	if err != nil {
		t.Fatalf("openInputs http: %v", err)
	}
	defer func() { _ = closer.Close() }()
	buf, _ = io.ReadAll(reader)
	if string(buf) != "[fg:red](stream)" {
		t.Fatalf("unexpected http content: %q", string(buf))
	}
}

func TestOpenInputsConcatenates(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.antsi")
	second := filepath.Join(dir, "b.antsi")
	if err := os.WriteFile(first, []byte("[fg:red](one) "), 0o644); err != nil {
		t.Fatalf("write first: %v", err)
	}
	if err := os.WriteFile(second, []byte("two"), 0o644); err != nil {
		t.Fatalf("write second: %v", err)
	}
	reader, closer, err := openInputs([]string{first, second})
	if err != nil {
		t.Fatalf("openInputs concat: %v", err)
	}
	defer func() { _ = closer.Close() }()
	buf, _ := io.ReadAll(reader)
	if string(buf) != "[fg:red](one) two" {
		t.Fatalf("unexpected concatenated content: %q", string(buf))
	}
	if _, _, err := openInputs([]string{" "}); err == nil {
		t.Fatalf("expected error for empty argument")
	}
}

func TestResolveColor(t *testing.T) {
	cases := map[string]bool{
		"always": true,
		"never":  false,
		"on":     true,
		"0":      false,
		"auto":   false,
	}
	for input, want := range cases {
		got, err := resolveColor(input, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("resolveColor(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("resolveColor(%q)=%v want %v", input, got, want)
		}
	}
	if _, err := resolveColor("sometimes", &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for invalid color mode")
	}
}

func TestRunExpr(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "--color", "always", "-e", "[fg:green](ok) done")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if stdout != "\x1b[32mok\x1b[39m done" {
		t.Fatalf("unexpected output %q", stdout)
	}
	code, stdout, _ = runCLI(t, "", "--color", "never", "-e", "[fg:green](ok) done")
	if code != 0 || stdout != "ok done" {
		t.Fatalf("never: exit %d, output %q", code, stdout)
	}
}

func TestRunStdinWithWidth(t *testing.T) {
	code, stdout, stderr := runCLI(t, "alpha beta gamma delta", "-c", "never", "-w", "11")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if stdout != "alpha beta\ngamma delta" {
		t.Fatalf("unexpected output %q", stdout)
	}
}

func TestRunReportsParseErrors(t *testing.T) {
	code, stdout, stderr := runCLI(t, "before ( after", "-c", "never")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if stdout != "" {
		t.Fatalf("expected no output, got %q", stdout)
	}
	want := "error: unescaped control character `(`\n" +
		" --> <stdin>:1:8\n" +
		"  |\n" +
		"1 | before ( after\n" +
		"  |        ^\n"
	if stderr != want {
		t.Fatalf("unexpected diagnostics:\n%s", stderr)
	}
}

func TestRunCheck(t *testing.T) {
	code, stdout, _ := runCLI(t, "[fg:red](fine)", "--check")
	if code != 0 || stdout != "" {
		t.Fatalf("check of valid markup: exit %d, output %q", code, stdout)
	}
	code, _, stderr := runCLI(t, "", "--check", "-e", "[fg:red](x", "--max-depth", "4")
	if code != 1 || !strings.Contains(stderr, "expected `)`, found end of input") {
		t.Fatalf("check of invalid markup: exit %d, stderr %q", code, stderr)
	}
}

func TestRunUsageErrors(t *testing.T) {
	if code, _, _ := runCLI(t, "", "--theme", "nope", "-e", "x"); code != 2 {
		t.Fatalf("unknown theme: exit %d", code)
	}
	if code, _, _ := runCLI(t, "", "--color", "sometimes", "-e", "x"); code != 2 {
		t.Fatalf("bad color: exit %d", code)
	}
	if code, _, _ := runCLI(t, "", "-e", "x", "file.antsi"); code != 2 {
		t.Fatalf("expr with inputs: exit %d", code)
	}
	if code, _, _ := runCLI(t, "", "--no-such-flag"); code != 2 {
		t.Fatalf("unknown flag: exit %d", code)
	}
}

func TestRunListThemes(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "--list-themes")
	if code != 0 || stdout != "boring\ndefault\nmono\n" {
		t.Fatalf("exit %d, output %q", code, stdout)
	}
}

func TestRunOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "out.txt")
	code, stdout, stderr := runCLI(t, "", "-c", "always", "-o", out, "-e", "[deco:bold](b)")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if stdout != "" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "\x1b[1mb\x1b[22m" {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `theme = "Warm"
color = "always"
width = 40
max_depth = 16

[styles]
caret = "fg:green;deco:bold"

[palette.warm]
severity = "fg:yellow"
gutter = "deco:dim"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Theme != "Warm" || cfg.Color != "always" || cfg.Width != 40 || cfg.MaxDepth != 16 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	theme, err := resolveTheme(cfg.Theme, cfg)
	if err != nil {
		t.Fatalf("resolveTheme: %v", err)
	}
	styles := theme.Styles()
	if theme.Name() != "warm" || styles.Severity != mustParseStyle(t, "fg:yellow") {
		t.Fatalf("palette theme not applied: %+v", styles)
	}
	if styles.Caret != mustParseStyle(t, "fg:green;deco:bold") {
		t.Fatalf("caret override not applied: %+v", styles.Caret)
	}
	if names := themeNames(cfg); strings.Join(names, ",") != "boring,default,mono,warm" {
		t.Fatalf("unexpected theme names %v", names)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := loadConfig(filepath.Join(dir, "missing.toml")); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
	unknown := filepath.Join(dir, "unknown.toml")
	if err := os.WriteFile(unknown, []byte("colour = \"always\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadConfig(unknown); err == nil || !strings.Contains(err.Error(), "unknown keys: colour") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
	badStyle := fileConfig{Styles: styleConfig{Caret: "fg:purple"}}
	if _, err := resolveTheme("default", badStyle); err == nil {
		t.Fatalf("expected style error")
	}
	if cfg, err := loadConfig(""); err != nil || cfg.Theme != "" {
		t.Fatalf("empty path should yield the zero config")
	}
}

func TestRunUsesConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("color = \"never\"\nwidth = 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", path, "-e", "[fg:red](aaa bbb)"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if stdout.String() != "aaa\nbbb" {
		t.Fatalf("unexpected output %q", stdout.String())
	}
	stdout.Reset()
	code = run([]string{"--config", path, "-c", "always", "-w", "0", "-e", "[fg:red](aaa bbb)"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 || stdout.String() != "\x1b[31maaa bbb\x1b[39m" {
		t.Fatalf("flags should override config: exit %d, output %q", code, stdout.String())
	}
}

func mustParseStyle(t *testing.T, spec string) antsi.Style {
	t.Helper()
	s, err := antsi.ParseStyle(spec)
	if err != nil {
		t.Fatalf("ParseStyle(%q): %v", spec, err)
	}
	return s
}
