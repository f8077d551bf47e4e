package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/antsi"
	"pkt.systems/version"
)

const (
	defaultThemeName = "default"
	defaultWidth     = 80
)

func init() {
	version.SetDefaultModule("pkt.systems/antsi")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		themeName  string
		colorMode  string
		widthFlag  int
		maxDepth   int
		listThemes bool
		outPath    string
		check      bool
		expr       string
		configPath string
	)

	flags := pflag.NewFlagSet("antsi", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&themeName, "theme", "t", defaultThemeName, "Diagnostics theme name")
	flags.StringVarP(&colorMode, "color", "c", "auto", "Color output: auto|always|never")
	flags.IntVarP(&widthFlag, "width", "w", 0, "Wrap output at this width (0 disables, -1 uses terminal width)")
	flags.IntVar(&maxDepth, "max-depth", antsi.DefaultMaxDepth, "Maximum nesting depth of styled spans")
	flags.BoolVar(&listThemes, "list-themes", false, "List available themes")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVar(&check, "check", false, "Validate markup without writing output")
	flags.StringVarP(&expr, "expr", "e", "", "Render markup given as argument instead of reading inputs")
	flags.StringVar(&configPath, "config", "", "TOML configuration file (default $"+configEnv+" or the user config dir)")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: antsi [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nInputs are files, file:// or http(s):// URLs. If no input is provided, markup is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	if !flags.Changed("config") {
		configPath = defaultConfigPath()
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 2
	}
	if !flags.Changed("theme") && cfg.Theme != "" {
		themeName = cfg.Theme
	}
	if !flags.Changed("color") && cfg.Color != "" {
		colorMode = cfg.Color
	}
	if !flags.Changed("width") && cfg.Width != 0 {
		widthFlag = cfg.Width
	}
	if !flags.Changed("max-depth") && cfg.MaxDepth > 0 {
		maxDepth = cfg.MaxDepth
	}

	if listThemes {
		for _, name := range themeNames(cfg) {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}

	theme, err := resolveTheme(themeName, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n", err)
		for _, name := range themeNames(cfg) {
			fmt.Fprintln(stderr, name)
		}
		return 2
	}

	inputs := flags.Args()
	if flags.Changed("expr") && len(inputs) > 0 {
		fmt.Fprintln(stderr, "--expr cannot be combined with inputs")
		return 2
	}

	name := "<stdin>"
	var reader io.Reader = stdin
	switch {
	case flags.Changed("expr"):
		name = "<expr>"
		reader = strings.NewReader(expr)
	case len(inputs) > 0:
		name = strings.Join(inputs, ",")
		r, closer, err := openInputs(inputs)
		if err != nil {
			fmt.Fprintf(stderr, "open input: %v\n", err)
			return 1
		}
		if closer != nil {
			defer func() { _ = closer.Close() }()
		}
		reader = r
	}

	src, err := readSource(reader, antsi.DefaultMaxInputSize)
	if err != nil {
		fmt.Fprintf(stderr, "read input: %v\n", err)
		return 1
	}

	opts := []antsi.RenderOption{antsi.WithMaxDepth(maxDepth)}
	if check {
		err := antsi.Render(antsi.RenderRequest{
			Reader:  bytes.NewReader(src),
			Writer:  io.Discard,
			Options: append(opts, antsi.WithColor(false)),
		})
		if err != nil {
			return report(stderr, name, src, err, theme, colorMode)
		}
		return 0
	}

	writer, closeOut, err := resolveOutput(stdout, outPath)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	color, err := resolveColor(colorMode, writer)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --color %q: %v\n", colorMode, err)
		return 2
	}

	// Render into memory first so malformed markup leaves the output untouched.
	var out bytes.Buffer
	if err := antsi.Render(antsi.RenderRequest{
		Reader:  bytes.NewReader(src),
		Writer:  &out,
		Width:   resolveWidth(widthFlag),
		Options: append(opts, antsi.WithColor(color)),
	}); err != nil {
		return report(stderr, name, src, err, theme, colorMode)
	}
	if _, err := out.WriteTo(writer); err != nil {
		fmt.Fprintf(stderr, "write output: %v\n", err)
		return 1
	}
	return 0
}

// report prints diagnostics for err and returns the exit status.
func report(stderr io.Writer, name string, src []byte, err error, theme antsi.Theme, colorMode string) int {
	color, cerr := resolveColor(colorMode, stderr)
	if cerr != nil {
		color = false
	}
	if rerr := antsi.Report(stderr, antsi.ReportRequest{
		Name:   name,
		Source: string(src),
		Err:    err,
		Theme:  theme,
		Color:  color,
	}); rerr != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
	}
	return 1
}

func readSource(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("input exceeds %d bytes", limit)
	}
	return data, nil
}

func resolveColor(mode string, w io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return isTerminal(w) && antsi.DetectColorSupport(), nil
	case "always", "on", "true", "1", "yes":
		return true, nil
	case "never", "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|always|never")
	}
}

func resolveWidth(width int) int {
	if width >= 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string) (io.Reader, io.Closer, error) {
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	m := &multiInputReader{sources: sources}
	return m, m, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(stdout io.Writer, path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
