package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"pkt.systems/antsi"
)

const configEnv = "ANTSI_CONFIG"

// fileConfig mirrors the optional TOML configuration file. Flags given on the
// command line take precedence over every field.
type fileConfig struct {
	Theme    string       `toml:"theme"`
	Color    string       `toml:"color"`
	Width    int          `toml:"width"`
	MaxDepth int          `toml:"max_depth"`
	Styles   styleConfig  `toml:"styles"`
	Palette  paletteTable `toml:"palette"`
}

// styleConfig overrides individual diagnostic styles of the selected theme.
// Values use the style block syntax, e.g. "fg:bright-red;deco:bold".
type styleConfig struct {
	Severity string `toml:"severity"`
	Message  string `toml:"message"`
	Location string `toml:"location"`
	Gutter   string `toml:"gutter"`
	Caret    string `toml:"caret"`
}

// paletteTable defines extra named themes.
type paletteTable map[string]styleConfig

// defaultConfigPath returns the first configuration file that exists, or ""
// if there is none.
func defaultConfigPath() string {
	if path := os.Getenv(configEnv); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "antsi", "config.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// loadConfig decodes the configuration at path. An empty path yields the zero
// configuration. Unknown keys are rejected so typos do not go unnoticed.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	path = normalizePath(os.ExpandEnv(path))
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if len(cfg.Palette) > 0 {
		palette := make(paletteTable, len(cfg.Palette))
		for name, styles := range cfg.Palette {
			palette[strings.ToLower(strings.TrimSpace(name))] = styles
		}
		cfg.Palette = palette
	}
	return cfg, nil
}

// resolveTheme looks name up among the configured palettes first, then the
// built-in themes, and applies the style overrides on top.
func resolveTheme(name string, cfg fileConfig) (antsi.Theme, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	var base antsi.Theme
	if custom, ok := cfg.Palette[key]; ok {
		styles, err := custom.apply(antsi.Styles{})
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", key, err)
		}
		base = antsi.NewTheme(key, styles)
	} else {
		theme, ok := antsi.ThemeByName(key)
		if !ok {
			return nil, fmt.Errorf("unknown theme %q", name)
		}
		base = theme
	}
	styles, err := cfg.Styles.apply(base.Styles())
	if err != nil {
		return nil, fmt.Errorf("styles: %w", err)
	}
	return antsi.NewTheme(base.Name(), styles), nil
}

func (c styleConfig) apply(styles antsi.Styles) (antsi.Styles, error) {
	fields := []struct {
		name string
		spec string
		dst  *antsi.Style
	}{
		{"severity", c.Severity, &styles.Severity},
		{"message", c.Message, &styles.Message},
		{"location", c.Location, &styles.Location},
		{"gutter", c.Gutter, &styles.Gutter},
		{"caret", c.Caret, &styles.Caret},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.spec) == "" {
			continue
		}
		style, err := antsi.ParseStyle(f.spec)
		if err != nil {
			return styles, fmt.Errorf("%s %q: %w", f.name, f.spec, err)
		}
		*f.dst = style
	}
	return styles, nil
}

func themeNames(cfg fileConfig) []string {
	names := antsi.AvailableThemes()
	for name := range cfg.Palette {
		if _, builtin := antsi.ThemeByName(name); !builtin {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
