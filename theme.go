package antsi

import (
	"sort"
	"strings"
)

// Styles groups the styles used when reporting parse errors.
type Styles struct {
	// Severity styles the leading "error" label.
	Severity Style
	Message  Style
	Location Style
	Gutter   Style
	Caret    Style
}

// Theme provides named styles for error reports.
type Theme interface {
	Name() string
	Styles() Styles
}

type theme struct {
	name   string
	styles Styles
}

func (t theme) Name() string   { return t.name }
func (t theme) Styles() Styles { return t.styles }

// NewTheme returns a Theme from a Styles definition.
func NewTheme(name string, styles Styles) Theme {
	return theme{name: name, styles: styles}
}

func mustStyle(spec string) Style {
	s, err := ParseStyle(spec)
	if err != nil {
		panic("antsi: built-in style " + spec + ": " + err.Error())
	}
	return s
}

var builtinThemes = map[string]Theme{
	"default": theme{name: "default", styles: Styles{
		Severity: mustStyle("fg:bright-red;deco:bold"),
		Message:  mustStyle("deco:bold"),
		Location: mustStyle("fg:bright-blue"),
		Gutter:   mustStyle("fg:bright-blue"),
		Caret:    mustStyle("fg:bright-red;deco:bold"),
	}},
	"mono": theme{name: "mono", styles: Styles{
		Severity: mustStyle("deco:bold,underline"),
		Message:  mustStyle("deco:bold"),
		Location: mustStyle("deco:dim"),
		Gutter:   mustStyle("deco:dim"),
		Caret:    mustStyle("deco:bold"),
	}},
	"boring": theme{name: "boring"},
}

// AvailableThemes returns the names of built-in themes.
func AvailableThemes() []string {
	names := make([]string, 0, len(builtinThemes))
	for name := range builtinThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme by name.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return builtinThemes["default"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	theme, ok := builtinThemes[normalized]
	return theme, ok
}

// DefaultTheme returns the default built-in theme.
func DefaultTheme() Theme {
	return builtinThemes["default"]
}
