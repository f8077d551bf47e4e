package antsi

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownColor reports a color name outside the 16 ANSI colors and default.
	ErrUnknownColor = errors.New("unknown color")
	// ErrUnknownDecoration reports an unrecognized decoration name.
	ErrUnknownDecoration = errors.New("unknown decoration")
)

// Color is one of the 16 standard ANSI colors or the terminal default.
type Color uint8

const (
	// DefaultColor is the terminal's own color and the zero value.
	DefaultColor Color = iota
	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
	numColors
)

var colorNames = [numColors]string{
	DefaultColor:  "default",
	Black:         "black",
	Red:           "red",
	Green:         "green",
	Yellow:        "yellow",
	Blue:          "blue",
	Magenta:       "magenta",
	Cyan:          "cyan",
	White:         "white",
	BrightBlack:   "bright-black",
	BrightRed:     "bright-red",
	BrightGreen:   "bright-green",
	BrightYellow:  "bright-yellow",
	BrightBlue:    "bright-blue",
	BrightMagenta: "bright-magenta",
	BrightCyan:    "bright-cyan",
	BrightWhite:   "bright-white",
}

var colorCodes = [numColors][2]int{
	DefaultColor:  {39, 49},
	Black:         {30, 40},
	Red:           {31, 41},
	Green:         {32, 42},
	Yellow:        {33, 43},
	Blue:          {34, 44},
	Magenta:       {35, 45},
	Cyan:          {36, 46},
	White:         {37, 47},
	BrightBlack:   {90, 100},
	BrightRed:     {91, 101},
	BrightGreen:   {92, 102},
	BrightYellow:  {93, 103},
	BrightBlue:    {94, 104},
	BrightMagenta: {95, 105},
	BrightCyan:    {96, 106},
	BrightWhite:   {97, 107},
}

// ParseColor resolves a color name, ignoring ASCII case.
func ParseColor(name string) (Color, error) {
	if c, ok := lookupColor(name); ok {
		return c, nil
	}
	return DefaultColor, fmt.Errorf("%w %q", ErrUnknownColor, name)
}

func lookupColor(name string) (Color, bool) {
	for c, n := range colorNames {
		if equalFoldASCII(name, n) {
			return Color(c), true
		}
	}
	return DefaultColor, false
}

// String returns the canonical markup name of the color.
func (c Color) String() string {
	if c >= numColors {
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
	return colorNames[c]
}

// ForegroundCode returns the SGR parameter selecting c as foreground.
func (c Color) ForegroundCode() int {
	return colorCodes[c][0]
}

// BackgroundCode returns the SGR parameter selecting c as background.
func (c Color) BackgroundCode() int {
	return colorCodes[c][1]
}

// Decoration is an SGR text attribute such as bold or underline.
type Decoration uint8

const (
	Bold Decoration = iota
	Dim
	Italic
	Underline
	SlowBlink
	FastBlink
	Invert
	Hide
	StrikeThrough
	numDecorations
)

var decorationNames = [numDecorations]string{
	Bold:          "bold",
	Dim:           "dim",
	Italic:        "italic",
	Underline:     "underline",
	SlowBlink:     "slow-blink",
	FastBlink:     "fast-blink",
	Invert:        "invert",
	Hide:          "hide",
	StrikeThrough: "strike-through",
}

var decorationAliases = []struct {
	name string
	deco Decoration
}{
	{"faint", Dim},
	{"reverse", Invert},
	{"conceal", Hide},
	{"strikethrough", StrikeThrough},
}

// apply, remove
var decorationCodes = [numDecorations][2]int{
	Bold:          {1, 22},
	Dim:           {2, 22},
	Italic:        {3, 23},
	Underline:     {4, 24},
	SlowBlink:     {5, 25},
	FastBlink:     {6, 25},
	Invert:        {7, 27},
	Hide:          {8, 28},
	StrikeThrough: {9, 29},
}

// ParseDecoration resolves a decoration name or alias, ignoring ASCII case.
func ParseDecoration(name string) (Decoration, error) {
	if d, ok := lookupDecoration(name); ok {
		return d, nil
	}
	return Bold, fmt.Errorf("%w %q", ErrUnknownDecoration, name)
}

func lookupDecoration(name string) (Decoration, bool) {
	for d, n := range decorationNames {
		if equalFoldASCII(name, n) {
			return Decoration(d), true
		}
	}
	for _, alias := range decorationAliases {
		if equalFoldASCII(name, alias.name) {
			return alias.deco, true
		}
	}
	return Bold, false
}

// String returns the canonical markup name of the decoration.
func (d Decoration) String() string {
	if d >= numDecorations {
		return fmt.Sprintf("Decoration(%d)", uint8(d))
	}
	return decorationNames[d]
}

// ApplyCode returns the SGR parameter that turns the decoration on.
func (d Decoration) ApplyCode() int {
	return decorationCodes[d][0]
}

// RemoveCode returns the SGR parameter that turns the decoration off. Bold and
// dim share one, as do the two blink rates.
func (d Decoration) RemoveCode() int {
	return decorationCodes[d][1]
}

// DecorationSet is an insertion-ordered set of decorations. The zero value is
// empty and ready to use; sets are values and compare with ==.
type DecorationSet struct {
	items [numDecorations]Decoration
	n     uint8
}

// NewDecorationSet returns a set holding decorations in first-seen order.
func NewDecorationSet(decorations ...Decoration) DecorationSet {
	var s DecorationSet
	for _, d := range decorations {
		s = s.With(d)
	}
	return s
}

// Len reports the number of decorations in the set.
func (s DecorationSet) Len() int { return int(s.n) }

// Contains reports whether d is in the set.
func (s DecorationSet) Contains(d Decoration) bool {
	for _, item := range s.items[:s.n] {
		if item == d {
			return true
		}
	}
	return false
}

// With returns the set with d appended, unless already present.
func (s DecorationSet) With(d Decoration) DecorationSet {
	if d >= numDecorations || s.Contains(d) {
		return s
	}
	s.items[s.n] = d
	s.n++
	return s
}

// Union returns s followed by the members of other not already in s.
func (s DecorationSet) Union(other DecorationSet) DecorationSet {
	for _, d := range other.items[:other.n] {
		s = s.With(d)
	}
	return s
}

// Difference returns the members of s that are not in other, in order.
func (s DecorationSet) Difference(other DecorationSet) DecorationSet {
	var out DecorationSet
	for _, d := range s.items[:s.n] {
		if !other.Contains(d) {
			out = out.With(d)
		}
	}
	return out
}

// Slice returns the members in insertion order.
func (s DecorationSet) Slice() []Decoration {
	if s.n == 0 {
		return nil
	}
	out := make([]Decoration, s.n)
	copy(out, s.items[:s.n])
	return out
}

func (s DecorationSet) String() string {
	names := make([]string, 0, s.n)
	for _, d := range s.items[:s.n] {
		names = append(names, d.String())
	}
	return strings.Join(names, ",")
}

type styleField uint8

const (
	fieldForeground styleField = 1 << iota
	fieldBackground
	fieldDecorations
)

// Style is a partial override applied to a styled span. Fields that were not
// set inherit from the enclosing span. The zero value overrides nothing.
type Style struct {
	fg   Color
	bg   Color
	deco DecorationSet
	set  styleField
}

// WithForeground returns a copy of s overriding the foreground color.
func (s Style) WithForeground(c Color) Style {
	s.fg = c
	s.set |= fieldForeground
	return s
}

// WithBackground returns a copy of s overriding the background color.
func (s Style) WithBackground(c Color) Style {
	s.bg = c
	s.set |= fieldBackground
	return s
}

// WithDecorations returns a copy of s whose decorations are replaced by the
// given ones.
func (s Style) WithDecorations(decorations ...Decoration) Style {
	return s.WithDecorationSet(NewDecorationSet(decorations...))
}

// WithDecorationSet returns a copy of s whose decorations are replaced by set.
func (s Style) WithDecorationSet(set DecorationSet) Style {
	s.deco = set
	s.set |= fieldDecorations
	return s
}

// Foreground returns the foreground override and whether it is set.
func (s Style) Foreground() (Color, bool) {
	return s.fg, s.set&fieldForeground != 0
}

// Background returns the background override and whether it is set.
func (s Style) Background() (Color, bool) {
	return s.bg, s.set&fieldBackground != 0
}

// Decorations returns the decoration override and whether it is set.
func (s Style) Decorations() (DecorationSet, bool) {
	return s.deco, s.set&fieldDecorations != 0
}

// IsZero reports whether s overrides nothing.
func (s Style) IsZero() bool {
	return s.set == 0
}

// String formats s as the body of a style block, e.g. "fg:red;deco:bold".
func (s Style) String() string {
	var parts []string
	if c, ok := s.Foreground(); ok {
		parts = append(parts, "fg:"+c.String())
	}
	if c, ok := s.Background(); ok {
		parts = append(parts, "bg:"+c.String())
	}
	if d, ok := s.Decorations(); ok && d.Len() > 0 {
		parts = append(parts, "deco:"+d.String())
	}
	return strings.Join(parts, ";")
}

// CurrentStyle is the fully resolved style in effect at a point of the
// output. The zero value is the terminal default.
type CurrentStyle struct {
	Foreground  Color
	Background  Color
	Decorations DecorationSet
}

// Extend resolves the style of a child span. Colors are replaced when s sets
// them; decorations only ever accumulate.
func (c CurrentStyle) Extend(s Style) CurrentStyle {
	if fg, ok := s.Foreground(); ok {
		c.Foreground = fg
	}
	if bg, ok := s.Background(); ok {
		c.Background = bg
	}
	if deco, ok := s.Decorations(); ok {
		c.Decorations = c.Decorations.Union(deco)
	}
	return c
}

// styleDiff holds the properties a span actually changes relative to its
// parent.
type styleDiff struct {
	fg   bool
	bg   bool
	deco DecorationSet
}

func (c CurrentStyle) diff(s Style) styleDiff {
	var d styleDiff
	if fg, ok := s.Foreground(); ok && fg != c.Foreground {
		d.fg = true
	}
	if bg, ok := s.Background(); ok && bg != c.Background {
		d.bg = true
	}
	if deco, ok := s.Decorations(); ok {
		d.deco = deco.Difference(c.Decorations)
	}
	return d
}

func (d styleDiff) empty() bool {
	return !d.fg && !d.bg && d.deco.Len() == 0
}

// applyCodes appends the codes entering child from parent.
func (d styleDiff) applyCodes(dst []int, child CurrentStyle) []int {
	if d.fg {
		dst = append(dst, child.Foreground.ForegroundCode())
	}
	if d.bg {
		dst = append(dst, child.Background.BackgroundCode())
	}
	for _, deco := range d.deco.items[:d.deco.n] {
		dst = append(dst, deco.ApplyCode())
	}
	return dst
}

// resetCodes appends the codes restoring parent after the span. A remove code
// shared with a parent decoration also clears that decoration, so it is
// re-applied afterwards.
func (d styleDiff) resetCodes(dst []int, parent CurrentStyle) []int {
	if d.fg {
		dst = append(dst, parent.Foreground.ForegroundCode())
	}
	if d.bg {
		dst = append(dst, parent.Background.BackgroundCode())
	}
	start := len(dst)
	for _, deco := range d.deco.items[:d.deco.n] {
		dst = appendUnique(dst, start, deco.RemoveCode())
	}
	removed := dst[start:]
	for _, deco := range parent.Decorations.items[:parent.Decorations.n] {
		for _, code := range removed {
			if deco.RemoveCode() == code {
				dst = append(dst, deco.ApplyCode())
				break
			}
		}
	}
	return dst
}

func appendUnique(dst []int, from int, code int) []int {
	for _, c := range dst[from:] {
		if c == code {
			return dst
		}
	}
	return append(dst, code)
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
