// Package antsi converts a small inline markup language to text carrying ANSI
// SGR escape sequences for terminal display.
//
// Styled spans are written as a style block followed by parenthesized
// content:
//
//	[fg:red;deco:bold](warning:) disk [bg:blue](almost [fg:white](full))
//
// A style block holds one or more specifiers separated by `;`:
//
//   - fg:<color> sets the foreground color
//   - bg:<color> sets the background color
//   - deco:<decoration>[,<decoration>...] adds text decorations
//
// Colors are black, red, green, yellow, blue, magenta, cyan and white, each
// optionally prefixed with "bright-", plus default. Decorations are bold, dim
// (faint), italic, underline, slow-blink, fast-blink, invert (reverse), hide
// (conceal) and strike-through (strikethrough). Names are case-insensitive.
// When a tag repeats inside one block, the last one wins.
//
// Nested spans inherit the styling of their parents and may override colors.
// Decorations accumulate and cannot be removed inside a nested span. Only
// codes for properties that actually change are emitted, and every span
// restores its parent's state when it ends.
//
// The characters \ [ ] ( ) are escaped with a backslash. A backslash followed
// by spaces, tabs or line breaks removes that whitespace entirely, which
// allows long markup to be split across lines.
//
// Example:
//
//	src := "[fg:green](ok) all checks passed"
//	out, err := antsi.Colorize(src)
//	if err != nil {
//		var buf strings.Builder
//		_ = antsi.Report(&buf, antsi.ReportRequest{Source: src, Err: err})
//		log.Fatal(buf.String())
//	}
//	fmt.Println(out)
//
// Malformed markup never produces partial output: Colorize returns an Errors
// value describing every problem with its byte span.
package antsi
