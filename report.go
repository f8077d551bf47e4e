package antsi

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// ReportRequest configures Report.
type ReportRequest struct {
	// Name identifies the source in locations; it defaults to "input".
	Name   string
	Source string
	// Err is typically the error returned by Colorize or Render. Errors that
	// carry no parse errors are reported as a single line.
	Err   error
	Theme Theme
	Color bool
}

// Report writes a human-readable description of every parse error in
// req.Err, each quoting the offending line of req.Source with a caret under
// the offending span.
func Report(w io.Writer, req ReportRequest) error {
	if w == nil {
		return fmt.Errorf("report: writer is nil")
	}
	if req.Err == nil {
		return nil
	}
	theme := req.Theme
	if theme == nil {
		theme = DefaultTheme()
	}
	st := theme.Styles()
	name := req.Name
	if name == "" {
		name = "input"
	}
	var tokens Tokens
	var errs Errors
	if errors.As(req.Err, &errs) && len(errs) > 0 {
		for i, err := range errs {
			if i > 0 {
				tokens.pushString("\n")
			}
			appendDiagnostic(&tokens, req.Source, name, err, st)
		}
	} else {
		appendHeader(&tokens, req.Err.Error(), st)
	}
	_, err := io.WriteString(w, RenderTokens(tokens, WithColor(req.Color)))
	return err
}

// Position converts a byte offset of source to a 1-based line and column.
// Columns count runes.
func Position(source string, offset int) (line, column int) {
	offset = min(max(offset, 0), len(source))
	start := strings.LastIndexByte(source[:offset], '\n') + 1
	line = strings.Count(source[:offset], "\n") + 1
	column = utf8.RuneCountInString(source[start:offset]) + 1
	return line, column
}

func appendHeader(tokens *Tokens, msg string, st Styles) {
	tokens.push(Styled(st.Severity, Content("error")))
	tokens.push(Styled(st.Message, Content(": "+msg)))
	tokens.pushString("\n")
}

func appendDiagnostic(tokens *Tokens, source, name string, err *ParseError, st Styles) {
	offset := min(max(err.Span.Start, 0), len(source))
	line, column := Position(source, offset)
	lineStart := strings.LastIndexByte(source[:offset], '\n') + 1
	lineEnd := len(source)
	if i := strings.IndexByte(source[offset:], '\n'); i >= 0 {
		lineEnd = offset + i
	}
	text := strings.TrimSuffix(source[lineStart:lineEnd], "\r")

	number := strconv.Itoa(line)
	pad := strings.Repeat(" ", len(number))

	appendHeader(tokens, err.Message(), st)
	tokens.pushString(pad)
	tokens.push(Styled(st.Gutter, Content("-->")))
	tokens.pushString(" ")
	tokens.push(Styled(st.Location, Content(fmt.Sprintf("%s:%d:%d", name, line, column))))
	tokens.pushString("\n" + pad + " ")
	tokens.push(Styled(st.Gutter, Content("|")))
	tokens.pushString("\n")
	tokens.push(Styled(st.Gutter, Content(number+" |")))
	tokens.pushString(" " + text + "\n" + pad + " ")
	tokens.push(Styled(st.Gutter, Content("|")))
	tokens.pushString(" " + caretIndent(source[lineStart:offset]))
	end := min(max(err.Span.End, offset), lineEnd)
	tokens.push(Styled(st.Caret, Content(strings.Repeat("^", max(runewidth.StringWidth(source[offset:end]), 1)))))
	tokens.pushString("\n")
}

// caretIndent returns whitespace as wide as prefix on a terminal, keeping
// tabs so the caret lines up however tabs are expanded.
func caretIndent(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
