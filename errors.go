package antsi

import (
	"fmt"
	"strings"
)

// ReasonKind enumerates why parsing failed.
type ReasonKind uint8

const (
	// ReasonExpected means a specific set of lexemes was required.
	ReasonExpected ReasonKind = iota
	// ReasonUnknownEscapeSequence means a backslash was not followed by a
	// recognized character or whitespace.
	ReasonUnknownEscapeSequence
	// ReasonUnescapedControlCharacter means a structural character appeared
	// where text was expected.
	ReasonUnescapedControlCharacter
	// ReasonNestingTooDeep means styled spans were nested beyond the limit.
	ReasonNestingTooDeep
)

// Reason describes a parse failure. Expected is set for ReasonExpected, Char
// for the escape and control character reasons, Limit for
// ReasonNestingTooDeep.
type Reason struct {
	Kind     ReasonKind
	Expected []SyntaxKind
	Char     rune
	Limit    int
}

// Expected returns a reason requiring one of kinds.
func Expected(kinds ...SyntaxKind) Reason {
	return Reason{Kind: ReasonExpected, Expected: kinds}
}

// UnknownEscapeSequence returns a reason for `\` followed by c.
func UnknownEscapeSequence(c rune) Reason {
	return Reason{Kind: ReasonUnknownEscapeSequence, Char: c}
}

// UnescapedControlCharacter returns a reason for a stray structural character.
func UnescapedControlCharacter(c rune) Reason {
	return Reason{Kind: ReasonUnescapedControlCharacter, Char: c}
}

// NestingTooDeep returns a reason for markup nested deeper than limit.
func NestingTooDeep(limit int) Reason {
	return Reason{Kind: ReasonNestingTooDeep, Limit: limit}
}

func (r Reason) String() string {
	switch r.Kind {
	case ReasonExpected:
		return "expected " + joinKinds(r.Expected)
	case ReasonUnknownEscapeSequence:
		if r.Char == 0 {
			return "unterminated escape sequence"
		}
		return fmt.Sprintf("unknown escape sequence `\\%c`", r.Char)
	case ReasonUnescapedControlCharacter:
		return fmt.Sprintf("unescaped control character `%c`", r.Char)
	case ReasonNestingTooDeep:
		return fmt.Sprintf("markup nested deeper than %d levels", r.Limit)
	}
	return "unknown parse error"
}

func joinKinds(kinds []SyntaxKind) string {
	switch len(kinds) {
	case 0:
		return "nothing"
	case 1:
		return kinds[0].String()
	}
	var b strings.Builder
	for i, k := range kinds {
		if i > 0 {
			if i == len(kinds)-1 {
				b.WriteString(" or ")
			} else {
				b.WriteString(", ")
			}
		}
		b.WriteString(k.String())
	}
	return b.String()
}

// ParseError is a positioned parse failure. At is the kind of the lexeme the
// parser was looking at; KindEOF means the end of the source, in which case
// Span is the empty range at the end.
type ParseError struct {
	Span   Span
	At     SyntaxKind
	Reason Reason
}

// Message returns the error description without position.
func (e *ParseError) Message() string {
	msg := e.Reason.String()
	if e.Reason.Kind == ReasonExpected {
		msg += ", found " + e.At.String()
	}
	return msg
}

func (e *ParseError) Error() string {
	if e.At == KindEOF {
		return "end of input: " + e.Message()
	}
	return fmt.Sprintf("offset %d: %s", e.Span.Start, e.Message())
}

// Errors is the ordered list of failures from one parse. It is returned as
// the error of Colorize and recovered with errors.As.
type Errors []*ParseError

func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return "no parse errors"
	case 1:
		return e[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d parse errors: ", len(e))
	for i, err := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e Errors) err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
