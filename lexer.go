package antsi

import (
	"fmt"
	"io"
	"iter"
	"unicode/utf8"
)

// SyntaxKind classifies a lexeme.
type SyntaxKind uint8

const (
	KindEOF SyntaxKind = iota
	KindBracketOpen
	KindBracketClose
	KindParenOpen
	KindParenClose
	KindColon
	KindSemicolon
	KindComma
	KindForeground
	KindBackground
	KindDecorationSpec
	KindColor
	KindDecoration
	KindEscapeCharacter
	KindEscapeWhitespace
	KindText
	// KindInvalid tags the bytes of an escape sequence that failed to lex.
	KindInvalid
)

var kindNames = [...]string{
	KindEOF:              "end of input",
	KindBracketOpen:      "`[`",
	KindBracketClose:     "`]`",
	KindParenOpen:        "`(`",
	KindParenClose:       "`)`",
	KindColon:            "`:`",
	KindSemicolon:        "`;`",
	KindComma:            "`,`",
	KindForeground:       "foreground specifier",
	KindBackground:       "background specifier",
	KindDecorationSpec:   "decoration specifier",
	KindColor:            "color",
	KindDecoration:       "decoration",
	KindEscapeCharacter:  "escape character",
	KindEscapeWhitespace: "escape whitespace",
	KindText:             "text",
	KindInvalid:          "invalid escape sequence",
}

func (k SyntaxKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("SyntaxKind(%d)", uint8(k))
}

// Span is a half-open byte range [Start, End) of the source text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Lexeme is a classified slice of the source text.
type Lexeme struct {
	Kind SyntaxKind
	Text string
	Span Span
	// Char is the escaped character of KindEscapeCharacter and the offending
	// character of KindInvalid (0 for a trailing backslash).
	Char       rune
	Color      Color
	Decoration Decoration
}

// LexError reports a backslash that does not start a known escape sequence.
type LexError struct {
	Span Span
	Char rune
}

func (e *LexError) Error() string {
	if e.Char == 0 {
		return fmt.Sprintf("offset %d: unterminated escape sequence", e.Span.Start)
	}
	return fmt.Sprintf("offset %d: unknown escape sequence `\\%c`", e.Span.Start, e.Char)
}

// Lex returns the lexemes of src in order. A failed escape yields a
// KindInvalid lexeme together with a *LexError; scanning continues after it.
func Lex(src string) iter.Seq2[Lexeme, error] {
	return func(yield func(Lexeme, error) bool) {
		l := lexer{src: src}
		for {
			lx, err := l.next()
			if err == io.EOF {
				return
			}
			if !yield(lx, err) {
				return
			}
		}
	}
}

type lexer struct {
	src string
	pos int
}

// next returns io.EOF once the source is exhausted.
func (l *lexer) next() (Lexeme, error) {
	if l.pos >= len(l.src) {
		return Lexeme{Kind: KindEOF, Span: Span{len(l.src), len(l.src)}}, io.EOF
	}
	start := l.pos
	switch l.src[start] {
	case '[':
		return l.emit(KindBracketOpen, start+1), nil
	case ']':
		return l.emit(KindBracketClose, start+1), nil
	case '(':
		return l.emit(KindParenOpen, start+1), nil
	case ')':
		return l.emit(KindParenClose, start+1), nil
	case ':':
		return l.emit(KindColon, start+1), nil
	case ';':
		return l.emit(KindSemicolon, start+1), nil
	case ',':
		return l.emit(KindComma, start+1), nil
	case '\\':
		return l.escape(start)
	}
	end := start
	for end < len(l.src) && !isStopByte(l.src[end]) {
		end++
	}
	return classifyWord(l.emit(KindText, end)), nil
}

func (l *lexer) emit(kind SyntaxKind, end int) Lexeme {
	lx := Lexeme{Kind: kind, Text: l.src[l.pos:end], Span: Span{l.pos, end}}
	l.pos = end
	return lx
}

func (l *lexer) escape(start int) (Lexeme, error) {
	if start+1 >= len(l.src) {
		lx := l.emit(KindInvalid, start+1)
		return lx, &LexError{Span: lx.Span}
	}
	c := l.src[start+1]
	switch {
	case isEscapable(c):
		lx := l.emit(KindEscapeCharacter, start+2)
		lx.Char = rune(c)
		return lx, nil
	case isEscapableSpace(c):
		end := start + 1
		for end < len(l.src) && isEscapableSpace(l.src[end]) {
			end++
		}
		return l.emit(KindEscapeWhitespace, end), nil
	}
	r, size := utf8.DecodeRuneInString(l.src[start+1:])
	lx := l.emit(KindInvalid, start+1+size)
	lx.Char = r
	return lx, &LexError{Span: lx.Span, Char: r}
}

// classifyWord promotes a text run that is exactly a keyword, color or
// decoration name.
func classifyWord(lx Lexeme) Lexeme {
	switch {
	case equalFoldASCII(lx.Text, "fg"):
		lx.Kind = KindForeground
	case equalFoldASCII(lx.Text, "bg"):
		lx.Kind = KindBackground
	case equalFoldASCII(lx.Text, "deco"):
		lx.Kind = KindDecorationSpec
	default:
		if c, ok := lookupColor(lx.Text); ok {
			lx.Kind = KindColor
			lx.Color = c
		} else if d, ok := lookupDecoration(lx.Text); ok {
			lx.Kind = KindDecoration
			lx.Decoration = d
		}
	}
	return lx
}

func isStopByte(c byte) bool {
	switch c {
	case '\\', '[', ']', '(', ')', ':', ';', ',':
		return true
	}
	return false
}

func isEscapable(c byte) bool {
	switch c {
	case '\\', '[', ']', '(', ')':
		return true
	}
	return false
}

func isEscapableSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
