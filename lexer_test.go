package antsi

import (
	"errors"
	"reflect"
	"testing"
)

func lexKinds(t *testing.T, src string) []SyntaxKind {
	t.Helper()
	var kinds []SyntaxKind
	for lx, err := range Lex(src) {
		if err != nil && lx.Kind != KindInvalid {
			t.Fatalf("unexpected error for %q: %v", src, err)
		}
		kinds = append(kinds, lx.Kind)
	}
	return kinds
}

func TestLexPunctuation(t *testing.T) {
	got := lexKinds(t, "[]():;,")
	want := []SyntaxKind{
		KindBracketOpen, KindBracketClose, KindParenOpen, KindParenClose,
		KindColon, KindSemicolon, KindComma,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
}

func TestLexKeywordsIgnoreCase(t *testing.T) {
	cases := []struct {
		src  string
		kind SyntaxKind
	}{
		{"fg", KindForeground},
		{"FG", KindForeground},
		{"Bg", KindBackground},
		{"DeCo", KindDecorationSpec},
		{"red", KindColor},
		{"BRIGHT-Magenta", KindColor},
		{"default", KindColor},
		{"bold", KindDecoration},
		{"Strike-Through", KindDecoration},
		{"strikethrough", KindDecoration},
		{"faint", KindDecoration},
		{"reverse", KindDecoration},
		{"conceal", KindDecoration},
		{"slow-blink", KindDecoration},
	}
	for _, tc := range cases {
		got := lexKinds(t, tc.src)
		if len(got) != 1 || got[0] != tc.kind {
			t.Fatalf("Lex(%q) = %v, want [%v]", tc.src, got, tc.kind)
		}
	}
}

func TestLexResolvesValues(t *testing.T) {
	var lexemes []Lexeme
	for lx, err := range Lex("[fg:Bright-Cyan;deco:faint,REVERSE]") {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lexemes = append(lexemes, lx)
	}
	if lexemes[3].Kind != KindColor || lexemes[3].Color != BrightCyan {
		t.Fatalf("expected bright-cyan, got %+v", lexemes[3])
	}
	if lexemes[7].Kind != KindDecoration || lexemes[7].Decoration != Dim {
		t.Fatalf("expected faint to resolve to dim, got %+v", lexemes[7])
	}
	if lexemes[9].Kind != KindDecoration || lexemes[9].Decoration != Invert {
		t.Fatalf("expected reverse to resolve to invert, got %+v", lexemes[9])
	}
}

func TestLexLongestMatchPrefersText(t *testing.T) {
	for _, src := range []string{"redden", "fgx", "bold move", "bright-", " red", "deco "} {
		got := lexKinds(t, src)
		if len(got) != 1 || got[0] != KindText {
			t.Fatalf("Lex(%q) = %v, want a single text lexeme", src, got)
		}
	}
}

func TestLexTextStopsAtControlBytes(t *testing.T) {
	var texts []string
	for lx := range Lex("hello, world: yes; no") {
		texts = append(texts, lx.Text)
	}
	want := []string{"hello", ",", " world", ":", " yes", ";", " no"}
	if !reflect.DeepEqual(texts, want) {
		t.Fatalf("texts = %q, want %q", texts, want)
	}
}

func TestLexEscapes(t *testing.T) {
	var got []Lexeme
	for lx, err := range Lex(`\\\[\]\(\)`) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, lx)
	}
	want := []rune{'\\', '[', ']', '(', ')'}
	if len(got) != len(want) {
		t.Fatalf("got %d lexemes, want %d", len(got), len(want))
	}
	for i, lx := range got {
		if lx.Kind != KindEscapeCharacter || lx.Char != want[i] || lx.Span.Len() != 2 {
			t.Fatalf("lexeme %d = %+v, want escape of %q", i, lx, want[i])
		}
	}
}

func TestLexEscapeWhitespaceIsOneLexeme(t *testing.T) {
	var got []Lexeme
	for lx := range Lex("a\\ \t\r\n  b") {
		got = append(got, lx)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 lexemes, got %+v", got)
	}
	if got[1].Kind != KindEscapeWhitespace || got[1].Span != (Span{1, 8}) {
		t.Fatalf("unexpected whitespace lexeme %+v", got[1])
	}
}

func TestLexUnknownEscape(t *testing.T) {
	var (
		kinds  []SyntaxKind
		lexErr *LexError
	)
	for lx, err := range Lex(`a\qb`) {
		kinds = append(kinds, lx.Kind)
		if err != nil && !errors.As(err, &lexErr) {
			t.Fatalf("expected *LexError, got %T", err)
		}
	}
	if lexErr == nil || lexErr.Char != 'q' || lexErr.Span != (Span{1, 3}) {
		t.Fatalf("unexpected lex error %+v", lexErr)
	}
	want := []SyntaxKind{KindText, KindInvalid, KindText}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
}

func TestLexUnknownEscapeMultiByte(t *testing.T) {
	for lx, err := range Lex(`\é`) {
		if err == nil || lx.Kind != KindInvalid {
			t.Fatalf("expected invalid lexeme, got %+v", lx)
		}
		if lx.Char != 'é' || lx.Span != (Span{0, 3}) {
			t.Fatalf("unexpected invalid lexeme %+v", lx)
		}
	}
}

func TestLexTrailingBackslash(t *testing.T) {
	var last Lexeme
	var lastErr error
	for lx, err := range Lex(`abc\`) {
		last, lastErr = lx, err
	}
	if lastErr == nil || last.Kind != KindInvalid || last.Char != 0 || last.Span != (Span{3, 4}) {
		t.Fatalf("unexpected trailing lexeme %+v (%v)", last, lastErr)
	}
}

func TestLexEmpty(t *testing.T) {
	for lx := range Lex("") {
		t.Fatalf("expected no lexemes, got %+v", lx)
	}
}
