package antsi

import (
	"io"
	"strings"
)

// DefaultMaxDepth bounds how deeply styled spans may nest.
const DefaultMaxDepth = 128

// Parse converts markup into a token tree. Parsing continues past errors so
// that every problem in source is reported; the tree is only meaningful when
// the returned Errors is empty.
func Parse(source string, opts ...RenderOption) (Tokens, Errors) {
	cfg := newRenderConfig(opts)
	p := newParser(source, cfg.maxDepth)
	tokens := p.parseDocument()
	return tokens, p.errors
}

// ParseStyle parses a standalone style block such as "fg:red;deco:bold" or
// "[bg:blue]". Surrounding whitespace is ignored.
func ParseStyle(spec string) (Style, error) {
	spec = strings.TrimSpace(spec)
	offset := 0
	if !strings.HasPrefix(spec, "[") {
		spec = "[" + spec + "]"
		offset = 1
	}
	p := newParser(spec, DefaultMaxDepth)
	style, ok := p.parseStyle()
	if ok && len(p.errors) == 0 {
		if lx := p.peekInStyle(); lx.Kind != KindEOF {
			p.error(Expected(KindEOF))
		}
	}
	if len(p.errors) > 0 {
		for _, err := range p.errors {
			err.Span.Start = max(err.Span.Start-offset, 0)
			err.Span.End = max(err.Span.End-offset, err.Span.Start)
		}
		return Style{}, p.errors
	}
	return style, nil
}

type parser struct {
	lex      lexer
	cur      Lexeme
	peeked   bool
	errors   Errors
	depth    int
	maxDepth int
}

func newParser(src string, maxDepth int) *parser {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &parser{lex: lexer{src: src}, maxDepth: maxDepth}
}

// peek returns the lookahead without consuming it; ok is false at the end of
// the source, where the lexeme has KindEOF.
func (p *parser) peek() (Lexeme, bool) {
	if !p.peeked {
		lx, err := p.lex.next()
		if err == io.EOF {
			lx.Kind = KindEOF
		}
		p.cur = lx
		p.peeked = true
	}
	return p.cur, p.cur.Kind != KindEOF
}

func (p *parser) bump() Lexeme {
	lx, _ := p.peek()
	if lx.Kind != KindEOF {
		p.peeked = false
	}
	return lx
}

func (p *parser) at(kind SyntaxKind) bool {
	lx, _ := p.peek()
	return lx.Kind == kind
}

func (p *parser) expect(kind SyntaxKind) bool {
	if p.at(kind) {
		p.bump()
		return true
	}
	p.error(Expected(kind))
	return false
}

// peekInStyle returns the lookahead as seen inside a style block, where
// whitespace around words is insignificant. Blank text is consumed and text
// surrounding a single word is narrowed to that word and reclassified.
func (p *parser) peekInStyle() Lexeme {
	for {
		lx, _ := p.peek()
		if lx.Kind != KindText {
			return lx
		}
		start, end := trimSpaceBounds(lx.Text)
		if start == end {
			p.bump()
			continue
		}
		if start == 0 && end == len(lx.Text) {
			return lx
		}
		p.cur = classifyWord(Lexeme{
			Kind: KindText,
			Text: lx.Text[start:end],
			Span: Span{lx.Span.Start + start, lx.Span.Start + end},
		})
		return p.cur
	}
}

func (p *parser) expectInStyle(kind SyntaxKind) (Lexeme, bool) {
	lx := p.peekInStyle()
	if lx.Kind == kind {
		p.bump()
		return lx, true
	}
	p.error(Expected(kind))
	return lx, false
}

// error records reason against the current lookahead.
func (p *parser) error(reason Reason) {
	lx, _ := p.peek()
	p.errors = append(p.errors, &ParseError{Span: lx.Span, At: lx.Kind, Reason: reason})
}

func trimSpaceBounds(s string) (int, int) {
	start, end := 0, len(s)
	for start < end && isEscapableSpace(s[start]) {
		start++
	}
	for end > start && isEscapableSpace(s[end-1]) {
		end--
	}
	return start, end
}
