package antsi

import "strings"

// parseDocument parses the whole source. A `)` with no open span ends
// parseText early; it is reported and skipped so the rest is still checked.
func (p *parser) parseDocument() Tokens {
	var tokens Tokens
	for {
		for _, tok := range p.parseText() {
			tokens.push(tok)
		}
		if _, ok := p.peek(); !ok {
			return tokens
		}
		p.error(UnescapedControlCharacter(')'))
		p.bump()
	}
}

// parseText parses fragments up to the `)` closing the current span or the
// end of the source.
func (p *parser) parseText() Tokens {
	var (
		tokens Tokens
		lit    strings.Builder
	)
	for {
		lx, ok := p.peek()
		if !ok || lx.Kind == KindParenClose {
			break
		}
		switch lx.Kind {
		case KindParenOpen, KindBracketClose:
			p.error(UnescapedControlCharacter(rune(lx.Text[0])))
			p.bump()
		case KindBracketOpen:
			if tok, ok := p.parseMarkup(); ok {
				tokens.pushString(lit.String())
				lit.Reset()
				tokens.push(tok)
			}
		case KindEscapeWhitespace:
			p.bump()
		case KindEscapeCharacter:
			p.bump()
			lit.WriteRune(lx.Char)
		case KindInvalid:
			p.error(UnknownEscapeSequence(lx.Char))
			p.bump()
		default:
			p.bump()
			lit.WriteString(lx.Text)
		}
	}
	tokens.pushString(lit.String())
	return tokens
}

// parseMarkup parses `[style](content)`. On a malformed style block the
// parser resynchronizes after the block and still checks the content.
func (p *parser) parseMarkup() (Token, bool) {
	if p.depth >= p.maxDepth {
		p.error(NestingTooDeep(p.maxDepth))
		p.skipMarkup()
		return Token{}, false
	}
	style, ok := p.parseStyle()
	if !ok {
		p.recoverStyle()
		if p.at(KindParenOpen) {
			p.parseContent()
		}
		return Token{}, false
	}
	children, ok := p.parseContent()
	if !ok {
		return Token{}, false
	}
	return Token{Kind: TokenStyled, Style: style, Children: children}, true
}

func (p *parser) parseContent() (Tokens, bool) {
	if !p.expect(KindParenOpen) {
		return nil, false
	}
	p.depth++
	children := p.parseText()
	p.depth--
	if !p.expect(KindParenClose) {
		return nil, false
	}
	return children, true
}

// parseStyle parses a style block. Repeated tags replace earlier ones. A
// missing `]` is reported but the style is still returned.
func (p *parser) parseStyle() (Style, bool) {
	if !p.expect(KindBracketOpen) {
		return Style{}, false
	}
	var style Style
	for {
		switch p.peekInStyle().Kind {
		case KindForeground:
			c, ok := p.parseColorSpecifier(KindForeground)
			if !ok {
				return Style{}, false
			}
			style = style.WithForeground(c)
		case KindBackground:
			c, ok := p.parseColorSpecifier(KindBackground)
			if !ok {
				return Style{}, false
			}
			style = style.WithBackground(c)
		case KindDecorationSpec:
			set, ok := p.parseDecorationSpecifier()
			if !ok {
				return Style{}, false
			}
			style = style.WithDecorationSet(set)
		default:
			p.error(Expected(KindForeground, KindBackground, KindDecorationSpec))
			return Style{}, false
		}
		if p.peekInStyle().Kind != KindSemicolon {
			break
		}
		p.bump()
	}
	if p.at(KindBracketClose) {
		p.bump()
	} else {
		p.error(Expected(KindSemicolon, KindBracketClose))
	}
	return style, true
}

func (p *parser) parseColorSpecifier(tag SyntaxKind) (Color, bool) {
	if _, ok := p.expectInStyle(tag); !ok {
		return DefaultColor, false
	}
	if _, ok := p.expectInStyle(KindColon); !ok {
		return DefaultColor, false
	}
	lx, ok := p.expectInStyle(KindColor)
	return lx.Color, ok
}

func (p *parser) parseDecorationSpecifier() (DecorationSet, bool) {
	var set DecorationSet
	if _, ok := p.expectInStyle(KindDecorationSpec); !ok {
		return set, false
	}
	if _, ok := p.expectInStyle(KindColon); !ok {
		return set, false
	}
	for {
		lx, ok := p.expectInStyle(KindDecoration)
		if !ok {
			return set, false
		}
		set = set.With(lx.Decoration)
		if p.peekInStyle().Kind != KindComma {
			return set, true
		}
		p.bump()
	}
}

// recoverStyle skips the rest of a malformed style block, consuming its `]`.
// It stops in front of anything that may start or end content.
func (p *parser) recoverStyle() {
	for {
		lx, ok := p.peek()
		if !ok {
			return
		}
		switch lx.Kind {
		case KindBracketClose:
			p.bump()
			return
		case KindParenOpen, KindParenClose, KindBracketOpen:
			return
		case KindInvalid:
			p.error(UnknownEscapeSequence(lx.Char))
		}
		p.bump()
	}
}

// skipMarkup discards a whole styled span without recursing into it.
func (p *parser) skipMarkup() {
	p.bump()
	p.recoverStyle()
	if !p.at(KindParenOpen) {
		return
	}
	open := 0
	for {
		lx, ok := p.peek()
		if !ok {
			return
		}
		switch lx.Kind {
		case KindParenOpen:
			open++
		case KindParenClose:
			open--
		}
		p.bump()
		if open == 0 {
			return
		}
	}
}
