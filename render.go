package antsi

import (
	"strconv"
	"strings"
)

const sgrPrefix = "\x1b["

// Colorize converts markup in source to text with SGR escape sequences.
// Source without markup is returned unchanged. If the markup is malformed
// the result is empty and the error is an Errors value listing every
// problem found.
func Colorize(source string, opts ...RenderOption) (string, error) {
	if !strings.ContainsAny(source, `\[]()`) {
		return source, nil
	}
	cfg := newRenderConfig(opts)
	p := newParser(source, cfg.maxDepth)
	tokens := p.parseDocument()
	if err := p.errors.err(); err != nil {
		return "", err
	}
	r := renderer{plain: cfg.plain}
	r.out = make([]byte, 0, len(source)+len(source)/2)
	r.renderTokens(tokens, cfg.base)
	return string(r.out), nil
}

// MustColorize is like Colorize but panics on malformed markup. It is meant
// for markup fixed at compile time.
func MustColorize(source string, opts ...RenderOption) string {
	out, err := Colorize(source, opts...)
	if err != nil {
		panic("antsi: Colorize(" + strconv.Quote(source) + "): " + err.Error())
	}
	return out
}

// RenderTokens renders a token tree, for example one returned by Parse or
// built with Content and Styled.
func RenderTokens(tokens Tokens, opts ...RenderOption) string {
	cfg := newRenderConfig(opts)
	r := renderer{plain: cfg.plain}
	r.renderTokens(tokens, cfg.base)
	return string(r.out)
}

// Escape returns text with every character that markup treats specially
// escaped, so that Colorize reproduces text exactly.
func Escape(text string) string {
	if !strings.ContainsAny(text, `\[]()`) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i := 0; i < len(text); i++ {
		if isEscapable(text[i]) {
			b.WriteByte('\\')
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

type renderer struct {
	out   []byte
	codes []int
	plain bool
}

func (r *renderer) renderTokens(tokens Tokens, ctx CurrentStyle) {
	for i := range tokens {
		r.render(&tokens[i], ctx)
	}
}

func (r *renderer) render(tok *Token, ctx CurrentStyle) {
	if tok.Kind == TokenContent {
		r.out = append(r.out, tok.Text...)
		return
	}
	child := ctx.Extend(tok.Style)
	if r.plain {
		r.renderTokens(tok.Children, child)
		return
	}
	diff := ctx.diff(tok.Style)
	if diff.empty() {
		r.renderTokens(tok.Children, child)
		return
	}
	r.codes = diff.applyCodes(r.codes[:0], child)
	r.writeSGR()
	r.renderTokens(tok.Children, child)
	r.codes = diff.resetCodes(r.codes[:0], ctx)
	r.writeSGR()
}

func (r *renderer) writeSGR() {
	if len(r.codes) == 0 {
		return
	}
	r.out = append(r.out, sgrPrefix...)
	for i, code := range r.codes {
		if i > 0 {
			r.out = append(r.out, ';')
		}
		r.out = strconv.AppendInt(r.out, int64(code), 10)
	}
	r.out = append(r.out, 'm')
}
