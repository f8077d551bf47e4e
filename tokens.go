package antsi

import "strings"

// TokenKind distinguishes plain content from styled spans.
type TokenKind uint8

const (
	// TokenContent is a run of literal text.
	TokenContent TokenKind = iota
	// TokenStyled is a span applying a Style to its children.
	TokenStyled
)

// Token is a node of the parsed markup tree. Content tokens carry Text;
// styled tokens carry Style and own their Children.
type Token struct {
	Kind     TokenKind
	Text     string
	Style    Style
	Children Tokens
}

// Content returns a literal text token.
func Content(text string) Token {
	return Token{Kind: TokenContent, Text: text}
}

// Styled returns a styled span over children.
func Styled(style Style, children ...Token) Token {
	var tokens Tokens
	for _, child := range children {
		tokens.push(child)
	}
	return Token{Kind: TokenStyled, Style: style, Children: tokens}
}

// Tokens is an ordered token sequence in which adjacent content is always
// merged into a single Content token.
type Tokens []Token

func (t *Tokens) push(tok Token) {
	if tok.Kind == TokenContent {
		t.pushString(tok.Text)
		return
	}
	*t = append(*t, tok)
}

func (t *Tokens) pushString(s string) {
	if s == "" {
		return
	}
	if n := len(*t); n > 0 && (*t)[n-1].Kind == TokenContent {
		(*t)[n-1].Text += s
		return
	}
	*t = append(*t, Content(s))
}

// PlainText returns the concatenated content of the tree without styling.
func (t Tokens) PlainText() string {
	var b strings.Builder
	t.writePlain(&b)
	return b.String()
}

func (t Tokens) writePlain(b *strings.Builder) {
	for _, tok := range t {
		if tok.Kind == TokenContent {
			b.WriteString(tok.Text)
			continue
		}
		tok.Children.writePlain(b)
	}
}
