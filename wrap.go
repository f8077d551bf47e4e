package antsi

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Wrap breaks rendered output so that no line is wider than width printable
// cells. Words are kept whole where possible; longer words are hard-wrapped.
// Escape sequences do not count towards the width. A width below one
// disables wrapping.
func Wrap(s string, width int) string {
	if width <= 0 || !needsWrap(s, width) {
		return s
	}
	return wrap.String(wordwrap.String(s, width), width)
}

func needsWrap(s string, width int) bool {
	for line := range strings.SplitSeq(s, "\n") {
		if ansi.PrintableRuneWidth(line) > width {
			return true
		}
	}
	return false
}
