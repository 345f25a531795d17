package markdown

import (
	"regexp"
	"strings"
)

// Triple stars first so the alternation picks the longest marker; lazy
// quantifiers keep adjacent emphasis runs from merging.
var inlineRe = regexp.MustCompile(`\*\*\*.*?\*\*\*|\*\*.*?\*\*|\*.*?\*`)

// Inline splits a line into emphasis spans. Unmatched markers are left as
// literal text. Empty plain segments between adjacent markers are dropped.
func Inline(text string) []Span {
	matches := inlineRe.FindAllStringIndex(text, -1)
	if matches == nil {
		return []Span{{Text: text}}
	}

	spans := make([]Span, 0, len(matches)*2+1)
	pos := 0
	for _, m := range matches {
		if plain := text[pos:m[0]]; plain != "" {
			spans = append(spans, Span{Text: plain})
		}
		spans = append(spans, emphasis(text[m[0]:m[1]]))
		pos = m[1]
	}
	if plain := text[pos:]; plain != "" {
		spans = append(spans, Span{Text: plain})
	}
	return spans
}

func emphasis(marked string) Span {
	switch {
	case strings.HasPrefix(marked, "***"):
		return Span{Text: strings.Trim(marked, "*"), Bold: true, Italic: true}
	case strings.HasPrefix(marked, "**"):
		return Span{Text: strings.Trim(marked, "*"), Bold: true}
	default:
		return Span{Text: strings.Trim(marked, "*"), Italic: true}
	}
}
