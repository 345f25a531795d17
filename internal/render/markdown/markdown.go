// Package markdown converts the constrained markdown dialect emitted by the
// governance model into structured display blocks. It is deliberately not a
// CommonMark parser: model output is messy in known ways (stray bold pairs,
// bold used instead of headers) and the renderer normalizes those before a
// line-oriented classification pass.
package markdown

import (
	"regexp"
	"strings"
)

// Kind enumerates block node types.
type Kind string

const (
	KindRule      Kind = "rule"
	KindHeading   Kind = "heading"
	KindListItem  Kind = "list_item"
	KindCallout   Kind = "callout"
	KindSpacer    Kind = "spacer"
	KindParagraph Kind = "paragraph"
)

// Span is one inline run of text with emphasis flags.
type Span struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
}

// Block is one rendered display node. Headings carry Level and plain Text;
// list items and paragraphs carry inline Spans; callouts carry the full line
// verbatim in Text.
type Block struct {
	Kind  Kind   `json:"kind"`
	Level int    `json:"level,omitempty"`
	Text  string `json:"text,omitempty"`
	Spans []Span `json:"spans,omitempty"`
}

// DisclaimerFragment marks the mandatory compliance sentence; any line
// containing it renders as a callout box.
const DisclaimerFragment = "AtlasGuard does not ingest or store dark web content"

var (
	emptyBoldPairRe   = regexp.MustCompile(`\*\*\s+\*\*`)
	boldColonRe       = regexp.MustCompile(`\*\*\s*:\s*\*\*`)
	headerRe          = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	boldHeaderRe      = regexp.MustCompile(`^\*\*(.*?)\*\*:?$`)
	bulletRe          = regexp.MustCompile(`^[-*]\s+`)
)

// normalize repairs known artifacts of model output, in fixed order: literal
// escaped newlines become real ones, empty bold pairs collapse, a colon
// immediately before a bold marker gains a space, and bold markers wrapping
// only a colon collapse.
func normalize(text string) string {
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = emptyBoldPairRe.ReplaceAllString(text, "**")
	text = strings.ReplaceAll(text, ":**", ": **")
	text = boldColonRe.ReplaceAllString(text, ": ")
	return text
}

// Render parses the input into an ordered block sequence. Classification is
// per line, first match wins: rule, header, bold pseudo-header, bullet,
// disclaimer callout, spacer, paragraph.
func Render(text string) []Block {
	if text == "" {
		return nil
	}
	lines := strings.Split(normalize(text), "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, classify(strings.TrimSpace(line)))
	}
	return blocks
}

func classify(trimmed string) Block {
	if trimmed == "---" || trimmed == "***" || trimmed == "___" {
		return Block{Kind: KindRule}
	}

	if m := headerRe.FindStringSubmatch(trimmed); m != nil {
		return Block{Kind: KindHeading, Level: len(m[1]), Text: m[2]}
	}

	// Model output often uses **Bold** lines instead of # headers; short ones
	// are promoted to sub-section headings.
	if m := boldHeaderRe.FindStringSubmatch(trimmed); m != nil && len(m[1]) < 60 {
		return Block{Kind: KindHeading, Level: 4, Text: strings.TrimSpace(m[1])}
	}

	if loc := bulletRe.FindStringIndex(trimmed); loc != nil {
		return Block{Kind: KindListItem, Spans: Inline(trimmed[loc[1]:])}
	}

	if strings.Contains(trimmed, DisclaimerFragment) {
		return Block{Kind: KindCallout, Text: trimmed}
	}

	if trimmed == "" {
		return Block{Kind: KindSpacer}
	}

	return Block{Kind: KindParagraph, Spans: Inline(trimmed)}
}
