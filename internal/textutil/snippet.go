// Package textutil provides the small text transforms the proxy needs:
// turning raw article HTML into chat-sized snippets and extracting a usable
// search query from a chat transcript line.
package textutil

import (
	"regexp"
	"strings"
)

// SnippetPlaceholder is returned for empty or markup-only input.
const SnippetPlaceholder = "No preview available"

// DefaultSnippetMax is the snippet length used when callers pass no cap.
const DefaultSnippetMax = 160

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	entities = strings.NewReplacer(
		"&nbsp;", " ",
		"&quot;", `"`,
		"&#39;", "'",
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
	)
)

// Snippet strips markup from raw article text, collapses whitespace, and
// truncates to max runes. When a word boundary falls within the last 30% of
// the window the cut happens there; otherwise the text is hard-cut. Either
// way a truncated snippet ends in "...". Clean text shorter than max passes
// through unchanged, which makes the function idempotent on its own output.
func Snippet(raw string, max int) string {
	if max <= 0 {
		max = DefaultSnippetMax
	}

	text := tagPattern.ReplaceAllString(raw, " ")
	text = entities.Replace(text)
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return SnippetPlaceholder
	}

	runes := []rune(text)
	if len(runes) <= max {
		return text
	}

	// The boundary threshold is in runes, so scan runes rather than
	// comparing byte offsets from strings.LastIndex.
	window := runes[:max]
	for i := len(window) - 1; i >= (max*7)/10; i-- {
		if window[i] == ' ' {
			window = window[:i]
			break
		}
	}
	return strings.TrimRight(string(window), " ") + "..."
}
