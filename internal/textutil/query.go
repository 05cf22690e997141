package textutil

import (
	"fmt"
	"regexp"
	"strings"
)

// MinQueryLength is the shortest query accepted by any search call.
const MinQueryLength = 3

// roleMarkerPattern matches the transcript prefix the chat widget places in
// front of each line: indentation followed by the speaker glyph (» end user,
// « agent).
var roleMarkerPattern = regexp.MustCompile(`^\s*[»«]\s*`)

// fillerPatterns are conversational prefixes stripped before search. Applied
// repeatedly, so "hi, can you help me with X" reduces to "X".
var fillerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(hi|hello|hey|greetings)[,.!\s]+`),
	regexp.MustCompile(`(?i)^(please|kindly)\s+`),
	regexp.MustCompile(`(?i)^(can|could|would)\s+you\s+(please\s+)?(help|assist)(\s+me)?(\s+with)?[\s:,]*`),
	regexp.MustCompile(`(?i)^i\s+need\s+(some\s+)?help(\s+with)?[\s:,]*`),
	regexp.MustCompile(`(?i)^(help|assist)(\s+me)?\s+with[\s:,]*`),
	regexp.MustCompile(`(?i)^i\s+have\s+an?\s+(question|problem|issue)(\s+(with|about))?[\s:,]*`),
	regexp.MustCompile(`(?i)^i('|’)?m\s+having\s+(an?\s+)?(problem|issue|trouble)s?(\s+with)?[\s:,]*`),
	regexp.MustCompile(`(?i)^(thanks|thank\s+you)[,.!\s]+`),
}

// stopWords are single-token queries too generic to search on.
var stopWords = map[string]struct{}{
	"help":     {},
	"issue":    {},
	"problem":  {},
	"question": {},
	"hi":       {},
	"hello":    {},
	"thanks":   {},
	"please":   {},
}

// ExtractQuery reduces a raw chat message to a search query: the role marker
// goes first, then leading filler phrases until none match.
func ExtractQuery(raw string) string {
	text := roleMarkerPattern.ReplaceAllString(raw, "")
	text = strings.TrimSpace(text)

	for {
		stripped := text
		for _, pattern := range fillerPatterns {
			stripped = pattern.ReplaceAllString(stripped, "")
		}
		stripped = strings.TrimSpace(stripped)
		if stripped == text {
			break
		}
		text = stripped
	}
	return text
}

// ValidateQuery rejects queries that would only produce noise: empty, under
// MinQueryLength runes, or a lone stop-word.
func ValidateQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return fmt.Errorf("search query is required")
	}
	if len([]rune(trimmed)) < MinQueryLength {
		return fmt.Errorf("search query must be at least %d characters", MinQueryLength)
	}
	if !strings.ContainsAny(trimmed, " \t") {
		if _, ok := stopWords[strings.ToLower(trimmed)]; ok {
			return fmt.Errorf("search query %q is too generic", trimmed)
		}
	}
	return nil
}
