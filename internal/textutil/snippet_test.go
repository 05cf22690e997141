package textutil

import (
	"strings"
	"testing"
)

func TestSnippetStripsMarkupAndEntities(t *testing.T) {
	raw := "<p>Reset your <b>password</b> from the &quot;Account&quot; page.</p>"
	got := Snippet(raw, 100)
	want := `Reset your password from the "Account" page.`
	if got != want {
		t.Fatalf("Snippet() = %q, want %q", got, want)
	}
}

func TestSnippetEmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "<div><br/></div>"} {
		if got := Snippet(raw, 100); got != SnippetPlaceholder {
			t.Errorf("Snippet(%q) = %q, want placeholder", raw, got)
		}
	}
}

func TestSnippetIdempotentOnCleanText(t *testing.T) {
	clean := "Short clean sentence."
	once := Snippet(clean, 100)
	twice := Snippet(once, 100)
	if once != clean || twice != once {
		t.Fatalf("Snippet not idempotent: %q -> %q -> %q", clean, once, twice)
	}
}

func TestSnippetNeverExceedsMaxPlusEllipsis(t *testing.T) {
	long := strings.Repeat("word ", 100)
	for _, max := range []int{10, 40, 160} {
		got := Snippet(long, max)
		if n := len([]rune(got)); n > max+3 {
			t.Errorf("Snippet(max=%d) length %d exceeds max+3", max, n)
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("Snippet(max=%d) = %q, want ellipsis suffix", max, got)
		}
	}
}

func TestSnippetPrefersWordBoundary(t *testing.T) {
	// The space at index 35 falls inside the last 30% of a 40-rune window,
	// so the cut must land there rather than mid-word.
	text := "alpha beta gamma delta epsilon zeta somethingverylong tail"
	got := Snippet(text, 40)
	if strings.Contains(strings.TrimSuffix(got, "..."), "somethingv") {
		t.Fatalf("Snippet() = %q, cut mid-word instead of at boundary", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("Snippet() = %q, want ellipsis", got)
	}
}

func TestSnippetBoundaryWindowCountsRunes(t *testing.T) {
	// The last space sits at rune index 11, outside the last 30% of a
	// 20-rune window, even though its byte offset falls inside it. The cut
	// must be the hard one, not the boundary at that space.
	text := "résumé café wordwordword"
	got := Snippet(text, 20)
	want := "résumé café wordword..."
	if got != want {
		t.Fatalf("Snippet() = %q, want %q", got, want)
	}
}

func TestSnippetHardCutWithoutNearbyBoundary(t *testing.T) {
	text := strings.Repeat("x", 80)
	got := Snippet(text, 40)
	want := strings.Repeat("x", 40) + "..."
	if got != want {
		t.Fatalf("Snippet() = %q, want %q", got, want)
	}
}
