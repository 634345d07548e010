package tui

import (
	"testing"

	"github.com/verte-zerg/vocatype/internal/matcher"
)

func marksFor(target, input string) []matcher.Mark {
	return matcher.New(matcher.ModeWord).Evaluate(target, "", input).Result
}

func TestBuildStyledRunesCursor(t *testing.T) {
	target := []rune("ab")
	marks := marksFor("ab", "a")

	runes := buildStyledRunes(target, marks, cursorFor(target, marks), false)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected underlined current word style for second rune")
	}
}

func TestBuildStyledRunesNoCursorWhenComplete(t *testing.T) {
	target := []rune("a")
	marks := marksFor("a", "a")
	if got := cursorFor(target, marks); got != -1 {
		t.Fatalf("expected no cursor, got %d", got)
	}
	runes := buildStyledRunes(target, marks, -1, false)
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	target := []rune("ab")
	marks := marksFor("ab", "ax")

	runes := buildStyledRunes(target, marks, cursorFor(target, marks), false)
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style showing the target rune")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	target := []rune("one two")
	marks := marksFor("one two", "o")

	runes := buildStyledRunes(target, marks, cursorFor(target, marks), false)
	if runes[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	target := []rune("a b")
	marks := marksFor("a b", "ax")

	runes := buildStyledRunes(target, marks, cursorFor(target, marks), false)
	if runes[1].s != incorrectStyle.Render("•") {
		t.Fatalf("expected red dot for wrong space")
	}
}

func TestBuildStyledRunesBracketAcceptsSpace(t *testing.T) {
	target := []rune("[a]")
	marks := marksFor("[a]", " a ")

	runes := buildStyledRunes(target, marks, cursorFor(target, marks), false)
	for i, want := range []string{"[", "a", "]"} {
		if runes[i].s != correctStyle.Render(want) {
			t.Fatalf("rune %d: expected correct %q", i, want)
		}
	}
}

func TestBuildStyledRunesHidden(t *testing.T) {
	target := []rune("ab c")
	marks := marksFor("ab c", "a")

	runes := buildStyledRunes(target, marks, cursorFor(target, marks), true)
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected typed rune to be revealed")
	}
	if runes[3].s != pendingStyle.Render("_") {
		t.Fatalf("expected masked pending rune")
	}
	if runes[2].s != pendingStyle.Render(" ") {
		t.Fatalf("expected spaces to stay visible")
	}
}
