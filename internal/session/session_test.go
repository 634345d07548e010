package session

import (
	"fmt"
	"testing"

	"github.com/verte-zerg/vocatype/internal/matcher"
	"github.com/verte-zerg/vocatype/internal/model"
)

func makeWords(n int) []model.Word {
	words := make([]model.Word, n)
	for i := range words {
		words[i] = model.Word{Value: fmt.Sprintf("w%d", i)}
	}
	return words
}

type reverseShuffler struct{}

func (reverseShuffler) Shuffle(words []model.Word) []model.Word {
	out := make([]model.Word, len(words))
	for i, w := range words {
		out[len(words)-1-i] = w
	}
	return out
}

func typeCurrent(t *testing.T, c *Controller) matcher.Outcome {
	t.Helper()
	return c.Input(c.Current().Value)
}

func TestAutoAdvanceFinishesChapterOnTwentieth(t *testing.T) {
	c, err := New(makeWords(45), Options{Auto: true})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	for i := 0; i < matcher.ChapterSize; i++ {
		out := typeCurrent(t, c)
		if !out.Completed {
			t.Fatalf("word %d: expected completion", i)
		}
		last := i == matcher.ChapterSize-1
		if out.Has(matcher.EventChapterFinished) != last {
			t.Fatalf("word %d: chapter-finished=%v", i, out.Has(matcher.EventChapterFinished))
		}
		if len(out.Deferred) != 1 || out.Deferred[0].Kind != matcher.ActionAdvance {
			t.Fatalf("word %d: expected deferred advance, got %+v", i, out.Deferred)
		}
		res, applied := c.Fire(out.Deferred[0])
		if !applied {
			t.Fatalf("word %d: deferred advance was dropped", i)
		}
		if res.ChapterFinished != last || res.Moved == last {
			t.Fatalf("word %d: unexpected step %+v", i, res)
		}
	}
	if c.Index() != matcher.ChapterSize-1 {
		t.Fatalf("expected to stay on the last word of the chapter, got %d", c.Index())
	}
	if got := c.Stats().CorrectCount; got != matcher.ChapterSize {
		t.Fatalf("expected %d correct words, got %d", matcher.ChapterSize, got)
	}
	if !c.NextChapter() || c.Index() != matcher.ChapterSize || c.Chapter() != 2 {
		t.Fatalf("expected to move to chapter 2, index %d", c.Index())
	}
}

func TestStaleDeferredActionIsDropped(t *testing.T) {
	c, err := New(makeWords(3), Options{Auto: true})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	out := typeCurrent(t, c)
	c.Enter()
	if _, applied := c.Fire(out.Deferred[0]); applied {
		t.Fatalf("expected stale advance to be ignored")
	}
	if c.Index() != 1 {
		t.Fatalf("expected a single advance, index %d", c.Index())
	}
}

func TestClearInputAfterCorrectWithoutAuto(t *testing.T) {
	c, err := New(makeWords(3), Options{})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	out := typeCurrent(t, c)
	if out.Advance != matcher.AdvanceOnEnter {
		t.Fatalf("expected advance on enter, got %v", out.Advance)
	}
	if _, applied := c.Fire(out.Deferred[0]); !applied {
		t.Fatalf("expected clear to apply")
	}
	if c.Word().Input() != "" || c.Index() != 0 {
		t.Fatalf("expected cleared input on the same word")
	}
	res := c.Enter()
	if !res.Moved || c.Index() != 1 {
		t.Fatalf("expected enter to advance, got %+v", res)
	}
}

func TestLastWordFinishesVocabulary(t *testing.T) {
	c, err := New(makeWords(5), Options{Start: 4})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	res := c.Advance()
	if !res.VocabularyFinished || !res.ChapterFinished || res.Moved {
		t.Fatalf("unexpected step %+v", res)
	}
	if c.NextChapter() {
		t.Fatalf("expected no next chapter")
	}
}

func TestDictationSkipAndSummary(t *testing.T) {
	c, err := New(makeWords(25), Options{})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if err := c.SelectChapter(2); err != nil {
		t.Fatalf("select chapter: %v", err)
	}
	if err := c.StartDictation(); err != nil {
		t.Fatalf("start dictation: %v", err)
	}
	if _, total := c.Position(); total != 5 {
		t.Fatalf("expected 5 dictation words, got %d", total)
	}

	first := c.Current().Value
	res := c.Enter()
	if !res.Skipped || !res.Moved {
		t.Fatalf("expected skip to count and move, got %+v", res)
	}

	second := c.Current().Value
	c.Input("x")
	c.Input(second)
	res = c.Enter()
	if res.Skipped {
		t.Fatalf("word typed correctly must not count as skipped")
	}

	for i := 0; i < 2; i++ {
		typeCurrent(t, c)
		c.Enter()
	}
	typeCurrent(t, c)
	res = c.Enter()
	if !res.ChapterFinished {
		t.Fatalf("expected run to finish, got %+v", res)
	}
	if len(res.Deferred) != 1 || res.Deferred[0].Kind != matcher.ActionChapterSound || res.Deferred[0].Delay != matcher.ChapterSoundDelay {
		t.Fatalf("expected delayed chapter sound, got %+v", res.Deferred)
	}

	snap := c.Stats()
	if snap.WrongWords[first] != 1 || snap.WrongWords[second] != 1 {
		t.Fatalf("unexpected tally: %v", snap.WrongWords)
	}
	if snap.ChapterWrongTime != 2 || snap.ChapterCorrectTime != 4 {
		t.Fatalf("unexpected chapter counters: %+v", snap)
	}

	if err := c.StartReview(nil); err != nil {
		t.Fatalf("start review: %v", err)
	}
	if !c.Review() {
		t.Fatalf("expected review run")
	}
	if _, total := c.Position(); total != 2 {
		t.Fatalf("expected 2 review words, got %d", total)
	}
	c.ExitDictation()
	if c.Dictation() || c.Index() != 20 {
		t.Fatalf("expected to return to vocabulary position, index %d", c.Index())
	}
}

func TestStartDictationShufflesMultipleChapters(t *testing.T) {
	c, err := New(makeWords(40), Options{Shuffler: reverseShuffler{}})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if err := c.StartDictation(1, 2); err != nil {
		t.Fatalf("start dictation: %v", err)
	}
	if c.Current().Value != "w39" {
		t.Fatalf("expected shuffled order, got %s", c.Current().Value)
	}
}

func TestReviewWithoutWrongWordsFails(t *testing.T) {
	c, err := New(makeWords(3), Options{})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	if err := c.StartReview(nil); err == nil {
		t.Fatalf("expected error without wrong words")
	}
}

func TestRestartChapterResetsPosition(t *testing.T) {
	c, err := New(makeWords(30), Options{Start: 23})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	gen := c.Generation()
	c.RestartChapter()
	if c.Index() != 20 {
		t.Fatalf("expected chapter start, got %d", c.Index())
	}
	if c.Generation() == gen {
		t.Fatalf("expected generation to change")
	}
	if err := c.SelectChapter(3); err == nil {
		t.Fatalf("expected out of range chapter error")
	}
}

func TestCaptionLines(t *testing.T) {
	words := []model.Word{{
		Value: "music",
		Captions: []model.Caption{
			{Content: "[music]\nplaying"},
			{Content: "♪ la la"},
			{Content: "   "},
			{Content: "third"},
			{Content: "fourth"},
		},
	}}
	c, err := New(words, Options{})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	lines := c.Lines()
	if len(lines) != MaxCaptionLines {
		t.Fatalf("expected %d lines, got %d", MaxCaptionLines, len(lines))
	}
	if lines[0].Target() != "[music] playing" {
		t.Fatalf("expected normalized caption, got %q", lines[0].Target())
	}
	out, err := c.InputLine(0, " music  playing")
	if err != nil {
		t.Fatalf("input line: %v", err)
	}
	if !out.Completed || out.Advance != matcher.AdvanceFocus {
		t.Fatalf("expected line completion with focus advance, got %+v", out)
	}
	out, err = c.InputLine(1, "  la la")
	if err != nil {
		t.Fatalf("input line: %v", err)
	}
	if out.Input != "♪ la la" || !out.Completed {
		t.Fatalf("expected marker normalization, got %q", out.Input)
	}
	if _, err := c.InputLine(5, "x"); err == nil {
		t.Fatalf("expected range error")
	}
	if got := c.Stats().CorrectCount; got != 2 {
		t.Fatalf("expected 2 completed lines, got %d", got)
	}
}

func TestNewRejectsEmptyVocabulary(t *testing.T) {
	if _, err := New(nil, Options{}); err == nil {
		t.Fatalf("expected error for empty vocabulary")
	}
	if _, err := New([]model.Word{{Value: ""}}, Options{}); err == nil {
		t.Fatalf("expected error for empty word")
	}
}
