// Package session drives a chapter or dictation run over a vocabulary.
package session

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/verte-zerg/vocatype/internal/matcher"
	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/vocabulary"
)

// MaxCaptionLines is the number of caption lines typed under a word.
const MaxCaptionLines = 3

// Shuffler reorders dictation and review lists.
type Shuffler interface {
	Shuffle(words []model.Word) []model.Word
}

// Options configures a Controller.
type Options struct {
	Auto         bool
	ClearOnWrong bool
	EastAsian    bool
	MusicMarker  rune
	Start        int
	Shuffler     Shuffler
}

// StepResult describes what an advance did.
type StepResult struct {
	Moved              bool
	Skipped            bool
	ChapterFinished    bool
	VocabularyFinished bool
	Deferred           []matcher.DeferredAction
}

// Controller owns the active target, its attempts and the session stats.
// It performs no I/O; callers persist progress and play cues from the
// returned outcomes.
type Controller struct {
	words []model.Word
	index int

	dictation      bool
	review         bool
	dictationWords []model.Word
	dictationIndex int

	wordMatcher *matcher.Matcher
	lineMatcher *matcher.Matcher
	stats       *matcher.Stats
	shuffler    Shuffler

	word  *matcher.Attempt
	lines []*matcher.Attempt

	generation uint64
}

// New builds a controller positioned at opts.Start.
func New(words []model.Word, opts Options) (*Controller, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("vocabulary has no words")
	}
	if _, i, ok := lo.FindIndexOf(words, func(w model.Word) bool { return w.Value == "" }); ok {
		return nil, fmt.Errorf("word %d has an empty value", i+1)
	}
	marker := opts.MusicMarker
	if marker == 0 {
		marker = matcher.DefaultMusicMarker
	}
	wordMatcher := matcher.New(matcher.ModeWord)
	wordMatcher.Auto = opts.Auto
	wordMatcher.ClearOnWrong = opts.ClearOnWrong
	wordMatcher.MusicMarker = marker
	wordMatcher.EastAsian = opts.EastAsian

	lineMatcher := matcher.New(matcher.ModeLine)
	lineMatcher.MusicMarker = marker
	lineMatcher.EastAsian = opts.EastAsian

	start := opts.Start
	if start < 0 || start >= len(words) {
		start = 0
	}
	c := &Controller{
		words:       words,
		index:       start,
		wordMatcher: wordMatcher,
		lineMatcher: lineMatcher,
		stats:       matcher.NewStats(),
		shuffler:    opts.Shuffler,
	}
	c.activate()
	return c, nil
}

// Current returns the active word.
func (c *Controller) Current() model.Word {
	if c.dictation {
		return c.dictationWords[c.dictationIndex]
	}
	return c.words[c.index]
}

// Index returns the position in the vocabulary.
func (c *Controller) Index() int {
	return c.index
}

// Position returns the 1-based position and the size of the active list.
func (c *Controller) Position() (int, int) {
	if c.dictation {
		return c.dictationIndex + 1, len(c.dictationWords)
	}
	return c.index + 1, len(c.words)
}

// Chapter returns the 1-based chapter of the vocabulary position.
func (c *Controller) Chapter() int {
	return matcher.ChapterOf(c.index)
}

// ChapterCount returns the number of chapters in the vocabulary.
func (c *Controller) ChapterCount() int {
	return matcher.ChapterCount(len(c.words))
}

// Dictation reports whether a dictation or review run is active.
func (c *Controller) Dictation() bool {
	return c.dictation
}

// Review reports whether the dictation run replays wrong words.
func (c *Controller) Review() bool {
	return c.review
}

// Auto reports whether completed words advance on their own.
func (c *Controller) Auto() bool {
	return c.wordMatcher.Auto
}

// SetAuto toggles auto-advance.
func (c *Controller) SetAuto(auto bool) {
	c.wordMatcher.Auto = auto
}

// Generation changes whenever the active target changes.
func (c *Controller) Generation() uint64 {
	return c.generation
}

// Stats returns a snapshot of the session counters.
func (c *Controller) Stats() matcher.Snapshot {
	return c.stats.Snapshot()
}

// Word returns the attempt for the active word.
func (c *Controller) Word() *matcher.Attempt {
	return c.word
}

// Lines returns the caption attempts of the active word.
func (c *Controller) Lines() []*matcher.Attempt {
	return c.lines
}

// Input evaluates the word field value.
func (c *Controller) Input(value string) matcher.Outcome {
	out := c.word.Update(c.wordMatcher, value)
	c.stats.Apply(c.word.Target(), out, c.dictation)
	if out.Completed && out.Advance == matcher.AdvanceAfterDelay && c.atChapterEnd() {
		out.Events = append(out.Events, matcher.EventChapterFinished)
	}
	c.stamp(out.Deferred)
	return out
}

// InputLine evaluates the value of caption line i.
func (c *Controller) InputLine(i int, value string) (matcher.Outcome, error) {
	if i < 0 || i >= len(c.lines) {
		return matcher.Outcome{}, fmt.Errorf("caption line %d out of range", i)
	}
	out := c.lines[i].Update(c.lineMatcher, value)
	c.stats.ApplyLine(out)
	c.stamp(out.Deferred)
	return out, nil
}

// Enter handles an explicit advance. In dictation mode an empty field skips the word.
func (c *Controller) Enter() StepResult {
	skipped := false
	if c.dictation && c.word.Input() == "" {
		skipped = c.stats.SkipCurrentTarget(c.word.Target())
	}
	res := c.Advance()
	res.Skipped = skipped
	return res
}

// Advance moves to the next target unless the chapter or run just finished.
func (c *Controller) Advance() StepResult {
	var res StepResult
	c.stats.ResetTarget()
	if c.dictation {
		if c.dictationIndex+1 >= len(c.dictationWords) {
			res.ChapterFinished = true
			c.bump()
			res.Deferred = []matcher.DeferredAction{{Kind: matcher.ActionChapterSound, Delay: matcher.ChapterSoundDelay}}
			c.stamp(res.Deferred)
			return res
		}
		c.dictationIndex++
		res.Moved = true
		c.activate()
		return res
	}
	switch {
	case c.index == len(c.words)-1:
		res.VocabularyFinished = true
		res.ChapterFinished = true
		c.bump()
	case (c.index+1)%matcher.ChapterSize == 0:
		res.ChapterFinished = true
		c.bump()
	default:
		c.index++
		res.Moved = true
		c.activate()
	}
	return res
}

// Fire applies a deferred action. Stale actions are ignored and reported as not applied.
func (c *Controller) Fire(action matcher.DeferredAction) (StepResult, bool) {
	if action.Generation != c.generation {
		return StepResult{}, false
	}
	switch action.Kind {
	case matcher.ActionAdvance:
		return c.Advance(), true
	case matcher.ActionClearInput, matcher.ActionClearWrong:
		c.word.Reset()
		return StepResult{}, true
	default:
		return StepResult{}, true
	}
}

// RestartChapter replays the current chapter or dictation run with fresh counters.
func (c *Controller) RestartChapter() {
	c.stats.ResetChapter()
	if c.dictation {
		c.dictationIndex = 0
		if c.shuffler != nil {
			c.dictationWords = c.shuffler.Shuffle(c.dictationWords)
		}
	} else {
		start, _ := matcher.ChapterBounds(c.Chapter(), len(c.words))
		c.index = start
	}
	c.activate()
}

// NextChapter moves to the start of the following chapter. It reports false at the last chapter.
func (c *Controller) NextChapter() bool {
	if c.dictation {
		return false
	}
	next := c.Chapter() + 1
	if next > c.ChapterCount() {
		return false
	}
	if err := c.SelectChapter(next); err != nil {
		return false
	}
	return true
}

// SelectChapter moves to the start of a 1-based chapter.
func (c *Controller) SelectChapter(chapter int) error {
	if chapter < 1 || chapter > c.ChapterCount() {
		return fmt.Errorf("chapter %d out of range (1-%d)", chapter, c.ChapterCount())
	}
	start, _ := matcher.ChapterBounds(chapter, len(c.words))
	c.dictation = false
	c.review = false
	c.index = start
	c.stats.ResetChapter()
	c.activate()
	return nil
}

// StartDictation runs dictation over the given chapters, the current one when none is given.
func (c *Controller) StartDictation(chapters ...int) error {
	if len(chapters) == 0 {
		chapters = []int{c.Chapter()}
	}
	words := vocabulary.SelectChapters(c.words, chapters)
	if len(words) == 0 {
		return fmt.Errorf("no words in chapters %v", chapters)
	}
	if len(chapters) > 1 && c.shuffler != nil {
		words = c.shuffler.Shuffle(words)
	}
	c.startRun(words, false)
	return nil
}

// StartReview runs dictation over words, or over the current wrong-word tally when words is empty.
func (c *Controller) StartReview(words []model.Word) error {
	if len(words) == 0 {
		tally := c.stats.Snapshot().WrongWords
		words = lo.Filter(c.words, func(w model.Word, _ int) bool {
			_, ok := tally[w.Value]
			return ok
		})
		words = lo.UniqBy(words, func(w model.Word) string { return w.Value })
	}
	if len(words) == 0 {
		return fmt.Errorf("no wrong words to review")
	}
	if c.shuffler != nil {
		words = c.shuffler.Shuffle(words)
	}
	c.startRun(words, true)
	return nil
}

// ExitDictation returns to the vocabulary position.
func (c *Controller) ExitDictation() {
	if !c.dictation {
		return
	}
	c.dictation = false
	c.review = false
	c.dictationWords = nil
	c.dictationIndex = 0
	c.stats.ResetChapter()
	c.activate()
}

func (c *Controller) startRun(words []model.Word, review bool) {
	c.dictation = true
	c.review = review
	c.dictationWords = words
	c.dictationIndex = 0
	c.stats.ResetChapter()
	c.activate()
}

func (c *Controller) atChapterEnd() bool {
	if c.dictation {
		return c.dictationIndex+1 >= len(c.dictationWords)
	}
	return matcher.IsChapterEnd(c.index, len(c.words))
}

func (c *Controller) activate() {
	c.bump()
	c.stats.ResetTarget()
	word := c.Current()
	c.word = matcher.NewAttempt(word.Value)
	c.lines = nil
	for _, caption := range word.Captions {
		if len(c.lines) == MaxCaptionLines {
			break
		}
		content := vocabulary.NormalizeTarget(caption.Content)
		if content == "" {
			continue
		}
		c.lines = append(c.lines, matcher.NewAttempt(content))
	}
}

func (c *Controller) bump() {
	c.generation++
	if c.word != nil {
		c.word.Reset()
	}
	for _, line := range c.lines {
		line.Reset()
	}
}

func (c *Controller) stamp(actions []matcher.DeferredAction) {
	for i := range actions {
		actions[i].Generation = c.generation
	}
}
