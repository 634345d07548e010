// Package matcher scores typed input against a target string.
package matcher

import (
	"time"

	"github.com/mattn/go-runewidth"
)

// DefaultMusicMarker is the note symbol used in lyric captions.
const DefaultMusicMarker = '♪'

// Delays requested from the caller through deferred actions.
const (
	AdvanceDelay      = 50 * time.Millisecond
	ClearInputDelay   = 50 * time.Millisecond
	ClearWrongDelay   = 50 * time.Millisecond
	ChapterSoundDelay = time.Second
)

// Mode selects how a completed attempt advances.
type Mode int

const (
	// ModeWord is the single word view.
	ModeWord Mode = iota
	// ModeLine is a caption line; full correct input moves focus on.
	ModeLine
)

// Event is something the caller reacts to (sound, navigation, stats).
type Event int

const (
	EventOverflow Event = iota + 1
	EventWrongChar
	EventCompleted
	EventChapterFinished
)

func (e Event) String() string {
	switch e {
	case EventOverflow:
		return "overflow"
	case EventWrongChar:
		return "wrong-char"
	case EventCompleted:
		return "completed"
	case EventChapterFinished:
		return "chapter-finished"
	default:
		return "unknown"
	}
}

// Advance tells the caller how to move past a completed attempt.
type Advance int

const (
	AdvanceNone Advance = iota
	AdvanceOnEnter
	AdvanceAfterDelay
	AdvanceFocus
)

// ActionKind names a deferred action.
type ActionKind int

const (
	ActionAdvance ActionKind = iota + 1
	ActionClearInput
	ActionClearWrong
	ActionChapterSound
)

// DeferredAction is a one-shot action the caller schedules after Delay.
// Generation is stamped by the owner of the attempt; an action whose
// generation is stale must be dropped.
type DeferredAction struct {
	Kind       ActionKind
	Delay      time.Duration
	Generation uint64
}

// Mark is the scored state of one typed position.
type Mark struct {
	Char    rune
	Typed   rune
	Correct bool
}

// Outcome is the render-ready result of one evaluation.
type Outcome struct {
	// Input is the normalized input the text field should hold.
	Input      string
	Result     []Mark
	Completed  bool
	Events     []Event
	WrongChars int
	Advance    Advance
	Deferred   []DeferredAction
}

// Has reports whether the outcome carries the event.
func (o Outcome) Has(e Event) bool {
	for _, ev := range o.Events {
		if ev == e {
			return true
		}
	}
	return false
}

// Matcher compares input against targets. The zero value is not usable; use New.
type Matcher struct {
	Mode         Mode
	Auto         bool
	ClearOnWrong bool
	MusicMarker  rune
	// EastAsian makes ambiguous-width runes (the note symbol among them) two columns wide.
	EastAsian bool
}

// New returns a matcher for the mode with the default music marker.
func New(mode Mode) *Matcher {
	return &Matcher{Mode: mode, MusicMarker: DefaultMusicMarker}
}

// Evaluate scores newInput, the full current text of the input field, against target.
// previousInput is the text evaluated last time for the same target and is only
// used to decide which mismatches are new.
func (m *Matcher) Evaluate(target, previousInput, newInput string) Outcome {
	targetRunes := []rune(target)
	if len(targetRunes) == 0 {
		panic("matcher: empty target")
	}
	inputRunes := []rune(newInput)
	if len(inputRunes) > len(targetRunes) {
		return Outcome{Events: []Event{EventOverflow}}
	}
	prevRunes := []rune(previousInput)

	out := Outcome{Result: make([]Mark, 0, len(inputRunes))}
	allCorrect := true
	for i := 0; i < len(inputRunes); i++ {
		typed := inputRunes[i]
		want := targetRunes[i]
		switch {
		case typed == want:
			out.Result = append(out.Result, Mark{Char: typed, Typed: typed, Correct: true})
		case typed == ' ' && (want == '[' || want == ']'):
			out.Result = append(out.Result, Mark{Char: want, Typed: typed, Correct: true})
		case typed == ' ' && want == m.MusicMarker:
			out.Result = append(out.Result, Mark{Char: want, Typed: typed, Correct: true})
			inputRunes[i] = want
			if m.markerIsWide() && i+1 < len(inputRunes) && inputRunes[i+1] == ' ' && targetRunes[i+1] != ' ' {
				inputRunes = append(inputRunes[:i+1], inputRunes[i+2:]...)
			}
		default:
			allCorrect = false
			out.Result = append(out.Result, Mark{Char: want, Typed: typed, Correct: false})
			if i >= len(prevRunes) || prevRunes[i] != typed {
				out.WrongChars++
				out.Events = append(out.Events, EventWrongChar)
			}
		}
	}
	out.Input = string(inputRunes)

	if allCorrect && len(out.Result) == len(targetRunes) {
		out.Completed = true
		out.Events = append(out.Events, EventCompleted)
	}
	m.planAdvance(&out)
	return out
}

func (m *Matcher) planAdvance(out *Outcome) {
	if !out.Completed {
		if m.Mode == ModeWord && m.ClearOnWrong && out.WrongChars > 0 {
			out.Deferred = append(out.Deferred, DeferredAction{Kind: ActionClearWrong, Delay: ClearWrongDelay})
		}
		return
	}
	switch {
	case m.Mode == ModeLine:
		out.Advance = AdvanceFocus
	case m.Auto:
		out.Advance = AdvanceAfterDelay
		out.Deferred = append(out.Deferred, DeferredAction{Kind: ActionAdvance, Delay: AdvanceDelay})
	default:
		out.Advance = AdvanceOnEnter
		out.Deferred = append(out.Deferred, DeferredAction{Kind: ActionClearInput, Delay: ClearInputDelay})
	}
}

func (m *Matcher) markerIsWide() bool {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = m.EastAsian
	return cond.RuneWidth(m.MusicMarker) == 2
}
