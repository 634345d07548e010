package tui

import (
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/vocatype/internal/matcher"
)

const hiddenRune = '_'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes colors target by the marks of the last evaluation. Typed
// positions show the target character; a wrong space shows a dot. When hidden
// is set, untyped letters are masked.
func buildStyledRunes(target []rune, marks []matcher.Mark, cursorIndex int, hidden bool) []styledRune {
	words := findWords(target)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(target))
	for i, want := range target {
		displayed := want
		style := pendingStyle
		if i < len(marks) {
			mark := marks[i]
			switch {
			case mark.Correct:
				style = correctStyle
			case want == ' ':
				displayed = '•'
				style = incorrectStyle
			default:
				style = incorrectStyle
			}
		} else if want != ' ' {
			if hidden {
				displayed = hiddenRune
			}
			if currentWord != nil && i >= currentWord.start && i < currentWord.end {
				style = currentWordStyle
			}
		}
		if i == cursorIndex && i >= len(marks) {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: want == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(target []rune) []wordRange {
	var words []wordRange
	start := -1
	for i, r := range target {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(target)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 {
		return nil
	}
	if cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return &words[len(words)-1]
}

func cursorFor(target []rune, marks []matcher.Mark) int {
	if len(marks) >= len(target) {
		return -1
	}
	return len(marks)
}
