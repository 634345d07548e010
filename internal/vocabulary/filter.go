package vocabulary

import (
	"strings"
	"unicode"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific filter for word values.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "en", "english":
		return filterEnglish
	default:
		return filterTypable
	}
}

func filterEnglish(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case ch == '\'', ch == '-', ch == '.', ch == ' ':
		default:
			return false
		}
	}
	return true
}

func filterTypable(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
