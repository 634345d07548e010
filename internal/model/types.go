// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	VocabularyPath    string
	Chapter           int
	Auto              bool
	Dictation         bool
	// DictationChapters selects the chapters of a shuffled dictation run.
	DictationChapters []int
	ClearOnWrong      bool
	Sound             bool
	EastAsian         bool
	MusicMarker       rune
	Review            bool
	ReviewWindow      int
	ReviewFactor      float64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Vocabulary  string
	Since       *time.Time
	Last        int
	CurveWindow int
	Top         int
}

// Vocabulary is an ordered list of words with the metadata of its source file.
type Vocabulary struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Language string `json:"language"`
	Size     int    `json:"size"`
	WordList []Word `json:"wordList"`
}

// Word is one vocabulary entry. Value is the spelling the learner types.
type Word struct {
	Value       string    `json:"value"`
	USPhone     string    `json:"usphone,omitempty"`
	UKPhone     string    `json:"ukphone,omitempty"`
	Definition  string    `json:"definition,omitempty"`
	Translation string    `json:"translation,omitempty"`
	Captions    []Caption `json:"captions,omitempty"`
}

// Caption is a subtitle line linked to a word.
type Caption struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Content string `json:"content"`
}

// SessionRecord captures a finished chapter or dictation run.
type SessionRecord struct {
	RunID              string
	StartedAt          time.Time
	EndedAt            time.Time
	Vocabulary         string
	Dictation          bool
	Chapter            int
	CorrectCount       int
	WrongCount         int
	ChapterCorrectTime int
	ChapterWrongTime   int
	DurationMs         int64
}

// WrongWord stores how often a word was missed in a session.
type WrongWord struct {
	Word  string
	Count int
}

// WrongWordAggregate aggregates misses of a word across sessions.
type WrongWordAggregate struct {
	Word     string
	Count    int
	Sessions int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Correct    int
	Wrong      int
	DurationMs int64
}

// Progress is the persisted position inside a vocabulary.
type Progress struct {
	Vocabulary string
	Index      int
	Chapter    int
	UpdatedAt  time.Time
}
