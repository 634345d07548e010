package matcher

import "sync"

// Stats accumulates counters for a chapter or dictation run.
// Wrong characters are counted per keystroke, successes per completed attempt.
type Stats struct {
	mu sync.Mutex

	correctCount       int
	wrongCount         int
	chapterCorrectTime int
	chapterWrongTime   int
	wordCorrectTime    int
	wordWrongTime      int
	wrongWords         map[string]int
}

// Snapshot is a copy of the counters.
type Snapshot struct {
	CorrectCount       int
	WrongCount         int
	ChapterCorrectTime int
	ChapterWrongTime   int
	WordCorrectTime    int
	WordWrongTime      int
	WrongWords         map[string]int
}

// NewStats returns zeroed stats.
func NewStats() *Stats {
	return &Stats{wrongWords: map[string]int{}}
}

// Apply folds a word outcome for target into the counters.
func (s *Stats) Apply(target string, out Outcome, dictation bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range out.Events {
		switch ev {
		case EventWrongChar:
			s.wrongCount++
			s.wordWrongTime++
			if dictation {
				s.chapterWrongTime++
				s.wrongWords[target]++
			}
		case EventCompleted:
			s.correctCount++
			s.wordCorrectTime++
			if dictation {
				s.chapterCorrectTime++
			}
		}
	}
}

// ApplyLine folds a caption line outcome into the speed counters only.
func (s *Stats) ApplyLine(out Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range out.Events {
		switch ev {
		case EventWrongChar:
			s.wrongCount++
		case EventCompleted:
			s.correctCount++
		}
	}
}

// SkipCurrentTarget records a dictation skip. A target never typed correctly
// counts as a chapter miss and enters the wrong-word tally with 1 when absent.
// It reports whether the skip counted as a miss.
func (s *Stats) SkipCurrentTarget(target string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wordCorrectTime != 0 {
		return false
	}
	s.chapterWrongTime++
	if _, ok := s.wrongWords[target]; !ok {
		s.wrongWords[target] = 1
	}
	return true
}

// ResetTarget clears the per-target counters when a new target becomes active.
func (s *Stats) ResetTarget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wordCorrectTime = 0
	s.wordWrongTime = 0
}

// ResetChapter clears chapter counters and the wrong-word tally.
func (s *Stats) ResetChapter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chapterCorrectTime = 0
	s.chapterWrongTime = 0
	s.wordCorrectTime = 0
	s.wordWrongTime = 0
	s.wrongWords = map[string]int{}
}

// Reset clears everything, speed counters included.
func (s *Stats) Reset() {
	s.ResetChapter()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.correctCount = 0
	s.wrongCount = 0
}

// Snapshot returns a copy safe to read without the lock.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	words := make(map[string]int, len(s.wrongWords))
	for k, v := range s.wrongWords {
		words[k] = v
	}
	return Snapshot{
		CorrectCount:       s.correctCount,
		WrongCount:         s.wrongCount,
		ChapterCorrectTime: s.chapterCorrectTime,
		ChapterWrongTime:   s.chapterWrongTime,
		WordCorrectTime:    s.wordCorrectTime,
		WordWrongTime:      s.wordWrongTime,
		WrongWords:         words,
	}
}
