// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/vocatype/internal/matcher"
	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/session"
	statsPkg "github.com/verte-zerg/vocatype/internal/stats"
)

// Store persists finished runs and the position inside a vocabulary.
type Store interface {
	InsertSession(ctx context.Context, rec model.SessionRecord, wrong []model.WrongWord) (int64, error)
	SaveProgress(ctx context.Context, p model.Progress) error
}

// Options configures the typing UI.
type Options struct {
	Vocabulary string
	Sound      bool
	Store      Store
	Logger     *logrus.Logger
	// Bell receives the terminal bell for cues. Defaults to stderr.
	Bell io.Writer
}

type deferredMsg struct {
	action matcher.DeferredAction
}

type cue int

const (
	cueWrong cue = iota
	cueSuccess
	cueChapter
)

func (c cue) String() string {
	switch c {
	case cueWrong:
		return "wrong"
	case cueSuccess:
		return "success"
	default:
		return "chapter"
	}
}

type chapterSummary struct {
	chapter            int
	dictation          bool
	review             bool
	vocabularyFinished bool
	correct            int
	wrong              int
	chapterCorrect     int
	chapterWrong       int
	wrongWords         []model.WrongWord
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctrl       *session.Controller
	store      Store
	log        *logrus.Logger
	vocabulary string
	sound      bool
	bell       io.Writer

	word  textinput.Model
	lines []textinput.Model
	focus int

	width  int
	height int

	runID     string
	started   bool
	startedAt time.Time
	base      matcher.Snapshot

	summary *chapterSummary
	status  string
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	infoStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	summaryStyle     = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A")).
				Padding(1, 2)
)

// NewModel constructs a typing TUI model over ctrl.
func NewModel(ctrl *session.Controller, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	bell := opts.Bell
	if bell == nil {
		bell = os.Stderr
	}
	m := &Model{
		ctrl:       ctrl,
		store:      opts.Store,
		log:        logger,
		vocabulary: opts.Vocabulary,
		sound:      opts.Sound,
		bell:       bell,
	}
	m.resetRun()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeInputs()
		return m, nil
	case deferredMsg:
		return m, m.fire(msg.action)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, m.updateFocused(msg)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	contentWidth := int(float64(m.width) * 0.70)
	var content string
	if m.summary != nil {
		content = m.renderSummary()
	} else {
		content = m.renderTyping(contentWidth)
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c", "esc":
		return tea.Quit
	case "ctrl+a":
		m.ctrl.SetAuto(!m.ctrl.Auto())
		return nil
	case "ctrl+r":
		m.ctrl.RestartChapter()
		return m.resetRun()
	case "ctrl+n":
		m.ctrl.ExitDictation()
		if !m.ctrl.NextChapter() {
			m.status = "already at the last chapter"
			return nil
		}
		return m.resetRun()
	case "ctrl+d":
		if err := m.ctrl.StartDictation(); err != nil {
			m.status = err.Error()
			return nil
		}
		return m.resetRun()
	case "ctrl+w":
		if err := m.ctrl.StartReview(nil); err != nil {
			m.status = err.Error()
			return nil
		}
		return m.resetRun()
	case "tab":
		if m.summary != nil {
			return nil
		}
		return m.cycleFocus(1)
	case "shift+tab":
		if m.summary != nil {
			return nil
		}
		return m.cycleFocus(-1)
	case "enter":
		if m.summary != nil {
			return m.continueAfterSummary()
		}
		if m.focus != 0 {
			return m.cycleFocus(1)
		}
		return m.step(m.ctrl.Enter())
	}
	if m.summary != nil {
		return nil
	}
	return m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == 0 {
		prev := m.word.Value()
		m.word, cmd = m.word.Update(msg)
		if m.word.Value() == prev {
			return cmd
		}
		return tea.Batch(cmd, m.inputWord(m.word.Value()))
	}
	i := m.focus - 1
	prev := m.lines[i].Value()
	m.lines[i], cmd = m.lines[i].Update(msg)
	if m.lines[i].Value() == prev {
		return cmd
	}
	return tea.Batch(cmd, m.inputLine(i, m.lines[i].Value()))
}

func (m *Model) inputWord(value string) tea.Cmd {
	m.markStarted()
	out := m.ctrl.Input(value)
	if m.word.Value() != out.Input {
		m.word.SetValue(out.Input)
		m.word.CursorEnd()
	}
	m.cueOutcome(out)
	return tea.Batch(m.schedule(out.Deferred)...)
}

func (m *Model) inputLine(i int, value string) tea.Cmd {
	m.markStarted()
	out, err := m.ctrl.InputLine(i, value)
	if err != nil {
		m.log.WithError(err).Warn("caption input rejected")
		return nil
	}
	if m.lines[i].Value() != out.Input {
		m.lines[i].SetValue(out.Input)
		m.lines[i].CursorEnd()
	}
	m.cueOutcome(out)
	cmds := m.schedule(out.Deferred)
	if out.Advance == matcher.AdvanceFocus {
		cmds = append(cmds, m.cycleFocus(1))
	}
	return tea.Batch(cmds...)
}

func (m *Model) fire(action matcher.DeferredAction) tea.Cmd {
	res, ok := m.ctrl.Fire(action)
	if !ok {
		m.log.WithField("generation", action.Generation).Debug("dropped stale action")
		return nil
	}
	switch action.Kind {
	case matcher.ActionAdvance:
		return m.step(res)
	case matcher.ActionClearInput, matcher.ActionClearWrong:
		m.word.SetValue(m.ctrl.Word().Input())
		m.word.CursorEnd()
	case matcher.ActionChapterSound:
		m.ring(cueChapter)
	}
	return nil
}

func (m *Model) step(res session.StepResult) tea.Cmd {
	if res.Skipped {
		m.ring(cueWrong)
	}
	var cmds []tea.Cmd
	switch {
	case res.ChapterFinished:
		m.finishChapter(res.VocabularyFinished)
		if len(res.Deferred) == 0 {
			m.ring(cueChapter)
		}
	case res.Moved:
		m.saveProgress()
		cmds = append(cmds, m.syncInputs())
	}
	cmds = append(cmds, m.schedule(res.Deferred)...)
	return tea.Batch(cmds...)
}

func (m *Model) continueAfterSummary() tea.Cmd {
	s := m.summary
	m.summary = nil
	switch {
	case s.dictation:
		m.ctrl.ExitDictation()
	case s.vocabularyFinished:
		if err := m.ctrl.SelectChapter(1); err != nil {
			m.log.WithError(err).Warn("failed to rewind vocabulary")
		}
	default:
		m.ctrl.NextChapter()
	}
	return m.resetRun()
}

func (m *Model) finishChapter(vocabularyFinished bool) {
	snap := m.ctrl.Stats()
	s := &chapterSummary{
		chapter:            m.ctrl.Chapter(),
		dictation:          m.ctrl.Dictation(),
		review:             m.ctrl.Review(),
		vocabularyFinished: vocabularyFinished,
		correct:            snap.CorrectCount - m.base.CorrectCount,
		wrong:              snap.WrongCount - m.base.WrongCount,
		chapterCorrect:     snap.ChapterCorrectTime,
		chapterWrong:       snap.ChapterWrongTime,
		wrongWords:         sortedWrongWords(snap.WrongWords),
	}
	m.summary = s
	m.record(s)
}

func (m *Model) record(s *chapterSummary) {
	if m.store == nil {
		return
	}
	ended := time.Now()
	started := m.startedAt
	if !m.started {
		started = ended
	}
	rec := model.SessionRecord{
		RunID:              m.runID,
		StartedAt:          started,
		EndedAt:            ended,
		Vocabulary:         m.vocabulary,
		Dictation:          s.dictation,
		Chapter:            s.chapter,
		CorrectCount:       s.correct,
		WrongCount:         s.wrong,
		ChapterCorrectTime: s.chapterCorrect,
		ChapterWrongTime:   s.chapterWrong,
		DurationMs:         ended.Sub(started).Milliseconds(),
	}
	id, err := m.store.InsertSession(context.Background(), rec, s.wrongWords)
	if err != nil {
		m.log.WithError(err).Error("failed to save session")
		return
	}
	m.log.WithFields(logrus.Fields{
		"session": id,
		"run":     m.runID,
		"chapter": s.chapter,
	}).Info("session saved")
}

func (m *Model) saveProgress() {
	if m.store == nil || m.ctrl.Dictation() {
		return
	}
	p := model.Progress{
		Vocabulary: m.vocabulary,
		Index:      m.ctrl.Index(),
		Chapter:    m.ctrl.Chapter(),
	}
	if err := m.store.SaveProgress(context.Background(), p); err != nil {
		m.log.WithError(err).Error("failed to save progress")
	}
}

// resetRun starts a fresh run for the current chapter or dictation list.
func (m *Model) resetRun() tea.Cmd {
	m.summary = nil
	m.status = ""
	m.runID = uuid.NewString()
	m.started = false
	m.startedAt = time.Time{}
	m.base = m.ctrl.Stats()
	m.saveProgress()
	return m.syncInputs()
}

func (m *Model) markStarted() {
	if m.started {
		return
	}
	m.started = true
	m.startedAt = time.Now()
}

// syncInputs rebuilds the text fields for the active target.
func (m *Model) syncInputs() tea.Cmd {
	m.word = newInput("> ")
	m.word.SetValue(m.ctrl.Word().Input())
	attempts := m.ctrl.Lines()
	m.lines = make([]textinput.Model, len(attempts))
	for i, line := range attempts {
		m.lines[i] = newInput(fmt.Sprintf("%d> ", i+1))
		m.lines[i].SetValue(line.Input())
	}
	m.resizeInputs()
	m.focus = 0
	return m.word.Focus()
}

func (m *Model) cycleFocus(delta int) tea.Cmd {
	total := 1 + len(m.lines)
	m.focus = ((m.focus+delta)%total + total) % total
	m.word.Blur()
	for i := range m.lines {
		m.lines[i].Blur()
	}
	if m.focus == 0 {
		return m.word.Focus()
	}
	return m.lines[m.focus-1].Focus()
}

func (m *Model) resizeInputs() {
	width := int(float64(m.width) * 0.70)
	if width <= 0 {
		return
	}
	m.word.Width = width
	for i := range m.lines {
		m.lines[i].Width = width
	}
}

func (m *Model) schedule(actions []matcher.DeferredAction) []tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(actions))
	for _, action := range actions {
		cmds = append(cmds, tea.Tick(action.Delay, func(time.Time) tea.Msg {
			return deferredMsg{action: action}
		}))
	}
	return cmds
}

func (m *Model) cueOutcome(out matcher.Outcome) {
	switch {
	case out.Has(matcher.EventOverflow):
		// The field is cleared silently.
	case out.WrongChars > 0:
		for i := 0; i < out.WrongChars; i++ {
			m.ring(cueWrong)
		}
	case out.Completed:
		m.ring(cueSuccess)
	}
}

func (m *Model) ring(c cue) {
	m.log.WithField("cue", c.String()).Debug("cue")
	if !m.sound {
		return
	}
	bells := "\a"
	if c == cueChapter {
		bells = "\a\a"
	}
	if _, err := io.WriteString(m.bell, bells); err != nil {
		m.log.WithError(err).Debug("bell failed")
	}
}

func (m *Model) renderTyping(width int) string {
	word := m.ctrl.Current()
	attempt := m.ctrl.Word()
	target := []rune(attempt.Target())
	marks := attempt.Result()
	hidden := m.ctrl.Dictation()

	parts := []string{wrapStyledRunes(buildStyledRunes(target, marks, cursorFor(target, marks), hidden), width)}
	if !hidden {
		if phone := phonetics(word); phone != "" {
			parts = append(parts, infoStyle.Render(phone))
		}
	}
	for _, text := range []string{word.Definition, word.Translation} {
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, infoStyle.Render(text))
		}
	}
	parts = append(parts, "", m.word.View())
	for i, line := range m.ctrl.Lines() {
		if i >= len(m.lines) {
			break
		}
		lt := []rune(line.Target())
		lm := line.Result()
		parts = append(parts, "", wrapStyledRunes(buildStyledRunes(lt, lm, cursorFor(lt, lm), false), width), m.lines[i].View())
	}
	if m.status != "" {
		parts = append(parts, "", errorStyle.Render(m.status))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderSummary() string {
	s := m.summary
	title := fmt.Sprintf("Chapter %d finished", s.chapter)
	switch {
	case s.review:
		title = "Review finished"
	case s.dictation:
		title = "Dictation finished"
	case s.vocabularyFinished:
		title = "Vocabulary finished"
	}
	lines := []string{
		correctStyle.Bold(true).Render(title),
		"",
		fmt.Sprintf("Correct %d  Wrong %d", s.correct, s.wrong),
	}
	if s.dictation {
		lines = append(lines, fmt.Sprintf("Words right %d  Words missed %d", s.chapterCorrect, s.chapterWrong))
	}
	if len(s.wrongWords) > 0 {
		lines = append(lines, "", "Wrong words:")
		for _, w := range s.wrongWords {
			lines = append(lines, incorrectStyle.Render(fmt.Sprintf("  %s x%d", w.Word, w.Count)))
		}
	}
	lines = append(lines, "", footerStyle.Render("enter: continue  ctrl+r: again  ctrl+d: dictation  ctrl+w: review  esc: quit"))
	return summaryStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	pos, total := m.ctrl.Position()
	segments := []string{fmt.Sprintf("Word %d/%d", pos, total)}
	if !m.ctrl.Dictation() {
		segments = append(segments, fmt.Sprintf("Chapter %d/%d", m.ctrl.Chapter(), m.ctrl.ChapterCount()))
	}
	wpm, acc := m.runMetrics(time.Now())
	segments = append(segments, fmt.Sprintf("%.1f WPM · %.1f%%", wpm, acc*100))
	switch {
	case m.ctrl.Review():
		segments = append(segments, "Review")
	case m.ctrl.Dictation():
		segments = append(segments, "Dictation")
	}
	if m.ctrl.Auto() {
		segments = append(segments, "Auto")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) runMetrics(now time.Time) (wpm, accuracy float64) {
	snap := m.ctrl.Stats()
	correct := snap.CorrectCount - m.base.CorrectCount
	wrong := snap.WrongCount - m.base.WrongCount
	var durationMs int64
	if m.started {
		durationMs = now.Sub(m.startedAt).Milliseconds()
	}
	return statsPkg.SessionMetrics(correct, wrong, durationMs)
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	return input
}

func phonetics(w model.Word) string {
	var parts []string
	if w.USPhone != "" {
		parts = append(parts, "US /"+w.USPhone+"/")
	}
	if w.UKPhone != "" {
		parts = append(parts, "UK /"+w.UKPhone+"/")
	}
	return strings.Join(parts, "  ")
}

func sortedWrongWords(tally map[string]int) []model.WrongWord {
	words := lo.MapToSlice(tally, func(word string, count int) model.WrongWord {
		return model.WrongWord{Word: word, Count: count}
	})
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count == words[j].Count {
			return words[i].Word < words[j].Word
		}
		return words[i].Count > words[j].Count
	})
	return words
}
