package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/vocatype/internal/model"
)

type fakeSource struct {
	sessions []model.SessionAggregate
	wrong    map[int64][]model.WrongWordAggregate
	err      error
	lastCfg  model.StatsConfig
}

func (f *fakeSource) ListSessions(_ context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	f.lastCfg = cfg
	return f.sessions, f.err
}

func (f *fakeSource) ListWrongWordsForSessions(_ context.Context, ids []int64) ([]model.WrongWordAggregate, error) {
	totals := map[string]*model.WrongWordAggregate{}
	var out []model.WrongWordAggregate
	for _, id := range ids {
		for _, agg := range f.wrong[id] {
			if cur, ok := totals[agg.Word]; ok {
				cur.Count += agg.Count
				cur.Sessions++
				continue
			}
			a := agg
			totals[agg.Word] = &a
		}
	}
	for _, agg := range totals {
		out = append(out, *agg)
	}
	return out, nil
}

func TestWordRowsOrderAndRecent(t *testing.T) {
	all := []model.WrongWordAggregate{
		{Word: "pear", Count: 1, Sessions: 1},
		{Word: "apple", Count: 4, Sessions: 2},
	}
	window := []model.WrongWordAggregate{{Word: "apple", Count: 3, Sessions: 1}}
	rows := wordRows(all, window)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "apple" || rows[0][1] != "4" || rows[0][3] != "3" {
		t.Fatalf("unexpected first row %v", rows[0])
	}
	if rows[1][0] != "pear" || rows[1][3] != "0" {
		t.Fatalf("unexpected second row %v", rows[1])
	}
}

func TestParseFilter(t *testing.T) {
	inputs := make([]textinput.Model, 4)
	for i := range inputs {
		inputs[i] = textinput.New()
	}
	inputs[filterVocabulary].SetValue(" movie ")
	inputs[filterSince].SetValue("2024-02-03")
	inputs[filterLast].SetValue("5")
	inputs[filterWindow].SetValue("3")
	cfg, err := parseFilter(inputs, 7)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cfg.Vocabulary != "movie" || cfg.Last != 5 || cfg.CurveWindow != 3 || cfg.Top != 7 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Since == nil || cfg.Since.Day() != 3 {
		t.Fatalf("unexpected since %v", cfg.Since)
	}

	inputs[filterWindow].SetValue("0")
	if _, err := parseFilter(inputs, 0); err == nil {
		t.Fatalf("expected window error")
	}
	inputs[filterWindow].SetValue("")
	inputs[filterSince].SetValue("03/02/2024")
	if _, err := parseFilter(inputs, 0); err == nil {
		t.Fatalf("expected since error")
	}
}

func TestModelRendersTabs(t *testing.T) {
	src := &fakeSource{
		sessions: []model.SessionAggregate{
			{SessionID: 1, Correct: 20, Wrong: 2, DurationMs: 60000},
			{SessionID: 2, Correct: 20, Wrong: 0, DurationMs: 30000},
		},
		wrong: map[int64][]model.WrongWordAggregate{
			1: {{Word: "apple", Count: 2, Sessions: 1}},
		},
	}
	m := NewModel(src, model.StatsConfig{CurveWindow: 1})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	if !strings.Contains(view, "Overview") || !strings.Contains(view, "Best WPM") {
		t.Fatalf("unexpected overview:\n%s", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabWrongWords {
		t.Fatalf("expected wrong words tab")
	}
	if !strings.Contains(m.View(), "apple") {
		t.Fatalf("expected apple in wrong words table:\n%s", m.View())
	}
}

func TestModelShowsLoadError(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	m := NewModel(src, model.StatsConfig{CurveWindow: 1})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "boom") {
		t.Fatalf("expected error in footer:\n%s", m.View())
	}
}

func TestFilterAppliesConfig(t *testing.T) {
	src := &fakeSource{}
	m := NewModel(src, model.StatsConfig{CurveWindow: 1})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("movie")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode || src.lastCfg.Vocabulary != "movie" {
		t.Fatalf("expected vocabulary filter to apply, got %+v", src.lastCfg)
	}
}
