package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/vocatype/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	wpm, acc := SessionMetrics(30, 10, 60000)
	if wpm != 30 {
		t.Fatalf("expected 30 wpm, got %.2f", wpm)
	}
	if acc != 0.75 {
		t.Fatalf("expected 0.75 accuracy, got %.2f", acc)
	}
	wpm, acc = SessionMetrics(5, 0, 0)
	if wpm != 0 || acc != 1 {
		t.Fatalf("expected zero speed and full accuracy without duration, got %.2f %.2f", wpm, acc)
	}
}

func TestMovingAverage(t *testing.T) {
	out := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: expected %.1f, got %.1f", i, want[i], out[i])
		}
	}
}

func TestSparklineFlat(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "===" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 10}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
}

func TestRenderWrongWordTableTop(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.WrongWordAggregate{
		{Word: "pear", Count: 1, Sessions: 1},
		{Word: "apple", Count: 5, Sessions: 2},
		{Word: "fig", Count: 5, Sessions: 3},
	}
	if err := RenderWrongWordTable(&buf, aggs, 2); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "apple") || !strings.Contains(out, "fig") || strings.Contains(out, "pear") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if strings.Index(out, "apple") > strings.Index(out, "fig") {
		t.Fatalf("expected ties ordered by word")
	}
	if got := SelectWrongWords(aggs, 0); len(got) != 3 || got[2] != "pear" {
		t.Fatalf("unexpected selection %v", got)
	}
}

func TestRenderSummaryAndTrend(t *testing.T) {
	var buf bytes.Buffer
	sessions := []model.SessionAggregate{
		{SessionID: 1, Correct: 20, Wrong: 5, DurationMs: 60000},
		{SessionID: 2, Correct: 20, Wrong: 0, DurationMs: 30000},
	}
	if err := RenderSummary(&buf, sessions); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if err := RenderTrend(&buf, sessions, 1, 40); err != nil {
		t.Fatalf("render trend: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Words typed: 40", "Best WPM: 40.00", "Trend", "Accuracy  @"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
