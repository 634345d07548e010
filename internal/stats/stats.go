// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/vocatype/internal/model"
)

const sparkChars = " .:-=+*#%@"

const defaultTrendWidth = 60

// SessionMetrics computes words per minute and accuracy for a session.
// correct counts completed words, wrong counts mistyped characters.
func SessionMetrics(correct, wrong int, durationMs int64) (wpm, accuracy float64) {
	den := float64(correct + wrong)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	if durationMs <= 0 {
		return 0, accuracy
	}
	minutes := float64(durationMs) / 60000.0
	wpm = float64(correct) / minutes
	return wpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[(len(sparkChars)-1)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalAcc float64
	bestWPM := 0.0
	words := 0
	for _, s := range sessions {
		wpm, acc := SessionMetrics(s.Correct, s.Wrong, s.DurationMs)
		totalWPM += wpm
		totalAcc += acc
		words += s.Correct
		if wpm > bestWPM {
			bestWPM = wpm
		}
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Words typed: %d", words),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints smoothed accuracy and speed sparklines. A width of zero
// uses the terminal width.
func RenderTrend(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) < 2 {
		return nil
	}
	if width <= 0 {
		width = TerminalWidth()
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpm, acc := SessionMetrics(s.Correct, s.Wrong, s.DurationMs)
		wpms[i] = wpm
		accs[i] = acc * 100
	}
	wpms = tail(MovingAverage(wpms, window), width-10)
	accs = tail(MovingAverage(accs, window), width-10)
	if _, err := fmt.Fprintln(w, "Trend"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "WPM      %s\n", Sparkline(wpms)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Accuracy %s\n\n", Sparkline(accs)); err != nil {
		return err
	}
	return nil
}

// RenderWrongWordTable prints the most missed words.
func RenderWrongWordTable(w io.Writer, aggs []model.WrongWordAggregate, top int) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No wrong words found.")
		return err
	}
	rows := sortWrongWords(aggs)
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}

	if _, err := fmt.Fprintln(w, "Wrong Words"); err != nil {
		return err
	}
	headers := []string{"Word", "Misses", "Sessions"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Word,
			fmt.Sprintf("%d", r.Count),
			fmt.Sprintf("%d", r.Sessions),
		})
	}
	if err := WriteTable(w, headers, tableRows, map[int]bool{1: true, 2: true}); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// TerminalWidth returns the stdout width, or a default when stdout is not a terminal.
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultTrendWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultTrendWidth
	}
	return width
}

func sortWrongWords(aggs []model.WrongWordAggregate) []model.WrongWordAggregate {
	rows := make([]model.WrongWordAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return rows[i].Word < rows[j].Word
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}

func tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
