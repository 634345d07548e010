package stats

import "github.com/verte-zerg/vocatype/internal/model"

// SelectWrongWords returns the most missed words, most missed first.
func SelectWrongWords(aggs []model.WrongWordAggregate, top int) []string {
	rows := sortWrongWords(aggs)
	if top <= 0 || top > len(rows) {
		top = len(rows)
	}
	out := make([]string, 0, top)
	for i := 0; i < top; i++ {
		out = append(out, rows[i].Word)
	}
	return out
}

// MissCounts maps each word to its aggregated miss count.
func MissCounts(aggs []model.WrongWordAggregate) map[string]int {
	out := make(map[string]int, len(aggs))
	for _, agg := range aggs {
		out[agg.Word] += agg.Count
	}
	return out
}
