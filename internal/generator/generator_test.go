package generator

import (
	"testing"

	"github.com/verte-zerg/vocatype/internal/model"
)

func TestShuffleKeepsWords(t *testing.T) {
	words := []model.Word{{Value: "a"}, {Value: "b"}, {Value: "c"}, {Value: "d"}}
	out := NewSeeded(1).Shuffle(words)
	if len(out) != len(words) {
		t.Fatalf("expected %d words, got %d", len(words), len(out))
	}
	seen := map[string]bool{}
	for _, w := range out {
		seen[w.Value] = true
	}
	if len(seen) != len(words) {
		t.Fatalf("expected every word once, got %v", out)
	}
	if words[0].Value != "a" {
		t.Fatalf("input must not be modified")
	}
}

func TestWeightedPicksDistinctWords(t *testing.T) {
	words := []model.Word{{Value: "a"}, {Value: "b"}, {Value: "c"}}
	out := NewSeeded(7).Weighted(words, 5, map[string]int{"b": 10}, 2)
	if len(out) != 3 {
		t.Fatalf("expected count clamped to 3, got %d", len(out))
	}
	seen := map[string]bool{}
	for _, w := range out {
		if seen[w.Value] {
			t.Fatalf("duplicate word %q", w.Value)
		}
		seen[w.Value] = true
	}
}

func TestWeightedFavorsMissedWords(t *testing.T) {
	words := []model.Word{{Value: "a"}, {Value: "b"}, {Value: "c"}, {Value: "d"}}
	g := NewSeeded(3)
	hits := 0
	for i := 0; i < 200; i++ {
		out := g.Weighted(words, 1, map[string]int{"d": 50}, 1)
		if out[0].Value == "d" {
			hits++
		}
	}
	if hits < 150 {
		t.Fatalf("expected missed word to dominate, got %d/200", hits)
	}
}
