// Package generator orders words for dictation and review runs.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/vocatype/internal/model"
)

// Generator produces randomized word orders.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle returns a shuffled copy of words.
func (g *Generator) Shuffle(words []model.Word) []model.Word {
	out := make([]model.Word, len(words))
	copy(out, words)
	g.rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Weighted picks up to count distinct words, biased toward words missed more often.
// misses maps a word value to its miss count; factor scales the bias.
func (g *Generator) Weighted(words []model.Word, count int, misses map[string]int, factor float64) []model.Word {
	if count <= 0 || len(words) == 0 {
		return nil
	}
	if count > len(words) {
		count = len(words)
	}
	weights := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		w := 1.0 + float64(misses[word.Value])*factor
		weights[i] = w
		total += w
	}

	result := make([]model.Word, 0, count)
	for len(result) < count {
		r := g.rnd.Float64() * total
		acc := 0.0
		idx := -1
		for j, w := range weights {
			if w == 0 {
				continue
			}
			acc += w
			if r <= acc {
				idx = j
				break
			}
		}
		if idx == -1 {
			idx = lastNonZero(weights)
		}
		result = append(result, words[idx])
		total -= weights[idx]
		weights[idx] = 0
	}
	return result
}

func lastNonZero(weights []float64) int {
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] != 0 {
			return i
		}
	}
	return 0
}
