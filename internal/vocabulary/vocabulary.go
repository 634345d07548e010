// Package vocabulary loads, normalizes and saves vocabulary files.
package vocabulary

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/vocatype/internal/matcher"
	"github.com/verte-zerg/vocatype/internal/model"
)

// Load reads a JSON vocabulary, or a plain word list with one word per line.
// Word values and captions are normalized; entries without a value are dropped.
func Load(path string) (model.Vocabulary, error) {
	var vocab model.Vocabulary
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return model.Vocabulary{}, err
		}
		if err := json.Unmarshal(data, &vocab); err != nil {
			return model.Vocabulary{}, fmt.Errorf("failed to decode vocabulary: %w", err)
		}
	} else {
		words, err := LoadWords(path)
		if err != nil {
			return model.Vocabulary{}, err
		}
		vocab = model.Vocabulary{
			Type:     "DOCUMENT",
			WordList: lo.Map(words, func(w string, _ int) model.Word { return model.Word{Value: w} }),
		}
	}
	if vocab.Name == "" {
		vocab.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	vocab.WordList = normalizeWords(vocab.WordList)
	if len(vocab.WordList) == 0 {
		return model.Vocabulary{}, fmt.Errorf("vocabulary is empty")
	}
	vocab.Size = len(vocab.WordList)
	return vocab, nil
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Save writes the vocabulary as indented JSON, replacing path atomically.
func Save(vocab model.Vocabulary, path string) error {
	vocab.Size = len(vocab.WordList)
	data, err := json.MarshalIndent(vocab, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode vocabulary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create vocabulary dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "vocabulary-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp vocabulary: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write vocabulary: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close vocabulary: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write vocabulary: %w", err)
	}
	return nil
}

// NormalizeTarget collapses line breaks and whitespace runs into single spaces.
func NormalizeTarget(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SelectChapters concatenates the words of the given 1-based chapters in order.
// Chapters out of range are ignored.
func SelectChapters(words []model.Word, chapters []int) []model.Word {
	chunks := lo.Chunk(words, matcher.ChapterSize)
	var out []model.Word
	for _, chapter := range chapters {
		if chapter < 1 || chapter > len(chunks) {
			continue
		}
		out = append(out, chunks[chapter-1]...)
	}
	return out
}

func normalizeWords(words []model.Word) []model.Word {
	out := make([]model.Word, 0, len(words))
	for _, w := range words {
		w.Value = NormalizeTarget(w.Value)
		if w.Value == "" {
			continue
		}
		out = append(out, w)
	}
	return out
}
