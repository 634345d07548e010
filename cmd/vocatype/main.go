// Package main provides the CLI entrypoint for vocatype.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/vocatype/internal/config"
	"github.com/verte-zerg/vocatype/internal/generator"
	"github.com/verte-zerg/vocatype/internal/logging"
	"github.com/verte-zerg/vocatype/internal/matcher"
	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/session"
	"github.com/verte-zerg/vocatype/internal/stats"
	"github.com/verte-zerg/vocatype/internal/statsui"
	"github.com/verte-zerg/vocatype/internal/store"
	"github.com/verte-zerg/vocatype/internal/tui"
	"github.com/verte-zerg/vocatype/internal/vocabulary"
)

const (
	defaultReviewWindow = 20
	defaultReviewFactor = 2.0
	defaultCurveWindow  = 5
	defaultTop          = 20
)

var (
	practiceVocabulary   string
	practiceChapter      int
	practiceAuto         bool
	practiceDictation    bool
	practiceDictChapters string
	practiceClearOnWrong bool
	practiceSound        bool
	practiceEastAsian    bool
	practiceMusicMarker  string
	practiceReview       bool
	practiceReviewWindow int
	practiceReviewFactor float64

	statsVocabulary  string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTop         int
	statsTUI         bool

	convertLanguage string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vocatype [vocabulary]",
		Short:         "Vocabulary typing trainer",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceChapter, "chapter", 0, "chapter to start at (default: resume)")
	rootCmd.Flags().BoolVar(&practiceAuto, "auto", false, "advance automatically after a correct word")
	rootCmd.Flags().BoolVar(&practiceDictation, "dictation", false, "start in dictation mode")
	rootCmd.Flags().StringVar(&practiceDictChapters, "dictation-chapters", "", "comma-separated chapters for a shuffled dictation run (e.g. 1,3,5)")
	rootCmd.Flags().BoolVar(&practiceClearOnWrong, "clear-on-wrong", false, "clear the field after a wrong character")
	rootCmd.Flags().BoolVar(&practiceSound, "sound", false, "ring the terminal bell on cues")
	rootCmd.Flags().BoolVar(&practiceEastAsian, "east-asian", false, "treat ambiguous-width runes as wide")
	rootCmd.Flags().StringVar(&practiceMusicMarker, "music-marker", string(matcher.DefaultMusicMarker), "caption rune a typed space stands for")
	rootCmd.Flags().BoolVar(&practiceReview, "review", false, "review words missed in recent sessions")
	rootCmd.Flags().IntVar(&practiceReviewWindow, "review-window", defaultReviewWindow, "number of recent sessions to collect missed words from")
	rootCmd.Flags().Float64Var(&practiceReviewFactor, "review-factor", defaultReviewFactor, "weight factor for missed words")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newChaptersCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConvertCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(args) > 0 {
		practiceVocabulary = args[0]
	} else if fileCfg.Practice.Vocabulary != nil {
		practiceVocabulary = *fileCfg.Practice.Vocabulary
	}
	applyBoolConfig(cmd, "auto", &practiceAuto, fileCfg.Practice.Auto)
	applyBoolConfig(cmd, "dictation", &practiceDictation, fileCfg.Practice.Dictation)
	applyStringConfig(cmd, "dictation-chapters", &practiceDictChapters, fileCfg.Practice.DictationChapters)
	applyBoolConfig(cmd, "clear-on-wrong", &practiceClearOnWrong, fileCfg.Practice.ClearOnWrong)
	applyBoolConfig(cmd, "sound", &practiceSound, fileCfg.Practice.Sound)
	applyBoolConfig(cmd, "east-asian", &practiceEastAsian, fileCfg.Practice.EastAsian)
	applyStringConfig(cmd, "music-marker", &practiceMusicMarker, fileCfg.Practice.MusicMarker)
	applyIntConfig(cmd, "review-window", &practiceReviewWindow, fileCfg.Practice.ReviewWindow)
	applyFloatConfig(cmd, "review-factor", &practiceReviewFactor, fileCfg.Practice.ReviewFactor)

	marker, err := parseMusicMarker(practiceMusicMarker)
	if err != nil {
		return err
	}
	dictChapters, err := parseChapterList(practiceDictChapters)
	if err != nil {
		return err
	}
	cfg := model.Config{
		VocabularyPath:    practiceVocabulary,
		Chapter:           practiceChapter,
		Auto:              practiceAuto,
		Dictation:         practiceDictation || len(dictChapters) > 0,
		DictationChapters: dictChapters,
		ClearOnWrong:      practiceClearOnWrong,
		Sound:             practiceSound,
		EastAsian:         practiceEastAsian,
		MusicMarker:       marker,
		Review:            practiceReview,
		ReviewWindow:      practiceReviewWindow,
		ReviewFactor:      practiceReviewFactor,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger, logCloser, err := logging.New(fileCfg.Log, true)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() {
		if cerr := logCloser.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	vocabPath, err := resolveVocabularyPath(cfg.VocabularyPath, config.DefaultVocabularyDir())
	if err != nil {
		return err
	}
	vocab, err := vocabulary.Load(vocabPath)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary %s: %w", vocabPath, err)
	}
	logger.WithFields(logrus.Fields{
		"vocabulary": vocab.Name,
		"words":      vocab.Size,
	}).Info("vocabulary loaded")

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	start := 0
	if cfg.Chapter == 0 {
		progress, ok, err := st.LoadProgress(ctx, vocab.Name)
		if err != nil {
			logger.WithError(err).Warn("failed to load progress")
		} else if ok {
			start = progress.Index
		}
	}

	gen := generator.New()
	ctrl, err := session.New(vocab.WordList, session.Options{
		Auto:         cfg.Auto,
		ClearOnWrong: cfg.ClearOnWrong,
		EastAsian:    cfg.EastAsian,
		MusicMarker:  cfg.MusicMarker,
		Start:        start,
		Shuffler:     gen,
	})
	if err != nil {
		return err
	}
	if cfg.Chapter > 0 {
		if err := ctrl.SelectChapter(cfg.Chapter); err != nil {
			return err
		}
	}

	switch {
	case cfg.Review:
		aggs, err := st.GetWrongWords(ctx, cfg.ReviewWindow, vocab.Name)
		if err != nil {
			return fmt.Errorf("failed to load wrong words: %w", err)
		}
		words := reviewWords(gen, vocab.WordList, aggs, cfg.ReviewFactor)
		if len(words) == 0 {
			return fmt.Errorf("no missed words recorded for %s yet", vocab.Name)
		}
		if err := ctrl.StartReview(words); err != nil {
			return err
		}
	case cfg.Dictation:
		if err := startDictation(ctrl, cfg.DictationChapters); err != nil {
			return err
		}
	}

	m := tui.NewModel(ctrl, tui.Options{
		Vocabulary: vocab.Name,
		Sound:      cfg.Sound,
		Store:      st,
		Logger:     logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// reviewWords picks up to one chapter of missed words, biased toward the most missed.
func reviewWords(gen *generator.Generator, words []model.Word, aggs []model.WrongWordAggregate, factor float64) []model.Word {
	misses := stats.MissCounts(aggs)
	missed := lo.Filter(words, func(w model.Word, _ int) bool {
		return misses[w.Value] > 0
	})
	missed = lo.UniqBy(missed, func(w model.Word) string { return w.Value })
	return gen.Weighted(missed, matcher.ChapterSize, misses, factor)
}

// startDictation runs dictation over chapters, the current chapter when none
// are given. Several chapters are shuffled together.
func startDictation(ctrl *session.Controller, chapters []int) error {
	for _, chapter := range chapters {
		if chapter > ctrl.ChapterCount() {
			return fmt.Errorf("chapter %d out of range (1-%d)", chapter, ctrl.ChapterCount())
		}
	}
	return ctrl.StartDictation(chapters...)
}

// parseChapterList parses "1,3,5" into distinct chapter numbers.
func parseChapterList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var chapters []int
	for _, part := range strings.Split(s, ",") {
		chapter, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || chapter < 1 {
			return nil, fmt.Errorf("invalid --dictation-chapters entry %q", part)
		}
		chapters = append(chapters, chapter)
	}
	return lo.Uniq(chapters), nil
}

// resolveVocabularyPath accepts a file path or a bare name looked up in dir.
func resolveVocabularyPath(name, dir string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("no vocabulary given (pass a file or set practice.vocabulary in %s)", config.DefaultConfigPath())
	}
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	for _, ext := range []string{".json", ".txt"} {
		candidate := filepath.Join(dir, name+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("vocabulary %q not found (looked in %s)", name, dir)
}

func parseMusicMarker(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("--music-marker must be a single character")
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newChaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chapters <vocabulary>",
		Short: "List the chapters of a vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE:  runChaptersCmd,
	}
}

func runChaptersCmd(cmd *cobra.Command, args []string) error {
	path, err := resolveVocabularyPath(args[0], config.DefaultVocabularyDir())
	if err != nil {
		return err
	}
	vocab, err := vocabulary.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary %s: %w", path, err)
	}
	return writeChapters(cmd.OutOrStdout(), vocab)
}

func writeChapters(w io.Writer, vocab model.Vocabulary) error {
	if _, err := fmt.Fprintf(w, "%s: %d words\n", vocab.Name, vocab.Size); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	count := matcher.ChapterCount(len(vocab.WordList))
	rows := make([][]string, 0, count)
	for chapter := 1; chapter <= count; chapter++ {
		start, end := matcher.ChapterBounds(chapter, len(vocab.WordList))
		rows = append(rows, []string{
			strconv.Itoa(chapter),
			strconv.Itoa(end - start),
			vocab.WordList[start].Value,
			vocab.WordList[end-1].Value,
		})
	}
	headers := []string{"Chapter", "Words", "First", "Last"}
	if err := stats.WriteTable(w, headers, rows, map[int]bool{0: true, 1: true}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsVocabulary, "vocabulary", "", "vocabulary filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsTop, "top", defaultTop, "number of wrong words to list")
	cmd.Flags().BoolVar(&statsTUI, "tui", false, "browse stats interactively")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}

	cfg := model.StatsConfig{
		Vocabulary:  statsVocabulary,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Top:         statsTop,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsTUI {
		program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}
	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return writeReport(cmd.OutOrStdout(), report, cfg)
}

func writeReport(w io.Writer, report stats.Report, cfg model.StatsConfig) error {
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderTrend(w, report.Sessions, cfg.CurveWindow, 0); err != nil {
		return err
	}
	return stats.RenderWrongWordTable(w, report.WrongWordsAll, cfg.Top)
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <words.txt> <vocabulary.json>",
		Short: "Convert a word list into a vocabulary file",
		Args:  cobra.ExactArgs(2),
		RunE:  runConvertCmd,
	}
	cmd.Flags().StringVar(&convertLanguage, "language", "en", "language of the word list")
	return cmd
}

func runConvertCmd(cmd *cobra.Command, args []string) error {
	words, err := vocabulary.LoadWords(args[0])
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(args[1]), filepath.Ext(args[1]))
	vocab, rejected := buildVocabulary(name, convertLanguage, words)
	if len(vocab.WordList) == 0 {
		return fmt.Errorf("no %s words in %s", convertLanguage, args[0])
	}
	if err := vocabulary.Save(vocab, args[1]); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(rejected) > 0 {
		if _, err := fmt.Fprintf(out, "Skipped %d words: %s\n", len(rejected), strings.Join(rejected, ", ")); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(out, "Wrote %s (%d words)\n", args[1], len(vocab.WordList))
	return err
}

// buildVocabulary keeps the words that pass the language filter and returns the rest.
func buildVocabulary(name, language string, words []string) (model.Vocabulary, []string) {
	keep := vocabulary.FilterForLang(language)
	kept := lo.Filter(words, func(w string, _ int) bool { return keep(w) })
	rejected := lo.Reject(words, func(w string, _ int) bool { return keep(w) })
	return model.Vocabulary{
		Name:     name,
		Type:     "DOCUMENT",
		Language: language,
		WordList: lo.Map(kept, func(w string, _ int) model.Word { return model.Word{Value: w} }),
	}, rejected
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# vocatype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# vocabulary = "movie"      # Vocabulary file or name under %s
# auto = false              # Advance automatically after a correct word
# dictation = false         # Start in dictation mode
# dictation-chapters = "1,3" # Shuffled dictation over these chapters
# clear-on-wrong = false    # Clear the field after a wrong character
# sound = false             # Ring the terminal bell on cues
# east-asian = false        # Treat ambiguous-width runes as wide
# music-marker = %q        # Caption rune a typed space stands for
# review-window = %d        # Recent sessions to collect missed words from
# review-factor = %.1f      # Weight factor for missed words

[log]
# level = "info"            # debug, info, warn, error
# format = "text"           # text or json
# file = %q
`,
		config.DefaultVocabularyDir(),
		string(matcher.DefaultMusicMarker),
		defaultReviewWindow,
		defaultReviewFactor,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Chapter < 0 {
		return fmt.Errorf("--chapter must be >= 0")
	}
	if cfg.ReviewWindow < 0 {
		return fmt.Errorf("--review-window must be >= 0")
	}
	if cfg.ReviewFactor < 0 {
		return fmt.Errorf("--review-factor must be >= 0")
	}
	if cfg.Review && cfg.Dictation {
		return fmt.Errorf("--review and --dictation are mutually exclusive")
	}
	for _, chapter := range cfg.DictationChapters {
		if chapter < 1 {
			return fmt.Errorf("--dictation-chapters must be >= 1")
		}
	}
	return nil
}

func logErrf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
