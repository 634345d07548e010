// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/vocatype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session and progress data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			run_id TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			vocabulary TEXT NOT NULL,
			dictation INTEGER NOT NULL,
			chapter INTEGER NOT NULL,
			correct_count INTEGER NOT NULL,
			wrong_count INTEGER NOT NULL,
			chapter_correct INTEGER NOT NULL,
			chapter_wrong INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_wrong_words (
			session_id INTEGER NOT NULL,
			word TEXT NOT NULL,
			wrong_count INTEGER NOT NULL,
			PRIMARY KEY (session_id, word)
		);`,
		`CREATE TABLE IF NOT EXISTS progress (
			vocabulary TEXT PRIMARY KEY,
			word_index INTEGER NOT NULL,
			chapter INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_wrong_words_word ON session_wrong_words(word);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a finished chapter or dictation run and its wrong-word tally.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, wrong []model.WrongWord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (run_id, started_at, ended_at, vocabulary, dictation, chapter, correct_count, wrong_count, chapter_correct, chapter_wrong, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Vocabulary,
		rec.Dictation,
		rec.Chapter,
		rec.CorrectCount,
		rec.WrongCount,
		rec.ChapterCorrectTime,
		rec.ChapterWrongTime,
		rec.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(wrong) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO session_wrong_words (session_id, word, wrong_count) VALUES (?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() { _ = stmt.Close() }()
		for _, w := range wrong {
			if _, err = stmt.ExecContext(ctx, id, w.Word, w.Count); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetWrongWords aggregates wrong-word tallies over the most recent sessions.
func (s *Store) GetWrongWords(ctx context.Context, window int, vocabulary string) ([]model.WrongWordAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE (? = '' OR vocabulary = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT ww.word, SUM(ww.wrong_count) AS wrong_count, COUNT(*) AS sessions
	FROM session_wrong_words ww
	JOIN recent_sessions r ON r.id = ww.session_id
	GROUP BY ww.word`

	rows, err := s.db.QueryContext(ctx, query, vocabulary, vocabulary, window)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanWrongWords(rows)
}

// ListSessions returns session aggregates filtered by stats config.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Vocabulary != "" {
		clauses = append(clauses, "vocabulary = ?")
		args = append(args, cfg.Vocabulary)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, correct_count, wrong_count, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Correct, &agg.Wrong, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListWrongWordsForSessions aggregates wrong-word tallies across sessions.
func (s *Store) ListWrongWordsForSessions(ctx context.Context, sessionIDs []int64) ([]model.WrongWordAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT word, SUM(wrong_count) AS wrong_count, COUNT(*) AS sessions
		FROM session_wrong_words
		WHERE session_id IN (%s)
		GROUP BY word`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanWrongWords(rows)
}

// SaveProgress upserts the position inside a vocabulary.
func (s *Store) SaveProgress(ctx context.Context, p model.Progress) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO progress (vocabulary, word_index, chapter, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(vocabulary) DO UPDATE SET word_index = excluded.word_index, chapter = excluded.chapter, updated_at = excluded.updated_at`,
		p.Vocabulary, p.Index, p.Chapter, p.UpdatedAt.Format(time.RFC3339Nano))
	return err
}

// LoadProgress returns the saved position. ok is false when nothing was saved.
func (s *Store) LoadProgress(ctx context.Context, vocabulary string) (model.Progress, bool, error) {
	var p model.Progress
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT vocabulary, word_index, chapter, updated_at FROM progress WHERE vocabulary = ?`, vocabulary).
		Scan(&p.Vocabulary, &p.Index, &p.Chapter, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Progress{}, false, nil
	}
	if err != nil {
		return model.Progress{}, false, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return model.Progress{}, false, err
	}
	p.UpdatedAt = parsed
	return p, true, nil
}

func scanWrongWords(rows *sql.Rows) ([]model.WrongWordAggregate, error) {
	var result []model.WrongWordAggregate
	for rows.Next() {
		var agg model.WrongWordAggregate
		if err := rows.Scan(&agg.Word, &agg.Count, &agg.Sessions); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
