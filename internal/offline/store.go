package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lernwerk/lernwerk/internal/quiz"
	"github.com/lernwerk/lernwerk/internal/session"
)

// Store caches question sets and progress snapshots in the local SQLite
// database. It is the fallback read path when the network source fails, and
// the best-effort sink for answered-question snapshots.
type Store struct {
	db *DB
}

// NewStore creates a store over an opened cache database.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// SaveQuizzes caches a question set, overwriting by question ID.
func (s *Store) SaveQuizzes(ctx context.Context, questions []*quiz.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, q := range questions {
		data, err := json.Marshal(q.Data)
		if err != nil {
			return fmt.Errorf("marshal data for %s: %w", q.ID, err)
		}
		tags, err := json.Marshal(q.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", q.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO quizzes (id, type, data, level, tags, cached_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				type=excluded.type, data=excluded.data,
				level=excluded.level, tags=excluded.tags,
				cached_at=excluded.cached_at`,
			q.ID, string(q.Type), string(data), string(q.Level), string(tags), now,
		)
		if err != nil {
			return fmt.Errorf("upsert quiz %s: %w", q.ID, err)
		}
	}
	return tx.Commit()
}

// GetQuizzes reads cached questions, optionally filtered by level. An empty
// level returns everything. Cached rows that no longer validate are skipped,
// not fatal.
func (s *Store) GetQuizzes(ctx context.Context, level quiz.Level) ([]*quiz.Question, error) {
	query := "SELECT id, type, data, level, tags, cached_at FROM quizzes"
	args := []any{}
	if level != "" {
		query += " WHERE level = ?"
		args = append(args, string(level))
	}
	query += " ORDER BY cached_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quizzes: %w", err)
	}
	defer rows.Close()

	var questions []*quiz.Question
	for rows.Next() {
		var (
			id, typ, data, lvl, tags string
			cachedAt                 time.Time
		)
		if err := rows.Scan(&id, &typ, &data, &lvl, &tags, &cachedAt); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		q, err := rehydrate(id, typ, data, lvl, tags, cachedAt)
		if err != nil {
			continue
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func rehydrate(id, typ, data, lvl, tags string, cachedAt time.Time) (*quiz.Question, error) {
	t, err := quiz.ParseType(typ)
	if err != nil {
		return nil, err
	}
	payload, err := quiz.ValidateData(t, json.RawMessage(data))
	if err != nil {
		return nil, err
	}
	level, err := quiz.ParseLevel(lvl)
	if err != nil {
		return nil, err
	}
	var tagList []string
	if err := json.Unmarshal([]byte(tags), &tagList); err != nil {
		tagList = strings.Split(tags, ",")
	}
	if tagList == nil {
		tagList = []string{}
	}
	return &quiz.Question{
		ID:        id,
		Type:      t,
		Data:      payload,
		Level:     level,
		Tags:      tagList,
		CreatedAt: cachedAt,
		UpdatedAt: cachedAt,
	}, nil
}

// SaveProgress appends one progress snapshot.
func (s *Store) SaveProgress(ctx context.Context, snap session.Snapshot) error {
	answer, err := json.Marshal(snap.Answer)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO progress (question_id, answer, is_correct, created_at)
		VALUES (?, ?, ?, ?)`,
		snap.QuestionID, string(answer), snap.IsCorrect, ts,
	)
	if err != nil {
		return fmt.Errorf("insert progress: %w", err)
	}
	return nil
}

// ProgressRecord is one persisted snapshot as read back from the cache.
type ProgressRecord struct {
	QuestionID string          `json:"question_id"`
	Answer     json.RawMessage `json:"answer"`
	IsCorrect  bool            `json:"is_correct"`
	Timestamp  time.Time       `json:"timestamp"`
}

// ListProgress returns snapshots, newest first, optionally scoped to one
// question.
func (s *Store) ListProgress(ctx context.Context, questionID string) ([]ProgressRecord, error) {
	query := "SELECT question_id, answer, is_correct, created_at FROM progress"
	args := []any{}
	if questionID != "" {
		query += " WHERE question_id = ?"
		args = append(args, questionID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var records []ProgressRecord
	for rows.Next() {
		var rec ProgressRecord
		var answer string
		if err := rows.Scan(&rec.QuestionID, &answer, &rec.IsCorrect, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		rec.Answer = json.RawMessage(answer)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Ensure the store satisfies the session's sink contract.
var _ session.ProgressSink = (*Store)(nil)
