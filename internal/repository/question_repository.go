package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lernwerk/lernwerk/internal/quiz"
	"github.com/lernwerk/lernwerk/internal/session"
)

// QuestionRepository persists validated quiz questions.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a PostgreSQL question repository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// Create inserts one validated question.
func (r *QuestionRepository) Create(ctx context.Context, q *quiz.Question) error {
	data, err := json.Marshal(q.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	query := `
		INSERT INTO quiz_questions (id, type, data, level, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.pool.Exec(ctx, query,
		q.ID, string(q.Type), data, string(q.Level), q.Tags, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

// CreateBatch inserts a validated batch, skipping rows whose payload is
// already stored (same type, data, level). Returns the number actually
// inserted.
func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []*quiz.Question) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO quiz_questions (id, type, data, level, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (type, data, level) DO NOTHING
	`
	inserted := 0
	for _, q := range questions {
		data, err := json.Marshal(q.Data)
		if err != nil {
			return 0, fmt.Errorf("marshal data for %s: %w", q.ID, err)
		}
		tag, err := tx.Exec(ctx, query,
			q.ID, string(q.Type), data, string(q.Level), q.Tags, q.CreatedAt, q.UpdatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert question %s: %w", q.ID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// List returns questions matching the filter. An empty level matches all
// levels; tags, when present, require at least one overlap.
func (r *QuestionRepository) List(ctx context.Context, f session.Filter) ([]*quiz.Question, error) {
	query := `
		SELECT id, type, data, level, tags, created_at, updated_at
		FROM quiz_questions
		WHERE ($1 = '' OR level = $1)
		  AND (cardinality($2::text[]) = 0 OR tags && $2::text[])
		ORDER BY created_at, id
	`
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	rows, err := r.pool.Query(ctx, query, string(f.Level), tags)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var questions []*quiz.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetByID retrieves one question.
func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*quiz.Question, error) {
	query := `
		SELECT id, type, data, level, tags, created_at, updated_at
		FROM quiz_questions WHERE id = $1
	`
	return scanQuestion(r.pool.QueryRow(ctx, query, id))
}

// Delete removes one question.
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM quiz_questions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanQuestion(row pgx.Row) (*quiz.Question, error) {
	var (
		q    quiz.Question
		typ  string
		data []byte
		lvl  string
	)
	err := row.Scan(&q.ID, &typ, &data, &lvl, &q.Tags, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan question: %w", err)
	}

	t, err := quiz.ParseType(typ)
	if err != nil {
		return nil, fmt.Errorf("question %s: %w", q.ID, err)
	}
	payload, err := quiz.ValidateData(t, data)
	if err != nil {
		return nil, fmt.Errorf("question %s: %w", q.ID, err)
	}
	level, err := quiz.ParseLevel(lvl)
	if err != nil {
		return nil, fmt.Errorf("question %s: %w", q.ID, err)
	}

	q.Type = t
	q.Data = payload
	q.Level = level
	if q.Tags == nil {
		q.Tags = []string{}
	}
	return &q, nil
}
