package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lernwerk/lernwerk/internal/content"
)

// LessonRepository persists lessons with their serialized block sequences.
type LessonRepository struct {
	pool *pgxpool.Pool
}

// NewLessonRepository creates a PostgreSQL lesson repository.
func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{pool: pool}
}

// Create inserts a new lesson. The block sequence is serialized through the
// content codec, so invalid blocks never reach the database.
func (r *LessonRepository) Create(ctx context.Context, lesson *content.Lesson) error {
	blocks, err := content.MarshalBlocks(lesson.Blocks)
	if err != nil {
		return fmt.Errorf("marshal blocks: %w", err)
	}

	query := `
		INSERT INTO lessons (id, title, level, description, blocks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.pool.Exec(ctx, query,
		lesson.ID, lesson.Title, lesson.Level, lesson.Description,
		blocks, lesson.CreatedAt, lesson.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lesson: %w", err)
	}
	return nil
}

// GetByID retrieves a lesson and decodes its block sequence.
func (r *LessonRepository) GetByID(ctx context.Context, id string) (*content.Lesson, error) {
	query := `
		SELECT id, title, level, description, blocks, created_at, updated_at
		FROM lessons WHERE id = $1
	`
	return r.scanLesson(r.pool.QueryRow(ctx, query, id))
}

// List returns all lessons, newest first, without decoding block payloads
// beyond validation.
func (r *LessonRepository) List(ctx context.Context) ([]*content.Lesson, error) {
	query := `
		SELECT id, title, level, description, blocks, created_at, updated_at
		FROM lessons ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*content.Lesson
	for rows.Next() {
		lesson, err := r.scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

// Update replaces a lesson's fields and block sequence.
func (r *LessonRepository) Update(ctx context.Context, lesson *content.Lesson) error {
	blocks, err := content.MarshalBlocks(lesson.Blocks)
	if err != nil {
		return fmt.Errorf("marshal blocks: %w", err)
	}

	query := `
		UPDATE lessons
		SET title = $2, level = $3, description = $4, blocks = $5, updated_at = $6
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		lesson.ID, lesson.Title, lesson.Level, lesson.Description,
		blocks, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a lesson.
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM lessons WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LessonRepository) scanLesson(row pgx.Row) (*content.Lesson, error) {
	var lesson content.Lesson
	var blocks []byte
	err := row.Scan(&lesson.ID, &lesson.Title, &lesson.Level, &lesson.Description,
		&blocks, &lesson.CreatedAt, &lesson.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan lesson: %w", err)
	}

	lesson.Blocks, err = content.UnmarshalBlocks(blocks)
	if err != nil {
		return nil, fmt.Errorf("decode blocks for %s: %w", lesson.ID, err)
	}
	return &lesson, nil
}
