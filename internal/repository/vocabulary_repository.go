package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Vocabulary is an externally-owned dictionary entry referenced by
// vocabulary blocks.
type Vocabulary struct {
	ID      int64  `json:"id"`
	German  string `json:"german"`
	English string `json:"english"`
	Plural  string `json:"plural,omitempty"`
	Audio   string `json:"audio,omitempty"`
}

// VocabularyRepository resolves vocabulary references for blocks.
type VocabularyRepository struct {
	pool *pgxpool.Pool
}

// NewVocabularyRepository creates a PostgreSQL vocabulary repository.
func NewVocabularyRepository(pool *pgxpool.Pool) *VocabularyRepository {
	return &VocabularyRepository{pool: pool}
}

// GetByID retrieves one entry.
func (r *VocabularyRepository) GetByID(ctx context.Context, id int64) (*Vocabulary, error) {
	query := `SELECT id, german, english, plural, audio FROM vocabulary WHERE id = $1`
	var v Vocabulary
	err := r.pool.QueryRow(ctx, query, id).Scan(&v.ID, &v.German, &v.English, &v.Plural, &v.Audio)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan vocabulary: %w", err)
	}
	return &v, nil
}

// GetByIDs resolves a set of references. IDs with no matching record are
// simply absent from the result; callers render an "ID: {id}" placeholder
// for those instead of failing.
func (r *VocabularyRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*Vocabulary, error) {
	result := make(map[int64]*Vocabulary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT id, german, english, plural, audio FROM vocabulary WHERE id = ANY($1::bigint[])`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("query vocabulary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v Vocabulary
		if err := rows.Scan(&v.ID, &v.German, &v.English, &v.Plural, &v.Audio); err != nil {
			return nil, fmt.Errorf("scan vocabulary: %w", err)
		}
		result[v.ID] = &v
	}
	return result, rows.Err()
}
