package content

import (
	"time"

	"github.com/google/uuid"
)

// Lesson owns an ordered block sequence. The sequence is the editable unit;
// blocks have no identity outside their position in it.
type Lesson struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Level       string    `json:"level,omitempty"`
	Description string    `json:"description,omitempty"`
	Blocks      []Block   `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewLesson creates an empty lesson ready for authoring.
func NewLesson(title string) *Lesson {
	now := time.Now().UTC()
	return &Lesson{
		ID:        uuid.New().String(),
		Title:     title,
		Blocks:    []Block{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetBlocks replaces the block sequence.
func (l *Lesson) SetBlocks(blocks []Block) {
	l.Blocks = blocks
	l.UpdatedAt = time.Now().UTC()
}
