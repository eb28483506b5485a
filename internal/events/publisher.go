package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lernwerk/lernwerk/internal/session"
)

// Publisher fans progress snapshots out to RabbitMQ. Publishing is
// best-effort: the quiz transition that produced the snapshot has already
// committed and is never rolled back on a publish failure.
type Publisher struct {
	conn *Connection
}

// NewPublisher creates a publisher over an open connection.
func NewPublisher(conn *Connection) *Publisher {
	return &Publisher{conn: conn}
}

// SaveProgress publishes one snapshot as a progress event.
func (p *Publisher) SaveProgress(ctx context.Context, snap session.Snapshot) error {
	answer, err := json.Marshal(snap.Answer)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	event := ProgressEvent{
		QuestionID: snap.QuestionID,
		Answer:     answer,
		IsCorrect:  snap.IsCorrect,
		Timestamp:  ts,
	}
	if err := p.conn.PublishJSON(ctx, ProgressQueueName, event); err != nil {
		return fmt.Errorf("failed to publish progress event: %w", err)
	}

	slog.Debug("published progress event",
		"question_id", snap.QuestionID,
		"is_correct", snap.IsCorrect,
	)
	return nil
}

// Ensure the publisher satisfies the session's sink contract.
var _ session.ProgressSink = (*Publisher)(nil)
