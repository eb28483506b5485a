//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"

	"github.com/lernwerk/lernwerk/internal/events"
	"github.com/lernwerk/lernwerk/internal/quiz"
	"github.com/lernwerk/lernwerk/internal/session"
)

// setupRabbitMQ creates a RabbitMQ container for testing
func setupRabbitMQ(t *testing.T) (string, func()) {
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:3.12-management")
	if err != nil {
		t.Fatalf("failed to start RabbitMQ container: %v", err)
	}

	amqpURL, err := container.AmqpURL(ctx)
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("failed to get AMQP URL: %v", err)
	}

	cleanup := func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return amqpURL, cleanup
}

func TestIntegration_Connection_ConnectAndClose(t *testing.T) {
	amqpURL, cleanup := setupRabbitMQ(t)
	defer cleanup()

	conn, err := events.NewConnection(amqpURL)
	if err != nil {
		t.Fatalf("failed to create connection: %v", err)
	}

	if !conn.IsConnected() {
		t.Error("expected connection to be active")
	}

	if err := conn.Close(); err != nil {
		t.Errorf("failed to close connection: %v", err)
	}
}

func TestIntegration_Connection_InvalidURL(t *testing.T) {
	_, err := events.NewConnection("amqp://invalid:5672")
	if err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestIntegration_Publisher_ProgressEventRoundTrip(t *testing.T) {
	amqpURL, cleanup := setupRabbitMQ(t)
	defer cleanup()

	conn, err := events.NewConnection(amqpURL)
	if err != nil {
		t.Fatalf("failed to create connection: %v", err)
	}
	defer conn.Close()

	publisher := events.NewPublisher(conn)
	snap := session.Snapshot{
		QuestionID: "q-roundtrip",
		Answer:     quiz.TextAnswers{"lerne"},
		IsCorrect:  true,
		Timestamp:  time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := publisher.SaveProgress(ctx, snap); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	// consume with a raw client to verify the wire form
	raw, err := amqp.Dial(amqpURL)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer raw.Close()
	ch, err := raw.Channel()
	if err != nil {
		t.Fatalf("failed to open channel: %v", err)
	}
	defer ch.Close()

	deliveries, err := ch.Consume(events.ProgressQueueName, "", true, false, false, false, nil)
	if err != nil {
		t.Fatalf("failed to consume: %v", err)
	}

	select {
	case msg := <-deliveries:
		var event events.ProgressEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			t.Fatalf("failed to decode event: %v", err)
		}
		if event.QuestionID != "q-roundtrip" || !event.IsCorrect {
			t.Errorf("event = %+v", event)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for progress event")
	}
}
