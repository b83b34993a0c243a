package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"restaurante/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/joho/godotenv"
)

// TestRabbitMQIntegration publishes a reservation event to a live broker at RABBITMQ_URL and reads it back.
func TestRabbitMQIntegration(t *testing.T) {
	if os.Getenv("RUN_RABBITMQ_INTEGRATION") != "true" {
		t.Skip("set RUN_RABBITMQ_INTEGRATION=true to run this integration test")
	}

	loadDotEnv()
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		t.Fatal("RABBITMQ_URL is required")
	}

	queue := fmt.Sprintf("reservations_test_%d", time.Now().UnixNano())

	publisher, err := New(url, queue)
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	t.Cleanup(func() {
		_, _ = publisher.channel.QueueDelete(queue, false, false, false)
		publisher.Close()
	})

	consumer, err := New(url, queue)
	if err != nil {
		t.Fatalf("consumer: %v", err)
	}
	t.Cleanup(consumer.Close)

	start := models.NewLocalDateTime(time.Date(2030, 3, 14, 19, 30, 0, 0, time.UTC))
	want := models.ReservationEvent{
		ReservationID: 12,
		TableNumber:   7,
		UserName:      "Ana",
		UserEmail:     "ana@example.com",
		Start:         start,
		End:           start.Add(2 * time.Hour),
		PartySize:     4,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := publisher.PublishReservation(ctx, want); err != nil {
		t.Fatalf("PublishReservation: %v", err)
	}

	bodies := make(chan []byte, 1)
	readErr := make(chan error, 1)
	go func() {
		readErr <- consumer.StartReading(ctx, func(body []byte) {
			select {
			case bodies <- body:
			default:
			}
		})
	}()

	select {
	case body := <-bodies:
		var got models.ReservationEvent
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("event mismatch (-want +got):\n%s", diff)
		}
	case <-ctx.Done():
		t.Fatal("event not delivered before timeout")
	}

	cancel()
	if err := <-readErr; err != nil {
		t.Errorf("StartReading: %v", err)
	}
}

func loadDotEnv() {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
		"../../../../.env",
	}
	for _, path := range paths {
		_ = godotenv.Overload(path)
	}
}
