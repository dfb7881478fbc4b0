package worker_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"skillswap/internal/queue"
	"skillswap/internal/worker"
)

// setupTestRedis connects to Redis DB 1 and flushes it, or skips the test
// when no Redis is reachable.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}

	// Use DB 1 for testing to avoid conflicts with dev data
	opts.DB = 1

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}

	client.FlushDB(ctx)

	return client
}

func cleanupTestRedis(client *redis.Client) {
	ctx := context.Background()
	client.FlushDB(ctx)
	client.Close()
}

// TestStreamRoundTrip publishes an event and consumes it through the
// consumer group, verifying the whole publish -> read -> handle -> ack path.
func TestStreamRoundTrip(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	publisher := queue.NewPublisher(client)
	consumer := queue.NewConsumer(client)

	if err := consumer.EnsureGroup(ctx, queue.StreamSwaps, queue.ConsumerGroupSwaps); err != nil {
		t.Fatalf("EnsureGroup failed: %v", err)
	}

	event := queue.NewSwapEvent(queue.EventSwapAccepted, 42, 1, 2, 2)
	if _, err := publisher.Publish(ctx, queue.StreamSwaps, event); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	messages, err := consumer.Read(ctx, queue.StreamSwaps, queue.ConsumerGroupSwaps, "test-consumer", 10, time.Second)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("read %d messages, want 1", len(messages))
	}

	got := messages[0].Event
	if got.Type != queue.EventSwapAccepted || got.SwapID != 42 || got.SenderID != 1 || got.ReceiverID != 2 || got.ActorID != 2 {
		t.Errorf("event round-trip mismatch: %+v", got)
	}

	// The handler turns it into a notification for the sender
	creator := &mockNotificationCreator{}
	h := worker.NewHandler(creator)
	if err := h.HandleEvent(ctx, got); err != nil {
		t.Fatalf("HandleEvent failed: %v", err)
	}
	if len(creator.created) != 1 || creator.created[0].UserID != 1 {
		t.Errorf("expected one notification for the sender, got %+v", creator.created)
	}

	if err := consumer.Ack(ctx, queue.StreamSwaps, queue.ConsumerGroupSwaps, messages[0].ID); err != nil {
		t.Fatalf("Ack failed: %v", err)
	}

	// After the ack nothing is pending for this consumer
	pending, err := client.XPending(ctx, queue.StreamSwaps, queue.ConsumerGroupSwaps).Result()
	if err != nil {
		t.Fatalf("XPending failed: %v", err)
	}
	if pending.Count != 0 {
		t.Errorf("pending count = %d, want 0", pending.Count)
	}
}
