package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the swap stream
const (
	EventSwapRequested = "swap_requested"
	EventSwapAccepted  = "swap_accepted"
	EventSwapRejected  = "swap_rejected"
	EventSwapCompleted = "swap_completed"
)

// Stream names
const (
	StreamSwaps = "stream:swaps"
)

// Consumer group name for notification workers
const (
	ConsumerGroupSwaps = "swap_workers"
)

// SwapEvent represents a lifecycle event published to the swap stream.
type SwapEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	SwapID     int64 `json:"swap_id"`
	SenderID   int64 `json:"sender_id"`
	ReceiverID int64 `json:"receiver_id"`
	// ActorID is who performed the transition; the worker notifies the
	// other participant.
	ActorID int64 `json:"actor_id"`
}

// NewSwapEvent builds an event for the given lifecycle transition.
func NewSwapEvent(eventType string, swapID, senderID, receiverID, actorID int64) SwapEvent {
	return SwapEvent{
		Type:       eventType,
		Timestamp:  time.Now().Unix(),
		SwapID:     swapID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		ActorID:    actorID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e SwapEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseSwapEvent parses a SwapEvent from Redis stream message values.
func ParseSwapEvent(values map[string]interface{}) (SwapEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return SwapEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event SwapEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return SwapEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
