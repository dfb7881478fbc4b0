package worker

import (
	"context"
	"fmt"

	"skillswap/internal/model"
	"skillswap/internal/queue"
)

// NotificationCreator abstracts the notification repository so the worker
// does not depend on the database layer directly.
type NotificationCreator interface {
	Create(ctx context.Context, userID, actorID int64, notifType string, swapID *int64) error
}

// Handler turns swap lifecycle events into notification rows for the
// participant who did not perform the transition.
type Handler struct {
	notifications NotificationCreator
}

// NewHandler creates a new event handler.
func NewHandler(notifications NotificationCreator) *Handler {
	return &Handler{notifications: notifications}
}

// HandleEvent routes an event to the appropriate notification type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.SwapEvent) error {
	var notifType string
	switch event.Type {
	case queue.EventSwapRequested:
		notifType = model.NotificationSwapRequested
	case queue.EventSwapAccepted:
		notifType = model.NotificationSwapAccepted
	case queue.EventSwapRejected:
		notifType = model.NotificationSwapRejected
	case queue.EventSwapCompleted:
		notifType = model.NotificationSwapCompleted
	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	recipient := h.counterparty(event)
	if recipient == 0 {
		return fmt.Errorf("event %s for swap %d has no counterparty for actor %d",
			event.Type, event.SwapID, event.ActorID)
	}

	swapID := event.SwapID
	if err := h.notifications.Create(ctx, recipient, event.ActorID, notifType, &swapID); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// counterparty returns the participant who should be notified: whichever of
// sender/receiver is not the actor.
func (h *Handler) counterparty(event queue.SwapEvent) int64 {
	switch event.ActorID {
	case event.SenderID:
		return event.ReceiverID
	case event.ReceiverID:
		return event.SenderID
	default:
		return 0
	}
}
