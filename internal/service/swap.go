package service

import (
	"context"
	"log"
	"time"

	"skillswap/internal/authz"
	"skillswap/internal/model"
	"skillswap/internal/queue"
	"skillswap/internal/repository"
)

// SwapService handles the swap request lifecycle.
//
// State transitions are race-tolerant: every write is guarded by the
// expected current status, so two concurrent accepts (or an accept racing
// a cancel) resolve deterministically at the database instead of
// last-writer-wins. The loser of the race gets a conflict error.
type SwapService struct {
	repo      repository.SwapRepository
	userRepo  repository.UserRepository
	publisher queue.Publisher
}

func NewSwapService(repo repository.SwapRepository, userRepo repository.UserRepository, publisher queue.Publisher) *SwapService {
	return &SwapService{
		repo:      repo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Create sends a new pending request from sender to receiver.
// At most one pending request may exist per (sender, receiver) pair; the
// database enforces this with a partial unique index, so the duplicate
// check holds even under concurrent creates.
func (s *SwapService) Create(ctx context.Context, senderID int64, req *model.CreateSwapRequest) (*model.SwapRequest, error) {
	if senderID == req.ReceiverID {
		return nil, model.ErrCannotSwapSelf
	}

	if _, err := s.userRepo.GetByID(ctx, req.ReceiverID); err != nil {
		return nil, err
	}

	swap := &model.SwapRequest{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Message:    req.Message,
	}

	inserted, err := s.repo.Create(ctx, swap)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, model.ErrDuplicateRequest
	}

	s.publish(ctx, queue.EventSwapRequested, swap, senderID)

	return swap, nil
}

// Accept transitions a pending request to accepted. Only the receiver may
// accept; a request that is no longer pending yields ErrAlreadyProcessed.
func (s *SwapService) Accept(ctx context.Context, actorID, swapID int64) (*model.SwapRequest, error) {
	return s.answer(ctx, actorID, swapID, model.SwapAccepted, queue.EventSwapAccepted)
}

// Reject transitions a pending request to rejected. Only the receiver may
// reject; a request that is no longer pending yields ErrAlreadyProcessed.
func (s *SwapService) Reject(ctx context.Context, actorID, swapID int64) (*model.SwapRequest, error) {
	return s.answer(ctx, actorID, swapID, model.SwapRejected, queue.EventSwapRejected)
}

func (s *SwapService) answer(ctx context.Context, actorID, swapID int64, to model.SwapStatus, eventType string) (*model.SwapRequest, error) {
	swap, err := s.repo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanAnswerSwap(actorID, swap); err != nil {
		return nil, err
	}

	if swap.Status != model.SwapPending {
		return nil, model.ErrAlreadyProcessed
	}

	ok, err := s.repo.UpdateStatus(ctx, swapID, model.SwapPending, to, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race: someone else answered (or the sender cancelled)
		// between our read and the guarded write.
		return nil, model.ErrAlreadyProcessed
	}

	swap.Status = to
	s.publish(ctx, eventType, swap, actorID)

	return swap, nil
}

// Complete transitions an accepted request to completed. Either participant
// may confirm, optionally attaching feedback. Completing a request that is
// not accepted yields ErrInvalidSwapState.
func (s *SwapService) Complete(ctx context.Context, actorID, swapID int64, req *model.CompleteSwapRequest) (*model.SwapRequest, error) {
	swap, err := s.repo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanCompleteSwap(actorID, swap); err != nil {
		return nil, err
	}

	if swap.Status != model.SwapAccepted {
		return nil, model.ErrInvalidSwapState
	}

	var feedback *string
	if req != nil {
		feedback = req.Feedback
	}

	ok, err := s.repo.UpdateStatus(ctx, swapID, model.SwapAccepted, model.SwapCompleted, feedback)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The other participant completed first. Treat a double-complete
		// as a conflict rather than silently succeeding twice.
		return nil, model.ErrInvalidSwapState
	}

	swap.Status = model.SwapCompleted
	if feedback != nil {
		swap.Feedback = feedback
	}
	s.publish(ctx, queue.EventSwapCompleted, swap, actorID)

	return swap, nil
}

// Cancel deletes a still-pending request. Only the sender may cancel, and
// cancellation removes the row outright so the pair can exchange requests
// again later. A request that has already been answered cannot be
// cancelled.
func (s *SwapService) Cancel(ctx context.Context, actorID, swapID int64) error {
	swap, err := s.repo.GetByID(ctx, swapID)
	if err != nil {
		return err
	}

	if err := authz.CanCancelSwap(actorID, swap); err != nil {
		return err
	}

	if swap.Status != model.SwapPending {
		return model.ErrInvalidSwapState
	}

	ok, err := s.repo.DeletePending(ctx, swapID)
	if err != nil {
		return err
	}
	if !ok {
		// Receiver answered between our read and the guarded delete.
		return model.ErrInvalidSwapState
	}

	return nil
}

// GetByID returns a request visible only to its participants.
func (s *SwapService) GetByID(ctx context.Context, actorID, swapID int64) (*model.SwapRequest, error) {
	swap, err := s.repo.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanViewSwap(actorID, swap); err != nil {
		return nil, err
	}

	return swap, nil
}

// ListSent returns requests the user sent, newest first, cursor-paginated.
func (s *SwapService) ListSent(ctx context.Context, userID int64, cursor *time.Time, limit int) (*model.SwapListResponse, error) {
	return s.list(ctx, userID, cursor, limit, s.repo.ListBySender)
}

// ListReceived returns requests the user received, newest first, cursor-paginated.
func (s *SwapService) ListReceived(ctx context.Context, userID int64, cursor *time.Time, limit int) (*model.SwapListResponse, error) {
	return s.list(ctx, userID, cursor, limit, s.repo.ListByReceiver)
}

func (s *SwapService) list(
	ctx context.Context,
	userID int64,
	cursor *time.Time,
	limit int,
	fetch func(context.Context, int64, *time.Time, int) ([]model.SwapSummary, *time.Time, error),
) (*model.SwapListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	requests, nextCursor, err := fetch(ctx, userID, cursor, limit)
	if err != nil {
		return nil, err
	}

	var nextCursorStr *string
	if nextCursor != nil {
		str := nextCursor.Format(time.RFC3339Nano)
		nextCursorStr = &str
	}

	return &model.SwapListResponse{
		Requests:   requests,
		NextCursor: nextCursorStr,
		HasMore:    nextCursor != nil,
	}, nil
}

// publish emits a lifecycle event after the database write succeeded.
// Failures are logged, never surfaced: notifications are best-effort and
// the swap_requests table remains the source of truth.
func (s *SwapService) publish(ctx context.Context, eventType string, swap *model.SwapRequest, actorID int64) {
	if s.publisher == nil {
		return
	}

	event := queue.NewSwapEvent(eventType, swap.ID, swap.SenderID, swap.ReceiverID, actorID)
	msgID, err := s.publisher.Publish(ctx, queue.StreamSwaps, event)
	if err != nil {
		log.Printf("[SwapService] Failed to publish %s event: swap=%d actor=%d err=%v",
			eventType, swap.ID, actorID, err)
		return
	}
	log.Printf("[SwapService] Published %s: swap=%d actor=%d msgID=%s",
		eventType, swap.ID, actorID, msgID)
}
