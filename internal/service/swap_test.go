package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillswap/internal/model"
	"skillswap/internal/queue"
)

type mockSwapRepository struct {
	createFn         func(ctx context.Context, req *model.SwapRequest) (bool, error)
	getByIDFn        func(ctx context.Context, id int64) (*model.SwapRequest, error)
	updateStatusFn   func(ctx context.Context, id int64, from, to model.SwapStatus, feedback *string) (bool, error)
	deletePendingFn  func(ctx context.Context, id int64) (bool, error)
	listBySenderFn   func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.SwapSummary, *time.Time, error)
	listByReceiverFn func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.SwapSummary, *time.Time, error)
}

func (m *mockSwapRepository) Create(ctx context.Context, req *model.SwapRequest) (bool, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return true, nil
}

func (m *mockSwapRepository) GetByID(ctx context.Context, id int64) (*model.SwapRequest, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrSwapNotFound
}

func (m *mockSwapRepository) UpdateStatus(ctx context.Context, id int64, from, to model.SwapStatus, feedback *string) (bool, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, from, to, feedback)
	}
	return true, nil
}

func (m *mockSwapRepository) DeletePending(ctx context.Context, id int64) (bool, error) {
	if m.deletePendingFn != nil {
		return m.deletePendingFn(ctx, id)
	}
	return true, nil
}

func (m *mockSwapRepository) ListBySender(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.SwapSummary, *time.Time, error) {
	if m.listBySenderFn != nil {
		return m.listBySenderFn(ctx, userID, cursor, limit)
	}
	return nil, nil, nil
}

func (m *mockSwapRepository) ListByReceiver(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.SwapSummary, *time.Time, error) {
	if m.listByReceiverFn != nil {
		return m.listByReceiverFn(ctx, userID, cursor, limit)
	}
	return nil, nil, nil
}

// mockPublisher records published events.
type mockPublisher struct {
	events []queue.SwapEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.SwapEvent) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.events = append(m.events, event)
	return "1-0", nil
}

// userRepoWith returns a user repo that knows the given user ids.
func userRepoWith(ids ...int64) *mockUserRepository {
	known := make(map[int64]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			if known[id] {
				return &model.User{ID: id}, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
}

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestSwapService_Create_Success(t *testing.T) {
	mockRepo := &mockSwapRepository{
		createFn: func(ctx context.Context, req *model.SwapRequest) (bool, error) {
			req.ID = 42
			req.Status = model.SwapPending
			req.CreatedAt = time.Now()
			return true, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewSwapService(mockRepo, userRepoWith(1, 2), pub)

	msg := "Guitar lessons for Spanish conversation?"
	swap, err := svc.Create(context.Background(), 1, &model.CreateSwapRequest{
		ReceiverID: 2,
		Message:    &msg,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if swap.Status != model.SwapPending {
		t.Errorf("status = %q, want pending", swap.Status)
	}

	if len(pub.events) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Type != queue.EventSwapRequested {
		t.Errorf("event type = %q, want %q", ev.Type, queue.EventSwapRequested)
	}
	if ev.SwapID != 42 || ev.SenderID != 1 || ev.ReceiverID != 2 || ev.ActorID != 1 {
		t.Errorf("event fields = %+v", ev)
	}
}

func TestSwapService_Create_SelfTarget(t *testing.T) {
	svc := NewSwapService(&mockSwapRepository{}, userRepoWith(1), &mockPublisher{})

	_, err := svc.Create(context.Background(), 1, &model.CreateSwapRequest{ReceiverID: 1})

	if !errors.Is(err, model.ErrCannotSwapSelf) {
		t.Errorf("error = %v, want %v", err, model.ErrCannotSwapSelf)
	}
}

func TestSwapService_Create_ReceiverMissing(t *testing.T) {
	svc := NewSwapService(&mockSwapRepository{}, userRepoWith(1), &mockPublisher{})

	_, err := svc.Create(context.Background(), 1, &model.CreateSwapRequest{ReceiverID: 99})

	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
}

func TestSwapService_Create_DuplicatePending(t *testing.T) {
	mockRepo := &mockSwapRepository{
		createFn: func(ctx context.Context, req *model.SwapRequest) (bool, error) {
			return false, nil // Partial unique index rejected the insert
		},
	}
	pub := &mockPublisher{}
	svc := NewSwapService(mockRepo, userRepoWith(1, 2), pub)

	_, err := svc.Create(context.Background(), 1, &model.CreateSwapRequest{ReceiverID: 2})

	if !errors.Is(err, model.ErrDuplicateRequest) {
		t.Errorf("error = %v, want %v", err, model.ErrDuplicateRequest)
	}
	if len(pub.events) != 0 {
		t.Error("no event should be published for a rejected duplicate")
	}
}

func TestSwapService_Create_PublishFailureDoesNotFail(t *testing.T) {
	mockRepo := &mockSwapRepository{
		createFn: func(ctx context.Context, req *model.SwapRequest) (bool, error) {
			req.ID = 7
			req.Status = model.SwapPending
			return true, nil
		},
	}
	svc := NewSwapService(mockRepo, userRepoWith(1, 2), &mockPublisher{err: errors.New("redis down")})

	// Notifications are best-effort; a publish failure must not fail the create
	if _, err := svc.Create(context.Background(), 1, &model.CreateSwapRequest{ReceiverID: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// =============================================================================
// ACCEPT / REJECT TESTS
// =============================================================================

func pendingSwap(id, sender, receiver int64) *model.SwapRequest {
	return &model.SwapRequest{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Status:     model.SwapPending,
	}
}

func TestSwapService_Accept_Success(t *testing.T) {
	mockRepo := &mockSwapRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.SwapRequest, error) {
			return pendingSwap(5, 1, 2), nil
		},
		updateStatusFn: func(ctx context.Context, id int64, from, to model.SwapStatus, feedback *string) (bool, error) {
			if from != model.SwapPending || to != model.SwapAccepted {
				t.Errorf("transition %q -> %q, want pending -> accepted", from, to)
			}
			return true, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewSwapService(mockRepo, userRepoWith(1, 2), pub)

	swap, err := svc.Accept(context.Background(), 2, 5)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if swap.Status != model.SwapAccepted {
		t.Errorf("status = %q, want accepted", swap.Status)
	}
	if len(pub.events) != 1 || pub.events[0].Type != queue.EventSwapAccepted {
		t.Errorf("expected one swap_accepted event, got %+v", pub.events)
	}
}

func TestSwapService_Accept_OnlyReceiver(t *testing.T) {
	mockRepo := &mockSwapRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.SwapRequest, error) {
			return pendingSwap(5, 1, 2), nil
		},
	}
	svc := NewSwapService(mockRepo, userRepoWith(1, 2, 3), &mockPublisher{})

	// Neither the sender nor a stranger may accept
	for _, actorID := range []int64{1, 3} {
		if _, err := svc.Accept(context.Background(), actorID, 5); !errors.Is(err, model.ErrForbidden) {
			t.Errorf("actor %d: error = %v, want %v", actorID, err, model.ErrForbidden)
		}
	}
}

func TestSwapService_Accept_AlreadyProcessed(t *testing.T) {
	mockRepo := &mockSwapRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.SwapRequest, error) {
			s := pendingSwap(5, 1, 2)
			s.Status = model.SwapRejected
			return s, nil
		},
	}
	svc := NewSwapService(mockRepo, userRepoWith(1, 2), &mockPublisher{})

	if _, err := svc.Accept(context.Background(), 2, 5); !errors.Is(err, model.ErrAlreadyProcessed) {
		t.Errorf("error = %v, want %v", err, model.ErrAlreadyProcessed)
	}
}

func TestSwapService_Accept_LostRace(t *testing.T) {
	mockRepo := &mockSwapRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.SwapRequest, error) {
			return pendingSwap(5, 1, 2), nil
		},
		updateStatusFn: func(ctx context.Context, id int64, from, to model.SwapStatus, feedback *string) (bool, error) {
			return false, nil // Status changed between read and write
		},
	}
	pub := &mockPublisher{}
	svc := NewSwapService(mockRepo, userRepoWith(1, 2), pub)

	if _, err := svc.Accept(context.Background(), 2, 5); !errors.Is(err, model.ErrAlreadyProcessed) {
		t.Errorf("error = %v, want %v", err, model.ErrAlreadyProcessed)
	}
	if len(pub.events) != 0 {
		t.Error("no event should be published when the guarded update misses")
	}
}

func TestSwapService_Reject_Success(t *testing.T) {
	mockRepo := &mockSwapRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.SwapRequest, error) {
			return pendingSwap(5, 1, 2), nil
		},
	}
	pub := &mockPublisher{}
	svc := NewSwapService(mockRepo, userRepoWith(1, 2), pub)

	swap, err := svc.Reject(context.Background(), 2, 5)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if swap.Status != model.SwapRejected {
		t.Errorf("status = %q, want rejected", swap.Status)
	}
	if len(pub.events) != 1 || pub.events[0].Type != queue.EventSwapRejected {
		t.Errorf("expected one swap_rejected event, got %+v", pub.events)
	}
}

// =============================================================================
// COMPLETE TESTS
// =============================================================================

func TestSwapService_Complete(t *testing.T) {
	feedback := "Great swap, learned a lot"

	tests := []struct {
		name     string
		actorID  int64
		status   model.SwapStatus
		req      *model.CompleteSwapRequest
		updateOK bool
		wantErr  error
	}{
		{"sender completes accepted", 1, model.SwapAccepted, nil, true, nil},
		{"receiver completes accepted", 2, model.SwapAccepted, nil, true, nil},
		{"with feedback", 1, model.SwapAccepted, &model.CompleteSwapRequest{Feedback: &feedback}, true, nil},
		{"stranger forbidden", 3, model.SwapAccepted, nil, true, model.ErrForbidden},
		{"pending cannot complete", 1, model.SwapPending, nil, true, model.ErrInvalidSwapState},
		{"rejected cannot complete", 1, model.SwapRejected, nil, true, model.ErrInvalidSwapState},
		{"already completed", 1, model.SwapCompleted, nil, true, model.ErrInvalidSwapState},
		{"double-complete race", 1, model.SwapAccepted, nil, false, model.ErrInvalidSwapState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotFeedback *string
			mockRepo := &mockSwapRepository{
				getByIDFn: func(ctx context.Context, id int64) (*model.SwapRequest, error) {
					s := pendingSwap(5, 1, 2)
					s.Status = tt.status
					return s, nil
				},
				updateStatusFn: func(ctx context.Context, id int64, from, to model.SwapStatus, feedback *string) (bool, error) {
					gotFeedback = feedback
					return tt.updateOK, nil
				},
			}
			pub := &mockPublisher{}
			svc := NewSwapService(mockRepo, userRepoWith(1, 2, 3), pub)

			swap, err := svc.Complete(context.Background(), tt.actorID, 5, tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if len(pub.events) != 0 {
					t.Error("no event should be published on failure")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if swap.Status != model.SwapCompleted {
				t.Errorf("status = %q, want completed", swap.Status)
			}
			if tt.req != nil && tt.req.Feedback != nil {
				if gotFeedback == nil || *gotFeedback != *tt.req.Feedback {
					t.Error("feedback should be passed to the repository")
				}
			}
			if len(pub.events) != 1 || pub.events[0].Type != queue.EventSwapCompleted {
				t.Errorf("expected one swap_completed event, got %+v", pub.events)
			}
		})
	}
}

// =============================================================================
// CANCEL TESTS
// =============================================================================

func TestSwapService_Cancel(t *testing.T) {
	tests := []struct {
		name     string
		actorID  int64
		status   model.SwapStatus
		deleteOK bool
		wantErr  error
	}{
		{"sender cancels pending", 1, model.SwapPending, true, nil},
		{"receiver cannot cancel", 2, model.SwapPending, true, model.ErrForbidden},
		{"stranger cannot cancel", 3, model.SwapPending, true, model.ErrForbidden},
		{"accepted cannot be cancelled", 1, model.SwapAccepted, true, model.ErrInvalidSwapState},
		{"cancel loses race to accept", 1, model.SwapPending, false, model.ErrInvalidSwapState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockSwapRepository{
				getByIDFn: func(ctx context.Context, id int64) (*model.SwapRequest, error) {
					s := pendingSwap(5, 1, 2)
					s.Status = tt.status
					return s, nil
				},
				deletePendingFn: func(ctx context.Context, id int64) (bool, error) {
					return tt.deleteOK, nil
				},
			}
			svc := NewSwapService(mockRepo, userRepoWith(1, 2, 3), &mockPublisher{})

			err := svc.Cancel(context.Background(), tt.actorID, 5)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// Cancelling deletes the row, so a fresh request to the same user succeeds.
func TestSwapService_CancelThenRecreate(t *testing.T) {
	deleted := false
	mockRepo := &mockSwapRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.SwapRequest, error) {
			if deleted {
				return nil, model.ErrSwapNotFound
			}
			return pendingSwap(5, 1, 2), nil
		},
		deletePendingFn: func(ctx context.Context, id int64) (bool, error) {
			deleted = true
			return true, nil
		},
		createFn: func(ctx context.Context, req *model.SwapRequest) (bool, error) {
			// No pending row remains for the pair
			req.ID = 6
			req.Status = model.SwapPending
			return deleted, nil
		},
	}
	svc := NewSwapService(mockRepo, userRepoWith(1, 2), &mockPublisher{})

	if err := svc.Cancel(context.Background(), 1, 5); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// The cancelled request is gone entirely
	if _, err := svc.GetByID(context.Background(), 1, 5); !errors.Is(err, model.ErrSwapNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrSwapNotFound)
	}

	// And a new request to the same receiver is allowed again
	if _, err := svc.Create(context.Background(), 1, &model.CreateSwapRequest{ReceiverID: 2}); err != nil {
		t.Fatalf("recreate after cancel failed: %v", err)
	}
}

// =============================================================================
// VIEW / LIST TESTS
// =============================================================================

func TestSwapService_GetByID_ParticipantsOnly(t *testing.T) {
	mockRepo := &mockSwapRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.SwapRequest, error) {
			return pendingSwap(5, 1, 2), nil
		},
	}
	svc := NewSwapService(mockRepo, userRepoWith(1, 2, 3), &mockPublisher{})

	for _, actorID := range []int64{1, 2} {
		if _, err := svc.GetByID(context.Background(), actorID, 5); err != nil {
			t.Errorf("participant %d: unexpected error: %v", actorID, err)
		}
	}

	if _, err := svc.GetByID(context.Background(), 3, 5); !errors.Is(err, model.ErrForbidden) {
		t.Errorf("error = %v, want %v", err, model.ErrForbidden)
	}
}

func TestSwapService_ListSent_Pagination(t *testing.T) {
	cursorTime := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mockRepo := &mockSwapRepository{
		listBySenderFn: func(ctx context.Context, userID int64, cursor *time.Time, limit int) ([]model.SwapSummary, *time.Time, error) {
			if limit != 20 {
				t.Errorf("limit = %d, want default 20", limit)
			}
			return []model.SwapSummary{
				{SwapRequest: *pendingSwap(5, userID, 2)},
			}, &cursorTime, nil
		},
	}
	svc := NewSwapService(mockRepo, userRepoWith(1, 2), &mockPublisher{})

	resp, err := svc.ListSent(context.Background(), 1, nil, 0)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.HasMore {
		t.Error("has_more should be true when a next cursor exists")
	}
	if resp.NextCursor == nil {
		t.Fatal("next_cursor should be set")
	}
	if _, err := time.Parse(time.RFC3339Nano, *resp.NextCursor); err != nil {
		t.Errorf("next_cursor %q is not RFC3339: %v", *resp.NextCursor, err)
	}
}
