package model

import (
	"errors"
	"time"
)

// SwapStatus is the lifecycle state of a swap request.
// pending -> accepted | rejected (receiver decides)
// accepted -> completed (either participant confirms)
// A pending request can also be cancelled by the sender, which deletes
// the row outright; there is no cancelled status.
type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapRejected  SwapStatus = "rejected"
	SwapCompleted SwapStatus = "completed"
)

// SwapRequest is a proposal from one user to another to exchange skills.
type SwapRequest struct {
	ID         int64      `db:"id" json:"id"`
	SenderID   int64      `db:"sender_id" json:"sender_id"`
	ReceiverID int64      `db:"receiver_id" json:"receiver_id"`
	Message    *string    `db:"message" json:"message,omitempty"`
	Status     SwapStatus `db:"status" json:"status"`
	Feedback   *string    `db:"feedback" json:"feedback,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// IsParticipant reports whether userID is the sender or the receiver.
func (r *SwapRequest) IsParticipant(userID int64) bool {
	return r.SenderID == userID || r.ReceiverID == userID
}

// SwapSummary joins the counterparty usernames for list views.
type SwapSummary struct {
	SwapRequest
	SenderName   string `db:"sender_name" json:"sender_name"`
	ReceiverName string `db:"receiver_name" json:"receiver_name"`
}

// CreateSwapRequest is the request body for sending a swap request.
type CreateSwapRequest struct {
	ReceiverID int64   `json:"receiver_id"`
	Message    *string `json:"message"`
}

// CompleteSwapRequest optionally carries feedback captured at completion.
type CompleteSwapRequest struct {
	Feedback *string `json:"feedback"`
}

// SwapListResponse is a cursor-paginated page of swap requests.
type SwapListResponse struct {
	Requests   []SwapSummary `json:"requests"`
	NextCursor *string       `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

var (
	// ErrSwapNotFound is returned when a request id does not resolve
	ErrSwapNotFound = errors.New("swap request not found")

	// ErrCannotSwapSelf is returned when sender and receiver are the same user
	ErrCannotSwapSelf = errors.New("cannot send a swap request to yourself")

	// ErrDuplicateRequest is returned when a pending request already exists
	// for the same (sender, receiver) pair
	ErrDuplicateRequest = errors.New("a pending request to this user already exists")

	// ErrAlreadyProcessed is returned when accept/reject hits a request
	// that is no longer pending
	ErrAlreadyProcessed = errors.New("swap request has already been processed")

	// ErrInvalidSwapState is returned when complete/cancel hit a request
	// whose status does not permit the transition
	ErrInvalidSwapState = errors.New("swap request is not in a state that allows this action")
)
