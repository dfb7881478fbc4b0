package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"skillswap/internal/httputil"
	"skillswap/internal/model"
	"skillswap/internal/service"
	"skillswap/internal/transport/http/middleware"
)

type SwapHandler struct {
	swapService *service.SwapService
}

func NewSwapHandler(swapService *service.SwapService) *SwapHandler {
	return &SwapHandler{swapService: swapService}
}

// Create sends a new swap request.
// POST /swaps
func (h *SwapHandler) Create(w http.ResponseWriter, r *http.Request) {
	senderID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.ReceiverID == 0 {
		httputil.WriteBadRequest(w, "receiver_id is required")
		return
	}

	swap, err := h.swapService.Create(r.Context(), senderID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCannotSwapSelf):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "Receiver not found")
		case errors.Is(err, model.ErrDuplicateRequest):
			httputil.WriteConflict(w, err.Error())
		default:
			log.Printf("[ERROR] Create swap handler: %v", err)
			httputil.WriteInternalError(w, "Failed to create swap request")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, swap)
}

// Get returns a single request, visible only to its participants.
// GET /swaps/{id}
func (h *SwapHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	swapID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid swap request ID")
		return
	}

	swap, err := h.swapService.GetByID(r.Context(), userID, swapID)
	if err != nil {
		h.writeSwapError(w, "Get swap", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, swap)
}

// Accept lets the receiver accept a pending request.
// POST /swaps/{id}/accept
func (h *SwapHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, h.swapService.Accept)
}

// Reject lets the receiver reject a pending request.
// POST /swaps/{id}/reject
func (h *SwapHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.answer(w, r, h.swapService.Reject)
}

func (h *SwapHandler) answer(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64, int64) (*model.SwapRequest, error)) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	swapID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid swap request ID")
		return
	}

	swap, err := fn(r.Context(), userID, swapID)
	if err != nil {
		h.writeSwapError(w, "Answer swap", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, swap)
}

// Complete lets either participant confirm an accepted swap happened.
// POST /swaps/{id}/complete
func (h *SwapHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	swapID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid swap request ID")
		return
	}

	// Body is optional; an empty body means no feedback
	var req model.CompleteSwapRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteBadRequest(w, "Invalid request body")
			return
		}
	}

	swap, err := h.swapService.Complete(r.Context(), userID, swapID, &req)
	if err != nil {
		h.writeSwapError(w, "Complete swap", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, swap)
}

// Cancel lets the sender withdraw a pending request. The row is deleted.
// DELETE /swaps/{id}
func (h *SwapHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	swapID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid swap request ID")
		return
	}

	if err := h.swapService.Cancel(r.Context(), userID, swapID); err != nil {
		h.writeSwapError(w, "Cancel swap", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Swap request cancelled",
	})
}

// ListSent returns requests the caller sent.
// GET /swaps/sent?cursor=...&limit=...
func (h *SwapHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.swapService.ListSent)
}

// ListReceived returns requests the caller received.
// GET /swaps/received?cursor=...&limit=...
func (h *SwapHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.swapService.ListReceived)
}

func (h *SwapHandler) list(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64, *time.Time, int) (*model.SwapListResponse, error)) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var cursor *time.Time
	if cursorStr := r.URL.Query().Get("cursor"); cursorStr != "" {
		parsed, err := time.Parse(time.RFC3339Nano, cursorStr)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid cursor format")
			return
		}
		cursor = &parsed
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err != nil || parsedLimit < 1 || parsedLimit > 100 {
			httputil.WriteBadRequest(w, "Limit must be between 1 and 100")
			return
		}
		limit = parsedLimit
	}

	result, err := fn(r.Context(), userID, cursor, limit)
	if err != nil {
		log.Printf("[ERROR] List swaps handler: %v", err)
		httputil.WriteInternalError(w, "Failed to list swap requests")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// writeSwapError maps lifecycle errors to HTTP responses.
func (h *SwapHandler) writeSwapError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, model.ErrSwapNotFound):
		httputil.WriteNotFound(w, "Swap request not found")
	case errors.Is(err, model.ErrForbidden):
		httputil.WriteForbidden(w, "You are not allowed to perform this action on this swap request")
	case errors.Is(err, model.ErrAlreadyProcessed):
		httputil.WriteConflict(w, err.Error())
	case errors.Is(err, model.ErrInvalidSwapState):
		httputil.WriteConflict(w, err.Error())
	default:
		log.Printf("[ERROR] %s handler: %v", op, err)
		httputil.WriteInternalError(w, "Swap request operation failed")
	}
}
