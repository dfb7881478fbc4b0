package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"skillswap/internal/httputil"
	"skillswap/internal/model"
	"skillswap/internal/service"
	"skillswap/internal/transport/http/middleware"
)

type SkillHandler struct {
	skillService *service.SkillService
}

func NewSkillHandler(skillService *service.SkillService) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

// Create adds a skill to the caller's offered or wanted list.
// POST /skills
func (h *SkillHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	skill, err := h.skillService.Create(r.Context(), userID, &req)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, skill)
}

// Update edits a skill owned by the caller.
// PUT /skills/{id}
func (h *SkillHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	skillID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid skill ID")
		return
	}

	var req model.UpdateSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	skill, err := h.skillService.Update(r.Context(), userID, skillID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSkillNotFound):
			httputil.WriteNotFound(w, "Skill not found")
		case errors.Is(err, model.ErrForbidden):
			httputil.WriteForbidden(w, "You can only edit your own skills")
		case errors.Is(err, model.ErrInvalidSkillKind):
			httputil.WriteBadRequest(w, err.Error())
		default:
			httputil.WriteBadRequest(w, err.Error())
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, skill)
}

// Delete removes a skill owned by the caller.
// DELETE /skills/{id}
func (h *SkillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	skillID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid skill ID")
		return
	}

	if err := h.skillService.Delete(r.Context(), userID, skillID); err != nil {
		switch {
		case errors.Is(err, model.ErrSkillNotFound):
			httputil.WriteNotFound(w, "Skill not found")
		case errors.Is(err, model.ErrForbidden):
			httputil.WriteForbidden(w, "You can only delete your own skills")
		default:
			log.Printf("[ERROR] Delete skill handler: %v", err)
			httputil.WriteInternalError(w, "Failed to delete skill")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Skill deleted",
	})
}

// ListMine returns one of the caller's skill lists.
// GET /me/skills?kind=offered|wanted
func (h *SkillHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	kind := model.SkillKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = model.SkillOffered
	}

	skills, err := h.skillService.ListByOwner(r.Context(), userID, kind)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSkillKind) {
			httputil.WriteBadRequest(w, err.Error())
			return
		}
		log.Printf("[ERROR] ListMine handler: %v", err)
		httputil.WriteInternalError(w, "Failed to list skills")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"skills": skills,
	})
}

// Search finds skills by name substring.
// GET /skills/search?q=...&limit=...
func (h *SkillHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		httputil.WriteBadRequest(w, "Search query is required")
		return
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

	skills, err := h.skillService.SearchByName(r.Context(), query, limit)
	if err != nil {
		log.Printf("[ERROR] Skill search handler: %v", err)
		httputil.WriteInternalError(w, "Failed to search skills")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"skills": skills,
	})
}
