package handler

import (
	"log"
	"net/http"

	"skillswap/internal/httputil"
	"skillswap/internal/service"
)

// AdminHandler serves the read-only administrative surface. The admin
// middleware has already verified is_admin before any of these run.
type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Stats returns aggregate platform numbers.
// GET /admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		log.Printf("[ERROR] Admin stats handler: %v", err)
		httputil.WriteInternalError(w, "Failed to load stats")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, stats)
}

// ListUsers returns every account, including private profiles.
// GET /admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		log.Printf("[ERROR] Admin list users handler: %v", err)
		httputil.WriteInternalError(w, "Failed to list users")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
	})
}

// ListSkills returns every skill across all users.
// GET /admin/skills
func (h *AdminHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.adminService.ListSkills(r.Context())
	if err != nil {
		log.Printf("[ERROR] Admin list skills handler: %v", err)
		httputil.WriteInternalError(w, "Failed to list skills")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"skills": skills,
	})
}

// ListSwaps returns every swap request.
// GET /admin/swaps
func (h *AdminHandler) ListSwaps(w http.ResponseWriter, r *http.Request) {
	swaps, err := h.adminService.ListSwaps(r.Context())
	if err != nil {
		log.Printf("[ERROR] Admin list swaps handler: %v", err)
		httputil.WriteInternalError(w, "Failed to list swap requests")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requests": swaps,
	})
}
