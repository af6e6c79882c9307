package handlers

import (
	"log"
	"net/http"

	"leadflow-backend/pkg/config"
	"leadflow-backend/pkg/database"
	"leadflow-backend/pkg/middleware"
	"leadflow-backend/pkg/utils"
)

// DashboardHandler serves the aggregate statistics endpoint
type DashboardHandler struct {
	config *config.Config
	db     database.Store
}

// NewDashboardHandler creates a dashboard handler
func NewDashboardHandler(cfg *config.Config, db database.Store) *DashboardHandler {
	return &DashboardHandler{config: cfg, db: db}
}

// Stats handles GET /api/dashboard/stats. The counters are recomputed on
// every request; nothing is cached.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w)
		return
	}

	stats, err := h.db.GetDashboardStats(user.ID)
	if err != nil {
		log.Printf("dashboard: stats failed for user %s: %v", user.ID, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch dashboard statistics")
		return
	}

	utils.WriteSuccessResponse(w, stats)
}
