package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"leadflow-backend/pkg/config"
	"leadflow-backend/pkg/database"
	"leadflow-backend/pkg/middleware"
	"leadflow-backend/pkg/models"
	"leadflow-backend/pkg/utils"
)

const defaultCampaignLimit = 100

// CampaignsHandler serves the campaign CRUD surface
type CampaignsHandler struct {
	config *config.Config
	db     database.Store
}

// NewCampaignsHandler creates a campaigns handler
func NewCampaignsHandler(cfg *config.Config, db database.Store) *CampaignsHandler {
	return &CampaignsHandler{config: cfg, db: db}
}

// List handles GET /api/campaigns?limit&sort
func (h *CampaignsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w)
		return
	}

	limit := utils.GetQueryInt(r, "limit", defaultCampaignLimit)
	if limit < 1 {
		limit = defaultCampaignLimit
	}
	sort := database.ParseSort(r.URL.Query().Get("sort"))

	campaigns, err := h.db.ListCampaignsWithStats(user.ID, sort, limit)
	if err != nil {
		log.Printf("campaigns: list failed for user %s: %v", user.ID, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch campaigns")
		return
	}

	utils.WriteSuccessResponse(w, campaigns)
}

// Create handles POST /api/campaigns
func (h *CampaignsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w)
		return
	}

	var req models.CampaignCreateRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		utils.WriteBadRequestResponse(w, "Campaign name is required")
		return
	}
	if req.Status == "" {
		req.Status = models.CampaignDraft
	}
	if !models.ValidCampaignStatus(req.Status) {
		utils.WriteBadRequestResponse(w, "Invalid campaign status")
		return
	}

	campaign := &models.Campaign{
		Name:   strings.TrimSpace(req.Name),
		Status: req.Status,
		UserID: user.ID,
	}
	if err := h.db.CreateCampaign(campaign); err != nil {
		log.Printf("campaigns: create failed for user %s: %v", user.ID, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to create campaign")
		return
	}

	utils.WriteCreatedResponse(w, campaign)
}

// Get handles GET /api/campaigns/{id}
func (h *CampaignsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w)
		return
	}
	id := chi.URLParam(r, "id")

	campaign, err := authorizeCampaign(h.db, user.ID, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Campaign not found")
			return
		}
		log.Printf("campaigns: get %s failed: %v", id, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch campaign")
		return
	}

	leads, err := h.db.ListLeadsByCampaign(campaign.ID)
	if err != nil {
		log.Printf("campaigns: loading leads for %s failed: %v", id, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch campaign")
		return
	}
	campaign.Leads = leads

	utils.WriteSuccessResponse(w, campaign)
}

// Update handles PATCH /api/campaigns/{id}. Only fields present in the body
// are applied; updatedAt is always refreshed.
func (h *CampaignsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w)
		return
	}
	id := chi.URLParam(r, "id")

	var req models.CampaignUpdateRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	campaign, err := authorizeCampaign(h.db, user.ID, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Campaign not found")
			return
		}
		log.Printf("campaigns: update %s failed: %v", id, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to update campaign")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		campaign.Name = strings.TrimSpace(*req.Name)
	}
	if req.Status != nil {
		if !models.ValidCampaignStatus(*req.Status) {
			utils.WriteBadRequestResponse(w, "Invalid campaign status")
			return
		}
		campaign.Status = *req.Status
	}

	if err := h.db.UpdateCampaign(campaign); err != nil {
		log.Printf("campaigns: update %s failed: %v", id, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to update campaign")
		return
	}

	utils.WriteSuccessResponse(w, campaign)
}

// Delete handles DELETE /api/campaigns/{id}. Leads under the campaign are
// deleted with it.
func (h *CampaignsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w)
		return
	}
	id := chi.URLParam(r, "id")

	if _, err := authorizeCampaign(h.db, user.ID, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Campaign not found")
			return
		}
		log.Printf("campaigns: delete %s failed: %v", id, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to delete campaign")
		return
	}

	if err := h.db.DeleteCampaign(id); err != nil {
		log.Printf("campaigns: delete %s failed: %v", id, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to delete campaign")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{"success": true})
}
