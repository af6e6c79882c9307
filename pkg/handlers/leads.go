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

const (
	defaultLeadPageSize = 10
	maxLeadPageSize     = 100
)

// LeadsHandler serves the lead CRUD surface. Authorization is transitive:
// a lead is reachable only through a campaign the caller owns.
type LeadsHandler struct {
	config *config.Config
	db     database.Store
}

// NewLeadsHandler creates a leads handler
func NewLeadsHandler(cfg *config.Config, db database.Store) *LeadsHandler {
	return &LeadsHandler{config: cfg, db: db}
}

// List handles GET /api/leads?page&limit&campaignId&sort
func (h *LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w)
		return
	}

	page := utils.GetQueryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := utils.GetQueryInt(r, "limit", defaultLeadPageSize)
	if limit < 1 {
		limit = defaultLeadPageSize
	}
	if limit > maxLeadPageSize {
		limit = maxLeadPageSize
	}
	campaignID := r.URL.Query().Get("campaignId")
	sort := database.ParseSort(r.URL.Query().Get("sort"))
	offset := (page - 1) * limit

	leads, total, err := h.db.ListLeads(user.ID, campaignID, sort, offset, limit)
	if err != nil {
		log.Printf("leads: list failed for user %s: %v", user.ID, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch leads")
		return
	}

	totalPages := (total + limit - 1) / limit

	utils.WriteSuccessResponse(w, models.LeadListResponse{
		Leads: leads,
		Pagination: models.Pagination{
			Total:       total,
			TotalPages:  totalPages,
			CurrentPage: page,
			Limit:       limit,
		},
	})
}

// Create handles POST /api/leads. The target campaign's ownership is
// verified before anything is written.
func (h *LeadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w)
		return
	}

	var req models.LeadCreateRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.CampaignID) == "" {
		utils.WriteBadRequestResponse(w, "Name, email, and campaign ID are required")
		return
	}

	if _, err := authorizeCampaign(h.db, user.ID, req.CampaignID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Campaign not found")
			return
		}
		log.Printf("leads: campaign check for create failed: %v", err)
		utils.WriteInternalServerErrorResponse(w, "Failed to create lead")
		return
	}

	lead := &models.Lead{
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Company:    req.Company,
		Position:   req.Position,
		Notes:      req.Notes,
		Status:     models.LeadPending,
		CampaignID: req.CampaignID,
	}
	if err := h.db.CreateLead(lead); err != nil {
		log.Printf("leads: create failed for user %s: %v", user.ID, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to create lead")
		return
	}

	utils.WriteCreatedResponse(w, lead)
}

// Get handles GET /api/leads/{id}
func (h *LeadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w)
		return
	}
	id := chi.URLParam(r, "id")

	lead, campaign, err := authorizeLead(h.db, user.ID, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Lead not found")
			return
		}
		log.Printf("leads: get %s failed: %v", id, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to fetch lead")
		return
	}
	lead.Campaign = campaign

	utils.WriteSuccessResponse(w, lead)
}

// Update handles PATCH /api/leads/{id}. Only fields present in the body are
// applied; moving the lead to another campaign re-runs the ownership check
// against the target.
func (h *LeadsHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w)
		return
	}
	id := chi.URLParam(r, "id")

	var req models.LeadUpdateRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	lead, _, err := authorizeLead(h.db, user.ID, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Lead not found")
			return
		}
		log.Printf("leads: update %s failed: %v", id, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to update lead")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		lead.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		lead.Email = strings.TrimSpace(*req.Email)
	}
	if req.Company != nil {
		lead.Company = *req.Company
	}
	if req.Position != nil {
		lead.Position = *req.Position
	}
	if req.Notes != nil {
		lead.Notes = *req.Notes
	}
	if req.Status != nil {
		if !models.ValidLeadStatus(*req.Status) {
			utils.WriteBadRequestResponse(w, "Invalid lead status")
			return
		}
		lead.Status = *req.Status
	}
	if req.CampaignID != nil && *req.CampaignID != "" && *req.CampaignID != lead.CampaignID {
		if _, err := authorizeCampaign(h.db, user.ID, *req.CampaignID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				utils.WriteNotFoundResponse(w, "Campaign not found")
				return
			}
			log.Printf("leads: campaign check for move failed: %v", err)
			utils.WriteInternalServerErrorResponse(w, "Failed to update lead")
			return
		}
		lead.CampaignID = *req.CampaignID
	}

	if err := h.db.UpdateLead(lead); err != nil {
		log.Printf("leads: update %s failed: %v", id, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to update lead")
		return
	}

	utils.WriteSuccessResponse(w, lead)
}

// Delete handles DELETE /api/leads/{id}
func (h *LeadsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.RequireUser(r.Context())
	if err != nil {
		utils.WriteUnauthorizedResponse(w)
		return
	}
	id := chi.URLParam(r, "id")

	if _, _, err := authorizeLead(h.db, user.ID, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.WriteNotFoundResponse(w, "Lead not found")
			return
		}
		log.Printf("leads: delete %s failed: %v", id, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to delete lead")
		return
	}

	if err := h.db.DeleteLead(id); err != nil {
		log.Printf("leads: delete %s failed: %v", id, err)
		utils.WriteInternalServerErrorResponse(w, "Failed to delete lead")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{"success": true})
}
