package models

import "time"

// CampaignStatus enumerates the campaign lifecycle values. Transitions are
// unconstrained: any value may follow any other.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "Draft"
	CampaignActive    CampaignStatus = "Active"
	CampaignPaused    CampaignStatus = "Paused"
	CampaignCompleted CampaignStatus = "Completed"
)

// ValidCampaignStatus reports whether s is one of the enumerated values.
func ValidCampaignStatus(s CampaignStatus) bool {
	switch s {
	case CampaignDraft, CampaignActive, CampaignPaused, CampaignCompleted:
		return true
	}
	return false
}

// Campaign is a named outreach effort owned by exactly one user.
// JSON field names match what the dashboard frontend consumes.
type Campaign struct {
	ID        string         `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Status    CampaignStatus `json:"status" db:"status"`
	UserID    string         `json:"userId" db:"user_id"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`

	// Leads is populated on single-campaign reads only.
	Leads []Lead `json:"leads,omitempty" db:"-"`
}

// CampaignWithStats is a campaign list row annotated with derived lead
// counters. ResponseRate is round(100*responded/total), 0 with no leads;
// "responded" means a lead reached Responded or Converted.
type CampaignWithStats struct {
	Campaign
	TotalLeads     int `json:"totalLeads"`
	RespondedLeads int `json:"respondedLeads"`
	ResponseRate   int `json:"responseRate"`
}

// CampaignCreateRequest represents the request payload for campaign creation
type CampaignCreateRequest struct {
	Name   string         `json:"name"`
	Status CampaignStatus `json:"status,omitempty"`
}

// CampaignUpdateRequest represents a partial patch; only non-nil fields
// are applied.
type CampaignUpdateRequest struct {
	Name   *string         `json:"name"`
	Status *CampaignStatus `json:"status"`
}
