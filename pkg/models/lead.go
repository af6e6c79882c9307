package models

import "time"

// LeadStatus enumerates the funnel values. Pending is the initial status for
// every new lead; no transition table is enforced on top of the enum.
type LeadStatus string

const (
	LeadPending   LeadStatus = "Pending"
	LeadContacted LeadStatus = "Contacted"
	LeadResponded LeadStatus = "Responded"
	LeadConverted LeadStatus = "Converted"
)

// ValidLeadStatus reports whether s is one of the enumerated values.
func ValidLeadStatus(s LeadStatus) bool {
	switch s {
	case LeadPending, LeadContacted, LeadResponded, LeadConverted:
		return true
	}
	return false
}

// Lead is a prospective contact attached to exactly one campaign. Its
// effective owner is the campaign's owner.
type Lead struct {
	ID         string     `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	Email      string     `json:"email" db:"email"`
	Company    string     `json:"company,omitempty" db:"company"`
	Position   string     `json:"position,omitempty" db:"position"`
	Notes      string     `json:"notes,omitempty" db:"notes"`
	Status     LeadStatus `json:"status" db:"status"`
	CampaignID string     `json:"campaignId" db:"campaign_id"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`

	// Campaign is populated on single-lead reads only.
	Campaign *Campaign `json:"campaign,omitempty" db:"-"`
}

// LeadCreateRequest represents the request payload for lead creation
type LeadCreateRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	CampaignID string `json:"campaignId"`
	Company    string `json:"company,omitempty"`
	Position   string `json:"position,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// LeadUpdateRequest represents a partial patch; only non-nil fields are
// applied. Changing CampaignID re-checks ownership of the target campaign.
type LeadUpdateRequest struct {
	Name       *string     `json:"name"`
	Email      *string     `json:"email"`
	Company    *string     `json:"company"`
	Position   *string     `json:"position"`
	Notes      *string     `json:"notes"`
	Status     *LeadStatus `json:"status"`
	CampaignID *string     `json:"campaignId"`
}

// Pagination describes a page of a filtered, sorted lead listing.
type Pagination struct {
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

// LeadListResponse is the wire shape of GET /api/leads.
type LeadListResponse struct {
	Leads      []Lead     `json:"leads"`
	Pagination Pagination `json:"pagination"`
}

// DashboardStats aggregates the caller's leads across all campaigns.
// ConversionRate is round(100*converted/total), 0 when there are no leads.
type DashboardStats struct {
	TotalLeads     int `json:"totalLeads"`
	NewLeads       int `json:"newLeads"`
	ContactedLeads int `json:"contactedLeads"`
	ConversionRate int `json:"conversionRate"`
}
