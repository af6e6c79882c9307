package handlers

import (
	"errors"

	"leadflow-backend/pkg/database"
	"leadflow-backend/pkg/models"
)

// The access guard: every single-entity operation funnels through these two
// functions before touching anything. A campaign or lead that does not exist
// and one owned by somebody else produce the same database.ErrNotFound, so
// an unauthorized caller cannot tell which ids are taken.

// authorizeCampaign fetches a campaign and verifies the caller owns it.
func authorizeCampaign(db database.Store, userID, campaignID string) (*models.Campaign, error) {
	campaign, err := db.GetCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.UserID != userID {
		return nil, database.ErrNotFound
	}
	return campaign, nil
}

// authorizeLead fetches a lead and verifies the caller owns its campaign.
// Ownership is transitive: the lead's campaign decides. Returns both so
// detail handlers can embed the campaign without refetching.
func authorizeLead(db database.Store, userID, leadID string) (*models.Lead, *models.Campaign, error) {
	lead, err := db.GetLead(leadID)
	if err != nil {
		return nil, nil, err
	}
	campaign, err := authorizeCampaign(db, userID, lead.CampaignID)
	if err != nil {
		// Mask a broken campaign reference the same as a foreign one
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, database.ErrNotFound
		}
		return nil, nil, err
	}
	return lead, campaign, nil
}
