package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadflow-backend/pkg/database"
	"leadflow-backend/pkg/models"
)

func TestCampaignCreate(t *testing.T) {
	db := database.NewMemoryStore()
	h := NewCampaignsHandler(testConfig(), db)
	user := newTestUser(t, db, "alice@example.com")

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(t, http.MethodPost, "/api/campaigns",
		models.CampaignCreateRequest{Name: "Q1 Outreach"}, user, ""))

	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Campaign
	decodeBody(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Q1 Outreach", created.Name)
	assert.Equal(t, models.CampaignDraft, created.Status)
	assert.Equal(t, user.ID, created.UserID)
}

func TestCampaignCreateValidation(t *testing.T) {
	db := database.NewMemoryStore()
	h := NewCampaignsHandler(testConfig(), db)
	user := newTestUser(t, db, "alice@example.com")

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(t, http.MethodPost, "/api/campaigns",
		models.CampaignCreateRequest{Name: "   "}, user, ""))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Campaign name is required", errorMessage(t, rec))

	rec = httptest.NewRecorder()
	h.Create(rec, newRequest(t, http.MethodPost, "/api/campaigns",
		models.CampaignCreateRequest{Name: "X", Status: "Archived"}, user, ""))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid campaign status", errorMessage(t, rec))

	// Neither attempt left a row behind
	rows, err := db.ListCampaignsWithStats(user.ID, database.DefaultSort(), 100)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCampaignGetMasksForeignAndMissing(t *testing.T) {
	db := database.NewMemoryStore()
	h := NewCampaignsHandler(testConfig(), db)
	alice := newTestUser(t, db, "alice@example.com")
	bob := newTestUser(t, db, "bob@example.com")
	c := newTestCampaign(t, db, alice.ID, "Private")

	// Bob probing Alice's id and probing a random id look identical
	for _, id := range []string{c.ID, "no-such-id"} {
		rec := httptest.NewRecorder()
		h.Get(rec, newRequest(t, http.MethodGet, "/api/campaigns/"+id, nil, bob, id))
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Campaign not found", errorMessage(t, rec))
	}
}

func TestCampaignGetEmbedsLeads(t *testing.T) {
	db := database.NewMemoryStore()
	h := NewCampaignsHandler(testConfig(), db)
	alice := newTestUser(t, db, "alice@example.com")
	c := newTestCampaign(t, db, alice.ID, "With Leads")
	newTestLead(t, db, c.ID, "first", models.LeadPending)
	newTestLead(t, db, c.ID, "second", models.LeadContacted)

	rec := httptest.NewRecorder()
	h.Get(rec, newRequest(t, http.MethodGet, "/api/campaigns/"+c.ID, nil, alice, c.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Campaign
	decodeBody(t, rec, &got)
	assert.Equal(t, c.ID, got.ID)
	require.Len(t, got.Leads, 2)
	assert.Equal(t, "first", got.Leads[0].Name)
}

func TestCampaignUpdatePartial(t *testing.T) {
	db := database.NewMemoryStore()
	h := NewCampaignsHandler(testConfig(), db)
	alice := newTestUser(t, db, "alice@example.com")
	c := newTestCampaign(t, db, alice.ID, "Original")

	status := models.CampaignActive
	rec := httptest.NewRecorder()
	h.Update(rec, newRequest(t, http.MethodPatch, "/api/campaigns/"+c.ID,
		models.CampaignUpdateRequest{Status: &status}, alice, c.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Campaign
	decodeBody(t, rec, &got)
	assert.Equal(t, models.CampaignActive, got.Status)
	// Name untouched by a status-only patch
	assert.Equal(t, "Original", got.Name)

	bad := models.CampaignStatus("Archived")
	rec = httptest.NewRecorder()
	h.Update(rec, newRequest(t, http.MethodPatch, "/api/campaigns/"+c.ID,
		models.CampaignUpdateRequest{Status: &bad}, alice, c.ID))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid campaign status", errorMessage(t, rec))

	stored, err := db.GetCampaign(c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignActive, stored.Status)
}

func TestCampaignUpdateForeign(t *testing.T) {
	db := database.NewMemoryStore()
	h := NewCampaignsHandler(testConfig(), db)
	alice := newTestUser(t, db, "alice@example.com")
	bob := newTestUser(t, db, "bob@example.com")
	c := newTestCampaign(t, db, alice.ID, "Private")

	name := "Hijacked"
	rec := httptest.NewRecorder()
	h.Update(rec, newRequest(t, http.MethodPatch, "/api/campaigns/"+c.ID,
		models.CampaignUpdateRequest{Name: &name}, bob, c.ID))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Campaign not found", errorMessage(t, rec))

	stored, err := db.GetCampaign(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", stored.Name)
}

func TestCampaignDeleteCascades(t *testing.T) {
	db := database.NewMemoryStore()
	h := NewCampaignsHandler(testConfig(), db)
	alice := newTestUser(t, db, "alice@example.com")
	c := newTestCampaign(t, db, alice.ID, "Doomed")
	lead := newTestLead(t, db, c.ID, "goner", models.LeadPending)

	rec := httptest.NewRecorder()
	h.Delete(rec, newRequest(t, http.MethodDelete, "/api/campaigns/"+c.ID, nil, alice, c.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	decodeBody(t, rec, &body)
	assert.True(t, body["success"])

	_, err := db.GetCampaign(c.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = db.GetLead(lead.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestCampaignListStats(t *testing.T) {
	db := database.NewMemoryStore()
	campaigns := NewCampaignsHandler(testConfig(), db)
	leads := NewLeadsHandler(testConfig(), db)
	alice := newTestUser(t, db, "alice@example.com")

	// Create a campaign, add a lead, convert it, then list: the stats row
	// must report one lead, one responded, 100% response rate.
	rec := httptest.NewRecorder()
	campaigns.Create(rec, newRequest(t, http.MethodPost, "/api/campaigns",
		models.CampaignCreateRequest{Name: "Q1 Outreach"}, alice, ""))
	require.Equal(t, http.StatusCreated, rec.Code)
	var campaign models.Campaign
	decodeBody(t, rec, &campaign)

	rec = httptest.NewRecorder()
	leads.Create(rec, newRequest(t, http.MethodPost, "/api/leads",
		models.LeadCreateRequest{Name: "Jane", Email: "jane@acme.test", CampaignID: campaign.ID}, alice, ""))
	require.Equal(t, http.StatusCreated, rec.Code)
	var lead models.Lead
	decodeBody(t, rec, &lead)
	require.Equal(t, models.LeadPending, lead.Status)

	converted := models.LeadConverted
	rec = httptest.NewRecorder()
	leads.Update(rec, newRequest(t, http.MethodPatch, "/api/leads/"+lead.ID,
		models.LeadUpdateRequest{Status: &converted}, alice, lead.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	campaigns.List(rec, newRequest(t, http.MethodGet, "/api/campaigns", nil, alice, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []models.CampaignWithStats
	decodeBody(t, rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Q1 Outreach", rows[0].Name)
	assert.Equal(t, 1, rows[0].TotalLeads)
	assert.Equal(t, 1, rows[0].RespondedLeads)
	assert.Equal(t, 100, rows[0].ResponseRate)
}

func TestCampaignListSortParam(t *testing.T) {
	db := database.NewMemoryStore()
	h := NewCampaignsHandler(testConfig(), db)
	alice := newTestUser(t, db, "alice@example.com")
	newTestCampaign(t, db, alice.ID, "bravo")
	newTestCampaign(t, db, alice.ID, "alpha")

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(t, http.MethodGet, "/api/campaigns?sort=name:asc", nil, alice, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []models.CampaignWithStats
	decodeBody(t, rec, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "alpha", rows[0].Name)
	assert.Equal(t, "bravo", rows[1].Name)
}
