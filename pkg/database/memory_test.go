package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadflow-backend/pkg/models"
)

func seedUser(t *testing.T, s *MemoryStore, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email}
	require.NoError(t, s.CreateUser(user))
	return user
}

func seedCampaign(t *testing.T, s *MemoryStore, userID, name string) *models.Campaign {
	t.Helper()
	c := &models.Campaign{Name: name, UserID: userID}
	require.NoError(t, s.CreateCampaign(c))
	return c
}

func seedLead(t *testing.T, s *MemoryStore, campaignID, name string, status models.LeadStatus) *models.Lead {
	t.Helper()
	l := &models.Lead{
		Name:       name,
		Email:      name + "@example.com",
		Status:     status,
		CampaignID: campaignID,
	}
	require.NoError(t, s.CreateLead(l))
	return l
}

func TestMemoryStoreUsers(t *testing.T) {
	s := NewMemoryStore()
	user := seedUser(t, s, "alice@example.com")
	assert.NotEmpty(t, user.ID)

	byEmail, err := s.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := s.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	_, err = s.GetUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetUserByID("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResponseRate(t *testing.T) {
	assert.Equal(t, 0, ResponseRate(0, 0))
	assert.Equal(t, 0, ResponseRate(5, 0))
	assert.Equal(t, 50, ResponseRate(1, 2))
	assert.Equal(t, 33, ResponseRate(1, 3))
	assert.Equal(t, 67, ResponseRate(2, 3))
	assert.Equal(t, 100, ResponseRate(3, 3))
}

func TestListCampaignsWithStats(t *testing.T) {
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice@example.com")
	bob := seedUser(t, s, "bob@example.com")

	active := seedCampaign(t, s, alice.ID, "Active Outreach")
	_ = seedCampaign(t, s, alice.ID, "Empty")
	foreign := seedCampaign(t, s, bob.ID, "Bob Only")

	seedLead(t, s, active.ID, "p1", models.LeadPending)
	seedLead(t, s, active.ID, "r1", models.LeadResponded)
	seedLead(t, s, active.ID, "c1", models.LeadConverted)
	seedLead(t, s, foreign.ID, "bobs", models.LeadConverted)

	rows, err := s.ListCampaignsWithStats(alice.ID, ParseSort("name:asc"), 100)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Active Outreach", rows[0].Name)
	assert.Equal(t, 3, rows[0].TotalLeads)
	assert.Equal(t, 2, rows[0].RespondedLeads)
	assert.Equal(t, 67, rows[0].ResponseRate)

	assert.Equal(t, "Empty", rows[1].Name)
	assert.Equal(t, 0, rows[1].TotalLeads)
	assert.Equal(t, 0, rows[1].ResponseRate)

	// Bob's listing never shows Alice's campaigns
	rows, err = s.ListCampaignsWithStats(bob.ID, DefaultSort(), 100)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Bob Only", rows[0].Name)
}

func TestListCampaignsSortAndLimit(t *testing.T) {
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice@example.com")

	for _, name := range []string{"bravo", "alpha", "charlie"} {
		seedCampaign(t, s, alice.ID, name)
		time.Sleep(2 * time.Millisecond)
	}

	rows, err := s.ListCampaignsWithStats(alice.ID, ParseSort("name:asc"), 100)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "alpha", rows[0].Name)
	assert.Equal(t, "charlie", rows[2].Name)

	// Default sort is newest first
	rows, err = s.ListCampaignsWithStats(alice.ID, DefaultSort(), 100)
	require.NoError(t, err)
	assert.Equal(t, "charlie", rows[0].Name)
	assert.Equal(t, "bravo", rows[2].Name)

	rows, err = s.ListCampaignsWithStats(alice.ID, DefaultSort(), 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestUpdateCampaignPreservesCreatedAt(t *testing.T) {
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice@example.com")
	c := seedCampaign(t, s, alice.ID, "Original")
	created := c.CreatedAt

	c.Name = "Renamed"
	c.CreatedAt = time.Time{} // a careless caller must not reset it
	require.NoError(t, s.UpdateCampaign(c))

	got, err := s.GetCampaign(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.False(t, got.UpdatedAt.Before(created))

	err = s.UpdateCampaign(&models.Campaign{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCampaignCascades(t *testing.T) {
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice@example.com")
	doomed := seedCampaign(t, s, alice.ID, "Doomed")
	kept := seedCampaign(t, s, alice.ID, "Kept")

	l1 := seedLead(t, s, doomed.ID, "l1", models.LeadPending)
	seedLead(t, s, doomed.ID, "l2", models.LeadContacted)
	survivor := seedLead(t, s, kept.ID, "l3", models.LeadPending)

	require.NoError(t, s.DeleteCampaign(doomed.ID))

	_, err := s.GetCampaign(doomed.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetLead(l1.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, total, err := s.ListLeads(alice.ID, "", DefaultSort(), 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	got, err := s.GetLead(survivor.ID)
	require.NoError(t, err)
	assert.Equal(t, kept.ID, got.CampaignID)
}

func TestListLeadsPagination(t *testing.T) {
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice@example.com")
	c := seedCampaign(t, s, alice.ID, "Big")

	for i := 1; i <= 25; i++ {
		seedLead(t, s, c.ID, fmt.Sprintf("lead-%02d", i), models.LeadPending)
	}

	page, total, err := s.ListLeads(alice.ID, "", ParseSort("name:asc"), 10, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, page, 10)
	assert.Equal(t, "lead-11", page[0].Name)
	assert.Equal(t, "lead-20", page[9].Name)

	// Last page is short
	page, total, err = s.ListLeads(alice.ID, "", ParseSort("name:asc"), 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, page, 5)

	// Past the end is empty, total still reported
	page, total, err = s.ListLeads(alice.ID, "", ParseSort("name:asc"), 30, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Empty(t, page)
}

func TestListLeadsFilterAndScope(t *testing.T) {
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice@example.com")
	bob := seedUser(t, s, "bob@example.com")

	c1 := seedCampaign(t, s, alice.ID, "One")
	c2 := seedCampaign(t, s, alice.ID, "Two")
	foreign := seedCampaign(t, s, bob.ID, "Bobs")

	seedLead(t, s, c1.ID, "a1", models.LeadPending)
	seedLead(t, s, c1.ID, "a2", models.LeadPending)
	seedLead(t, s, c2.ID, "a3", models.LeadPending)
	seedLead(t, s, foreign.ID, "b1", models.LeadPending)

	_, total, err := s.ListLeads(alice.ID, "", DefaultSort(), 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	rows, total, err := s.ListLeads(alice.ID, c1.ID, DefaultSort(), 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, rows, 2)

	// Filtering by somebody else's campaign yields nothing, not their data
	_, total, err = s.ListLeads(alice.ID, foreign.ID, DefaultSort(), 0, 100)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestLeadDefaultsAndUpdate(t *testing.T) {
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice@example.com")
	c := seedCampaign(t, s, alice.ID, "C")

	l := &models.Lead{Name: "Jane", Email: "jane@example.com", CampaignID: c.ID}
	require.NoError(t, s.CreateLead(l))
	assert.Equal(t, models.LeadPending, l.Status)

	l.Status = models.LeadConverted
	require.NoError(t, s.UpdateLead(l))

	got, err := s.GetLead(l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadConverted, got.Status)

	err = s.UpdateLead(&models.Lead{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteLead(l.ID))
	_, err = s.GetLead(l.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDashboardStats(t *testing.T) {
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice@example.com")
	bob := seedUser(t, s, "bob@example.com")

	c := seedCampaign(t, s, alice.ID, "C")
	foreign := seedCampaign(t, s, bob.ID, "F")

	seedLead(t, s, c.ID, "p1", models.LeadPending)
	seedLead(t, s, c.ID, "p2", models.LeadPending)
	seedLead(t, s, c.ID, "ct", models.LeadContacted)
	seedLead(t, s, c.ID, "cv", models.LeadConverted)
	seedLead(t, s, foreign.ID, "x", models.LeadConverted)

	stats, err := s.GetDashboardStats(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalLeads)
	assert.Equal(t, 2, stats.NewLeads)
	assert.Equal(t, 1, stats.ContactedLeads)
	assert.Equal(t, 25, stats.ConversionRate)

	// No leads at all: every counter is zero, not an error
	empty, err := s.GetDashboardStats("nobody")
	require.NoError(t, err)
	assert.Zero(t, empty.TotalLeads)
	assert.Zero(t, empty.ConversionRate)
}

func TestStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice@example.com")
	c := seedCampaign(t, s, alice.ID, "Immutable")

	got, err := s.GetCampaign(c.ID)
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := s.GetCampaign(c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Immutable", again.Name)
}
