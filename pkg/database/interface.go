package database

import (
	"errors"
	"fmt"

	"leadflow-backend/pkg/models"
)

// ErrNotFound is returned by single-entity lookups when no row matches.
// Handlers translate it to the uniform 404 body.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the handlers depend on.
// Two implementations exist: Postgres for real deployments and an in-memory
// store for tests and DSN-less development.
type Store interface {
	// Users
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)

	// Campaigns
	CreateCampaign(c *models.Campaign) error
	GetCampaign(id string) (*models.Campaign, error)
	// ListCampaignsWithStats returns the user's campaigns annotated with
	// lead counters, ordered by sort with ties broken by creation order,
	// truncated to limit.
	ListCampaignsWithStats(userID string, sort SortOption, limit int) ([]models.CampaignWithStats, error)
	UpdateCampaign(c *models.Campaign) error
	// DeleteCampaign removes the campaign and cascades to its leads.
	DeleteCampaign(id string) error

	// Leads
	CreateLead(l *models.Lead) error
	GetLead(id string) (*models.Lead, error)
	// ListLeads returns one page of the user's leads (optionally filtered
	// to a single campaign) plus the total count of the filtered set.
	ListLeads(userID, campaignID string, sort SortOption, offset, limit int) ([]models.Lead, int, error)
	ListLeadsByCampaign(campaignID string) ([]models.Lead, error)
	UpdateLead(l *models.Lead) error
	DeleteLead(id string) error

	// Aggregates
	GetDashboardStats(userID string) (*models.DashboardStats, error)

	// Health check
	HealthCheck() error

	// Close releases the underlying resources
	Close() error
}

// Config selects and parameterizes the store implementation
type Config struct {
	PostgresDSN string
	Debug       bool
}

// NewStore picks a store implementation from the configuration. Without a
// DSN it falls back to the in-memory store, which is only suitable for
// development and tests.
func NewStore(config Config) (Store, error) {
	if config.PostgresDSN != "" {
		fmt.Printf("🗄️  Using PostgreSQL database\n")
		return NewPostgresStore(config.PostgresDSN)
	}

	fmt.Printf("🧪 Using in-memory store (data is not persisted)\n")
	return NewMemoryStore(), nil
}
