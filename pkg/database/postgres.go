package database

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"leadflow-backend/pkg/models"
)

// PostgresStore implements Store on top of lib/pq
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool and verifies it with a ping
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	// Sanitize DSN to avoid stray CR/LF from env values
	dsn = strings.TrimSpace(dsn)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// ---------- Users ----------

// CreateUser inserts a user, generating the id when absent
func (s *PostgresStore) CreateUser(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, email, password_hash, name, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.Exec(query, user.ID, user.Email, user.Password, user.Name, user.Image, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail fetches a user by email
func (s *PostgresStore) GetUserByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, email, COALESCE(password_hash,''), COALESCE(name,''), COALESCE(image,''), created_at, updated_at
		FROM users WHERE email = $1
	`
	var user models.User
	err := s.db.QueryRow(query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.Name, &user.Image,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetUserByID fetches a user by id
func (s *PostgresStore) GetUserByID(id string) (*models.User, error) {
	query := `
		SELECT id, email, COALESCE(password_hash,''), COALESCE(name,''), COALESCE(image,''), created_at, updated_at
		FROM users WHERE id = $1
	`
	var user models.User
	err := s.db.QueryRow(query, id).Scan(
		&user.ID, &user.Email, &user.Password, &user.Name, &user.Image,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// ---------- Campaigns ----------

// CreateCampaign inserts a campaign, generating id and timestamps
func (s *PostgresStore) CreateCampaign(c *models.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = models.CampaignDraft
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO campaigns (id, name, status, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.Exec(query, c.ID, c.Name, c.Status, c.UserID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// GetCampaign fetches a campaign by id. Ownership is the caller's problem:
// the guard compares UserID against the session.
func (s *PostgresStore) GetCampaign(id string) (*models.Campaign, error) {
	query := `
		SELECT id, name, status, user_id, created_at, updated_at
		FROM campaigns WHERE id = $1
	`
	var c models.Campaign
	err := s.db.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.Status, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &c, nil
}

// ListCampaignsWithStats returns the user's campaigns with lead counters
func (s *PostgresStore) ListCampaignsWithStats(userID string, sort SortOption, limit int) ([]models.CampaignWithStats, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.name, c.status, c.user_id, c.created_at, c.updated_at,
		       COUNT(l.id) AS total_leads,
		       COUNT(l.id) FILTER (WHERE l.status IN ('Responded', 'Converted')) AS responded_leads
		FROM campaigns c
		LEFT JOIN leads l ON l.campaign_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.%s %s, c.created_at ASC, c.id ASC
		LIMIT $2
	`, sort.Column(), sort.Direction())

	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []models.CampaignWithStats{}
	for rows.Next() {
		var cs models.CampaignWithStats
		if err := rows.Scan(&cs.ID, &cs.Name, &cs.Status, &cs.UserID, &cs.CreatedAt, &cs.UpdatedAt,
			&cs.TotalLeads, &cs.RespondedLeads); err != nil {
			return nil, fmt.Errorf("failed to scan campaign row: %w", err)
		}
		cs.ResponseRate = ResponseRate(cs.RespondedLeads, cs.TotalLeads)
		campaigns = append(campaigns, cs)
	}
	return campaigns, rows.Err()
}

// UpdateCampaign writes the mutable fields and refreshes updated_at
func (s *PostgresStore) UpdateCampaign(c *models.Campaign) error {
	c.UpdatedAt = time.Now()
	query := `
		UPDATE campaigns SET name = $1, status = $2, updated_at = $3
		WHERE id = $4
	`
	_, err := s.db.Exec(query, c.Name, c.Status, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	return nil
}

// DeleteCampaign removes the campaign; leads go with it via the FK cascade
func (s *PostgresStore) DeleteCampaign(id string) error {
	_, err := s.db.Exec(`DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}

// ---------- Leads ----------

// CreateLead inserts a lead, generating id and timestamps. New leads always
// start at Pending.
func (s *PostgresStore) CreateLead(l *models.Lead) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Status == "" {
		l.Status = models.LeadPending
	}
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	query := `
		INSERT INTO leads (id, name, email, company, position, notes, status, campaign_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.Exec(query, l.ID, l.Name, l.Email, l.Company, l.Position, l.Notes,
		l.Status, l.CampaignID, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// GetLead fetches a lead by id
func (s *PostgresStore) GetLead(id string) (*models.Lead, error) {
	query := `
		SELECT id, name, email, COALESCE(company,''), COALESCE(position,''), COALESCE(notes,''),
		       status, campaign_id, created_at, updated_at
		FROM leads WHERE id = $1
	`
	var l models.Lead
	err := s.db.QueryRow(query, id).Scan(&l.ID, &l.Name, &l.Email, &l.Company, &l.Position,
		&l.Notes, &l.Status, &l.CampaignID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return &l, nil
}

// ListLeads returns one page of leads whose campaign the user owns, plus the
// total count of the filtered set
func (s *PostgresStore) ListLeads(userID, campaignID string, sort SortOption, offset, limit int) ([]models.Lead, int, error) {
	where := `c.user_id = $1`
	args := []interface{}{userID}
	if campaignID != "" {
		where += ` AND l.campaign_id = $2`
		args = append(args, campaignID)
	}

	query := fmt.Sprintf(`
		SELECT l.id, l.name, l.email, COALESCE(l.company,''), COALESCE(l.position,''), COALESCE(l.notes,''),
		       l.status, l.campaign_id, l.created_at, l.updated_at
		FROM leads l
		INNER JOIN campaigns c ON c.id = l.campaign_id
		WHERE %s
		ORDER BY l.%s %s, l.created_at ASC, l.id ASC
		LIMIT $%d OFFSET $%d
	`, where, sort.Column(), sort.Direction(), len(args)+1, len(args)+2)

	rows, err := s.db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := []models.Lead{}
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Company, &l.Position, &l.Notes,
			&l.Status, &l.CampaignID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan lead row: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM leads l
		INNER JOIN campaigns c ON c.id = l.campaign_id
		WHERE %s
	`, where)

	var total int
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	return leads, total, nil
}

// ListLeadsByCampaign returns all leads of one campaign in creation order
func (s *PostgresStore) ListLeadsByCampaign(campaignID string) ([]models.Lead, error) {
	query := `
		SELECT id, name, email, COALESCE(company,''), COALESCE(position,''), COALESCE(notes,''),
		       status, campaign_id, created_at, updated_at
		FROM leads WHERE campaign_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.Query(query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign leads: %w", err)
	}
	defer rows.Close()

	leads := []models.Lead{}
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Company, &l.Position, &l.Notes,
			&l.Status, &l.CampaignID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead row: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// UpdateLead writes the mutable fields and refreshes updated_at
func (s *PostgresStore) UpdateLead(l *models.Lead) error {
	l.UpdatedAt = time.Now()
	query := `
		UPDATE leads
		SET name = $1, email = $2, company = $3, position = $4, notes = $5,
		    status = $6, campaign_id = $7, updated_at = $8
		WHERE id = $9
	`
	_, err := s.db.Exec(query, l.Name, l.Email, l.Company, l.Position, l.Notes,
		l.Status, l.CampaignID, l.UpdatedAt, l.ID)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	return nil
}

// DeleteLead removes a lead
func (s *PostgresStore) DeleteLead(id string) error {
	_, err := s.db.Exec(`DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return nil
}

// ---------- Aggregates ----------

// GetDashboardStats counts the user's leads by funnel status in one pass
func (s *PostgresStore) GetDashboardStats(userID string) (*models.DashboardStats, error) {
	query := `
		SELECT l.status, COUNT(*)
		FROM leads l
		INNER JOIN campaigns c ON c.id = l.campaign_id
		WHERE c.user_id = $1
		GROUP BY l.status
	`
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dashboard stats: %w", err)
	}
	defer rows.Close()

	counts := map[models.LeadStatus]int{}
	total := 0
	for rows.Next() {
		var status models.LeadStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		counts[status] = count
		total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalLeads:     total,
		NewLeads:       counts[models.LeadPending],
		ContactedLeads: counts[models.LeadContacted],
		ConversionRate: ResponseRate(counts[models.LeadConverted], total),
	}, nil
}

// HealthCheck pings the database
func (s *PostgresStore) HealthCheck() error {
	return s.db.Ping()
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// ResponseRate converts a part/whole pair into a rounded percentage.
// Zero when the whole is zero.
func ResponseRate(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}

var _ Store = (*PostgresStore)(nil)
