package database

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"leadflow-backend/pkg/models"
)

// MemoryStore is an in-memory Store used by tests and DSN-less development.
// All maps are guarded by a single RWMutex; values are copied on the way in
// and out so callers never share memory with the store.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]models.User
	campaigns map[string]models.Campaign
	leads     map[string]models.Lead

	// seq preserves insertion order per entity id so listings can break
	// sort ties the same way the SQL store does.
	seq     map[string]int
	nextSeq int
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]models.User),
		campaigns: make(map[string]models.Campaign),
		leads:     make(map[string]models.Lead),
		seq:       make(map[string]int),
	}
}

func (s *MemoryStore) nextSequence(id string) {
	s.nextSeq++
	s.seq[id] = s.nextSeq
}

// ---------- Users ----------

func (s *MemoryStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = *user
	s.nextSequence(user.ID)
	return nil
}

func (s *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := user
	return &u, nil
}

// ---------- Campaigns ----------

func (s *MemoryStore) CreateCampaign(c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = models.CampaignDraft
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	stored := *c
	stored.Leads = nil
	s.campaigns[c.ID] = stored
	s.nextSequence(c.ID)
	return nil
}

func (s *MemoryStore) GetCampaign(id string) (*models.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.campaigns[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := c
	return &out, nil
}

func (s *MemoryStore) ListCampaignsWithStats(userID string, sortOpt SortOption, limit int) ([]models.CampaignWithStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := []models.CampaignWithStats{}
	for _, c := range s.campaigns {
		if c.UserID != userID {
			continue
		}
		cs := models.CampaignWithStats{Campaign: c}
		for _, l := range s.leads {
			if l.CampaignID != c.ID {
				continue
			}
			cs.TotalLeads++
			if l.Status == models.LeadResponded || l.Status == models.LeadConverted {
				cs.RespondedLeads++
			}
		}
		cs.ResponseRate = ResponseRate(cs.RespondedLeads, cs.TotalLeads)
		rows = append(rows, cs)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		less, equal := compareCampaigns(&rows[i].Campaign, &rows[j].Campaign, sortOpt)
		if equal {
			return s.seq[rows[i].ID] < s.seq[rows[j].ID]
		}
		return less
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *MemoryStore) UpdateCampaign(c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.campaigns[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()

	stored := *c
	stored.Leads = nil
	s.campaigns[c.ID] = stored
	return nil
}

func (s *MemoryStore) DeleteCampaign(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.campaigns, id)
	// Cascade, like the FK in the SQL schema
	for leadID, l := range s.leads {
		if l.CampaignID == id {
			delete(s.leads, leadID)
			delete(s.seq, leadID)
		}
	}
	delete(s.seq, id)
	return nil
}

// ---------- Leads ----------

func (s *MemoryStore) CreateLead(l *models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.Status == "" {
		l.Status = models.LeadPending
	}
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now

	stored := *l
	stored.Campaign = nil
	s.leads[l.ID] = stored
	s.nextSequence(l.ID)
	return nil
}

func (s *MemoryStore) GetLead(id string) (*models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.leads[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := l
	return &out, nil
}

func (s *MemoryStore) ListLeads(userID, campaignID string, sortOpt SortOption, offset, limit int) ([]models.Lead, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := []models.Lead{}
	for _, l := range s.leads {
		c, ok := s.campaigns[l.CampaignID]
		if !ok || c.UserID != userID {
			continue
		}
		if campaignID != "" && l.CampaignID != campaignID {
			continue
		}
		rows = append(rows, l)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		less, equal := compareLeads(&rows[i], &rows[j], sortOpt)
		if equal {
			return s.seq[rows[i].ID] < s.seq[rows[j].ID]
		}
		return less
	})

	total := len(rows)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return rows[offset:end], total, nil
}

func (s *MemoryStore) ListLeadsByCampaign(campaignID string) ([]models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := []models.Lead{}
	for _, l := range s.leads {
		if l.CampaignID == campaignID {
			rows = append(rows, l)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return s.seq[rows[i].ID] < s.seq[rows[j].ID]
	})
	return rows, nil
}

func (s *MemoryStore) UpdateLead(l *models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.leads[l.ID]
	if !ok {
		return ErrNotFound
	}
	l.CreatedAt = existing.CreatedAt
	l.UpdatedAt = time.Now()

	stored := *l
	stored.Campaign = nil
	s.leads[l.ID] = stored
	return nil
}

func (s *MemoryStore) DeleteLead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.leads, id)
	delete(s.seq, id)
	return nil
}

// ---------- Aggregates ----------

func (s *MemoryStore) GetDashboardStats(userID string) (*models.DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.DashboardStats{}
	converted := 0
	for _, l := range s.leads {
		c, ok := s.campaigns[l.CampaignID]
		if !ok || c.UserID != userID {
			continue
		}
		stats.TotalLeads++
		switch l.Status {
		case models.LeadPending:
			stats.NewLeads++
		case models.LeadContacted:
			stats.ContactedLeads++
		case models.LeadConverted:
			converted++
		}
	}
	stats.ConversionRate = ResponseRate(converted, stats.TotalLeads)
	return stats, nil
}

// HealthCheck always succeeds for the in-memory store
func (s *MemoryStore) HealthCheck() error {
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

// compareCampaigns orders two campaigns by the sort option. The second
// return value marks a tie so the caller can fall back to insertion order.
func compareCampaigns(a, b *models.Campaign, opt SortOption) (less, equal bool) {
	switch opt.Field {
	case SortByName:
		return orderStrings(a.Name, b.Name, opt.Descending)
	case SortByStatus:
		return orderStrings(string(a.Status), string(b.Status), opt.Descending)
	default:
		return orderTimes(a.CreatedAt, b.CreatedAt, opt.Descending)
	}
}

func compareLeads(a, b *models.Lead, opt SortOption) (less, equal bool) {
	switch opt.Field {
	case SortByName:
		return orderStrings(a.Name, b.Name, opt.Descending)
	case SortByStatus:
		return orderStrings(string(a.Status), string(b.Status), opt.Descending)
	default:
		return orderTimes(a.CreatedAt, b.CreatedAt, opt.Descending)
	}
}

func orderStrings(a, b string, descending bool) (less, equal bool) {
	if a == b {
		return false, true
	}
	if descending {
		return a > b, false
	}
	return a < b, false
}

func orderTimes(a, b time.Time, descending bool) (less, equal bool) {
	if a.Equal(b) {
		return false, true
	}
	if descending {
		return a.After(b), false
	}
	return a.Before(b), false
}

var _ Store = (*MemoryStore)(nil)
