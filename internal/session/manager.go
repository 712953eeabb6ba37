// Package session keeps per-session dashboard state and the signed cookie
// that identifies it.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/nccfarm/internal/domain/models"
)

// State is everything one browser session carries between interactions.
type State struct {
	ID              string                      `json:"id"`
	User            models.User                 `json:"user"`
	LoggedIn        bool                        `json:"logged_in"`
	Remember        bool                        `json:"remember"`
	Screen          models.Screen               `json:"screen"`
	SelectedProject int                         `json:"selected_project,omitempty"`
	SelectedSKU     string                      `json:"selected_sku,omitempty"`
	InventoryQuery  string                      `json:"inventory_query,omitempty"`
	ProjectQuery    string                      `json:"project_query,omitempty"`
	MilestoneDraft  []models.Milestone          `json:"milestone_draft,omitempty"`
	PurchaseDraft   []models.PurchaseRequestRow `json:"purchase_draft,omitempty"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// Tenant is the workspace whose collections the session reads and writes.
func (s State) Tenant() string {
	return s.User.Workspace
}

// RequireLogin returns models.ErrNotLoggedIn for anonymous sessions.
func (s State) RequireLogin() error {
	if !s.LoggedIn {
		return models.ErrNotLoggedIn
	}
	return nil
}

func (s State) clone() State {
	s.MilestoneDraft = append([]models.Milestone(nil), s.MilestoneDraft...)
	s.PurchaseDraft = append([]models.PurchaseRequestRow(nil), s.PurchaseDraft...)
	return s
}

// Manager handles session states keyed by session id.
type Manager struct {
	sessions map[string]State
	mu       sync.RWMutex
	now      func() time.Time
}

// NewManager creates a new session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]State),
		now:      time.Now,
	}
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// Get retrieves the current state for a session, or a logged-out default
// positioned on the login screen.
func (m *Manager) Get(id string) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if state, exists := m.sessions[id]; exists {
		return state.clone()
	}
	return State{ID: id, Screen: models.ScreenLogin}
}

// Update replaces the state for a session.
func (m *Manager) Update(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state.UpdatedAt = m.now()
	m.sessions[state.ID] = state.clone()
}

// Clear removes a session.
func (m *Manager) Clear(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxIdle)
	removed := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports how many sessions are live.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
