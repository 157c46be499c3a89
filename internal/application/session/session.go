// Package session tracks which organization a user is acting as.
//
// A Session is an explicit handle passed to whoever needs the tenant, never
// package state. Role and permissions are derived from the current organization
// on every read. Mutations are tagged with a generation so the result of an
// operation that was overtaken by a newer one is dropped.
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/organization"
)

// Session is the tenant context of one signed-in user
type Session struct {
	mu            sync.RWMutex
	userID        uuid.UUID
	current       *organization.OrganizationWithRole
	organizations []organization.OrganizationWithRole
	loading       bool
	generation    uint64
	loadingGen    uint64
}

// Snapshot is a consistent copy of a session's state
type Snapshot struct {
	UserID        uuid.UUID
	Current       *organization.OrganizationWithRole
	Organizations []organization.OrganizationWithRole
	IsLoading     bool
	Role          organization.Role
	Permissions   organization.Permissions
}

// New creates an empty session for userID
func New(userID uuid.UUID) *Session {
	return &Session{
		userID:        userID,
		organizations: []organization.OrganizationWithRole{},
	}
}

// UserID returns the user the session belongs to
func (s *Session) UserID() uuid.UUID {
	return s.userID
}

// Current returns the active organization, or nil
func (s *Session) Current() *organization.OrganizationWithRole {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// Organizations returns a copy of the membership list
func (s *Session) Organizations() []organization.OrganizationWithRole {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]organization.OrganizationWithRole(nil), s.organizations...)
}

// IsLoading reports whether a refresh is in flight
func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Role returns the role in the active organization, or "" when none is active
func (s *Session) Role() organization.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roleLocked()
}

// IsOwner reports whether the user owns the active organization
func (s *Session) IsOwner() bool {
	return s.Permissions().IsOwner
}

// Permissions returns the capability flags in the active organization.
// Without an active organization every flag is false.
func (s *Session) Permissions() organization.Permissions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.permissionsLocked()
}

// Snapshot returns the whole state under one lock
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		UserID:        s.userID,
		Organizations: append([]organization.OrganizationWithRole(nil), s.organizations...),
		IsLoading:     s.loading,
		Role:          s.roleLocked(),
		Permissions:   s.permissionsLocked(),
	}
	if s.current != nil {
		c := *s.current
		snap.Current = &c
	}
	return snap
}

func (s *Session) roleLocked() organization.Role {
	if s.current == nil {
		return ""
	}
	return s.current.Role
}

func (s *Session) permissionsLocked() organization.Permissions {
	if s.current == nil {
		return organization.Permissions{}
	}
	return s.current.Permissions()
}

// begin starts an operation and returns its generation
func (s *Session) begin(loading bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if loading {
		s.loading = true
		s.loadingGen = s.generation
	}
	return s.generation
}

// commitRefresh installs a refresh result unless a newer operation started.
// current must be nil or an element of organizations.
func (s *Session) commitRefresh(gen uint64, organizations []organization.OrganizationWithRole, current *organization.OrganizationWithRole) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadingGen == gen {
		s.loading = false
	}
	if gen != s.generation {
		return false
	}
	if organizations == nil {
		organizations = []organization.OrganizationWithRole{}
	}
	s.organizations = organizations
	s.current = current
	return true
}

// selectLocal makes organizationID current when it is in the membership list.
// A rejected switch leaves the session untouched, including in-flight refreshes.
func (s *Session) selectLocal(organizationID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.organizations {
		if s.organizations[i].ID() == organizationID {
			s.generation++
			c := s.organizations[i]
			s.current = &c
			return true
		}
	}
	return false
}
