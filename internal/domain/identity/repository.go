package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts a new user; returns shared.ErrAlreadyExists on duplicate email
	Create(ctx context.Context, user *User) error

	// Update saves changes to an existing user
	Update(ctx context.Context, user *User) error
}

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	// FindByUserID finds the profile of a user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)

	// FindByUserIDs finds profiles for several users; missing users are skipped
	FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*Profile, error)

	// Upsert inserts or replaces the profile keyed by user ID
	Upsert(ctx context.Context, profile *Profile) error

	// UpdateSelectedOrganization persists the active organization of a user
	UpdateSelectedOrganization(ctx context.Context, userID, organizationID uuid.UUID) error
}
