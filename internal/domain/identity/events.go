package identity

import (
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// AggregateTypeUser is the aggregate type name for users
const AggregateTypeUser = "User"

// EventTypeUserRegistered is raised when a user signs up
const EventTypeUserRegistered = "UserRegistered"

// UserRegisteredEvent is raised when a user signs up
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserRegisteredEvent creates a UserRegistered event. Users belong to no
// organization, so the organization ID is nil.
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, u.ID, uuid.Nil),
		Email:           u.Email,
	}
}
