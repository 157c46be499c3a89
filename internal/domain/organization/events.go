package organization

import (
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeOrganization = "Organization"
	AggregateTypeInvitation   = "Invitation"
)

// Event type constants
const (
	EventTypeOrganizationCreated        = "OrganizationCreated"
	EventTypeOrganizationProfileUpdated = "OrganizationProfileUpdated"
	EventTypeOrganizationLogoChanged    = "OrganizationLogoChanged"
	EventTypeMemberJoined               = "MemberJoined"
	EventTypeMemberRemoved              = "MemberRemoved"
	EventTypeInvitationCreated          = "InvitationCreated"
	EventTypeInvitationStatusChanged    = "InvitationStatusChanged"
)

// OrganizationEvent is raised for changes of the organization record itself
type OrganizationEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func newOrganizationEvent(eventType string, o *Organization) *OrganizationEvent {
	return &OrganizationEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrganization, o.ID, o.ID),
		Name:            o.Name,
		Slug:            o.Slug,
	}
}

// NewOrganizationCreatedEvent creates an OrganizationCreated event
func NewOrganizationCreatedEvent(o *Organization) *OrganizationEvent {
	return newOrganizationEvent(EventTypeOrganizationCreated, o)
}

// NewOrganizationProfileUpdatedEvent creates an OrganizationProfileUpdated event
func NewOrganizationProfileUpdatedEvent(o *Organization) *OrganizationEvent {
	return newOrganizationEvent(EventTypeOrganizationProfileUpdated, o)
}

// NewOrganizationLogoChangedEvent creates an OrganizationLogoChanged event
func NewOrganizationLogoChangedEvent(o *Organization) *OrganizationEvent {
	return newOrganizationEvent(EventTypeOrganizationLogoChanged, o)
}

// MembershipEvent is raised when a member joins or leaves
type MembershipEvent struct {
	shared.BaseDomainEvent
	MembershipID uuid.UUID `json:"membership_id"`
	UserID       uuid.UUID `json:"user_id"`
	Role         Role      `json:"role"`
}

func newMembershipEvent(eventType string, m *Membership) *MembershipEvent {
	return &MembershipEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrganization, m.OrganizationID, m.OrganizationID),
		MembershipID:    m.ID,
		UserID:          m.UserID,
		Role:            m.Role,
	}
}

// NewMemberJoinedEvent creates a MemberJoined event
func NewMemberJoinedEvent(m *Membership) *MembershipEvent {
	return newMembershipEvent(EventTypeMemberJoined, m)
}

// NewMemberRemovedEvent creates a MemberRemoved event
func NewMemberRemovedEvent(m *Membership) *MembershipEvent {
	return newMembershipEvent(EventTypeMemberRemoved, m)
}

// InvitationEvent is raised when an invitation is created or changes status
type InvitationEvent struct {
	shared.BaseDomainEvent
	Email  string           `json:"email"`
	Role   Role             `json:"role"`
	Status InvitationStatus `json:"status"`
}

func newInvitationEvent(eventType string, i *Invitation) *InvitationEvent {
	return &InvitationEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeInvitation, i.ID, i.OrganizationID),
		Email:           i.Email,
		Role:            i.Role,
		Status:          i.Status,
	}
}

// NewInvitationCreatedEvent creates an InvitationCreated event
func NewInvitationCreatedEvent(i *Invitation) *InvitationEvent {
	return newInvitationEvent(EventTypeInvitationCreated, i)
}

// NewInvitationStatusChangedEvent creates an InvitationStatusChanged event
func NewInvitationStatusChangedEvent(i *Invitation) *InvitationEvent {
	return newInvitationEvent(EventTypeInvitationStatusChanged, i)
}
