package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity holds identity and timestamps common to every persisted domain object
type Entity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEntity creates an entity with a generated ID
func NewEntity() Entity {
	now := time.Now()
	return Entity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetID returns the entity ID
func (e *Entity) GetID() uuid.UUID {
	return e.ID
}

// Touch moves UpdatedAt to now
func (e *Entity) Touch() {
	e.UpdatedAt = time.Now()
}

// EventSource is implemented by aggregates that collect domain events
type EventSource interface {
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// AggregateRoot adds an optimistic version and pending domain events to an entity
type AggregateRoot struct {
	Entity
	Version      int
	domainEvents []DomainEvent
}

// NewAggregateRoot creates a new aggregate root at version 1
func NewAggregateRoot() AggregateRoot {
	return AggregateRoot{
		Entity:       NewEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// GetVersion returns the aggregate version for optimistic locking
func (a *AggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *AggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *AggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *AggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *AggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// OrganizationAggregateRoot is an aggregate owned by exactly one organization (tenant)
type OrganizationAggregateRoot struct {
	AggregateRoot
	OrganizationID uuid.UUID
	CreatedBy      *uuid.UUID
}

// NewOrganizationAggregateRoot creates a tenant-scoped aggregate root
func NewOrganizationAggregateRoot(organizationID, createdBy uuid.UUID) OrganizationAggregateRoot {
	return OrganizationAggregateRoot{
		AggregateRoot:  NewAggregateRoot(),
		OrganizationID: organizationID,
		CreatedBy:      &createdBy,
	}
}

// BelongsTo reports whether the aggregate is owned by the given organization
func (o *OrganizationAggregateRoot) BelongsTo(organizationID uuid.UUID) bool {
	return o.OrganizationID == organizationID
}
