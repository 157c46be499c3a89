// Package models contains GORM persistence models that map to database tables.
// They are kept apart from the domain aggregates so the domain layer stays free of
// ORM tags; every model converts with ToDomain and a FromDomain constructor.
//
//   - base.go: shared id, timestamp, version and organization columns
//   - identity.go: users and profiles
//   - organization.go: organizations, members and invitations
//   - invoice.go: invoices with flattened parties and JSON line items
package models
