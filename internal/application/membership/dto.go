package membership

import (
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/organization"
)

// MemberEmailPlaceholder stands in for the email of every member except the
// caller. Member emails are not resolvable through the profile store.
const MemberEmailPlaceholder = "hidden@member"

// Member is a membership enriched with profile data
type Member struct {
	MembershipID  uuid.UUID
	UserID        uuid.UUID
	Role          organization.Role
	JoinedAt      time.Time
	DisplayName   string
	Email         string
	IsCurrentUser bool
}

// InviteMemberInput is the invitation form
type InviteMemberInput struct {
	Email string
	Name  string
	Phone string
	Role  string
}
