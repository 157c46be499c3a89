package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/identity"
	"github.com/invoicedesk/backend/internal/domain/invoice"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockProfileRepository is a mock implementation of identity.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]*identity.Profile, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *identity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) UpdateSelectedOrganization(ctx context.Context, userID, organizationID uuid.UUID) error {
	args := m.Called(ctx, userID, organizationID)
	return args.Error(0)
}

// MockOrganizationRepository is a mock implementation of organization.OrganizationRepository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organization.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindBySlug(ctx context.Context, slug string) (*organization.Organization, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organization.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*organization.Organization, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*organization.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *organization.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) CreateWithOwner(ctx context.Context, org *organization.Organization, owner *organization.Membership) error {
	args := m.Called(ctx, org, owner)
	return args.Error(0)
}

// MockMembershipRepository is a mock implementation of organization.MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organization.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*organization.Membership, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*organization.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*organization.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*organization.Membership), args.Error(1)
}

func (m *MockMembershipRepository) FindByOrganizationAndUser(ctx context.Context, organizationID, userID uuid.UUID) (*organization.Membership, error) {
	args := m.Called(ctx, organizationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organization.Membership), args.Error(1)
}

func (m *MockMembershipRepository) CountOwners(ctx context.Context, organizationID uuid.UUID) (int64, error) {
	args := m.Called(ctx, organizationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMembershipRepository) Save(ctx context.Context, membership *organization.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockInvitationRepository is a mock implementation of organization.InvitationRepository
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organization.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindByToken(ctx context.Context, token string) (*organization.Invitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*organization.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindPendingByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*organization.Invitation, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*organization.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) FindExpiredPending(ctx context.Context, now time.Time) ([]*organization.Invitation, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*organization.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) Save(ctx context.Context, inv *organization.Invitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvitationRepository) Accept(ctx context.Context, inv *organization.Invitation, membership *organization.Membership) error {
	args := m.Called(ctx, inv, membership)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of invoice.Repository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*invoice.Invoice, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, organizationID uuid.UUID, filter invoice.Filter) ([]*invoice.Invoice, int64, error) {
	args := m.Called(ctx, organizationID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*invoice.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) CountByStatus(ctx context.Context, organizationID uuid.UUID) (map[invoice.Status]int64, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[invoice.Status]int64), args.Error(1)
}

func (m *MockInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveEdits(ctx context.Context, inv *invoice.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveEditsWithVersion(ctx context.Context, inv *invoice.Invoice, expectedVersion int) error {
	args := m.Called(ctx, inv, expectedVersion)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveTransition(ctx context.Context, inv *invoice.Invoice, t invoice.Transition) error {
	args := m.Called(ctx, inv, t)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	args := m.Called(ctx, organizationID, id)
	return args.Error(0)
}

var (
	_ identity.UserRepository             = (*MockUserRepository)(nil)
	_ identity.ProfileRepository          = (*MockProfileRepository)(nil)
	_ organization.OrganizationRepository = (*MockOrganizationRepository)(nil)
	_ organization.MembershipRepository   = (*MockMembershipRepository)(nil)
	_ organization.InvitationRepository   = (*MockInvitationRepository)(nil)
	_ invoice.Repository                  = (*MockInvoiceRepository)(nil)
)
