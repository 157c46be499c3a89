package profile

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/application/access"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/storage"
	"github.com/invoicedesk/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type profileFixture struct {
	orgs        *testutil.MockOrganizationRepository
	memberships *testutil.MockMembershipRepository
	storage     *storage.StubObjectStorage
	events      *testutil.RecordingPublisher
	service     *Service

	org      *organization.Organization
	owner    *organization.Membership
	employee *organization.Membership
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()
	org, err := organization.NewOrganization("Studio Kvadrat", "")
	require.NoError(t, err)
	org.ClearDomainEvents()

	f := &profileFixture{
		orgs:        new(testutil.MockOrganizationRepository),
		memberships: new(testutil.MockMembershipRepository),
		storage:     storage.NewStubObjectStorage(""),
		events:      testutil.NewRecordingPublisher(),
		org:         org,
	}
	f.owner, err = organization.NewMembership(org.ID, uuid.New(), organization.RoleOwner)
	require.NoError(t, err)
	f.employee, err = organization.NewMembership(org.ID, uuid.New(), organization.RoleEmployee)
	require.NoError(t, err)

	f.memberships.On("FindByOrganizationAndUser", mock.Anything, org.ID, f.owner.UserID).Return(f.owner, nil)
	f.memberships.On("FindByOrganizationAndUser", mock.Anything, org.ID, f.employee.UserID).Return(f.employee, nil)
	f.orgs.On("FindByID", mock.Anything, org.ID).Return(org, nil)

	f.service = NewService(f.orgs, f.memberships, f.storage, zap.NewNop())
	f.service.SetEventPublisher(f.events)
	return f
}

func TestService_LoadProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("legacy settings fill empty attributes", func(t *testing.T) {
		f := newProfileFixture(t)
		taxID := "123456789"
		f.org.TaxID = &taxID
		f.org.Settings = organization.Settings{
			organization.SettingTaxID:   "999",
			organization.SettingAddress: "Knez Mihailova 1",
			organization.SettingCity:    "Beograd",
		}

		view, err := f.service.LoadProfile(ctx, f.employee.UserID, f.org.ID)
		require.NoError(t, err)
		assert.Equal(t, "Studio Kvadrat", view.Form.Name)
		assert.Equal(t, "123456789", view.Form.TaxID)
		assert.Equal(t, "Knez Mihailova 1", view.Form.Address)
		assert.Contains(t, view.CompositeAddress, "Beograd")
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		f := newProfileFixture(t)
		stranger := uuid.New()
		f.memberships.On("FindByOrganizationAndUser", mock.Anything, f.org.ID, stranger).Return(nil, shared.ErrNotFound)

		_, err := f.service.LoadProfile(ctx, stranger, f.org.ID)
		assert.ErrorIs(t, err, access.ErrNotMember)
		f.orgs.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestService_SaveProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("owner saves and legacy keys are dropped", func(t *testing.T) {
		f := newProfileFixture(t)
		f.org.Settings = organization.Settings{
			organization.SettingTaxID: "999",
			"theme":                   "dark",
		}
		f.orgs.On("Save", mock.Anything, f.org).Return(nil).Once()

		view, err := f.service.SaveProfile(ctx, f.owner.UserID, f.org.ID, organization.ProfileForm{
			Name:            "  Studio <b>Kvadrat</b> d.o.o. ",
			AccountantEmail: "knjigovodja@example.com",
			TaxID:           "123456789",
			VATRegistered:   true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Studio Kvadrat d.o.o.", view.Form.Name)
		assert.Equal(t, "123456789", view.Form.TaxID)
		assert.True(t, view.Form.VATRegistered)
		assert.NotContains(t, f.org.Settings, organization.SettingTaxID)
		assert.Equal(t, "dark", f.org.Settings["theme"])
		assert.Equal(t, []string{organization.EventTypeOrganizationProfileUpdated}, f.events.EventTypes())
	})

	t.Run("employee cannot save", func(t *testing.T) {
		f := newProfileFixture(t)
		_, err := f.service.SaveProfile(ctx, f.employee.UserID, f.org.ID, organization.ProfileForm{Name: "Other"})
		assert.ErrorIs(t, err, access.ErrNotOwner)
		f.orgs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		f := newProfileFixture(t)
		_, err := f.service.SaveProfile(ctx, f.owner.UserID, f.org.ID, organization.ProfileForm{Name: "<i></i>"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
		assert.Equal(t, "Studio Kvadrat", f.org.Name)
	})

	t.Run("malformed accountant email is rejected", func(t *testing.T) {
		f := newProfileFixture(t)
		_, err := f.service.SaveProfile(ctx, f.owner.UserID, f.org.ID, organization.ProfileForm{
			Name:            "Studio Kvadrat",
			AccountantEmail: "not-an-email",
		})
		require.Error(t, err)
		f.orgs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		f := newProfileFixture(t)
		f.orgs.On("Save", mock.Anything, f.org).Return(errors.New("connection reset")).Once()
		_, err := f.service.SaveProfile(ctx, f.owner.UserID, f.org.ID, organization.ProfileForm{Name: "Studio"})
		require.Error(t, err)
		assert.Empty(t, f.events.Events())
	})
}

func TestService_UploadLogo(t *testing.T) {
	ctx := context.Background()

	t.Run("stores logo and removes previous object", func(t *testing.T) {
		f := newProfileFixture(t)
		oldKey := storage.LogoKey(f.org.ID, "png")
		require.NoError(t, f.storage.Upload(ctx, oldKey, bytes.NewReader(pngHeader), int64(len(pngHeader)), "image/png"))
		f.org.SetLogo(f.storage.PublicURL(oldKey))
		f.org.ClearDomainEvents()
		f.orgs.On("Save", mock.Anything, f.org).Return(nil).Once()

		org, err := f.service.UploadLogo(ctx, f.owner.UserID, f.org.ID, LogoUpload{
			Filename:    "logo.png",
			ContentType: "image/png",
			Size:        int64(len(pngHeader)),
			Body:        bytes.NewReader(pngHeader),
		})
		require.NoError(t, err)
		require.NotNil(t, org.LogoURL)

		newKey, ok := f.storage.KeyFromURL(*org.LogoURL)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(newKey, "organizations/"+f.org.ID.String()+"/logo-"))
		assert.True(t, strings.HasSuffix(newKey, ".png"))
		_, stored := f.storage.Object(newKey)
		assert.True(t, stored)
		_, stillThere := f.storage.Object(oldKey)
		assert.False(t, stillThere)
		assert.Equal(t, []string{organization.EventTypeOrganizationLogoChanged}, f.events.EventTypes())
	})

	t.Run("rejected types never reach storage", func(t *testing.T) {
		tests := []struct {
			name   string
			upload LogoUpload
			want   error
		}{
			{"gif", LogoUpload{Filename: "logo.gif", ContentType: "image/gif", Size: 10, Body: bytes.NewReader(pngHeader)}, organization.ErrInvalidLogoType},
			{"too large", LogoUpload{Filename: "logo.png", ContentType: "image/png", Size: organization.MaxLogoSize + 1, Body: bytes.NewReader(pngHeader)}, organization.ErrLogoTooLarge},
			{"content mismatch", LogoUpload{Filename: "logo.png", ContentType: "image/png", Size: 12, Body: strings.NewReader("GIF89a......")}, organization.ErrInvalidLogoType},
			{"empty", LogoUpload{Filename: "logo.png", ContentType: "image/png", Size: 0, Body: bytes.NewReader(nil)}, organization.ErrEmptyLogo},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newProfileFixture(t)
				_, err := f.service.UploadLogo(ctx, f.owner.UserID, f.org.ID, tt.upload)
				assert.ErrorIs(t, err, tt.want)
				assert.Nil(t, f.org.LogoURL)
				f.orgs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("employee cannot upload", func(t *testing.T) {
		f := newProfileFixture(t)
		_, err := f.service.UploadLogo(ctx, f.employee.UserID, f.org.ID, LogoUpload{
			Filename: "logo.png", ContentType: "image/png", Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader),
		})
		assert.ErrorIs(t, err, access.ErrNotOwner)
	})

	t.Run("failed save removes the new object", func(t *testing.T) {
		f := newProfileFixture(t)
		f.orgs.On("Save", mock.Anything, f.org).Return(errors.New("db down")).Once()

		_, err := f.service.UploadLogo(ctx, f.owner.UserID, f.org.ID, LogoUpload{
			Filename: "logo.png", ContentType: "image/png", Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader),
		})
		require.Error(t, err)
		key, ok := f.storage.KeyFromURL(*f.org.LogoURL)
		require.True(t, ok)
		_, stored := f.storage.Object(key)
		assert.False(t, stored)
	})
}

func TestService_RemoveLogo(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)
	key := storage.LogoKey(f.org.ID, "png")
	require.NoError(t, f.storage.Upload(ctx, key, bytes.NewReader(pngHeader), int64(len(pngHeader)), "image/png"))
	f.org.SetLogo(f.storage.PublicURL(key))
	f.org.ClearDomainEvents()
	f.orgs.On("Save", mock.Anything, f.org).Return(nil).Once()

	org, err := f.service.RemoveLogo(ctx, f.owner.UserID, f.org.ID)
	require.NoError(t, err)
	assert.Nil(t, org.LogoURL)
	_, stored := f.storage.Object(key)
	assert.False(t, stored)

	// A second removal is a no-op
	org, err = f.service.RemoveLogo(ctx, f.owner.UserID, f.org.ID)
	require.NoError(t, err)
	assert.Nil(t, org.LogoURL)
	f.orgs.AssertNumberOfCalls(t, "Save", 1)
}

func TestService_BuyerDefaults(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)
	f.org.Settings = organization.Settings{
		organization.SettingAddress:    "Knez Mihailova 1",
		organization.SettingCity:       "Beograd",
		organization.SettingVATNumber:  "RS123",
		organization.SettingPostalCode: "11000",
	}

	party, err := f.service.BuyerDefaults(ctx, f.employee.UserID, f.org.ID)
	require.NoError(t, err)
	require.NotNil(t, party.Name)
	assert.Equal(t, "Studio Kvadrat", *party.Name)
	require.NotNil(t, party.VATID)
	assert.Equal(t, "RS123", *party.VATID)
	require.NotNil(t, party.Address)
	assert.Contains(t, *party.Address, "Knez Mihailova 1")
	assert.Nil(t, party.TaxID)
}
