package handler

import (
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/application/directory"
	"github.com/invoicedesk/backend/internal/application/profile"
	"github.com/invoicedesk/backend/internal/domain/organization"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/storage"
	"github.com/invoicedesk/backend/internal/interfaces/http/middleware"
	"github.com/invoicedesk/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 1x1 transparent PNG
var testPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

type orgHandlerFixture struct {
	orgs        *testutil.MockOrganizationRepository
	memberships *testutil.MockMembershipRepository
	storage     *storage.StubObjectStorage
	engine      *gin.Engine

	org      *organization.Organization
	owner    *organization.Membership
	employee *organization.Membership
}

func newOrgHandlerFixture(t *testing.T, as func(f *orgHandlerFixture) uuid.UUID) *orgHandlerFixture {
	t.Helper()
	f := &orgHandlerFixture{
		orgs:        new(testutil.MockOrganizationRepository),
		memberships: new(testutil.MockMembershipRepository),
		storage:     storage.NewStubObjectStorage("https://files.example.com"),
	}
	var err error
	f.org, err = organization.NewOrganization("Studio Kvadrat", "")
	require.NoError(t, err)
	f.org.ClearDomainEvents()
	f.owner, err = organization.NewMembership(f.org.ID, uuid.New(), organization.RoleOwner)
	require.NoError(t, err)
	f.employee, err = organization.NewMembership(f.org.ID, uuid.New(), organization.RoleEmployee)
	require.NoError(t, err)

	f.orgs.On("FindByID", mock.Anything, f.org.ID).Return(f.org, nil)
	f.memberships.On("FindByOrganizationAndUser", mock.Anything, f.org.ID, f.owner.UserID).Return(f.owner, nil)
	f.memberships.On("FindByOrganizationAndUser", mock.Anything, f.org.ID, f.employee.UserID).Return(f.employee, nil)
	f.memberships.On("FindByOrganizationAndUser", mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	h := NewOrganizationHandler(
		directory.NewService(f.orgs, f.memberships, zap.NewNop()),
		profile.NewService(f.orgs, f.memberships, f.storage, zap.NewNop()),
	)
	f.engine = gin.New()
	g := f.engine.Group("/organizations", asUser(as(f)))
	g.GET("", h.List)
	g.POST("", h.Create)
	scoped := g.Group("/:id", middleware.RequireOrganization("id"))
	scoped.GET("/profile", h.GetProfile)
	scoped.PUT("/profile", h.UpdateProfile)
	scoped.POST("/logo", h.UploadLogo)
	scoped.DELETE("/logo", h.RemoveLogo)
	return f
}

func asOwner(f *orgHandlerFixture) uuid.UUID    { return f.owner.UserID }
func asEmployee(f *orgHandlerFixture) uuid.UUID { return f.employee.UserID }

func TestOrganizationHandler_List(t *testing.T) {
	f := newOrgHandlerFixture(t, asEmployee)
	f.memberships.On("FindByUser", mock.Anything, f.employee.UserID).Return([]*organization.Membership{f.employee}, nil)
	f.orgs.On("FindByIDs", mock.Anything, []uuid.UUID{f.org.ID}).Return([]*organization.Organization{f.org}, nil)

	w := testutil.PerformRequest(t, f.engine, http.MethodGet, "/organizations", nil, nil)

	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	data := testutil.JSONResponse(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	entry := data[0].(map[string]interface{})
	assert.Equal(t, f.org.ID.String(), entry["id"])
	assert.Equal(t, "employee", entry["role"])
	perms := entry["permissions"].(map[string]interface{})
	assert.Equal(t, false, perms["is_owner"])
	assert.Equal(t, true, perms["can_export_reports"])
}

func TestOrganizationHandler_Create(t *testing.T) {
	t.Run("creates owned organization", func(t *testing.T) {
		f := newOrgHandlerFixture(t, asEmployee)
		f.orgs.On("ExistsBySlug", mock.Anything, "novi-biro").Return(false, nil)
		f.orgs.On("CreateWithOwner", mock.Anything, mock.AnythingOfType("*organization.Organization"),
			mock.AnythingOfType("*organization.Membership")).Return(nil)

		w := testutil.PerformRequest(t, f.engine, http.MethodPost, "/organizations",
			CreateOrganizationRequest{Name: "Novi Biro"}, nil)

		testutil.AssertSuccessResponse(t, w, http.StatusCreated)
		data := testutil.ResponseData(t, w)
		assert.Equal(t, "novi-biro", data["slug"])
		assert.Equal(t, "owner", data["role"])
	})

	t.Run("name is required", func(t *testing.T) {
		f := newOrgHandlerFixture(t, asEmployee)

		w := testutil.PerformRequest(t, f.engine, http.MethodPost, "/organizations", CreateOrganizationRequest{}, nil)

		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "ERR_VALIDATION")
	})
}

func TestOrganizationHandler_Profile(t *testing.T) {
	path := func(f *orgHandlerFixture) string { return "/organizations/" + f.org.ID.String() + "/profile" }

	t.Run("member reads merged profile", func(t *testing.T) {
		f := newOrgHandlerFixture(t, asEmployee)
		f.org.Settings = map[string]any{organization.SettingTaxID: "4401234567890", organization.SettingCity: "Sarajevo"}

		w := testutil.PerformRequest(t, f.engine, http.MethodGet, path(f), nil, nil)

		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		data := testutil.ResponseData(t, w)
		assert.Equal(t, "Studio Kvadrat", data["name"])
		assert.Equal(t, "4401234567890", data["tax_id"])
		assert.Equal(t, "Sarajevo", data["city"])
	})

	t.Run("employee cannot save", func(t *testing.T) {
		f := newOrgHandlerFixture(t, asEmployee)

		w := testutil.PerformRequest(t, f.engine, http.MethodPut, path(f), ProfileRequest{Name: "Renamed"}, nil)

		testutil.AssertErrorResponse(t, w, http.StatusForbidden, "ERR_FORBIDDEN")
		f.orgs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("owner saves", func(t *testing.T) {
		f := newOrgHandlerFixture(t, asOwner)
		f.orgs.On("Save", mock.Anything, f.org).Return(nil)

		w := testutil.PerformRequest(t, f.engine, http.MethodPut, path(f), ProfileRequest{
			Name:            "Studio Kvadrat d.o.o.",
			AccountantEmail: "racunovodja@example.com",
			Address:         "Titova 1",
			City:            "Sarajevo",
			PostalCode:      "71000",
		}, nil)

		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		data := testutil.ResponseData(t, w)
		assert.Equal(t, "Studio Kvadrat d.o.o.", data["name"])
		assert.Equal(t, "Titova 1, Sarajevo 71000", data["composite_address"])
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		f := newOrgHandlerFixture(t, func(*orgHandlerFixture) uuid.UUID { return uuid.New() })

		w := testutil.PerformRequest(t, f.engine, http.MethodGet, path(f), nil, nil)

		testutil.AssertErrorResponse(t, w, http.StatusForbidden, "ERR_FORBIDDEN")
	})

	t.Run("invalid organization id", func(t *testing.T) {
		f := newOrgHandlerFixture(t, asOwner)

		w := testutil.PerformRequest(t, f.engine, http.MethodGet, "/organizations/not-a-uuid/profile", nil, nil)

		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "ERR_BAD_REQUEST")
	})
}

func TestOrganizationHandler_Logo(t *testing.T) {
	path := func(f *orgHandlerFixture) string { return "/organizations/" + f.org.ID.String() + "/logo" }

	t.Run("owner uploads then removes", func(t *testing.T) {
		f := newOrgHandlerFixture(t, asOwner)
		f.orgs.On("Save", mock.Anything, f.org).Return(nil)

		body, contentType := multipartFile(t, LogoFormField, "logo.png", "image/png", testPNG)
		w := testutil.PerformRequest(t, f.engine, http.MethodPost, path(f), body,
			map[string]string{"Content-Type": contentType})

		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		logoURL, _ := testutil.ResponseData(t, w)["logo_url"].(string)
		require.NotEmpty(t, logoURL)
		key, ok := f.storage.KeyFromURL(logoURL)
		require.True(t, ok)
		_, stored := f.storage.Object(key)
		assert.True(t, stored)

		w = testutil.PerformRequest(t, f.engine, http.MethodDelete, path(f), nil, nil)
		testutil.AssertSuccessResponse(t, w, http.StatusOK)
		assert.Nil(t, testutil.ResponseData(t, w)["logo_url"])
		_, stored = f.storage.Object(key)
		assert.False(t, stored)
	})

	t.Run("rejection message is surfaced", func(t *testing.T) {
		f := newOrgHandlerFixture(t, asOwner)

		body, contentType := multipartFile(t, LogoFormField, "logo.gif", "image/gif", []byte("GIF89a"))
		w := testutil.PerformRequest(t, f.engine, http.MethodPost, path(f), body,
			map[string]string{"Content-Type": contentType})

		require.Equal(t, http.StatusBadRequest, w.Code)
		errInfo := testutil.JSONResponse(t, w)["error"].(map[string]interface{})
		assert.NotEmpty(t, errInfo["message"])
		f.orgs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing file field", func(t *testing.T) {
		f := newOrgHandlerFixture(t, asOwner)

		body, contentType := multipartFile(t, "image", "logo.png", "image/png", testPNG)
		w := testutil.PerformRequest(t, f.engine, http.MethodPost, path(f), body,
			map[string]string{"Content-Type": contentType})

		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "ERR_BAD_REQUEST")
	})

	t.Run("employee cannot upload", func(t *testing.T) {
		f := newOrgHandlerFixture(t, asEmployee)

		body, contentType := multipartFile(t, LogoFormField, "logo.png", "image/png", testPNG)
		w := testutil.PerformRequest(t, f.engine, http.MethodPost, path(f), body,
			map[string]string{"Content-Type": contentType})
		testutil.AssertErrorResponse(t, w, http.StatusForbidden, "ERR_FORBIDDEN")
	})
}
