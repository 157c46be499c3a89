package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicedesk/backend/internal/application/identity"
	"github.com/invoicedesk/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles sign-in, sign-up and token lifecycle requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignIn godoc
// @Summary      Sign in
// @Description  Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignInRequest true "Credentials"
// @Success      200 {object} dto.Response{data=SessionTokenResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.SignIn(c.Request.Context(), identity.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSessionTokenResponse(result))
}

// SignUp godoc
// @Summary      Sign up
// @Description  Register an account and start a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignUpRequest true "Registration"
// @Success      201 {object} dto.Response{data=SessionTokenResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), identity.SignUpInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSessionTokenResponse(result))
}

// Refresh godoc
// @Summary      Refresh tokens
// @Description  Rotate the token pair. The presented refresh token is revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200 {object} dto.Response{data=SessionTokenResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSessionTokenResponse(result))
}

// SignOut godoc
// @Summary      Sign out
// @Description  Revoke the bearer token and, when given, the refresh token
// @Tags         auth
// @Accept       json
// @Param        request body SignOutRequest false "Refresh token"
// @Success      204
// @Security     BearerAuth
// @Router       /auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	var req SignOutRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	accessToken, _ := middleware.BearerToken(c)

	if err := h.authService.SignOut(c.Request.Context(), identity.SignOutInput{
		AccessToken:  accessToken,
		RefreshToken: req.RefreshToken,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
