package handler

import (
	"time"

	"github.com/invoicedesk/backend/internal/application/identity"
)

// SignInRequest is the sign-in form
type SignInRequest struct {
	Email    string `json:"email" example:"ana@example.com"`
	Password string `json:"password" example:"correct horse"`
}

// SignUpRequest is the registration form
type SignUpRequest struct {
	Email       string `json:"email" example:"ana@example.com"`
	Password    string `json:"password" example:"correct horse"`
	DisplayName string `json:"display_name" binding:"max=100" example:"Ana"`
}

// RefreshRequest carries the refresh token to rotate
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SignOutRequest optionally carries the refresh token to revoke with the access token
type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse is the signed-in user
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// SessionTokenResponse is an issued token pair with its user
type SessionTokenResponse struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}

func toUserResponse(u identity.UserInfo) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}

func toSessionTokenResponse(r *identity.AuthResult) SessionTokenResponse {
	return SessionTokenResponse{
		AccessToken:           r.AccessToken,
		RefreshToken:          r.RefreshToken,
		AccessTokenExpiresAt:  r.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: r.RefreshTokenExpiresAt,
		TokenType:             r.TokenType,
		User:                  toUserResponse(r.User),
	}
}
