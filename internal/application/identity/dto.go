package identity

import (
	"time"

	"github.com/google/uuid"
)

// SignInInput contains the credentials for sign-in
type SignInInput struct {
	Email    string
	Password string
}

// SignUpInput contains the registration form
type SignUpInput struct {
	Email       string
	Password    string
	DisplayName string
}

// SignOutInput contains the tokens to revoke. RefreshToken is optional.
type SignOutInput struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is an authenticated session: a token pair plus the user
type AuthResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned with a session
type UserInfo struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
}
