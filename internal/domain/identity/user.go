package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/invoicedesk/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for new password hashes
var BcryptCost = 12

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
)

// User is an account that can sign in with email and password
type User struct {
	shared.AggregateRoot
	Email        string
	PasswordHash string
	DisplayName  string
	LastLoginAt  *time.Time
}

// NewUser creates a user with a hashed password
func NewUser(email, password, displayName string) (*User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	displayName = strings.TrimSpace(displayName)
	if len(displayName) > 100 {
		return nil, shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 100 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, shared.WrapDomainError(err, "INTERNAL_ERROR", "Failed to hash password")
	}

	user := &User{
		AggregateRoot: shared.NewAggregateRoot(),
		Email:         email,
		PasswordHash:  string(hash),
		DisplayName:   displayName,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))
	return user, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin records a successful sign-in
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// NameOrEmail returns the display name, falling back to the email
func (u *User) NameOrEmail() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the email format
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// ValidatePassword checks the password policy
func ValidatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	// bcrypt ignores input beyond 72 bytes
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}
