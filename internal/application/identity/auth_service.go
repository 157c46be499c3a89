package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicedesk/backend/internal/domain/identity"
	"github.com/invoicedesk/backend/internal/domain/shared"
	"github.com/invoicedesk/backend/internal/infrastructure/auth"
	"github.com/invoicedesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// User-facing authentication failures. Raw backend errors never leave this service.
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrEmailRegistered    = shared.NewDomainError("EMAIL_ALREADY_REGISTERED", "This email is already registered")
	ErrAuthFailed         = shared.NewDomainError("AUTH_FAILED", "Something went wrong. Please try again")
	ErrSessionExpired     = shared.NewDomainError("UNAUTHORIZED", "Your session has expired. Please sign in again")
)

// AuthService is the gateway between the HTTP layer and the identity store
type AuthService struct {
	userRepo       identity.UserRepository
	profileRepo    identity.ProfileRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	profileRepo identity.ProfileRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SignIn authenticates a user by email and password
func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*AuthResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "sign_in")
	defer span.End()

	email := identity.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Sign-in for unknown email", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to look up user during sign-in", zap.Error(err))
		return nil, ErrAuthFailed
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	result, err := s.issueSession(user)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	user.RecordLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		// The session is valid even if the login timestamp is lost
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	s.ensureProfile(ctx, user)

	s.logger.Info("User signed in", zap.String("user_id", user.ID.String()))
	return result, nil
}

// SignUp registers a user, upserts the profile row keyed by the new user ID and
// returns a session
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "sign_up")
	defer span.End()

	email := identity.NormalizeEmail(input.Email)
	if err := identity.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := identity.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to check email availability", zap.Error(err))
		return nil, ErrAuthFailed
	}
	if exists {
		return nil, ErrEmailRegistered
	}

	user, err := identity.NewUser(email, input.Password, input.DisplayName)
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) && de.Err == nil {
			return nil, err
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, ErrAuthFailed
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrEmailRegistered
		}
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to store user", zap.Error(err))
		return nil, ErrAuthFailed
	}

	profile := identity.NewProfile(user.ID, user.Email, user.DisplayName)
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		// Sign-in recreates a missing profile
		s.logger.Error("Failed to upsert profile after sign-up",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.publishDomainEvents(ctx, user)

	result, err := s.issueSession(user)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("User signed up", zap.String("user_id", user.ID.String()))
	return result, nil
}

// Refresh exchanges a refresh token for a new pair. The used refresh token is
// revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "refresh")
	defer span.End()

	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Refresh token is required")
	}

	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, ErrSessionExpired
	}
	if err := s.checkNotRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, ErrSessionExpired
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Token refresh for deleted user", zap.String("user_id", userID.String()))
			return nil, ErrSessionExpired
		}
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to load user during refresh", zap.Error(err))
		return nil, ErrAuthFailed
	}

	pair, _, err := s.jwtService.RefreshTokenPair(refreshToken)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		if errors.Is(err, auth.ErrMaxRefreshExceeded) || errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, auth.ErrInvalidToken) {
			return nil, ErrSessionExpired
		}
		return nil, ErrAuthFailed
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke used refresh token", zap.Error(err))
	}

	return newAuthResult(pair, user), nil
}

// SignOut revokes the access token and, when given, the refresh token.
// Tokens that are already invalid need no revocation.
func (s *AuthService) SignOut(ctx context.Context, input SignOutInput) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "sign_out")
	defer span.End()

	if claims, err := s.jwtService.ValidateAccessToken(input.AccessToken); err == nil {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL()); err != nil {
			telemetry.RecordError(span, err)
			s.logger.Error("Failed to revoke access token", zap.Error(err))
			return ErrAuthFailed
		}
		s.logger.Info("User signed out", zap.String("user_id", claims.UserID))
	}

	if input.RefreshToken != "" {
		if claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken); err == nil {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL()); err != nil {
				telemetry.RecordError(span, err)
				s.logger.Error("Failed to revoke refresh token", zap.Error(err))
				return ErrAuthFailed
			}
		}
	}
	return nil
}

// Authenticate validates an access token against signature, expiry and the
// revocation list, and returns the user it identifies
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, auth.ErrTokenBlacklisted
	}
	return claims, nil
}

// CurrentUser returns the user behind a session
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

func (s *AuthService) checkNotRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Failed to check token revocation", zap.Error(err))
		return ErrAuthFailed
	}
	if revoked {
		s.logger.Warn("Revoked refresh token presented", zap.String("user_id", claims.UserID))
		return ErrSessionExpired
	}
	return nil
}

func (s *AuthService) issueSession(user *identity.User) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, ErrAuthFailed
	}
	return newAuthResult(pair, user), nil
}

// ensureProfile recreates the profile row when sign-up could not write it
func (s *AuthService) ensureProfile(ctx context.Context, user *identity.User) {
	_, err := s.profileRepo.FindByUserID(ctx, user.ID)
	if err == nil {
		return
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("Failed to load profile", zap.String("user_id", user.ID.String()), zap.Error(err))
		return
	}
	if err := s.profileRepo.Upsert(ctx, identity.NewProfile(user.ID, user.Email, user.DisplayName)); err != nil {
		s.logger.Warn("Failed to recreate profile", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}

// publishDomainEvents publishes all domain events from the user
func (s *AuthService) publishDomainEvents(ctx context.Context, user *identity.User) {
	if s.eventPublisher == nil {
		return
	}
	events := user.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
	user.ClearDomainEvents()
}

func newAuthResult(pair *auth.TokenPair, user *identity.User) *AuthResult {
	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  toUserInfo(user),
	}
}

func toUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.NameOrEmail(),
	}
}
