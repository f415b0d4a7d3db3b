package service

import (
	"context"
	"fmt"

	"moviereview/internal/auth"
	apperrors "moviereview/internal/errors"
	"moviereview/internal/model"
)

// AuthService handles authentication flows on top of the user directory.
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (accessToken, refreshToken string, user *model.User, err error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	users      UserService
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(users UserService, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates a USER-role account and immediately issues tokens.
// Self-registration never grants ADMIN.
func (s *authService) Register(ctx context.Context, username, password, email string) (string, string, *model.User, error) {
	user, err := s.users.CreateUser(ctx, username, password, email, model.RoleUser)
	if err != nil {
		return "", "", nil, err
	}
	return s.issueTokens(ctx, user)
}

// Login verifies credentials against the stored hash and issues tokens.
// Unknown username and wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, username, password string) (string, string, *model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	if !s.users.ValidatePassword(user, password) {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (string, string, *model.User, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	claims := &auth.Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Role:     user.Role,
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, claims, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token against both its signature and the
// Redis store, then issues a fresh access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}

	storedUserID, storedUsername, storedRole, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}

	if storedUserID != claims.UserID || storedUsername != claims.Username || storedRole != claims.Role {
		return "", apperrors.ErrInvalidToken
	}

	principal, err := claims.Principal()
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}

	// Re-read the user so a role change since issuance is reflected.
	user, err := s.users.FindByID(ctx, principal.UserID)
	if err != nil {
		return "", apperrors.ErrInvalidToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout revokes a refresh token.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidToken
	}
	return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
}
