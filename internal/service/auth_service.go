package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hisaab-app/backend/internal/auth"
	"github.com/hisaab-app/backend/internal/models"
	"github.com/hisaab-app/backend/internal/storage"
)

// AuthService handles registration and login, issuing session tokens.
type AuthService struct {
	authenticator *auth.PasswordAuthenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates an AuthService from its collaborators.
func NewAuthService(authenticator *auth.PasswordAuthenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, jwtManager: jwtManager}
}

// Register creates an account and returns the member with a session token.
func (s *AuthService) Register(ctx context.Context, email, displayName, password, upiHandle string) (*models.Member, string, error) {
	if email == "" || displayName == "" {
		return nil, "", fmt.Errorf("%w: email and display name are required", ErrInvalidInput)
	}

	member, err := s.authenticator.Register(ctx, email, displayName, password, upiHandle)
	if err != nil {
		if errors.Is(err, storage.ErrEmailExists) || errors.Is(err, auth.ErrWeakPassword) {
			return nil, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(member)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("Member registered", "member_id", member.ID)
	return member, token, nil
}

// Login verifies credentials and returns the member with a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Member, string, error) {
	member, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	token, err := s.jwtManager.Generate(member)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return member, token, nil
}
