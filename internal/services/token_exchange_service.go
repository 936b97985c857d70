package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Holocron-Auth/holocron-core/domain"
	"github.com/Holocron-Auth/holocron-core/internal/infrastructure/auth"
)

// TokenExchangeServiceImpl implements domain.TokenExchangeService
type TokenExchangeServiceImpl struct {
	appRepo      domain.AppRepository
	grantRepo    domain.GrantRepository
	userRepo     domain.UserRepository
	tokenLength  int
	assetBaseURL string
}

// NewTokenExchangeService creates a new token exchange service
func NewTokenExchangeService(
	appRepo domain.AppRepository,
	grantRepo domain.GrantRepository,
	userRepo domain.UserRepository,
	tokenLength int,
	assetBaseURL string,
) domain.TokenExchangeService {
	return &TokenExchangeServiceImpl{
		appRepo:      appRepo,
		grantRepo:    grantRepo,
		userRepo:     userRepo,
		tokenLength:  tokenLength,
		assetBaseURL: assetBaseURL,
	}
}

// Exchange implements domain.TokenExchangeService. The authorization code
// is invalidated on first successful exchange.
func (s *TokenExchangeServiceImpl) Exchange(ctx context.Context, code, clientID string) (*domain.TokenPair, error) {
	app, err := s.appRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	authToken, err := s.grantRepo.FindAuthorizationToken(ctx, code)
	if err != nil {
		return nil, err
	}
	if authToken.ConnectedApp == nil {
		return nil, domain.ErrCodeNotFound
	}

	if authToken.ConnectedApp.AppID != app.ID {
		return nil, domain.ErrClientMismatch
	}

	accessValue, err := auth.GenerateOpaqueToken(s.tokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshValue, err := auth.GenerateOpaqueToken(s.tokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	accessToken := &domain.AccessToken{
		Token:          accessValue,
		ConnectedAppID: authToken.ConnectedAppID,
	}
	if err := s.grantRepo.CreateAccessToken(ctx, accessToken); err != nil {
		return nil, fmt.Errorf("failed to store access token: %w", err)
	}

	refreshToken := &domain.RefreshToken{
		Token:          refreshValue,
		ConnectedAppID: authToken.ConnectedAppID,
	}
	if err := s.grantRepo.CreateRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	// Single use: a leaked code must not redeem twice.
	if err := s.grantRepo.DeleteAuthorizationToken(ctx, authToken.ID); err != nil {
		return nil, fmt.Errorf("failed to invalidate authorization code: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessValue,
		RefreshToken: refreshValue,
	}, nil
}

// UserInfo implements domain.TokenExchangeService. Fields for scopes that
// were not granted are omitted entirely.
func (s *TokenExchangeServiceImpl) UserInfo(ctx context.Context, accessToken string) (*domain.UserInfo, error) {
	token, err := s.grantRepo.FindAccessToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if token.ConnectedApp == nil {
		return nil, domain.ErrAccessTokenNotFound
	}

	user, err := s.userRepo.FindByID(ctx, token.ConnectedApp.UserID)
	if err != nil {
		return nil, err
	}

	scopes := make(map[string]bool)
	for _, sc := range strings.Fields(token.ConnectedApp.Scope) {
		scopes[sc] = true
	}

	info := &domain.UserInfo{}
	if scopes["identify"] {
		info.ID = &user.ID
		info.Name = &user.Name
		image := s.assetBaseURL + user.Image
		info.Image = &image
	}
	if scopes["email"] {
		info.Email = &user.Email
	}
	if scopes["phone"] {
		info.Phone = &user.Phone
	}
	if scopes["address"] {
		info.Address = &user.Address
	}

	return info, nil
}
