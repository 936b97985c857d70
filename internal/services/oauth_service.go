package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Holocron-Auth/holocron-core/domain"
	"github.com/Holocron-Auth/holocron-core/internal/infrastructure/auth"
)

// OAuthFlowServiceImpl implements domain.OAuthFlowService
type OAuthFlowServiceImpl struct {
	appRepo          domain.AppRepository
	loginRequestRepo domain.LoginRequestRepository
	grantRepo        domain.GrantRepository
	locker           domain.Locker
	config           OAuthFlowConfig
}

type OAuthFlowConfig struct {
	// LoginRequestTTL bounds how long a staged request stays consumable.
	LoginRequestTTL time.Duration
	// StageRateWindow is the minimum gap between staged requests per (app, user).
	StageRateWindow time.Duration
	// TokenLength is the length of minted authorization codes.
	TokenLength int
	// LockTTL bounds the consent find-or-create guard.
	LockTTL time.Duration
}

// NewOAuthFlowService creates a new authorization flow service
func NewOAuthFlowService(
	appRepo domain.AppRepository,
	loginRequestRepo domain.LoginRequestRepository,
	grantRepo domain.GrantRepository,
	locker domain.Locker,
	config OAuthFlowConfig,
) domain.OAuthFlowService {
	return &OAuthFlowServiceImpl{
		appRepo:          appRepo,
		loginRequestRepo: loginRequestRepo,
		grantRepo:        grantRepo,
		locker:           locker,
		config:           config,
	}
}

// GetClientDetails implements domain.OAuthFlowService
func (s *OAuthFlowServiceImpl) GetClientDetails(ctx context.Context, clientID string) (string, error) {
	app, err := s.appRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return "", err
	}
	return app.Name, nil
}

// StageLoginRequest implements domain.OAuthFlowService
func (s *OAuthFlowServiceImpl) StageLoginRequest(ctx context.Context, userID uint, clientID, redirectURI, scope, state, responseType string) (*domain.StageResult, error) {
	app, err := s.appRepo.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	recent, err := s.loginRequestRepo.FindLatest(ctx, app.ID, userID)
	if err != nil && !errors.Is(err, domain.ErrLoginRequestNotFound) {
		return nil, fmt.Errorf("failed to look up recent login request: %w", err)
	}
	if recent != nil && time.Since(recent.CreatedAt) < s.config.StageRateWindow {
		return nil, domain.ErrTooManyLoginRequests
	}

	// A prior grant with a live code short-circuits the consent step.
	grant, err := s.grantRepo.FindConnectedApp(ctx, userID, app.ID)
	if err != nil && !errors.Is(err, domain.ErrAppNotFound) {
		return nil, fmt.Errorf("failed to look up grant: %w", err)
	}
	if grant != nil {
		code, err := s.grantRepo.FindAuthorizationTokenByGrant(ctx, grant.ID)
		if err != nil && !errors.Is(err, domain.ErrCodeNotFound) {
			return nil, fmt.Errorf("failed to look up authorization code: %w", err)
		}
		if code != nil {
			return &domain.StageResult{
				ConsentGranted: true,
				Code:           code.Token,
				RedirectURI:    redirectURI,
				State:          state,
			}, nil
		}
		// Grant without a live code is stale; the user consents again.
		if err := s.grantRepo.DeleteConnectedApp(ctx, grant.ID); err != nil {
			return nil, fmt.Errorf("failed to delete stale grant: %w", err)
		}
	}

	req := &domain.LoginRequest{
		ID:           uuid.NewString(),
		AppID:        app.ID,
		UserID:       userID,
		RedirectURI:  redirectURI,
		Scope:        scope,
		State:        state,
		ResponseType: responseType,
		CreatedAt:    time.Now(),
	}
	if err := s.loginRequestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create login request: %w", err)
	}

	return &domain.StageResult{Part: req.ID}, nil
}

// FetchPendingRequest implements domain.OAuthFlowService. The expiry window
// is enforced on every read, not only at creation.
func (s *OAuthFlowServiceImpl) FetchPendingRequest(ctx context.Context, clientID, part string, userID uint) (*domain.LoginRequestView, error) {
	req, err := s.resolvePendingRequest(ctx, clientID, part, userID)
	if err != nil {
		return nil, err
	}

	return &domain.LoginRequestView{
		ClientName:  req.App.Name,
		RedirectURI: req.RedirectURI,
		Scope:       req.Scope,
		State:       req.State,
	}, nil
}

// GrantConsent implements domain.OAuthFlowService
func (s *OAuthFlowServiceImpl) GrantConsent(ctx context.Context, clientID, part string, userID uint) (*domain.AuthorizationGrant, error) {
	req, err := s.resolvePendingRequest(ctx, clientID, part, userID)
	if err != nil {
		return nil, err
	}

	// Guard the find-or-create so two concurrent consents cannot mint
	// two codes for the same (user, app).
	lockKey := fmt.Sprintf("consent:%d:%d", userID, req.AppID)
	acquired, err := s.locker.Acquire(ctx, lockKey, s.config.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire consent lock: %w", err)
	}
	if !acquired {
		return nil, domain.ErrTooManyLoginRequests
	}
	defer s.locker.Release(ctx, lockKey)

	grant, err := s.grantRepo.FindConnectedApp(ctx, userID, req.AppID)
	if err != nil {
		if !errors.Is(err, domain.ErrAppNotFound) {
			return nil, fmt.Errorf("failed to look up grant: %w", err)
		}
		// Scope is taken verbatim from the most recent login request.
		grant = &domain.ConnectedApp{
			UserID: userID,
			AppID:  req.AppID,
			Scope:  req.Scope,
		}
		if err := s.grantRepo.CreateConnectedApp(ctx, grant); err != nil {
			return nil, fmt.Errorf("failed to create grant: %w", err)
		}
	}

	code, err := auth.GenerateOpaqueToken(s.config.TokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate authorization code: %w", err)
	}

	authToken := &domain.AuthorizationToken{
		Token:          code,
		ConnectedAppID: grant.ID,
	}
	if err := s.grantRepo.CreateAuthorizationToken(ctx, authToken); err != nil {
		return nil, fmt.Errorf("failed to store authorization code: %w", err)
	}

	if err := s.loginRequestRepo.MarkConsent(ctx, req.ID); err != nil {
		return nil, fmt.Errorf("failed to mark consent: %w", err)
	}

	log.Printf("CONSENT_GRANTED: user_id=%d app_id=%d scope=%q", userID, req.AppID, req.Scope)

	return &domain.AuthorizationGrant{
		RedirectLink: fmt.Sprintf("%s?code=%s&state=%s", req.RedirectURI, code, req.State),
	}, nil
}

// resolvePendingRequest validates ownership and the validity window shared
// by fetch and grant.
func (s *OAuthFlowServiceImpl) resolvePendingRequest(ctx context.Context, clientID, part string, userID uint) (*domain.LoginRequest, error) {
	req, err := s.loginRequestRepo.FindByID(ctx, part)
	if err != nil {
		return nil, err
	}

	if req.App == nil || req.App.ClientID != clientID || req.UserID != userID {
		return nil, domain.ErrLoginRequestNotFound
	}

	if time.Since(req.CreatedAt) > s.config.LoginRequestTTL {
		return nil, domain.ErrLoginRequestExpired
	}

	return req, nil
}
