package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// DevServiceImpl implements domain.DevService
type DevServiceImpl struct {
	appRepo   domain.AppRepository
	blobStore domain.BlobStore
}

// NewDevService creates a new developer app service
func NewDevService(appRepo domain.AppRepository, blobStore domain.BlobStore) domain.DevService {
	return &DevServiceImpl{appRepo: appRepo, blobStore: blobStore}
}

// RegisterApp implements domain.DevService. The clientId is generated here
// and never changes afterwards.
func (s *DevServiceImpl) RegisterApp(ctx context.Context, developerID uint, reg domain.AppRegistration) (*domain.RegisteredApp, error) {
	app := &domain.RegisteredApp{
		ClientID:          uuid.NewString(),
		Name:              reg.Name,
		Logo:              reg.Logo,
		HomepageURL:       reg.HomepageURL,
		PrivacyPolicyURL:  reg.PrivacyPolicyURL,
		TermsOfServiceURL: reg.TermsOfServiceURL,
		AuthorizedDomains: reg.AuthorizedDomains,
		DeveloperID:       developerID,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to register app: %w", err)
	}
	return app, nil
}

// ListApps implements domain.DevService
func (s *DevServiceImpl) ListApps(ctx context.Context, developerID uint) ([]domain.RegisteredApp, error) {
	return s.appRepo.ListByDeveloper(ctx, developerID)
}

// DeleteApp implements domain.DevService. The app and its authorized
// domains go as one unit.
func (s *DevServiceImpl) DeleteApp(ctx context.Context, developerID, appID uint) error {
	app, err := s.appRepo.FindByID(ctx, appID)
	if err != nil {
		return err
	}

	if app.DeveloperID != developerID {
		return domain.ErrUnauthorized
	}

	return s.appRepo.Delete(ctx, appID)
}

// CreateUploadURL implements domain.DevService. The target is short-lived
// and scoped to the developer's own key prefix.
func (s *DevServiceImpl) CreateUploadURL(ctx context.Context, developerID uint) (string, map[string]string, error) {
	url, fields, err := s.blobStore.Presign(ctx, developerID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create upload URL: %w", err)
	}
	return url, fields, nil
}
