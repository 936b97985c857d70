package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Holocron-Auth/holocron-core/domain"
	"github.com/Holocron-Auth/holocron-core/internal/infrastructure/repositories"
	"github.com/Holocron-Auth/holocron-core/internal/mocks"
)

// testEnv wires real repositories over an in-memory database with mock
// collaborators for the outward-facing concerns.
type testEnv struct {
	db *gorm.DB

	userRepo         domain.UserRepository
	otpRepo          domain.OTPRepository
	appRepo          domain.AppRepository
	loginRequestRepo domain.LoginRequestRepository
	grantRepo        domain.GrantRepository

	smsNotifier   *mocks.MockNotifier
	emailNotifier *mocks.MockNotifier
	locker        *mocks.MockLocker
	blobStore     *mocks.MockBlobStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(
		&repositories.DBUser{},
		&repositories.DBOneTimeToken{},
		&repositories.DBRegisteredApp{},
		&repositories.DBAuthorizedDomain{},
		&repositories.DBLoginRequest{},
		&repositories.DBConnectedApp{},
		&repositories.DBAuthorizationToken{},
		&repositories.DBAccessToken{},
		&repositories.DBRefreshToken{},
	); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return &testEnv{
		db:               db,
		userRepo:         repositories.NewUserRepository(db),
		otpRepo:          repositories.NewOTPRepository(db),
		appRepo:          repositories.NewAppRepository(db),
		loginRequestRepo: repositories.NewLoginRequestRepository(db),
		grantRepo:        repositories.NewGrantRepository(db),
		smsNotifier:      mocks.NewMockNotifier(),
		emailNotifier:    mocks.NewMockNotifier(),
		locker:           mocks.NewMockLocker(),
		blobStore:        mocks.NewMockBlobStore(),
	}
}

func (e *testEnv) otpService() domain.OTPService {
	return NewOTPService(e.otpRepo, e.userRepo, e.smsNotifier, e.emailNotifier, e.locker, OTPConfig{
		TTL:     2 * time.Minute,
		LockTTL: 5 * time.Second,
	})
}

func (e *testEnv) flowService() domain.OAuthFlowService {
	return NewOAuthFlowService(e.appRepo, e.loginRequestRepo, e.grantRepo, e.locker, OAuthFlowConfig{
		LoginRequestTTL: 120 * time.Second,
		StageRateWindow: 60 * time.Second,
		TokenLength:     32,
		LockTTL:         5 * time.Second,
	})
}

func (e *testEnv) devService() domain.DevService {
	return NewDevService(e.appRepo, e.blobStore)
}

func (e *testEnv) createUser(t *testing.T, user *domain.User) *domain.User {
	t.Helper()
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

func (e *testEnv) createApp(t *testing.T, clientID string, developerID uint) *domain.RegisteredApp {
	t.Helper()
	app := &domain.RegisteredApp{
		ClientID:          clientID,
		Name:              "Redux Store",
		Logo:              "https://cdn.example.com/logo.png",
		HomepageURL:       "https://store.example.com",
		AuthorizedDomains: []string{"store.example.com"},
		DeveloperID:       developerID,
	}
	require.NoError(t, e.appRepo.Create(context.Background(), app))
	return app
}

// seedOTP plants a one-time token the way Generate would have stored it.
func (e *testEnv) seedOTP(t *testing.T, token *domain.OneTimeToken) *domain.OneTimeToken {
	t.Helper()
	require.NoError(t, e.otpRepo.Create(context.Background(), token))
	return token
}

func emailIdentity(v string) domain.Identity {
	return domain.Identity{Channel: domain.ChannelEmail, Value: v}
}

func phoneIdentity(v string) domain.Identity {
	return domain.Identity{Channel: domain.ChannelPhone, Value: v}
}
