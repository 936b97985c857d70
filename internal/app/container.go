package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Holocron-Auth/holocron-core/domain"
	"github.com/Holocron-Auth/holocron-core/internal/config"
	httpserver "github.com/Holocron-Auth/holocron-core/internal/http"
	"github.com/Holocron-Auth/holocron-core/internal/http/handlers"
	"github.com/Holocron-Auth/holocron-core/internal/http/middleware"
	"github.com/Holocron-Auth/holocron-core/internal/infrastructure/auth"
	"github.com/Holocron-Auth/holocron-core/internal/infrastructure/database"
	"github.com/Holocron-Auth/holocron-core/internal/infrastructure/notifications"
	"github.com/Holocron-Auth/holocron-core/internal/infrastructure/repositories"
	"github.com/Holocron-Auth/holocron-core/internal/infrastructure/storage"
	"github.com/Holocron-Auth/holocron-core/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *database.RedisClient

	UserRepo         domain.UserRepository
	OTPRepo          domain.OTPRepository
	AppRepo          domain.AppRepository
	LoginRequestRepo domain.LoginRequestRepository
	GrantRepo        domain.GrantRepository

	SessionSvc  domain.SessionService
	OTPSvc      domain.OTPService
	AuthSvc     domain.AuthService
	FlowSvc     domain.OAuthFlowService
	ExchangeSvc domain.TokenExchangeService
	DevSvc      domain.DevService
}

// BuildContainer wires repositories, services and their infrastructure
// from configuration.
func BuildContainer(cfg *config.Config) (*Container, error) {
	db, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	locker := database.NewRedisLocker(rdb.Client)

	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOTPRepository(db)
	appRepo := repositories.NewAppRepository(db)
	loginRequestRepo := repositories.NewLoginRequestRepository(db)
	grantRepo := repositories.NewGrantRepository(db)

	smsNotifier := notifications.NewTwilioNotifier(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom)
	emailNotifier := notifications.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	blobStore := storage.NewS3BlobStore(cfg.AWSRegion, cfg.AWSBucket, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey)

	sessionSvc := auth.NewSessionService(cfg.JWTSecret, cfg.JWTIssuer)
	otpSvc := services.NewOTPService(otpRepo, userRepo, smsNotifier, emailNotifier, locker, services.OTPConfig{
		TTL:     cfg.OTP_TTL,
		LockTTL: cfg.OTP_LockTTL,
	})
	authSvc := services.NewAuthService(userRepo, loginRequestRepo, grantRepo, otpSvc, sessionSvc, cfg.MobileSessionTTL)
	flowSvc := services.NewOAuthFlowService(appRepo, loginRequestRepo, grantRepo, locker, services.OAuthFlowConfig{
		LoginRequestTTL: cfg.LoginRequestTTL,
		StageRateWindow: cfg.StageRateWindow,
		TokenLength:     cfg.TokenLength,
		LockTTL:         cfg.OTP_LockTTL,
	})
	exchangeSvc := services.NewTokenExchangeService(appRepo, grantRepo, userRepo, cfg.TokenLength, cfg.AssetBaseURL)
	devSvc := services.NewDevService(appRepo, blobStore)

	return &Container{
		Config:           cfg,
		DB:               db,
		Redis:            rdb,
		UserRepo:         userRepo,
		OTPRepo:          otpRepo,
		AppRepo:          appRepo,
		LoginRequestRepo: loginRequestRepo,
		GrantRepo:        grantRepo,
		SessionSvc:       sessionSvc,
		OTPSvc:           otpSvc,
		AuthSvc:          authSvc,
		FlowSvc:          flowSvc,
		ExchangeSvc:      exchangeSvc,
		DevSvc:           devSvc,
	}, nil
}

// Router builds the HTTP engine from the container's services.
func (c *Container) Router() *httpserver.RouterDeps {
	return &httpserver.RouterDeps{
		AuthHandlers:  handlers.NewAuthHandlers(c.AuthSvc, c.OTPSvc),
		OAuthHandlers: handlers.NewOAuthHandlers(c.FlowSvc, c.ExchangeSvc),
		DevHandlers:   handlers.NewDevHandlers(c.DevSvc),
		SessionSvc:    c.SessionSvc,
		FeatureGate:   middleware.NewFeatureGate(c.UserRepo),
		OTPLimiter:    middleware.NewRateLimiter(c.Config.OTPRatePerMinute, c.Config.OTPRateBurst),
	}
}
