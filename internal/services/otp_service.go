package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Holocron-Auth/holocron-core/domain"
	"github.com/Holocron-Auth/holocron-core/internal/infrastructure/auth"
)

// OTPServiceImpl implements domain.OTPService with relational persistence.
// At most one unexpired token exists per identity; a Redis lock keeps the
// check-and-create atomic across concurrent requests.
type OTPServiceImpl struct {
	otpRepo       domain.OTPRepository
	userRepo      domain.UserRepository
	smsNotifier   domain.Notifier
	emailNotifier domain.Notifier
	locker        domain.Locker
	config        OTPConfig
}

type OTPConfig struct {
	TTL     time.Duration
	LockTTL time.Duration
}

// NewOTPService creates a new OTP service
func NewOTPService(
	otpRepo domain.OTPRepository,
	userRepo domain.UserRepository,
	smsNotifier domain.Notifier,
	emailNotifier domain.Notifier,
	locker domain.Locker,
	config OTPConfig,
) domain.OTPService {
	return &OTPServiceImpl{
		otpRepo:       otpRepo,
		userRepo:      userRepo,
		smsNotifier:   smsNotifier,
		emailNotifier: emailNotifier,
		locker:        locker,
		config:        config,
	}
}

// Generate implements domain.OTPService
func (s *OTPServiceImpl) Generate(ctx context.Context, identity domain.Identity) error {
	lockKey := fmt.Sprintf("otp:%s:%s", identity.Channel, identity.Value)
	acquired, err := s.locker.Acquire(ctx, lockKey, s.config.LockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire OTP lock: %w", err)
	}
	if !acquired {
		return domain.ErrOTPOutstanding
	}
	defer s.locker.Release(ctx, lockKey)

	existing, err := s.otpRepo.FindByIdentity(ctx, identity)
	if err != nil && !errors.Is(err, domain.ErrOTPNotFound) {
		return fmt.Errorf("failed to look up existing OTP: %w", err)
	}

	if existing != nil {
		if existing.ExpiresAt.After(time.Now()) {
			return domain.ErrOTPOutstanding
		}
		// Expired leftover, replace it
		if err := s.otpRepo.Delete(ctx, existing.ID); err != nil {
			return fmt.Errorf("failed to delete expired OTP: %w", err)
		}
	}

	code, err := auth.GenerateOTPCode()
	if err != nil {
		return fmt.Errorf("failed to generate OTP code: %w", err)
	}

	user, err := s.findUser(ctx, identity)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token := &domain.OneTimeToken{
		Code:      code,
		ExpiresAt: time.Now().Add(s.config.TTL),
	}
	if identity.Channel == domain.ChannelPhone {
		token.Phone = identity.Value
	} else {
		token.Email = identity.Value
	}

	kind := domain.TemplateNewAccount
	if user != nil {
		token.UserID = &user.ID
		kind = domain.TemplateExistingAccount
	}

	if err := s.otpRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	// Store-then-notify: roll the row back if delivery fails so the
	// identity can retry immediately.
	if err := s.notifier(identity).Send(identity.Value, code, kind); err != nil {
		if delErr := s.otpRepo.Delete(ctx, token.ID); delErr != nil {
			return fmt.Errorf("failed to roll back undelivered OTP: %w", delErr)
		}
		return fmt.Errorf("%w: %v", domain.ErrNotifierFailed, err)
	}

	return nil
}

// Verify implements domain.OTPService. Any attempt that finds the token
// consumes it, expired tokens included, so a code invalidates exactly once.
func (s *OTPServiceImpl) Verify(ctx context.Context, identity domain.Identity, code string) (*domain.User, error) {
	token, err := s.otpRepo.FindByCode(ctx, identity, code)
	if err != nil {
		if errors.Is(err, domain.ErrOTPNotFound) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, fmt.Errorf("failed to look up OTP: %w", err)
	}

	if err := s.otpRepo.Delete(ctx, token.ID); err != nil {
		return nil, fmt.Errorf("failed to consume OTP: %w", err)
	}

	if token.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrOTPExpired
	}

	return token.User, nil
}

func (s *OTPServiceImpl) findUser(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if identity.Channel == domain.ChannelPhone {
		return s.userRepo.FindByPhone(ctx, identity.Value)
	}
	return s.userRepo.FindByEmail(ctx, identity.Value)
}

func (s *OTPServiceImpl) notifier(identity domain.Identity) domain.Notifier {
	if identity.Channel == domain.ChannelPhone {
		return s.smsNotifier
	}
	return s.emailNotifier
}
