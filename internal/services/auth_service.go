package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo         domain.UserRepository
	loginRequestRepo domain.LoginRequestRepository
	grantRepo        domain.GrantRepository
	otpSvc           domain.OTPService
	sessionSvc       domain.SessionService
	mobileSessionTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	loginRequestRepo domain.LoginRequestRepository,
	grantRepo domain.GrantRepository,
	otpSvc domain.OTPService,
	sessionSvc domain.SessionService,
	mobileSessionTTL time.Duration,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		loginRequestRepo: loginRequestRepo,
		grantRepo:        grantRepo,
		otpSvc:           otpSvc,
		sessionSvc:       sessionSvc,
		mobileSessionTTL: mobileSessionTTL,
	}
}

// RegisterWithEmail implements domain.AuthService. The OTP must have been
// generated for the email; consuming it proves ownership, so the new
// account starts email-verified.
func (s *AuthServiceImpl) RegisterWithEmail(ctx context.Context, email, name, phone, code string, dateOfBirth time.Time) (*domain.AuthResult, error) {
	identity, err := domain.NewEmailIdentity(email)
	if err != nil {
		return nil, err
	}

	if _, err := s.otpSvc.Verify(ctx, identity, code); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Email:         email,
		Phone:         phone,
		Name:          name,
		EmailVerified: &now,
		DateOfBirth:   &dateOfBirth,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueSession(user, 0)
}

// RegisterWithPhone implements domain.AuthService. Mobile sessions carry
// an explicit expiry.
func (s *AuthServiceImpl) RegisterWithPhone(ctx context.Context, phone, name, email, code string) (*domain.AuthResult, error) {
	identity, err := domain.NewPhoneIdentity(phone)
	if err != nil {
		return nil, err
	}

	if _, err := s.otpSvc.Verify(ctx, identity, code); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByPhone(ctx, phone); err == nil {
		return nil, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if email != "" {
		if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
			return nil, domain.ErrUserAlreadyExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to check existing user: %w", err)
		}
	}

	now := time.Now()
	user := &domain.User{
		Email:         email,
		Phone:         phone,
		Name:          name,
		PhoneVerified: &now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueSession(user, s.mobileSessionTTL)
}

// LoginWithEmail implements domain.AuthService
func (s *AuthServiceImpl) LoginWithEmail(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	user, err := s.login(ctx, domain.Identity{Channel: domain.ChannelEmail, Value: email}, code)
	if err != nil {
		return nil, err
	}
	return s.issueSession(user, 0)
}

// LoginWithPhone implements domain.AuthService
func (s *AuthServiceImpl) LoginWithPhone(ctx context.Context, phone, code string) (*domain.AuthResult, error) {
	user, err := s.login(ctx, domain.Identity{Channel: domain.ChannelPhone, Value: phone}, code)
	if err != nil {
		return nil, err
	}
	return s.issueSession(user, s.mobileSessionTTL)
}

func (s *AuthServiceImpl) login(ctx context.Context, identity domain.Identity, code string) (*domain.User, error) {
	user, err := s.otpSvc.Verify(ctx, identity, code)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	// A successful OTP login proves the identity; stamp a missing
	// verification timestamp on the way through.
	now := time.Now()
	switch identity.Channel {
	case domain.ChannelEmail:
		if user.EmailVerified == nil {
			if err := s.userRepo.MarkEmailVerified(ctx, user.ID, now); err != nil {
				return nil, fmt.Errorf("failed to mark email verified: %w", err)
			}
			user.EmailVerified = &now
		}
	case domain.ChannelPhone:
		if user.PhoneVerified == nil {
			if err := s.userRepo.MarkPhoneVerified(ctx, user.ID, now); err != nil {
				return nil, fmt.Errorf("failed to mark phone verified: %w", err)
			}
			user.PhoneVerified = &now
		}
	}

	return user, nil
}

// VerifyEmail implements domain.AuthService
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, userID uint, code string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Email == "" {
		return domain.ErrInvalidIdentity
	}

	identity := domain.Identity{Channel: domain.ChannelEmail, Value: user.Email}
	if _, err := s.otpSvc.Verify(ctx, identity, code); err != nil {
		return err
	}

	return s.userRepo.MarkEmailVerified(ctx, userID, time.Now())
}

// UpdateProfile implements domain.AuthService. A completed update unlocks
// the high-feature surface.
func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID uint, update domain.ProfileUpdate) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	user.Image = update.Image
	user.Gender = update.Gender
	user.Address = update.Address
	user.Pincode = update.Pincode
	user.Country = update.Country
	dob := update.DateOfBirth
	user.DateOfBirth = &dob
	user.CompletedProfile = true

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// GetUser implements domain.AuthService
func (s *AuthServiceImpl) GetUser(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// Dashboard implements domain.AuthService
func (s *AuthServiceImpl) Dashboard(ctx context.Context, userID uint) (*domain.DashboardStats, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	services, err := s.grantRepo.CountConnectedAppsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count connected apps: %w", err)
	}

	connected, err := s.grantRepo.ListConnectedAppsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connected apps: %w", err)
	}

	permissions := 0
	for _, c := range connected {
		permissions += len(strings.Fields(c.Grant.Scope))
	}

	attempts, err := s.loginRequestRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count login requests: %w", err)
	}

	pending, err := s.loginRequestRepo.CountPendingByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending login requests: %w", err)
	}

	minutes := float64(attempts)*1.05 + float64(permissions)*0.8 + float64(services)*1
	minutes = math.Floor(minutes*100) / 100

	return &domain.DashboardStats{
		LoginAttempts:   attempts,
		Services:        services,
		Permissions:     permissions,
		MinutesSaved:    minutes,
		PendingRequests: pending,
		ConnectedApps:   connected,
	}, nil
}

func (s *AuthServiceImpl) issueSession(user *domain.User, ttl time.Duration) (*domain.AuthResult, error) {
	claims := &domain.SessionClaims{
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Phone:         user.Phone,
		EmailVerified: user.EmailVerified,
		PhoneVerified: user.PhoneVerified,
		Image:         user.Image,
		DateOfBirth:   user.DateOfBirth,
	}

	token, err := s.sessionSvc.Issue(claims, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return &domain.AuthResult{User: user, SessionToken: token}, nil
}
