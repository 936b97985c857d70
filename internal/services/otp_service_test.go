package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Holocron-Auth/holocron-core/domain"
)

func TestOTPService_Generate_NewIdentity(t *testing.T) {
	env := newTestEnv(t)
	svc := env.otpService()
	ctx := context.Background()

	require.NoError(t, svc.Generate(ctx, emailIdentity("new@example.com")))

	sends := env.emailNotifier.Sends()
	require.Len(t, sends, 1)
	assert.Equal(t, "new@example.com", sends[0].Destination)
	assert.Len(t, sends[0].Code, 6)
	assert.Equal(t, domain.TemplateNewAccount, sends[0].Kind)
	assert.Empty(t, env.smsNotifier.Sends())

	token, err := env.otpRepo.FindByIdentity(ctx, emailIdentity("new@example.com"))
	require.NoError(t, err)
	assert.Equal(t, sends[0].Code, token.Code)
	assert.Nil(t, token.UserID)
	assert.True(t, token.ExpiresAt.After(time.Now()))
}

func TestOTPService_Generate_ExistingAccount(t *testing.T) {
	env := newTestEnv(t)
	svc := env.otpService()
	ctx := context.Background()

	user := env.createUser(t, &domain.User{Phone: "+14155550100", Name: "Ada"})

	require.NoError(t, svc.Generate(ctx, phoneIdentity("+14155550100")))

	sends := env.smsNotifier.Sends()
	require.Len(t, sends, 1)
	assert.Equal(t, domain.TemplateExistingAccount, sends[0].Kind)

	token, err := env.otpRepo.FindByIdentity(ctx, phoneIdentity("+14155550100"))
	require.NoError(t, err)
	require.NotNil(t, token.UserID)
	assert.Equal(t, user.ID, *token.UserID)
}

func TestOTPService_Generate_Outstanding(t *testing.T) {
	env := newTestEnv(t)
	svc := env.otpService()
	ctx := context.Background()

	require.NoError(t, svc.Generate(ctx, emailIdentity("ada@example.com")))

	err := svc.Generate(ctx, emailIdentity("ada@example.com"))
	assert.True(t, errors.Is(err, domain.ErrOTPOutstanding))

	// Only the first dispatch went out.
	assert.Len(t, env.emailNotifier.Sends(), 1)
}

func TestOTPService_Generate_ReplacesExpired(t *testing.T) {
	env := newTestEnv(t)
	svc := env.otpService()
	ctx := context.Background()

	stale := env.seedOTP(t, &domain.OneTimeToken{
		Code:      "111111",
		Email:     "ada@example.com",
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	require.NoError(t, svc.Generate(ctx, emailIdentity("ada@example.com")))

	token, err := env.otpRepo.FindByIdentity(ctx, emailIdentity("ada@example.com"))
	require.NoError(t, err)
	assert.NotEqual(t, stale.ID, token.ID)
	assert.True(t, token.ExpiresAt.After(time.Now()))
}

func TestOTPService_Generate_LockHeld(t *testing.T) {
	env := newTestEnv(t)
	env.locker.AcquireFunc = func(ctx context.Context, key string, ttl time.Duration) (bool, error) {
		return false, nil
	}
	svc := env.otpService()

	err := svc.Generate(context.Background(), emailIdentity("ada@example.com"))
	assert.True(t, errors.Is(err, domain.ErrOTPOutstanding))
}

func TestOTPService_Generate_NotifierFailure(t *testing.T) {
	env := newTestEnv(t)
	env.emailNotifier.SendFunc = func(destination, code string, kind domain.TemplateKind) error {
		return fmt.Errorf("smtp connection refused")
	}
	svc := env.otpService()
	ctx := context.Background()

	err := svc.Generate(ctx, emailIdentity("ada@example.com"))
	assert.True(t, errors.Is(err, domain.ErrNotifierFailed))

	// The undelivered row was rolled back, so a retry is not rate limited.
	_, err = env.otpRepo.FindByIdentity(ctx, emailIdentity("ada@example.com"))
	assert.True(t, errors.Is(err, domain.ErrOTPNotFound))

	env.emailNotifier.SendFunc = nil
	assert.NoError(t, svc.Generate(ctx, emailIdentity("ada@example.com")))
}

func TestOTPService_Verify_Success(t *testing.T) {
	env := newTestEnv(t)
	svc := env.otpService()
	ctx := context.Background()

	user := env.createUser(t, &domain.User{Email: "ada@example.com", Name: "Ada"})
	env.seedOTP(t, &domain.OneTimeToken{
		Code:      "123456",
		Email:     "ada@example.com",
		UserID:    &user.ID,
		ExpiresAt: time.Now().Add(time.Minute),
	})

	got, err := svc.Verify(ctx, emailIdentity("ada@example.com"), "123456")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
}

func TestOTPService_Verify_FirstTimeIdentity(t *testing.T) {
	env := newTestEnv(t)
	svc := env.otpService()
	ctx := context.Background()

	env.seedOTP(t, &domain.OneTimeToken{
		Code:      "123456",
		Email:     "new@example.com",
		ExpiresAt: time.Now().Add(time.Minute),
	})

	got, err := svc.Verify(ctx, emailIdentity("new@example.com"), "123456")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOTPService_Verify_WrongCode(t *testing.T) {
	env := newTestEnv(t)
	svc := env.otpService()
	ctx := context.Background()

	env.seedOTP(t, &domain.OneTimeToken{
		Code:      "123456",
		Email:     "ada@example.com",
		ExpiresAt: time.Now().Add(time.Minute),
	})

	_, err := svc.Verify(ctx, emailIdentity("ada@example.com"), "000000")
	assert.True(t, errors.Is(err, domain.ErrOTPNotFound))

	// The stored token survives a miss.
	_, err = env.otpRepo.FindByIdentity(ctx, emailIdentity("ada@example.com"))
	assert.NoError(t, err)
}

func TestOTPService_Verify_ConsumedOnce(t *testing.T) {
	env := newTestEnv(t)
	svc := env.otpService()
	ctx := context.Background()

	env.seedOTP(t, &domain.OneTimeToken{
		Code:      "123456",
		Email:     "ada@example.com",
		ExpiresAt: time.Now().Add(time.Minute),
	})

	_, err := svc.Verify(ctx, emailIdentity("ada@example.com"), "123456")
	require.NoError(t, err)

	_, err = svc.Verify(ctx, emailIdentity("ada@example.com"), "123456")
	assert.True(t, errors.Is(err, domain.ErrOTPNotFound))
}

// Even a failed attempt against an expired token burns it.
func TestOTPService_Verify_ExpiredConsumes(t *testing.T) {
	env := newTestEnv(t)
	svc := env.otpService()
	ctx := context.Background()

	env.seedOTP(t, &domain.OneTimeToken{
		Code:      "123456",
		Email:     "ada@example.com",
		ExpiresAt: time.Now().Add(-time.Second),
	})

	_, err := svc.Verify(ctx, emailIdentity("ada@example.com"), "123456")
	assert.True(t, errors.Is(err, domain.ErrOTPExpired))

	_, err = env.otpRepo.FindByIdentity(ctx, emailIdentity("ada@example.com"))
	assert.True(t, errors.Is(err, domain.ErrOTPNotFound))
}
