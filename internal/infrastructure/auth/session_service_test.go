package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Holocron-Auth/holocron-core/domain"
)

func testClaims() *domain.SessionClaims {
	now := time.Now().Truncate(time.Second)
	return &domain.SessionClaims{
		UserID:        42,
		Name:          "Ada Lovelace",
		Email:         "ada@example.com",
		Phone:         "+14155550100",
		Image:         "/avatars/42.png",
		EmailVerified: &now,
	}
}

func TestSessionService_IssueAndVerify_Web(t *testing.T) {
	svc := NewSessionService("test-secret", "holocron")

	token, err := svc.Issue(testClaims(), 0)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "Ada Lovelace", claims.Name)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "+14155550100", claims.Phone)
	assert.Equal(t, "/avatars/42.png", claims.Image)
	require.NotNil(t, claims.EmailVerified)
	assert.Nil(t, claims.PhoneVerified)

	// Web sessions carry no expiry claim.
	assert.Zero(t, claims.ExpiresAt)
	assert.NotZero(t, claims.IssuedAt)
}

func TestSessionService_IssueAndVerify_Mobile(t *testing.T) {
	svc := NewSessionService("test-secret", "holocron")

	token, err := svc.Issue(testClaims(), 24*time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	assert.NotZero(t, claims.ExpiresAt)
	assert.Greater(t, claims.ExpiresAt, time.Now().Unix())
}

func TestSessionService_Verify_Expired(t *testing.T) {
	svc := NewSessionService("test-secret", "holocron")

	token, err := svc.Issue(testClaims(), -time.Minute)
	require.NoError(t, err)

	// The negative ttl must still stamp exp; only a zero ttl omits it.
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	_, hasExp := parsed.Claims.(jwt.MapClaims)["exp"]
	require.True(t, hasExp)

	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, domain.ErrSessionExpired))
}

func TestSessionService_Verify_WrongSecret(t *testing.T) {
	issuer := NewSessionService("secret-a", "holocron")
	verifier := NewSessionService("secret-b", "holocron")

	token, err := issuer.Issue(testClaims(), 0)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.True(t, errors.Is(err, domain.ErrSessionInvalid))
}

func TestSessionService_Verify_Garbage(t *testing.T) {
	svc := NewSessionService("test-secret", "holocron")

	_, err := svc.Verify("not.a.token")
	assert.True(t, errors.Is(err, domain.ErrSessionInvalid))
}

func TestSessionService_Decode_SkipsSignatureCheck(t *testing.T) {
	issuer := NewSessionService("secret-a", "holocron")
	decoder := NewSessionService("secret-b", "holocron")

	token, err := issuer.Issue(testClaims(), 0)
	require.NoError(t, err)

	claims, err := decoder.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}
