package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Holocron-Auth/holocron-core/domain"
)

const testAssetBase = "https://assets.example.com"

type exchangeFixture struct {
	env   *testEnv
	svc   domain.TokenExchangeService
	user  *domain.User
	app   *domain.RegisteredApp
	grant *domain.ConnectedApp
}

func newExchangeFixture(t *testing.T, scope string) *exchangeFixture {
	t.Helper()

	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, &domain.User{
		Email:   "ada@example.com",
		Phone:   "+14155550100",
		Name:    "Ada Lovelace",
		Image:   "/avatars/ada.png",
		Address: "12 Analytical Way",
	})
	app := env.createApp(t, "client-abc", 7)

	grant := &domain.ConnectedApp{UserID: user.ID, AppID: app.ID, Scope: scope}
	require.NoError(t, env.grantRepo.CreateConnectedApp(ctx, grant))

	return &exchangeFixture{
		env:   env,
		svc:   NewTokenExchangeService(env.appRepo, env.grantRepo, env.userRepo, 32, testAssetBase),
		user:  user,
		app:   app,
		grant: grant,
	}
}

func (f *exchangeFixture) mintCode(t *testing.T, code string) {
	t.Helper()
	require.NoError(t, f.env.grantRepo.CreateAuthorizationToken(context.Background(), &domain.AuthorizationToken{
		Token:          code,
		ConnectedAppID: f.grant.ID,
	}))
}

func TestTokenExchange_Exchange(t *testing.T) {
	f := newExchangeFixture(t, "identify email")
	f.mintCode(t, "code-123")
	ctx := context.Background()

	pair, err := f.svc.Exchange(ctx, "code-123", "client-abc")
	require.NoError(t, err)
	assert.Len(t, pair.AccessToken, 32)
	assert.Len(t, pair.RefreshToken, 32)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	stored, err := f.env.grantRepo.FindAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.grant.ID, stored.ConnectedAppID)
}

// A redeemed code must not redeem a second time.
func TestTokenExchange_Exchange_SingleUse(t *testing.T) {
	f := newExchangeFixture(t, "identify")
	f.mintCode(t, "code-123")
	ctx := context.Background()

	_, err := f.svc.Exchange(ctx, "code-123", "client-abc")
	require.NoError(t, err)

	_, err = f.svc.Exchange(ctx, "code-123", "client-abc")
	assert.True(t, errors.Is(err, domain.ErrCodeNotFound))
}

func TestTokenExchange_Exchange_WrongClient(t *testing.T) {
	f := newExchangeFixture(t, "identify")
	f.mintCode(t, "code-123")
	ctx := context.Background()

	f.env.createApp(t, "client-other", 9)

	_, err := f.svc.Exchange(ctx, "code-123", "client-other")
	assert.True(t, errors.Is(err, domain.ErrClientMismatch))

	// The code survives the failed attempt.
	_, err = f.svc.Exchange(ctx, "code-123", "client-abc")
	assert.NoError(t, err)
}

func TestTokenExchange_Exchange_UnknownCode(t *testing.T) {
	f := newExchangeFixture(t, "identify")

	_, err := f.svc.Exchange(context.Background(), "ghost", "client-abc")
	assert.True(t, errors.Is(err, domain.ErrCodeNotFound))
}

func TestTokenExchange_UserInfo_ScopeGating(t *testing.T) {
	tests := []struct {
		name  string
		scope string
		check func(t *testing.T, info *domain.UserInfo)
	}{
		{
			name:  "identify only",
			scope: "identify",
			check: func(t *testing.T, info *domain.UserInfo) {
				require.NotNil(t, info.ID)
				require.NotNil(t, info.Name)
				assert.Equal(t, "Ada Lovelace", *info.Name)
				require.NotNil(t, info.Image)
				assert.Equal(t, testAssetBase+"/avatars/ada.png", *info.Image)
				assert.Nil(t, info.Email)
				assert.Nil(t, info.Phone)
				assert.Nil(t, info.Address)
			},
		},
		{
			name:  "email only",
			scope: "email",
			check: func(t *testing.T, info *domain.UserInfo) {
				assert.Nil(t, info.ID)
				assert.Nil(t, info.Name)
				require.NotNil(t, info.Email)
				assert.Equal(t, "ada@example.com", *info.Email)
			},
		},
		{
			name:  "all scopes",
			scope: "identify email phone address",
			check: func(t *testing.T, info *domain.UserInfo) {
				require.NotNil(t, info.Phone)
				assert.Equal(t, "+14155550100", *info.Phone)
				require.NotNil(t, info.Address)
				assert.Equal(t, "12 Analytical Way", *info.Address)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newExchangeFixture(t, tt.scope)
			ctx := context.Background()

			require.NoError(t, f.env.grantRepo.CreateAccessToken(ctx, &domain.AccessToken{
				Token:          "access-123",
				ConnectedAppID: f.grant.ID,
			}))

			info, err := f.svc.UserInfo(ctx, "access-123")
			require.NoError(t, err)
			tt.check(t, info)
		})
	}
}

func TestTokenExchange_UserInfo_InvalidToken(t *testing.T) {
	f := newExchangeFixture(t, "identify")

	_, err := f.svc.UserInfo(context.Background(), "ghost")
	assert.True(t, errors.Is(err, domain.ErrAccessTokenNotFound))
}
