package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Holocron-Auth/holocron-core/domain"
)

func TestGrantRepository_ConnectedAppLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGrantRepository(db)
	ctx := context.Background()

	grant := &domain.ConnectedApp{UserID: 42, AppID: 1, Scope: "identify email"}
	require.NoError(t, repo.CreateConnectedApp(ctx, grant))
	assert.NotZero(t, grant.ID)

	found, err := repo.FindConnectedApp(ctx, 42, 1)
	require.NoError(t, err)
	assert.Equal(t, "identify email", found.Scope)

	_, err = repo.FindConnectedApp(ctx, 42, 2)
	assert.True(t, errors.Is(err, domain.ErrAppNotFound))

	require.NoError(t, repo.DeleteConnectedApp(ctx, grant.ID))
	_, err = repo.FindConnectedApp(ctx, 42, 1)
	assert.True(t, errors.Is(err, domain.ErrAppNotFound))
}

// The composite unique index allows only one grant per (user, app).
func TestGrantRepository_DuplicateGrantRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGrantRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateConnectedApp(ctx, &domain.ConnectedApp{UserID: 42, AppID: 1, Scope: "identify"}))
	err := repo.CreateConnectedApp(ctx, &domain.ConnectedApp{UserID: 42, AppID: 1, Scope: "identify"})
	assert.Error(t, err)
}

func TestGrantRepository_AuthorizationToken(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGrantRepository(db)
	ctx := context.Background()

	grant := &domain.ConnectedApp{UserID: 42, AppID: 1, Scope: "identify"}
	require.NoError(t, repo.CreateConnectedApp(ctx, grant))

	token := &domain.AuthorizationToken{Token: "code-123", ConnectedAppID: grant.ID}
	require.NoError(t, repo.CreateAuthorizationToken(ctx, token))

	byGrant, err := repo.FindAuthorizationTokenByGrant(ctx, grant.ID)
	require.NoError(t, err)
	assert.Equal(t, "code-123", byGrant.Token)

	byValue, err := repo.FindAuthorizationToken(ctx, "code-123")
	require.NoError(t, err)
	require.NotNil(t, byValue.ConnectedApp)
	assert.Equal(t, uint(42), byValue.ConnectedApp.UserID)

	require.NoError(t, repo.DeleteAuthorizationToken(ctx, token.ID))

	_, err = repo.FindAuthorizationToken(ctx, "code-123")
	assert.True(t, errors.Is(err, domain.ErrCodeNotFound))
	_, err = repo.FindAuthorizationTokenByGrant(ctx, grant.ID)
	assert.True(t, errors.Is(err, domain.ErrCodeNotFound))
}

func TestGrantRepository_AccessToken(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGrantRepository(db)
	ctx := context.Background()

	grant := &domain.ConnectedApp{UserID: 42, AppID: 1, Scope: "identify phone"}
	require.NoError(t, repo.CreateConnectedApp(ctx, grant))

	require.NoError(t, repo.CreateAccessToken(ctx, &domain.AccessToken{Token: "access-123", ConnectedAppID: grant.ID}))

	found, err := repo.FindAccessToken(ctx, "access-123")
	require.NoError(t, err)
	require.NotNil(t, found.ConnectedApp)
	assert.Equal(t, "identify phone", found.ConnectedApp.Scope)

	_, err = repo.FindAccessToken(ctx, "access-999")
	assert.True(t, errors.Is(err, domain.ErrAccessTokenNotFound))
}

func TestGrantRepository_ListAndCountByUser(t *testing.T) {
	db := setupTestDB(t)
	appRepo := NewAppRepository(db)
	repo := NewGrantRepository(db)
	ctx := context.Background()

	app1 := sampleApp("client-1", 7)
	app2 := sampleApp("client-2", 7)
	require.NoError(t, appRepo.Create(ctx, app1))
	require.NoError(t, appRepo.Create(ctx, app2))

	require.NoError(t, repo.CreateConnectedApp(ctx, &domain.ConnectedApp{UserID: 42, AppID: app1.ID, Scope: "identify"}))
	require.NoError(t, repo.CreateConnectedApp(ctx, &domain.ConnectedApp{UserID: 42, AppID: app2.ID, Scope: "identify email"}))
	require.NoError(t, repo.CreateConnectedApp(ctx, &domain.ConnectedApp{UserID: 99, AppID: app1.ID, Scope: "identify"}))

	count, err := repo.CountConnectedAppsByUser(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	details, err := repo.ListConnectedAppsByUser(ctx, 42)
	require.NoError(t, err)
	require.Len(t, details, 2)
	for _, d := range details {
		assert.Equal(t, "Redux Store", d.App.Name)
		assert.NotEmpty(t, d.Grant.Scope)
	}
}
