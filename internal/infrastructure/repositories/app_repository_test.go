package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Holocron-Auth/holocron-core/domain"
)

func sampleApp(clientID string, developerID uint) *domain.RegisteredApp {
	return &domain.RegisteredApp{
		ClientID:          clientID,
		Name:              "Redux Store",
		Logo:              "https://cdn.example.com/logo.png",
		HomepageURL:       "https://store.example.com",
		PrivacyPolicyURL:  "https://store.example.com/privacy",
		TermsOfServiceURL: "https://store.example.com/tos",
		AuthorizedDomains: []string{"store.example.com", "staging.store.example.com"},
		DeveloperID:       developerID,
	}
}

func TestAppRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppRepository(db)
	ctx := context.Background()

	app := sampleApp("client-abc", 7)
	require.NoError(t, repo.Create(ctx, app))
	assert.NotZero(t, app.ID)

	found, err := repo.FindByClientID(ctx, "client-abc")
	require.NoError(t, err)
	assert.Equal(t, "Redux Store", found.Name)
	assert.Equal(t, uint(7), found.DeveloperID)
	assert.ElementsMatch(t, []string{"store.example.com", "staging.store.example.com"}, found.AuthorizedDomains)

	byID, err := repo.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, "client-abc", byID.ClientID)
}

func TestAppRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppRepository(db)
	ctx := context.Background()

	_, err := repo.FindByClientID(ctx, "no-such-client")
	assert.True(t, errors.Is(err, domain.ErrAppNotFound))

	_, err = repo.FindByID(ctx, 404)
	assert.True(t, errors.Is(err, domain.ErrAppNotFound))
}

func TestAppRepository_ListByDeveloper(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleApp("client-1", 7)))
	require.NoError(t, repo.Create(ctx, sampleApp("client-2", 7)))
	require.NoError(t, repo.Create(ctx, sampleApp("client-3", 9)))

	apps, err := repo.ListByDeveloper(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	apps, err = repo.ListByDeveloper(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, apps)
}

// Deleting an app must take its authorized domains with it.
func TestAppRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAppRepository(db)
	ctx := context.Background()

	app := sampleApp("client-abc", 7)
	require.NoError(t, repo.Create(ctx, app))

	require.NoError(t, repo.Delete(ctx, app.ID))

	_, err := repo.FindByID(ctx, app.ID)
	assert.True(t, errors.Is(err, domain.ErrAppNotFound))

	var count int64
	db.Model(&DBAuthorizedDomain{}).Where("app_id = ?", app.ID).Count(&count)
	assert.Zero(t, count)
}
