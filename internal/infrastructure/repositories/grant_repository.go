package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// GrantRepositoryImpl implements domain.GrantRepository using GORM
type GrantRepositoryImpl struct {
	db *gorm.DB
}

// DBConnectedApp represents the database model for ConnectedApp.
// The composite unique index enforces at most one grant per (user, app).
type DBConnectedApp struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_app"`
	AppID     uint      `gorm:"uniqueIndex:idx_user_app"`
	Scope     string    `gorm:"size:255"`
	CreatedAt time.Time ``
}

// TableName returns the table name for GORM
func (DBConnectedApp) TableName() string {
	return "connected_apps"
}

// DBAuthorizationToken represents the database model for AuthorizationToken
type DBAuthorizationToken struct {
	ID             uint            `gorm:"primaryKey"`
	Token          string          `gorm:"uniqueIndex;size:64"`
	ConnectedAppID uint            `gorm:"index"`
	ConnectedApp   *DBConnectedApp `gorm:"foreignKey:ConnectedAppID"`
	CreatedAt      time.Time       ``
}

// TableName returns the table name for GORM
func (DBAuthorizationToken) TableName() string {
	return "authorization_tokens"
}

// DBAccessToken represents the database model for AccessToken
type DBAccessToken struct {
	ID             uint            `gorm:"primaryKey"`
	Token          string          `gorm:"uniqueIndex;size:64"`
	ConnectedAppID uint            `gorm:"index"`
	ConnectedApp   *DBConnectedApp `gorm:"foreignKey:ConnectedAppID"`
	CreatedAt      time.Time       ``
}

// TableName returns the table name for GORM
func (DBAccessToken) TableName() string {
	return "access_tokens"
}

// DBRefreshToken represents the database model for RefreshToken
type DBRefreshToken struct {
	ID             uint      `gorm:"primaryKey"`
	Token          string    `gorm:"uniqueIndex;size:64"`
	ConnectedAppID uint      `gorm:"index"`
	CreatedAt      time.Time ``
}

// TableName returns the table name for GORM
func (DBRefreshToken) TableName() string {
	return "refresh_tokens"
}

// NewGrantRepository creates a new grant repository
func NewGrantRepository(db *gorm.DB) domain.GrantRepository {
	return &GrantRepositoryImpl{db: db}
}

// CreateConnectedApp implements domain.GrantRepository
func (r *GrantRepositoryImpl) CreateConnectedApp(ctx context.Context, grant *domain.ConnectedApp) error {
	dbGrant := &DBConnectedApp{
		UserID: grant.UserID,
		AppID:  grant.AppID,
		Scope:  grant.Scope,
	}
	if err := r.db.WithContext(ctx).Create(dbGrant).Error; err != nil {
		return err
	}
	grant.ID = dbGrant.ID
	grant.CreatedAt = dbGrant.CreatedAt
	return nil
}

// FindConnectedApp implements domain.GrantRepository
func (r *GrantRepositoryImpl) FindConnectedApp(ctx context.Context, userID, appID uint) (*domain.ConnectedApp, error) {
	var dbGrant DBConnectedApp
	err := r.db.WithContext(ctx).Where("user_id = ? AND app_id = ?", userID, appID).First(&dbGrant).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAppNotFound
		}
		return nil, err
	}
	return grantToDomain(&dbGrant), nil
}

// DeleteConnectedApp implements domain.GrantRepository
func (r *GrantRepositoryImpl) DeleteConnectedApp(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&DBConnectedApp{}, id).Error
}

// ListConnectedAppsByUser implements domain.GrantRepository
func (r *GrantRepositoryImpl) ListConnectedAppsByUser(ctx context.Context, userID uint) ([]domain.ConnectedAppDetail, error) {
	var dbGrants []DBConnectedApp
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&dbGrants).Error; err != nil {
		return nil, err
	}

	details := make([]domain.ConnectedAppDetail, 0, len(dbGrants))
	for _, g := range dbGrants {
		var dbApp DBRegisteredApp
		if err := r.db.WithContext(ctx).Where("id = ?", g.AppID).First(&dbApp).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, err
		}
		details = append(details, domain.ConnectedAppDetail{
			Grant: *grantToDomain(&g),
			App:   *appToDomain(&dbApp),
		})
	}
	return details, nil
}

// CountConnectedAppsByUser implements domain.GrantRepository
func (r *GrantRepositoryImpl) CountConnectedAppsByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBConnectedApp{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CreateAuthorizationToken implements domain.GrantRepository
func (r *GrantRepositoryImpl) CreateAuthorizationToken(ctx context.Context, token *domain.AuthorizationToken) error {
	dbToken := &DBAuthorizationToken{
		Token:          token.Token,
		ConnectedAppID: token.ConnectedAppID,
	}
	if err := r.db.WithContext(ctx).Create(dbToken).Error; err != nil {
		return err
	}
	token.ID = dbToken.ID
	token.CreatedAt = dbToken.CreatedAt
	return nil
}

// FindAuthorizationTokenByGrant implements domain.GrantRepository
func (r *GrantRepositoryImpl) FindAuthorizationTokenByGrant(ctx context.Context, connectedAppID uint) (*domain.AuthorizationToken, error) {
	var dbToken DBAuthorizationToken
	err := r.db.WithContext(ctx).Where("connected_app_id = ?", connectedAppID).First(&dbToken).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrCodeNotFound
		}
		return nil, err
	}
	return authTokenToDomain(&dbToken), nil
}

// FindAuthorizationToken implements domain.GrantRepository
func (r *GrantRepositoryImpl) FindAuthorizationToken(ctx context.Context, token string) (*domain.AuthorizationToken, error) {
	var dbToken DBAuthorizationToken
	err := r.db.WithContext(ctx).Preload("ConnectedApp").Where("token = ?", token).First(&dbToken).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrCodeNotFound
		}
		return nil, err
	}
	return authTokenToDomain(&dbToken), nil
}

// DeleteAuthorizationToken implements domain.GrantRepository
func (r *GrantRepositoryImpl) DeleteAuthorizationToken(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&DBAuthorizationToken{}, id).Error
}

// CreateAccessToken implements domain.GrantRepository
func (r *GrantRepositoryImpl) CreateAccessToken(ctx context.Context, token *domain.AccessToken) error {
	dbToken := &DBAccessToken{
		Token:          token.Token,
		ConnectedAppID: token.ConnectedAppID,
	}
	if err := r.db.WithContext(ctx).Create(dbToken).Error; err != nil {
		return err
	}
	token.ID = dbToken.ID
	return nil
}

// FindAccessToken implements domain.GrantRepository
func (r *GrantRepositoryImpl) FindAccessToken(ctx context.Context, token string) (*domain.AccessToken, error) {
	var dbToken DBAccessToken
	err := r.db.WithContext(ctx).Preload("ConnectedApp").Where("token = ?", token).First(&dbToken).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAccessTokenNotFound
		}
		return nil, err
	}

	result := &domain.AccessToken{
		ID:             dbToken.ID,
		Token:          dbToken.Token,
		ConnectedAppID: dbToken.ConnectedAppID,
		CreatedAt:      dbToken.CreatedAt,
	}
	if dbToken.ConnectedApp != nil {
		result.ConnectedApp = grantToDomain(dbToken.ConnectedApp)
	}
	return result, nil
}

// CreateRefreshToken implements domain.GrantRepository
func (r *GrantRepositoryImpl) CreateRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	dbToken := &DBRefreshToken{
		Token:          token.Token,
		ConnectedAppID: token.ConnectedAppID,
	}
	if err := r.db.WithContext(ctx).Create(dbToken).Error; err != nil {
		return err
	}
	token.ID = dbToken.ID
	return nil
}

func grantToDomain(dbGrant *DBConnectedApp) *domain.ConnectedApp {
	return &domain.ConnectedApp{
		ID:        dbGrant.ID,
		UserID:    dbGrant.UserID,
		AppID:     dbGrant.AppID,
		Scope:     dbGrant.Scope,
		CreatedAt: dbGrant.CreatedAt,
	}
}

func authTokenToDomain(dbToken *DBAuthorizationToken) *domain.AuthorizationToken {
	token := &domain.AuthorizationToken{
		ID:             dbToken.ID,
		Token:          dbToken.Token,
		ConnectedAppID: dbToken.ConnectedAppID,
		CreatedAt:      dbToken.CreatedAt,
	}
	if dbToken.ConnectedApp != nil {
		token.ConnectedApp = grantToDomain(dbToken.ConnectedApp)
	}
	return token
}
