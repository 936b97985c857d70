package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// AppRepositoryImpl implements domain.AppRepository using GORM
type AppRepositoryImpl struct {
	db *gorm.DB
}

// DBRegisteredApp represents the database model for RegisteredApp
type DBRegisteredApp struct {
	ID                uint      `gorm:"primaryKey"`
	ClientID          string    `gorm:"uniqueIndex;size:64"`
	Name              string    `gorm:"size:255"`
	Logo              string    `gorm:"size:512"`
	HomepageURL       string    `gorm:"size:512"`
	PrivacyPolicyURL  string    `gorm:"size:512"`
	TermsOfServiceURL string    `gorm:"size:512"`
	DeveloperID       uint      `gorm:"index"`
	CreatedAt         time.Time ``
}

// TableName returns the table name for GORM
func (DBRegisteredApp) TableName() string {
	return "registered_apps"
}

// DBAuthorizedDomain represents a redirect domain authorized for an app
type DBAuthorizedDomain struct {
	ID     uint   `gorm:"primaryKey"`
	AppID  uint   `gorm:"index"`
	Domain string `gorm:"size:255"`
}

// TableName returns the table name for GORM
func (DBAuthorizedDomain) TableName() string {
	return "authorized_domains"
}

// NewAppRepository creates a new registered-app repository
func NewAppRepository(db *gorm.DB) domain.AppRepository {
	return &AppRepositoryImpl{db: db}
}

// Create implements domain.AppRepository. The app and its authorized
// domains are persisted in one transaction.
func (r *AppRepositoryImpl) Create(ctx context.Context, app *domain.RegisteredApp) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbApp := appToDB(app)
		if err := tx.Create(dbApp).Error; err != nil {
			return err
		}
		app.ID = dbApp.ID

		for _, d := range app.AuthorizedDomains {
			if err := tx.Create(&DBAuthorizedDomain{AppID: dbApp.ID, Domain: d}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByClientID implements domain.AppRepository
func (r *AppRepositoryImpl) FindByClientID(ctx context.Context, clientID string) (*domain.RegisteredApp, error) {
	var dbApp DBRegisteredApp
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).First(&dbApp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAppNotFound
		}
		return nil, err
	}
	return r.withDomains(ctx, &dbApp)
}

// FindByID implements domain.AppRepository
func (r *AppRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.RegisteredApp, error) {
	var dbApp DBRegisteredApp
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbApp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrAppNotFound
		}
		return nil, err
	}
	return r.withDomains(ctx, &dbApp)
}

// ListByDeveloper implements domain.AppRepository
func (r *AppRepositoryImpl) ListByDeveloper(ctx context.Context, developerID uint) ([]domain.RegisteredApp, error) {
	var dbApps []DBRegisteredApp
	if err := r.db.WithContext(ctx).Where("developer_id = ?", developerID).Find(&dbApps).Error; err != nil {
		return nil, err
	}

	apps := make([]domain.RegisteredApp, 0, len(dbApps))
	for i := range dbApps {
		app, err := r.withDomains(ctx, &dbApps[i])
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, nil
}

// Delete implements domain.AppRepository. The app and its authorized
// domains are removed in one transaction.
func (r *AppRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&DBRegisteredApp{}, id).Error; err != nil {
			return err
		}
		return tx.Where("app_id = ?", id).Delete(&DBAuthorizedDomain{}).Error
	})
}

func (r *AppRepositoryImpl) withDomains(ctx context.Context, dbApp *DBRegisteredApp) (*domain.RegisteredApp, error) {
	var dbDomains []DBAuthorizedDomain
	if err := r.db.WithContext(ctx).Where("app_id = ?", dbApp.ID).Find(&dbDomains).Error; err != nil {
		return nil, err
	}

	app := appToDomain(dbApp)
	for _, d := range dbDomains {
		app.AuthorizedDomains = append(app.AuthorizedDomains, d.Domain)
	}
	return app, nil
}

func appToDB(app *domain.RegisteredApp) *DBRegisteredApp {
	return &DBRegisteredApp{
		ID:                app.ID,
		ClientID:          app.ClientID,
		Name:              app.Name,
		Logo:              app.Logo,
		HomepageURL:       app.HomepageURL,
		PrivacyPolicyURL:  app.PrivacyPolicyURL,
		TermsOfServiceURL: app.TermsOfServiceURL,
		DeveloperID:       app.DeveloperID,
	}
}

func appToDomain(dbApp *DBRegisteredApp) *domain.RegisteredApp {
	return &domain.RegisteredApp{
		ID:                dbApp.ID,
		ClientID:          dbApp.ClientID,
		Name:              dbApp.Name,
		Logo:              dbApp.Logo,
		HomepageURL:       dbApp.HomepageURL,
		PrivacyPolicyURL:  dbApp.PrivacyPolicyURL,
		TermsOfServiceURL: dbApp.TermsOfServiceURL,
		DeveloperID:       dbApp.DeveloperID,
		CreatedAt:         dbApp.CreatedAt,
	}
}
