package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// LoginRequestRepositoryImpl implements domain.LoginRequestRepository using GORM
type LoginRequestRepositoryImpl struct {
	db *gorm.DB
}

// DBLoginRequest represents the database model for LoginRequest
type DBLoginRequest struct {
	ID           string           `gorm:"primaryKey;size:36"`
	AppID        uint             `gorm:"index"`
	App          *DBRegisteredApp `gorm:"foreignKey:AppID"`
	UserID       uint             `gorm:"index"`
	RedirectURI  string           `gorm:"size:512"`
	Scope        string           `gorm:"size:255"`
	State        string           `gorm:"size:255"`
	ResponseType string           `gorm:"size:32"`
	Consent      bool             `gorm:"index"`
	CreatedAt    time.Time        `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBLoginRequest) TableName() string {
	return "login_requests"
}

// NewLoginRequestRepository creates a new login-request repository
func NewLoginRequestRepository(db *gorm.DB) domain.LoginRequestRepository {
	return &LoginRequestRepositoryImpl{db: db}
}

// Create implements domain.LoginRequestRepository
func (r *LoginRequestRepositoryImpl) Create(ctx context.Context, req *domain.LoginRequest) error {
	return r.db.WithContext(ctx).Create(loginRequestToDB(req)).Error
}

// FindByID implements domain.LoginRequestRepository
func (r *LoginRequestRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.LoginRequest, error) {
	var dbReq DBLoginRequest
	err := r.db.WithContext(ctx).Preload("App").Where("id = ?", id).First(&dbReq).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrLoginRequestNotFound
		}
		return nil, err
	}
	return loginRequestToDomain(&dbReq), nil
}

// FindLatest implements domain.LoginRequestRepository
func (r *LoginRequestRepositoryImpl) FindLatest(ctx context.Context, appID, userID uint) (*domain.LoginRequest, error) {
	var dbReq DBLoginRequest
	err := r.db.WithContext(ctx).
		Where("app_id = ? AND user_id = ?", appID, userID).
		Order("created_at DESC").
		First(&dbReq).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrLoginRequestNotFound
		}
		return nil, err
	}
	return loginRequestToDomain(&dbReq), nil
}

// MarkConsent implements domain.LoginRequestRepository
func (r *LoginRequestRepositoryImpl) MarkConsent(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&DBLoginRequest{}).Where("id = ?", id).Update("consent", true).Error
}

// CountByUser implements domain.LoginRequestRepository
func (r *LoginRequestRepositoryImpl) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBLoginRequest{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CountPendingByUser implements domain.LoginRequestRepository
func (r *LoginRequestRepositoryImpl) CountPendingByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBLoginRequest{}).
		Where("user_id = ? AND consent = ?", userID, false).
		Count(&count).Error
	return count, err
}

func loginRequestToDB(req *domain.LoginRequest) *DBLoginRequest {
	return &DBLoginRequest{
		ID:           req.ID,
		AppID:        req.AppID,
		UserID:       req.UserID,
		RedirectURI:  req.RedirectURI,
		Scope:        req.Scope,
		State:        req.State,
		ResponseType: req.ResponseType,
		Consent:      req.Consent,
		CreatedAt:    req.CreatedAt,
	}
}

func loginRequestToDomain(dbReq *DBLoginRequest) *domain.LoginRequest {
	req := &domain.LoginRequest{
		ID:           dbReq.ID,
		AppID:        dbReq.AppID,
		UserID:       dbReq.UserID,
		RedirectURI:  dbReq.RedirectURI,
		Scope:        dbReq.Scope,
		State:        dbReq.State,
		ResponseType: dbReq.ResponseType,
		Consent:      dbReq.Consent,
		CreatedAt:    dbReq.CreatedAt,
	}
	if dbReq.App != nil {
		req.App = appToDomain(dbReq.App)
	}
	return req
}
