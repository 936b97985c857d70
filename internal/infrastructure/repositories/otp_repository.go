package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// OTPRepositoryImpl implements domain.OTPRepository using GORM
type OTPRepositoryImpl struct {
	db *gorm.DB
}

// DBOneTimeToken represents the database model for OneTimeToken
type DBOneTimeToken struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"index;size:8"`
	Email     *string   `gorm:"index;size:255"`
	Phone     *string   `gorm:"index;size:32"`
	UserID    *uint     `gorm:"index"`
	User      *DBUser   `gorm:"foreignKey:UserID"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time ``
}

// TableName returns the table name for GORM
func (DBOneTimeToken) TableName() string {
	return "one_time_tokens"
}

// NewOTPRepository creates a new one-time token repository
func NewOTPRepository(db *gorm.DB) domain.OTPRepository {
	return &OTPRepositoryImpl{db: db}
}

// Create implements domain.OTPRepository
func (r *OTPRepositoryImpl) Create(ctx context.Context, token *domain.OneTimeToken) error {
	dbToken := otpToDB(token)
	if err := r.db.WithContext(ctx).Create(dbToken).Error; err != nil {
		return err
	}
	token.ID = dbToken.ID
	return nil
}

// FindByIdentity implements domain.OTPRepository. The match covers both the
// raw identity stored on the token and the identity of the owning user, so
// pre-account and post-account tokens resolve the same way.
func (r *OTPRepositoryImpl) FindByIdentity(ctx context.Context, identity domain.Identity) (*domain.OneTimeToken, error) {
	var dbToken DBOneTimeToken
	err := r.identityQuery(ctx, identity).
		Order("one_time_tokens.created_at DESC").
		First(&dbToken).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrOTPNotFound
		}
		return nil, err
	}
	return otpToDomain(&dbToken), nil
}

// FindByCode implements domain.OTPRepository
func (r *OTPRepositoryImpl) FindByCode(ctx context.Context, identity domain.Identity, code string) (*domain.OneTimeToken, error) {
	var dbToken DBOneTimeToken
	err := r.identityQuery(ctx, identity).
		Where("one_time_tokens.code = ?", code).
		First(&dbToken).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrOTPNotFound
		}
		return nil, err
	}
	return otpToDomain(&dbToken), nil
}

// Delete implements domain.OTPRepository
func (r *OTPRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&DBOneTimeToken{}, id).Error
}

func (r *OTPRepositoryImpl) identityQuery(ctx context.Context, identity domain.Identity) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&DBOneTimeToken{}).
		Preload("User").
		Joins("LEFT JOIN users ON users.id = one_time_tokens.user_id")

	if identity.Channel == domain.ChannelPhone {
		return q.Where("one_time_tokens.phone = ? OR users.phone = ?", identity.Value, identity.Value)
	}
	return q.Where("one_time_tokens.email = ? OR users.email = ?", identity.Value, identity.Value)
}

func otpToDB(token *domain.OneTimeToken) *DBOneTimeToken {
	return &DBOneTimeToken{
		ID:        token.ID,
		Code:      token.Code,
		Email:     strPtr(token.Email),
		Phone:     strPtr(token.Phone),
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt,
	}
}

func otpToDomain(dbToken *DBOneTimeToken) *domain.OneTimeToken {
	token := &domain.OneTimeToken{
		ID:        dbToken.ID,
		Code:      dbToken.Code,
		Email:     strVal(dbToken.Email),
		Phone:     strVal(dbToken.Phone),
		UserID:    dbToken.UserID,
		ExpiresAt: dbToken.ExpiresAt,
		CreatedAt: dbToken.CreatedAt,
	}
	if dbToken.User != nil {
		token.User = userToDomain(dbToken.User)
	}
	return token
}
