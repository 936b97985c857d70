package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Holocron-Auth/holocron-core/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags).
// Email and phone are nullable so accounts created with only one
// identity do not collide on the unique indexes.
type DBUser struct {
	ID               uint       `gorm:"primaryKey"`
	Email            *string    `gorm:"uniqueIndex;size:255"`
	Phone            *string    `gorm:"uniqueIndex;size:32"`
	Name             string     `gorm:"size:255"`
	EmailVerified    *time.Time ``
	PhoneVerified    *time.Time ``
	CompletedProfile bool       ``
	Image            string     `gorm:"size:512"`
	Gender           string     `gorm:"size:32"`
	Address          string     `gorm:"size:512"`
	Pincode          string     `gorm:"size:16"`
	Country          string     `gorm:"size:64"`
	DateOfBirth      *time.Time ``
	CreatedAt        time.Time  `gorm:"index"`
	UpdatedAt        time.Time  ``
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := userToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return err
	}
	user.ID = dbUser.ID
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser), nil
}

// FindByPhone implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return userToDomain(&dbUser), nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := userToDB(user)
	return r.db.WithContext(ctx).Save(dbUser).Error
}

// MarkEmailVerified implements domain.UserRepository
func (r *UserRepositoryImpl) MarkEmailVerified(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).Update("email_verified", at).Error
}

// MarkPhoneVerified implements domain.UserRepository
func (r *UserRepositoryImpl) MarkPhoneVerified(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).Update("phone_verified", at).Error
}

// userToDB converts a domain user to the database model
func userToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:               user.ID,
		Email:            strPtr(user.Email),
		Phone:            strPtr(user.Phone),
		Name:             user.Name,
		EmailVerified:    user.EmailVerified,
		PhoneVerified:    user.PhoneVerified,
		CompletedProfile: user.CompletedProfile,
		Image:            user.Image,
		Gender:           user.Gender,
		Address:          user.Address,
		Pincode:          user.Pincode,
		Country:          user.Country,
		DateOfBirth:      user.DateOfBirth,
	}
}

// userToDomain converts a database user to the domain model
func userToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:               dbUser.ID,
		Email:            strVal(dbUser.Email),
		Phone:            strVal(dbUser.Phone),
		Name:             dbUser.Name,
		EmailVerified:    dbUser.EmailVerified,
		PhoneVerified:    dbUser.PhoneVerified,
		CompletedProfile: dbUser.CompletedProfile,
		Image:            dbUser.Image,
		Gender:           dbUser.Gender,
		Address:          dbUser.Address,
		Pincode:          dbUser.Pincode,
		Country:          dbUser.Country,
		DateOfBirth:      dbUser.DateOfBirth,
		CreatedAt:        dbUser.CreatedAt,
		UpdatedAt:        dbUser.UpdatedAt,
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
