package repositories

import (
	"context"
	"time"

	"dofe-kas/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByNIM gets a user by institutional id
func (r *userRepository) GetByNIM(ctx context.Context, nim string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("nim = ?", nim).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByRefreshTokenHash gets the user holding an active refresh credential
func (r *userRepository) GetByRefreshTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("refresh_token_hash = ?", tokenHash).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete soft deletes a user
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// List lists users with pagination
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Offset(offset).Limit(limit).Order("nama ASC").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ExistsByNIM checks if a NIM is already registered
func (r *userRepository) ExistsByNIM(ctx context.Context, nim string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("nim = ?", nim).Count(&count).Error
	return count > 0, err
}

// SetRefreshToken stores (or clears, with nils) the single active refresh credential
func (r *userRepository) SetRefreshToken(ctx context.Context, userID uint, tokenHash *string, expiresAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"refresh_token_hash": tokenHash,
			"refresh_expires_at": expiresAt,
		}).Error
}

// ClearExpiredRefreshTokens clears refresh credentials past their expiry (cleanup job)
func (r *userRepository) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("refresh_token_hash IS NOT NULL").
		Where("refresh_expires_at < ?", now).
		Updates(map[string]interface{}{
			"refresh_token_hash": nil,
			"refresh_expires_at": nil,
		})
	return res.RowsAffected, res.Error
}
