package repositories

import (
	"context"

	"dofe-kas/internal/adapters/persistence/models"
	"dofe-kas/internal/core/domain"

	"gorm.io/gorm"
)

// kasRepository implements KasRepository interface
type kasRepository struct {
	db *gorm.DB
}

// NewKasRepository creates a new kas repository
func NewKasRepository(db *gorm.DB) KasRepository {
	return &kasRepository{db: db}
}

// Create creates a new kas record
func (r *kasRepository) Create(ctx context.Context, kas *models.Kas) error {
	return r.db.WithContext(ctx).Create(kas).Error
}

// GetByID gets a kas record by ID with the owning member preloaded
func (r *kasRepository) GetByID(ctx context.Context, id uint) (*models.Kas, error) {
	var kas models.Kas
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&kas).Error
	if err != nil {
		return nil, err
	}
	return &kas, nil
}

// ListAll lists every member's kas records, newest first
func (r *kasRepository) ListAll(ctx context.Context) ([]*models.Kas, error) {
	var records []*models.Kas
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListByUserID lists one member's kas records, newest first
func (r *kasRepository) ListByUserID(ctx context.Context, userID uint) ([]*models.Kas, error) {
	var records []*models.Kas
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ExistsForUserMonth checks if the member already has a meaningful record for
// the month. Rejected records don't count (the member may resubmit after a
// rejection) and soft-deleted rows are excluded by the default scope.
func (r *kasRepository) ExistsForUserMonth(ctx context.Context, userID uint, bulan string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Kas{}).
		Where("user_id = ?", userID).
		Where("bulan = ?", bulan).
		Where("status <> ?", domain.KasDitolak).
		Count(&count).Error
	return count > 0, err
}

// UpdateStatusIfPending applies pending -> status only if the record is still
// pending at write time. The WHERE clause is the compare-and-swap: a racing
// verify (or delete) loses and sees zero rows affected.
func (r *kasRepository) UpdateStatusIfPending(ctx context.Context, id uint, status domain.KasStatus, catatan *string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Kas{}).
		Where("id = ?", id).
		Where("status = ?", domain.KasPending).
		Updates(map[string]interface{}{
			"status":  status,
			"catatan": catatan,
		})
	return res.RowsAffected, res.Error
}

// Delete soft deletes a kas record and reports whether a live row was hit
func (r *kasRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Kas{}, id)
	return res.RowsAffected, res.Error
}

// SumAccepted sums the amounts of all accepted, non-deleted records
func (r *kasRepository) SumAccepted(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Kas{}).
		Where("status = ?", domain.KasDiterima).
		Select("COALESCE(SUM(jumlah), 0)").
		Scan(&total).Error
	return total, err
}
