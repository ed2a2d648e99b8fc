package repositories

import (
	"context"

	"dofe-kas/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// pengeluaranRepository implements PengeluaranRepository interface
type pengeluaranRepository struct {
	db *gorm.DB
}

// NewPengeluaranRepository creates a new expense repository
func NewPengeluaranRepository(db *gorm.DB) PengeluaranRepository {
	return &pengeluaranRepository{db: db}
}

// Create creates a new expense
func (r *pengeluaranRepository) Create(ctx context.Context, p *models.Pengeluaran) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetByID gets an expense by ID
func (r *pengeluaranRepository) GetByID(ctx context.Context, id uint) (*models.Pengeluaran, error) {
	var p models.Pengeluaran
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List lists all expenses, newest first
func (r *pengeluaranRepository) List(ctx context.Context) ([]*models.Pengeluaran, error) {
	var records []*models.Pengeluaran
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Delete soft deletes an expense
func (r *pengeluaranRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Pengeluaran{}, id).Error
}

// Sum sums the amounts of all non-deleted expenses
func (r *pengeluaranRepository) Sum(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Pengeluaran{}).
		Select("COALESCE(SUM(jumlah), 0)").
		Scan(&total).Error
	return total, err
}
