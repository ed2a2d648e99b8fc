package repositories

import (
	"context"
	"strings"
	"time"

	"dofe-kas/internal/adapters/persistence/models"
	"dofe-kas/internal/core/domain"

	"gorm.io/gorm"
)

// auditLogRepository implements AuditLogRepository interface
type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Create appends an audit log entry
func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List queries entries newest first. All provided filter criteria are ANDed;
// the search term matches description, actor name or target name.
func (r *auditLogRepository) List(ctx context.Context, filter AuditLogFilter, offset, limit int) ([]*models.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLog{})
	query = applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []*models.AuditLog
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func applyFilter(query *gorm.DB, filter AuditLogFilter) *gorm.DB {
	if filter.Action != "" && filter.Action != "all" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"description LIKE ? OR user_name LIKE ? OR target_user LIKE ?",
			like, like, like,
		)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}
	return query
}

// Count counts all entries
func (r *auditLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AuditLog{}).Count(&count).Error
	return count, err
}

// CountSince counts entries created at or after the given time
func (r *auditLogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// likeEscaper neutralises LIKE wildcards in literal input. Action prefixes
// such as "payment_" would otherwise match any character in place of "_".
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// CountByActionPrefix counts entries whose action starts with the prefix
func (r *auditLogRepository) CountByActionPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("action LIKE ?", escapeLike(prefix)+"%").
		Count(&count).Error
	return count, err
}

// CountByAction counts entries with exactly the given action
func (r *auditLogRepository) CountByAction(ctx context.Context, action domain.AuditAction) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("action = ?", action).
		Count(&count).Error
	return count, err
}
