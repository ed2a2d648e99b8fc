package repositories

import (
	"context"
	"time"

	"dofe-kas/internal/adapters/persistence/models"
	"dofe-kas/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByNIM(ctx context.Context, nim string) (*models.User, error)
	GetByRefreshTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByNIM(ctx context.Context, nim string) (bool, error)
	SetRefreshToken(ctx context.Context, userID uint, tokenHash *string, expiresAt *time.Time) error
	ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// KasRepository defines kas (dues) repository interface
type KasRepository interface {
	Create(ctx context.Context, kas *models.Kas) error
	GetByID(ctx context.Context, id uint) (*models.Kas, error)
	ListAll(ctx context.Context) ([]*models.Kas, error)
	ListByUserID(ctx context.Context, userID uint) ([]*models.Kas, error)
	ExistsForUserMonth(ctx context.Context, userID uint, bulan string) (bool, error)
	// UpdateStatusIfPending applies the pending -> terminal transition as a
	// conditional update and returns the number of rows affected. Zero means
	// the record was already terminal (or gone) at write time.
	UpdateStatusIfPending(ctx context.Context, id uint, status domain.KasStatus, catatan *string) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	SumAccepted(ctx context.Context) (int64, error)
}

// PengeluaranRepository defines expense repository interface
type PengeluaranRepository interface {
	Create(ctx context.Context, p *models.Pengeluaran) error
	GetByID(ctx context.Context, id uint) (*models.Pengeluaran, error)
	List(ctx context.Context) ([]*models.Pengeluaran, error)
	Delete(ctx context.Context, id uint) error
	Sum(ctx context.Context) (int64, error)
}

// AuditLogFilter narrows audit log queries. All provided criteria are ANDed.
type AuditLogFilter struct {
	Action    string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

// AuditLogRepository defines the append-only audit log repository interface
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter, offset, limit int) ([]*models.AuditLog, int64, error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByActionPrefix(ctx context.Context, prefix string) (int64, error)
	CountByAction(ctx context.Context, action domain.AuditAction) (int64, error)
}
