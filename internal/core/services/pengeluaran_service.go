package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dofe-kas/internal/adapters/persistence/models"
	"dofe-kas/internal/adapters/persistence/repositories"
	"dofe-kas/internal/core/domain"

	"gorm.io/gorm"
)

// PengeluaranService owns the expense ledger
type PengeluaranService struct {
	pengeluaranRepo repositories.PengeluaranRepository
	audit           AuditRecorder
}

// NewPengeluaranService creates a new expense service
func NewPengeluaranService(pengeluaranRepo repositories.PengeluaranRepository, audit AuditRecorder) *PengeluaranService {
	return &PengeluaranService{
		pengeluaranRepo: pengeluaranRepo,
		audit:           audit,
	}
}

// Record creates a new expense. Bendahara only.
func (s *PengeluaranService) Record(ctx context.Context, caller domain.Actor, jumlah int64, deskripsi string) (*models.PengeluaranResponse, error) {
	if !domain.Authorize(caller.Role, domain.CapManageMoney) {
		return nil, domain.ErrForbidden
	}
	if jumlah <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	deskripsi = strings.TrimSpace(deskripsi)
	if deskripsi == "" {
		return nil, domain.ErrEmptyDescription
	}

	p := &models.Pengeluaran{
		UserID:    caller.ID,
		Jumlah:    jumlah,
		Deskripsi: deskripsi,
		Tanggal:   time.Now(),
	}
	if err := s.pengeluaranRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.audit.Append(ctx, AuditEntry{
		Action:      domain.AuditExpenseCreated,
		Description: fmt.Sprintf("Pengeluaran sebesar %s untuk \"%s\"", formatRupiah(jumlah), deskripsi),
		Actor:       &caller,
	})

	p.User = models.User{Nama: caller.Nama, Role: caller.Role}
	return p.ToResponse(), nil
}

// Remove deletes an expense. Bendahara only. The audit description snapshots
// the amount and description before the row is gone.
func (s *PengeluaranService) Remove(ctx context.Context, caller domain.Actor, id uint) error {
	if !domain.Authorize(caller.Role, domain.CapManageMoney) {
		return domain.ErrForbidden
	}

	p, err := s.pengeluaranRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPengeluaranNotFound
		}
		return err
	}

	if err := s.pengeluaranRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Append(ctx, AuditEntry{
		Action:      domain.AuditExpenseDeleted,
		Description: fmt.Sprintf("Pengeluaran \"%s\" (%s) telah dihapus", p.Deskripsi, formatRupiah(p.Jumlah)),
		Actor:       &caller,
	})

	return nil
}

// List lists all expenses, newest first.
func (s *PengeluaranService) List(ctx context.Context) ([]*models.PengeluaranResponse, error) {
	records, err := s.pengeluaranRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.PengeluaranResponse, len(records))
	for i, p := range records {
		out[i] = p.ToResponse()
	}
	return out, nil
}

// Total sums all non-deleted expenses.
func (s *PengeluaranService) Total(ctx context.Context) (int64, error) {
	return s.pengeluaranRepo.Sum(ctx)
}
