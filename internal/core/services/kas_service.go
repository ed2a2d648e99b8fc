package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"dofe-kas/internal/adapters/persistence/models"
	"dofe-kas/internal/adapters/persistence/repositories"
	"dofe-kas/internal/adapters/storage"
	"dofe-kas/internal/core/domain"

	"gorm.io/gorm"
)

// KasService owns the dues ledger and its status transitions
type KasService struct {
	kasRepo  repositories.KasRepository
	userRepo repositories.UserRepository
	uploader storage.ProofUploader
	audit    AuditRecorder
}

// NewKasService creates a new kas service
func NewKasService(
	kasRepo repositories.KasRepository,
	userRepo repositories.UserRepository,
	uploader storage.ProofUploader,
	audit AuditRecorder,
) *KasService {
	return &KasService{
		kasRepo:  kasRepo,
		userRepo: userRepo,
		uploader: uploader,
		audit:    audit,
	}
}

// SubmitInput represents a member's dues submission
type SubmitInput struct {
	Bulan     string
	Jumlah    int64
	Proof     io.Reader
	ProofName string
}

// Submit creates a pending kas record for the calling member. The proof image
// is uploaded first; an upload failure aborts the submission so no record
// without a proof reference can exist.
func (s *KasService) Submit(ctx context.Context, caller domain.Actor, input *SubmitInput) (*models.KasResponse, error) {
	if !domain.IsValidMonth(input.Bulan) {
		return nil, domain.ErrInvalidMonth
	}
	if input.Jumlah <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if input.Proof == nil {
		return nil, domain.ErrProofRequired
	}

	exists, err := s.kasRepo.ExistsForUserMonth(ctx, caller.ID, input.Bulan)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrKasAlreadyPaid
	}

	proofURL, err := s.uploader.UploadProof(ctx, input.Proof, input.ProofName)
	if err != nil {
		log.Printf("❌ Proof upload failed for user %d: %v", caller.ID, err)
		return nil, domain.ErrUploadFailed
	}

	kas := &models.Kas{
		UserID: caller.ID,
		Jumlah: input.Jumlah,
		Bulan:  input.Bulan,
		Bukti:  &proofURL,
		Status: domain.KasPending,
	}
	if err := s.kasRepo.Create(ctx, kas); err != nil {
		return nil, err
	}

	s.audit.Append(ctx, AuditEntry{
		Action:      domain.AuditPaymentCreated,
		Description: fmt.Sprintf("Pembayaran kas bulan %s sebesar %s menunggu verifikasi", input.Bulan, formatRupiah(input.Jumlah)),
		Actor:       &caller,
	})

	kas.User = models.User{Nama: caller.Nama, Role: caller.Role}
	return kas.ToResponse(), nil
}

// ManualRecord creates a kas record directly in accepted status, without a
// proof reference. Bendahara only.
func (s *KasService) ManualRecord(ctx context.Context, caller domain.Actor, targetUserID uint, bulan string, jumlah int64) (*models.KasResponse, error) {
	if !domain.Authorize(caller.Role, domain.CapManageMoney) {
		return nil, domain.ErrForbidden
	}
	if !domain.IsValidMonth(bulan) {
		return nil, domain.ErrInvalidMonth
	}
	if jumlah <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	target, err := s.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	exists, err := s.kasRepo.ExistsForUserMonth(ctx, targetUserID, bulan)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrKasAlreadyPaid
	}

	catatan := domain.CatatanDiterima
	kas := &models.Kas{
		UserID:  targetUserID,
		Jumlah:  jumlah,
		Bulan:   bulan,
		Status:  domain.KasDiterima,
		Catatan: &catatan,
	}
	if err := s.kasRepo.Create(ctx, kas); err != nil {
		return nil, err
	}

	s.audit.Append(ctx, AuditEntry{
		Action:      domain.AuditPaymentCreated,
		Description: fmt.Sprintf("Pembayaran kas manual bulan %s sebesar %s untuk %s", bulan, formatRupiah(jumlah), target.Nama),
		Actor:       &caller,
		TargetID:    &target.ID,
		TargetName:  &target.Nama,
		Metadata:    map[string]any{"manual": true},
	})

	kas.User = *target
	return kas.ToResponse(), nil
}

// Verify moves a pending record to diterima or ditolak. The transition is a
// conditional update: a record that is no longer pending at write time loses
// the race and the caller gets a conflict, never a double-applied balance.
func (s *KasService) Verify(ctx context.Context, caller domain.Actor, kasID uint, decision domain.KasStatus, catatan *string) (*models.KasResponse, error) {
	if !domain.Authorize(caller.Role, domain.CapManageMoney) {
		return nil, domain.ErrForbidden
	}
	if decision != domain.KasDiterima && decision != domain.KasDitolak {
		return nil, domain.ErrInvalidDecision
	}
	if catatan != nil && !domain.IsValidCatatan(*catatan) {
		return nil, domain.ErrInvalidNote
	}

	kas, err := s.kasRepo.GetByID(ctx, kasID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrKasNotFound
		}
		return nil, err
	}
	if kas.Status.IsTerminal() {
		return nil, domain.ErrKasNotPending
	}

	note := catatan
	if note == nil && decision == domain.KasDiterima {
		accepted := domain.CatatanDiterima
		note = &accepted
	}

	rows, err := s.kasRepo.UpdateStatusIfPending(ctx, kasID, decision, note)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, domain.ErrKasNotPending
	}

	action := domain.AuditPaymentVerified
	description := fmt.Sprintf("Pembayaran kas %s bulan %s diterima", kas.User.Nama, kas.Bulan)
	if decision == domain.KasDitolak {
		action = domain.AuditPaymentRejected
		description = fmt.Sprintf("Pembayaran kas %s bulan %s ditolak", kas.User.Nama, kas.Bulan)
		if note != nil {
			description += fmt.Sprintf(" (%s)", *note)
		}
	}
	s.audit.Append(ctx, AuditEntry{
		Action:      action,
		Description: description,
		Actor:       &caller,
		TargetID:    &kas.UserID,
		TargetName:  &kas.User.Nama,
	})

	kas.Status = decision
	kas.Catatan = note
	return kas.ToResponse(), nil
}

// Remove soft deletes a kas record in any status. Bendahara only.
func (s *KasService) Remove(ctx context.Context, caller domain.Actor, kasID uint) error {
	if !domain.Authorize(caller.Role, domain.CapManageMoney) {
		return domain.ErrForbidden
	}

	kas, err := s.kasRepo.GetByID(ctx, kasID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrKasNotFound
		}
		return err
	}

	rows, err := s.kasRepo.Delete(ctx, kasID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrKasNotFound
	}

	s.audit.Append(ctx, AuditEntry{
		Action:      domain.AuditPaymentDeleted,
		Description: fmt.Sprintf("Pembayaran kas %s bulan %s (%s, status %s) dihapus", kas.User.Nama, kas.Bulan, formatRupiah(kas.Jumlah), kas.Status),
		Actor:       &caller,
		TargetID:    &kas.UserID,
		TargetName:  &kas.User.Nama,
	})

	return nil
}

// ListAll lists every member's kas records. Pengurus only.
func (s *KasService) ListAll(ctx context.Context, caller domain.Actor) ([]*models.KasResponse, error) {
	if !domain.Authorize(caller.Role, domain.CapViewAllDues) {
		return nil, domain.ErrForbidden
	}

	records, err := s.kasRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toKasResponses(records), nil
}

// ListMine lists the calling member's own kas records.
func (s *KasService) ListMine(ctx context.Context, caller domain.Actor) ([]*models.KasResponse, error) {
	records, err := s.kasRepo.ListByUserID(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return toKasResponses(records), nil
}

// TotalAccepted sums all accepted dues.
func (s *KasService) TotalAccepted(ctx context.Context) (int64, error) {
	return s.kasRepo.SumAccepted(ctx)
}

func toKasResponses(records []*models.Kas) []*models.KasResponse {
	out := make([]*models.KasResponse, len(records))
	for i, kas := range records {
		out[i] = kas.ToResponse()
	}
	return out
}
