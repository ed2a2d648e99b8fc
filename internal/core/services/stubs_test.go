package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"dofe-kas/internal/adapters/persistence/models"
	"dofe-kas/internal/adapters/persistence/repositories"
	"dofe-kas/internal/core/domain"

	"gorm.io/gorm"
)

// In-memory repository stubs shared by the service tests.

type stubUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (r *stubUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *stubUserRepo) GetByNIM(_ context.Context, nim string) (*models.User, error) {
	for _, user := range r.users {
		if user.NIM == nim {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) GetByRefreshTokenHash(_ context.Context, tokenHash string) (*models.User, error) {
	for _, user := range r.users {
		if user.RefreshTokenHash != nil && *user.RefreshTokenHash == tokenHash {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	var all []*models.User
	for id := uint(1); id < r.nextID; id++ {
		if user, ok := r.users[id]; ok {
			cp := *user
			all = append(all, &cp)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *stubUserRepo) ExistsByNIM(_ context.Context, nim string) (bool, error) {
	_, err := r.GetByNIM(context.Background(), nim)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubUserRepo) SetRefreshToken(_ context.Context, userID uint, tokenHash *string, expiresAt *time.Time) error {
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.RefreshTokenHash = tokenHash
	user.RefreshExpiresAt = expiresAt
	return nil
}

func (r *stubUserRepo) ClearExpiredRefreshTokens(_ context.Context, now time.Time) (int64, error) {
	var cleared int64
	for _, user := range r.users {
		if user.RefreshExpiresAt != nil && user.RefreshExpiresAt.Before(now) {
			user.RefreshTokenHash = nil
			user.RefreshExpiresAt = nil
			cleared++
		}
	}
	return cleared, nil
}

type stubKasRepo struct {
	records map[uint]*models.Kas
	nextID  uint
}

func newStubKasRepo() *stubKasRepo {
	return &stubKasRepo{records: map[uint]*models.Kas{}, nextID: 1}
}

func (r *stubKasRepo) Create(_ context.Context, kas *models.Kas) error {
	kas.ID = r.nextID
	r.nextID++
	kas.CreatedAt = time.Now()
	cp := *kas
	r.records[kas.ID] = &cp
	return nil
}

func (r *stubKasRepo) GetByID(_ context.Context, id uint) (*models.Kas, error) {
	kas, ok := r.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *kas
	return &cp, nil
}

func (r *stubKasRepo) ListAll(_ context.Context) ([]*models.Kas, error) {
	var all []*models.Kas
	for id := uint(1); id < r.nextID; id++ {
		if kas, ok := r.records[id]; ok {
			cp := *kas
			all = append(all, &cp)
		}
	}
	return all, nil
}

func (r *stubKasRepo) ListByUserID(_ context.Context, userID uint) ([]*models.Kas, error) {
	var mine []*models.Kas
	for id := uint(1); id < r.nextID; id++ {
		if kas, ok := r.records[id]; ok && kas.UserID == userID {
			cp := *kas
			mine = append(mine, &cp)
		}
	}
	return mine, nil
}

func (r *stubKasRepo) ExistsForUserMonth(_ context.Context, userID uint, bulan string) (bool, error) {
	for _, kas := range r.records {
		if kas.UserID == userID && kas.Bulan == bulan && kas.Status != domain.KasDitolak {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubKasRepo) UpdateStatusIfPending(_ context.Context, id uint, status domain.KasStatus, catatan *string) (int64, error) {
	kas, ok := r.records[id]
	if !ok || kas.Status != domain.KasPending {
		return 0, nil
	}
	kas.Status = status
	kas.Catatan = catatan
	return 1, nil
}

func (r *stubKasRepo) Delete(_ context.Context, id uint) (int64, error) {
	if _, ok := r.records[id]; !ok {
		return 0, nil
	}
	delete(r.records, id)
	return 1, nil
}

func (r *stubKasRepo) SumAccepted(_ context.Context) (int64, error) {
	var sum int64
	for _, kas := range r.records {
		if kas.Status == domain.KasDiterima {
			sum += kas.Jumlah
		}
	}
	return sum, nil
}

type stubPengeluaranRepo struct {
	records map[uint]*models.Pengeluaran
	nextID  uint
}

func newStubPengeluaranRepo() *stubPengeluaranRepo {
	return &stubPengeluaranRepo{records: map[uint]*models.Pengeluaran{}, nextID: 1}
}

func (r *stubPengeluaranRepo) Create(_ context.Context, p *models.Pengeluaran) error {
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	cp := *p
	r.records[p.ID] = &cp
	return nil
}

func (r *stubPengeluaranRepo) GetByID(_ context.Context, id uint) (*models.Pengeluaran, error) {
	p, ok := r.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPengeluaranRepo) List(_ context.Context) ([]*models.Pengeluaran, error) {
	var all []*models.Pengeluaran
	for id := uint(1); id < r.nextID; id++ {
		if p, ok := r.records[id]; ok {
			cp := *p
			all = append(all, &cp)
		}
	}
	return all, nil
}

func (r *stubPengeluaranRepo) Delete(_ context.Context, id uint) error {
	delete(r.records, id)
	return nil
}

func (r *stubPengeluaranRepo) Sum(_ context.Context) (int64, error) {
	var sum int64
	for _, p := range r.records {
		sum += p.Jumlah
	}
	return sum, nil
}

type stubAuditRepo struct {
	entries []*models.AuditLog
	failErr error
}

func (r *stubAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	if r.failErr != nil {
		return r.failErr
	}
	cp := *entry
	cp.ID = uint(len(r.entries) + 1)
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *stubAuditRepo) List(_ context.Context, filter repositories.AuditLogFilter, offset, limit int) ([]*models.AuditLog, int64, error) {
	var matched []*models.AuditLog
	for _, entry := range r.entries {
		if filter.Action != "" && filter.Action != "all" && string(entry.Action) != filter.Action {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(entry.Description), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.StartDate != nil && entry.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && entry.CreatedAt.After(*filter.EndDate) {
			continue
		}
		matched = append(matched, entry)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *stubAuditRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.entries)), nil
}

func (r *stubAuditRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, entry := range r.entries {
		if !entry.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *stubAuditRepo) CountByActionPrefix(_ context.Context, prefix string) (int64, error) {
	var n int64
	for _, entry := range r.entries {
		if strings.HasPrefix(string(entry.Action), prefix) {
			n++
		}
	}
	return n, nil
}

func (r *stubAuditRepo) CountByAction(_ context.Context, action domain.AuditAction) (int64, error) {
	var n int64
	for _, entry := range r.entries {
		if entry.Action == action {
			n++
		}
	}
	return n, nil
}

// captureRecorder records audit entries for assertions.
type captureRecorder struct {
	entries []AuditEntry
}

func (r *captureRecorder) Append(_ context.Context, entry AuditEntry) {
	r.entries = append(r.entries, entry)
}

func (r *captureRecorder) last() *AuditEntry {
	if len(r.entries) == 0 {
		return nil
	}
	return &r.entries[len(r.entries)-1]
}

// stubUploader returns a fixed URL, or fails when err is set.
type stubUploader struct {
	url   string
	err   error
	calls int
}

func (u *stubUploader) UploadProof(_ context.Context, _ io.Reader, _ string) (string, error) {
	u.calls++
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

// stubMailer records outgoing reset mail.
type stubMailer struct {
	to   string
	link string
	err  error
}

func (m *stubMailer) SendPasswordReset(to, _, resetLink string) error {
	if m.err != nil {
		return m.err
	}
	m.to = to
	m.link = resetLink
	return nil
}
