package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dofe-kas/internal/adapters/persistence/models"
	"dofe-kas/internal/core/domain"
)

func newKasFixture() (*KasService, *stubKasRepo, *stubUserRepo, *stubUploader, *captureRecorder) {
	kasRepo := newStubKasRepo()
	userRepo := newStubUserRepo()
	uploader := &stubUploader{url: "https://cdn.example.com/bukti-1.jpg"}
	recorder := &captureRecorder{}
	svc := NewKasService(kasRepo, userRepo, uploader, recorder)
	return svc, kasRepo, userRepo, uploader, recorder
}

func anggota(id uint, nama string) domain.Actor {
	return domain.Actor{ID: id, Nama: nama, Role: domain.RoleAnggota}
}

func bendahara() domain.Actor {
	return domain.Actor{ID: 99, Nama: "Sari", Role: domain.RoleBendahara}
}

func TestSubmitCreatesPendingRecord(t *testing.T) {
	svc, kasRepo, _, _, recorder := newKasFixture()
	ctx := context.Background()

	resp, err := svc.Submit(ctx, anggota(1, "Budi"), &SubmitInput{
		Bulan:     "Januari",
		Jumlah:    15000,
		Proof:     strings.NewReader("image-bytes"),
		ProofName: "bukti.jpg",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if resp.Status != domain.KasPending {
		t.Errorf("status = %s, want pending", resp.Status)
	}
	if resp.Bukti == nil || *resp.Bukti == "" {
		t.Error("expected proof URL on the record")
	}

	stored, err := kasRepo.GetByID(ctx, resp.ID)
	if err != nil {
		t.Fatalf("stored record not found: %v", err)
	}
	if stored.Status != domain.KasPending {
		t.Errorf("stored status = %s, want pending", stored.Status)
	}

	entry := recorder.last()
	if entry == nil || entry.Action != domain.AuditPaymentCreated {
		t.Errorf("expected payment_created audit entry, got %+v", entry)
	}
}

func TestSubmitRejectsSecondPaymentForSameMonth(t *testing.T) {
	svc, _, _, _, _ := newKasFixture()
	ctx := context.Background()
	caller := anggota(1, "Budi")

	if _, err := svc.Submit(ctx, caller, &SubmitInput{
		Bulan: "Januari", Jumlah: 15000, Proof: strings.NewReader("a"), ProofName: "a.jpg",
	}); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	_, err := svc.Submit(ctx, caller, &SubmitInput{
		Bulan: "Januari", Jumlah: 15000, Proof: strings.NewReader("b"), ProofName: "b.jpg",
	})
	if !errors.Is(err, domain.ErrKasAlreadyPaid) {
		t.Errorf("err = %v, want ErrKasAlreadyPaid", err)
	}
}

func TestSubmitAfterRejectionAllowed(t *testing.T) {
	svc, kasRepo, _, _, _ := newKasFixture()
	ctx := context.Background()
	caller := anggota(1, "Budi")

	first, err := svc.Submit(ctx, caller, &SubmitInput{
		Bulan: "Januari", Jumlah: 15000, Proof: strings.NewReader("a"), ProofName: "a.jpg",
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	note := domain.CatatanReferalInvalid
	if _, err := svc.Verify(ctx, bendahara(), first.ID, domain.KasDitolak, &note); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// A rejected payment must not block a corrected resubmission for the month.
	second, err := svc.Submit(ctx, caller, &SubmitInput{
		Bulan: "Januari", Jumlah: 15000, Proof: strings.NewReader("b"), ProofName: "b.jpg",
	})
	if err != nil {
		t.Fatalf("resubmit after rejection: %v", err)
	}
	if second.Status != domain.KasPending {
		t.Errorf("resubmission status = %s, want pending", second.Status)
	}

	if _, err := svc.Verify(ctx, bendahara(), second.ID, domain.KasDiterima, nil); err != nil {
		t.Fatalf("accept resubmission: %v", err)
	}
	total, _ := kasRepo.SumAccepted(ctx)
	if total != 15000 {
		t.Errorf("accepted sum = %d, want 15000", total)
	}
}

func TestSubmitAfterRemovalAllowed(t *testing.T) {
	svc, _, _, _, _ := newKasFixture()
	ctx := context.Background()
	caller := anggota(1, "Budi")

	first, err := svc.Submit(ctx, caller, &SubmitInput{
		Bulan: "Agustus", Jumlah: 15000, Proof: strings.NewReader("a"), ProofName: "a.jpg",
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if err := svc.Remove(ctx, bendahara(), first.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// Once the treasurer deletes a record the member may submit again.
	second, err := svc.Submit(ctx, caller, &SubmitInput{
		Bulan: "Agustus", Jumlah: 15000, Proof: strings.NewReader("b"), ProofName: "b.jpg",
	})
	if err != nil {
		t.Fatalf("resubmit after removal: %v", err)
	}
	if second.Status != domain.KasPending {
		t.Errorf("resubmission status = %s, want pending", second.Status)
	}
}

func TestManualRecordAfterRejectionAllowed(t *testing.T) {
	svc, _, userRepo, _, _ := newKasFixture()
	ctx := context.Background()

	target := &models.User{Nama: "Budi", NIM: "123", Role: domain.RoleAnggota}
	if err := userRepo.Create(ctx, target); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	resp, err := svc.Submit(ctx, anggota(target.ID, "Budi"), &SubmitInput{
		Bulan: "September", Jumlah: 15000, Proof: strings.NewReader("a"), ProofName: "a.jpg",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	note := domain.CatatanReferalInvalid
	if _, err := svc.Verify(ctx, bendahara(), resp.ID, domain.KasDitolak, &note); err != nil {
		t.Fatalf("reject: %v", err)
	}

	manual, err := svc.ManualRecord(ctx, bendahara(), target.ID, "September", 15000)
	if err != nil {
		t.Fatalf("manual record after rejection: %v", err)
	}
	if manual.Status != domain.KasDiterima {
		t.Errorf("status = %s, want diterima", manual.Status)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, _, _, uploader, _ := newKasFixture()
	ctx := context.Background()
	caller := anggota(1, "Budi")

	if _, err := svc.Submit(ctx, caller, &SubmitInput{
		Bulan: "Janur", Jumlah: 15000, Proof: strings.NewReader("a"),
	}); !errors.Is(err, domain.ErrInvalidMonth) {
		t.Errorf("invalid month: err = %v, want ErrInvalidMonth", err)
	}

	if _, err := svc.Submit(ctx, caller, &SubmitInput{
		Bulan: "Januari", Jumlah: 0, Proof: strings.NewReader("a"),
	}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("zero amount: err = %v, want ErrInvalidAmount", err)
	}

	if _, err := svc.Submit(ctx, caller, &SubmitInput{
		Bulan: "Januari", Jumlah: 15000, Proof: nil,
	}); !errors.Is(err, domain.ErrProofRequired) {
		t.Errorf("missing proof: err = %v, want ErrProofRequired", err)
	}

	if uploader.calls != 0 {
		t.Errorf("uploader called %d times for invalid input, want 0", uploader.calls)
	}
}

func TestSubmitUploadFailureLeavesNoRecord(t *testing.T) {
	svc, kasRepo, _, uploader, _ := newKasFixture()
	uploader.err = errors.New("cloud unavailable")
	ctx := context.Background()

	_, err := svc.Submit(ctx, anggota(1, "Budi"), &SubmitInput{
		Bulan: "Februari", Jumlah: 15000, Proof: strings.NewReader("a"), ProofName: "a.jpg",
	})
	if !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("err = %v, want ErrUploadFailed", err)
	}

	all, _ := kasRepo.ListAll(ctx)
	if len(all) != 0 {
		t.Errorf("%d records created after failed upload, want 0", len(all))
	}
}

func TestVerifyAcceptMovesBalanceOnce(t *testing.T) {
	svc, kasRepo, _, _, recorder := newKasFixture()
	ctx := context.Background()

	resp, err := svc.Submit(ctx, anggota(1, "Budi"), &SubmitInput{
		Bulan: "Maret", Jumlah: 20000, Proof: strings.NewReader("a"), ProofName: "a.jpg",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	verified, err := svc.Verify(ctx, bendahara(), resp.ID, domain.KasDiterima, nil)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.Status != domain.KasDiterima {
		t.Errorf("status = %s, want diterima", verified.Status)
	}
	if verified.Catatan == nil || *verified.Catatan != domain.CatatanDiterima {
		t.Errorf("catatan = %v, want %q", verified.Catatan, domain.CatatanDiterima)
	}

	total, _ := kasRepo.SumAccepted(ctx)
	if total != 20000 {
		t.Errorf("accepted sum = %d, want 20000", total)
	}

	// A second verification must conflict, not double-count.
	_, err = svc.Verify(ctx, bendahara(), resp.ID, domain.KasDiterima, nil)
	if !errors.Is(err, domain.ErrKasNotPending) {
		t.Errorf("re-verify err = %v, want ErrKasNotPending", err)
	}
	total, _ = kasRepo.SumAccepted(ctx)
	if total != 20000 {
		t.Errorf("accepted sum after re-verify = %d, want 20000", total)
	}

	entry := recorder.last()
	if entry == nil || entry.Action != domain.AuditPaymentVerified {
		t.Errorf("expected payment_verified audit entry, got %+v", entry)
	}
}

func TestVerifyRejectWithNote(t *testing.T) {
	svc, kasRepo, _, _, recorder := newKasFixture()
	ctx := context.Background()

	resp, err := svc.Submit(ctx, anggota(1, "Budi"), &SubmitInput{
		Bulan: "April", Jumlah: 20000, Proof: strings.NewReader("a"), ProofName: "a.jpg",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	note := domain.CatatanReferalInvalid
	rejected, err := svc.Verify(ctx, bendahara(), resp.ID, domain.KasDitolak, &note)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if rejected.Status != domain.KasDitolak {
		t.Errorf("status = %s, want ditolak", rejected.Status)
	}

	// Rejected payments never count toward the balance.
	total, _ := kasRepo.SumAccepted(ctx)
	if total != 0 {
		t.Errorf("accepted sum = %d, want 0", total)
	}

	entry := recorder.last()
	if entry == nil || entry.Action != domain.AuditPaymentRejected {
		t.Fatalf("expected payment_rejected audit entry, got %+v", entry)
	}
	if !strings.Contains(entry.Description, note) {
		t.Errorf("rejection note missing from audit description: %q", entry.Description)
	}
}

func TestVerifyRequiresBendahara(t *testing.T) {
	svc, _, _, _, _ := newKasFixture()
	ctx := context.Background()

	for _, role := range []domain.Role{domain.RoleAnggota, domain.RoleKetua, domain.RoleSekretaris, domain.RoleAdmin} {
		caller := domain.Actor{ID: 5, Nama: "X", Role: role}
		if _, err := svc.Verify(ctx, caller, 1, domain.KasDiterima, nil); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("role %s: err = %v, want ErrForbidden", role, err)
		}
	}
}

func TestVerifyInvalidInputs(t *testing.T) {
	svc, _, _, _, _ := newKasFixture()
	ctx := context.Background()

	if _, err := svc.Verify(ctx, bendahara(), 1, domain.KasPending, nil); !errors.Is(err, domain.ErrInvalidDecision) {
		t.Errorf("pending decision: err = %v, want ErrInvalidDecision", err)
	}

	bad := "catatan bebas"
	if _, err := svc.Verify(ctx, bendahara(), 1, domain.KasDitolak, &bad); !errors.Is(err, domain.ErrInvalidNote) {
		t.Errorf("free-form note: err = %v, want ErrInvalidNote", err)
	}

	if _, err := svc.Verify(ctx, bendahara(), 404, domain.KasDiterima, nil); !errors.Is(err, domain.ErrKasNotFound) {
		t.Errorf("missing record: err = %v, want ErrKasNotFound", err)
	}
}

func TestManualRecordIsAcceptedImmediately(t *testing.T) {
	svc, kasRepo, userRepo, uploader, recorder := newKasFixture()
	ctx := context.Background()

	target := &models.User{Nama: "Budi", NIM: "123", Role: domain.RoleAnggota}
	if err := userRepo.Create(ctx, target); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	resp, err := svc.ManualRecord(ctx, bendahara(), target.ID, "Mei", 15000)
	if err != nil {
		t.Fatalf("manual record: %v", err)
	}
	if resp.Status != domain.KasDiterima {
		t.Errorf("status = %s, want diterima", resp.Status)
	}
	if resp.Bukti != nil {
		t.Error("manual record should have no proof reference")
	}
	if uploader.calls != 0 {
		t.Errorf("uploader called %d times for manual record, want 0", uploader.calls)
	}

	total, _ := kasRepo.SumAccepted(ctx)
	if total != 15000 {
		t.Errorf("accepted sum = %d, want 15000", total)
	}

	entry := recorder.last()
	if entry == nil || entry.Action != domain.AuditPaymentCreated {
		t.Fatalf("expected payment_created audit entry, got %+v", entry)
	}
	if entry.Metadata["manual"] != true {
		t.Errorf("metadata = %v, want manual=true", entry.Metadata)
	}
}

func TestManualRecordUnknownTarget(t *testing.T) {
	svc, _, _, _, _ := newKasFixture()
	if _, err := svc.ManualRecord(context.Background(), bendahara(), 404, "Mei", 15000); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestRemoveDeletesAndAudits(t *testing.T) {
	svc, kasRepo, _, _, recorder := newKasFixture()
	ctx := context.Background()

	resp, err := svc.Submit(ctx, anggota(1, "Budi"), &SubmitInput{
		Bulan: "Juni", Jumlah: 10000, Proof: strings.NewReader("a"), ProofName: "a.jpg",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.Remove(ctx, bendahara(), resp.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := kasRepo.GetByID(ctx, resp.ID); err == nil {
		t.Error("record still present after remove")
	}

	entry := recorder.last()
	if entry == nil || entry.Action != domain.AuditPaymentDeleted {
		t.Errorf("expected payment_deleted audit entry, got %+v", entry)
	}

	if err := svc.Remove(ctx, bendahara(), resp.ID); !errors.Is(err, domain.ErrKasNotFound) {
		t.Errorf("second remove err = %v, want ErrKasNotFound", err)
	}
}

func TestListAllRequiresPengurus(t *testing.T) {
	svc, _, _, _, _ := newKasFixture()
	ctx := context.Background()

	if _, err := svc.ListAll(ctx, anggota(1, "Budi")); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("anggota: err = %v, want ErrForbidden", err)
	}
	if _, err := svc.ListAll(ctx, domain.Actor{ID: 2, Nama: "K", Role: domain.RoleKetua}); err != nil {
		t.Errorf("ketua: unexpected err %v", err)
	}
}

func TestListMineOnlyReturnsOwnRecords(t *testing.T) {
	svc, _, _, _, _ := newKasFixture()
	ctx := context.Background()

	if _, err := svc.Submit(ctx, anggota(1, "Budi"), &SubmitInput{
		Bulan: "Juli", Jumlah: 10000, Proof: strings.NewReader("a"), ProofName: "a.jpg",
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Submit(ctx, anggota(2, "Ani"), &SubmitInput{
		Bulan: "Juli", Jumlah: 10000, Proof: strings.NewReader("b"), ProofName: "b.jpg",
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	mine, err := svc.ListMine(ctx, anggota(1, "Budi"))
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != 1 {
		t.Errorf("got %d records, want exactly the caller's own", len(mine))
	}
}
