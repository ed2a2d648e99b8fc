package domain

// KasStatus is the dues payment status. Values match the wire format the
// frontend expects (Indonesian, as stored in the kas table).
type KasStatus string

const (
	KasPending  KasStatus = "pending"
	KasDiterima KasStatus = "diterima"
	KasDitolak  KasStatus = "ditolak"
)

// IsTerminal reports whether a status can no longer change.
func (s KasStatus) IsTerminal() bool {
	return s == KasDiterima || s == KasDitolak
}

// Canned verification notes. Catatan is constrained to this set.
const (
	CatatanDiterima       = "Diterima"
	CatatanReferalInvalid = "Kode Referal Tidak Valid"
)

// IsValidCatatan reports whether note is one of the canned reasons.
func IsValidCatatan(note string) bool {
	return note == CatatanDiterima || note == CatatanReferalInvalid
}

// Months is the fixed billing period enumeration, one kas record per member
// per month.
var Months = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var monthSet = func() map[string]bool {
	m := make(map[string]bool, len(Months))
	for _, name := range Months {
		m[name] = true
	}
	return m
}()

// IsValidMonth reports whether bulan is one of the twelve month names.
func IsValidMonth(bulan string) bool {
	return monthSet[bulan]
}
