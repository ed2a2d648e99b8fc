package services

import "strconv"

// formatRupiah renders an integer Rupiah amount with Indonesian thousand
// separators, e.g. 150000 -> "Rp 150.000".
func formatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	if neg {
		return "Rp -" + string(out)
	}
	return "Rp " + string(out)
}
