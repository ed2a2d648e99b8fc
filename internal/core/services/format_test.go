package services

import "testing"

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{15000, "Rp 15.000"},
		{150000, "Rp 150.000"},
		{1234567, "Rp 1.234.567"},
		{-75000, "Rp -75.000"},
	}
	for _, tc := range cases {
		if got := formatRupiah(tc.amount); got != tc.want {
			t.Errorf("formatRupiah(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
