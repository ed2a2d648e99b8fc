package repositories

import "testing"

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"payment_", `payment\_`},
		{"expense_", `expense\_`},
		{"login", "login"},
		{"50%", `50\%`},
		{`a\b`, `a\\b`},
		{"", ""},
	}
	for _, tc := range cases {
		if got := escapeLike(tc.in); got != tc.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
