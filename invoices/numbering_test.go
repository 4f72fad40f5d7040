package invoices

import "testing"

func TestFormatInvoiceNumber(t *testing.T) {
	cases := []struct {
		year, seq int
		want      string
	}{
		{2026, 1, "INV-2026-00001"},
		{2026, 42, "INV-2026-00042"},
		{2027, 123456, "INV-2027-123456"},
	}
	for _, c := range cases {
		if got := formatInvoiceNumber(c.year, c.seq); got != c.want {
			t.Errorf("formatInvoiceNumber(%d, %d) = %s, want %s", c.year, c.seq, got, c.want)
		}
	}
}
