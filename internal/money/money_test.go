package money

import "testing"

func TestParseDecimalToPaise(t *testing.T) {
	cases := []struct {
		in  string
		out Paise
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"300", 30000, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToPaise(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestRupees(t *testing.T) {
	cases := []struct {
		in   Paise
		want string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{100, "1.00"},
		{12345, "123.45"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := tc.in.Rupees(); got != tc.want {
			t.Errorf("Paise(%d).Rupees() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSplitEqual(t *testing.T) {
	t.Run("even division", func(t *testing.T) {
		shares, err := SplitEqual(300, 3)
		if err != nil {
			t.Fatalf("SplitEqual failed: %v", err)
		}
		for i, s := range shares {
			if s != 100 {
				t.Errorf("share %d = %d, want 100", i, s)
			}
		}
	})

	t.Run("remainder goes to first share", func(t *testing.T) {
		shares, err := SplitEqual(100, 3)
		if err != nil {
			t.Fatalf("SplitEqual failed: %v", err)
		}
		want := []Paise{34, 33, 33}
		var sum Paise
		for i, s := range shares {
			if s != want[i] {
				t.Errorf("share %d = %d, want %d", i, s, want[i])
			}
			sum += s
		}
		if sum != 100 {
			t.Errorf("shares sum = %d, want 100", sum)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		if _, err := SplitEqual(100, 0); err == nil {
			t.Error("expected error for zero shares")
		}
		if _, err := SplitEqual(0, 2); err == nil {
			t.Error("expected error for zero total")
		}
	})
}
