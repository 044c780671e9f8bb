package utils

import "testing"

func TestParseFlexFloat(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"0.85", 0.85, true},
		{"0,85", 0.85, true},
		{"1 234,50", 1234.5, true},
		{"1 234.5", 1234.5, true},
		{"-12.5", -12.5, true},
		{" 1000 ", 1000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseFlexFloat(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("ParseFlexFloat(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}
