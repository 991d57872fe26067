package analyzer

import "testing"

func TestIsPrivate(t *testing.T) {
	cases := []struct {
		segment string
		want    bool
	}{
		{"name", false},
		{"Name", false},
		{"_name", true},
		{"_Name", true},
		{"_", true},
		{"__", false},
		{"__all__", false},
		{"__init__", false},
		{"__future__", false},
		{"__version", true},
		{"_x_", true},
		{"x_", false},
	}

	for _, tc := range cases {
		if got := IsPrivate(tc.segment); got != tc.want {
			t.Errorf("IsPrivate(%q) = %v, want %v", tc.segment, got, tc.want)
		}
	}
}
