package main

import "testing"

func TestDescriptionFromFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2026-10-15-002-create-health-tables.sql", "create health tables"},
		{"2026-10-15-001-create-migrations-table.sql", "create migrations table"},
		{"no-prefix.sql", "no prefix"},
	}
	for _, tc := range cases {
		if got := descriptionFromFilename(tc.in); got != tc.want {
			t.Errorf("descriptionFromFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
