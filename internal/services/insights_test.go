package services

import (
	"testing"
	"time"
)

func TestAnalyticsWindow(t *testing.T) {
	now := time.Date(2026, 4, 20, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		in       string
		days     int
		resolved string
	}{
		{"7d", 7, "7d"},
		{"30d", 30, "30d"},
		{"90d", 90, "90d"},
		{"", 30, "30d"},
		{"1y", 30, "30d"},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			start, resolved := AnalyticsWindow(c.in, now)
			if resolved != c.resolved {
				t.Fatalf("resolved = %q, want %q", resolved, c.resolved)
			}
			want := now.AddDate(0, 0, -c.days)
			if !start.Equal(want) {
				t.Fatalf("start = %v, want %v", start, want)
			}
		})
	}
}
