package eligibility

import (
	"testing"
	"time"
)

func TestWindowContains(t *testing.T) {
	loc, err := time.LoadLocation(DefaultTimeZone)
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	w := Window{
		Start:    time.Date(2026, 8, 1, 0, 0, 0, 0, loc),
		End:      time.Date(2026, 8, 31, 0, 0, 0, 0, loc),
		Location: loc,
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"middle of window", time.Date(2026, 8, 15, 10, 0, 0, 0, loc), true},
		{"first instant of start day", time.Date(2026, 8, 1, 0, 0, 0, 0, loc), true},
		{"last instant of end day", time.Date(2026, 8, 31, 23, 59, 59, 0, loc), true},
		{"day before start", time.Date(2026, 7, 31, 23, 59, 59, 0, loc), false},
		{"day after end", time.Date(2026, 9, 1, 0, 0, 0, 0, loc), false},
		// 02:00 UTC on Sep 1 is still Aug 31 23:00 in Argentina (UTC-3).
		{"utc instant inside local end day", time.Date(2026, 9, 1, 2, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.now); got != tt.want {
				t.Fatalf("Contains(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestWindowNilLocationDefaultsToUTC(t *testing.T) {
	w := Window{
		Start: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
	}
	if !w.Contains(time.Date(2026, 8, 2, 23, 0, 0, 0, time.UTC)) {
		t.Fatal("end day should be inclusive")
	}
	if w.Contains(time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("day after end should be outside")
	}
}
