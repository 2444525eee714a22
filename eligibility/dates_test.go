package eligibility

import (
	"testing"
	"time"
)

func TestParseBirthDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2007-03-01", want: "2007-03-01"},
		{in: "01/03/2007", want: "2007-03-01"},
		{in: " 2007-03-01 ", want: "2007-03-01"},
		{in: "", wantErr: true},
		{in: "2007/03/01", wantErr: true},
		{in: "32/01/2007", wantErr: true},
		{in: "not a date", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseBirthDate(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseBirthDate(%q): expected error, got %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBirthDate(%q): %v", tt.in, err)
			continue
		}
		if got.Format(ISODate) != tt.want {
			t.Errorf("ParseBirthDate(%q) = %s, want %s", tt.in, got.Format(ISODate), tt.want)
		}
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		birth string
		want  int
	}{
		{"2005-08-28", 21}, // birthday today
		{"2005-08-29", 20}, // birthday tomorrow
		{"2005-08-27", 21},
		{"2005-12-31", 20},
		{"2026-08-28", 0},
		{"2030-01-01", 0}, // future dates clamp to zero
	}

	for _, tt := range tests {
		birth, err := ParseBirthDate(tt.birth)
		if err != nil {
			t.Fatalf("ParseBirthDate(%q): %v", tt.birth, err)
		}
		if got := Age(birth, now); got != tt.want {
			t.Errorf("Age(%s) = %d, want %d", tt.birth, got, tt.want)
		}
	}
}
