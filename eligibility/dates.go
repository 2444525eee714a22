package eligibility

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the canonical birth date layout persisted and returned by
// the engine.
const ISODate = "2006-01-02"

// legacyDate is the DD/MM/YYYY form the old enrollment forms submit.
const legacyDate = "02/01/2006"

// ParseBirthDate parses a birth date in ISO (YYYY-MM-DD) or legacy
// (DD/MM/YYYY) form.
func ParseBirthDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty birth date")
	}
	if t, err := time.Parse(ISODate, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(legacyDate, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized birth date %q", s)
}

// Age returns whole years elapsed from birth to now, adjusting when the
// birthday has not yet been reached this year.
func Age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
