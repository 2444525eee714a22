package eligibility

import "time"

// DefaultTimeZone anchors the whole-day window boundaries. Neuquén uses
// Argentina time, which has no DST.
const DefaultTimeZone = "America/Argentina/Buenos_Aires"

// Window is the registration period. Mutating operations (creating,
// approving or rejecting teams, adding, editing or removing roster
// members) are permitted only while the window contains "now"; reads
// are always allowed.
type Window struct {
	Start    time.Time
	End      time.Time
	Location *time.Location
}

// Contains reports whether now falls in the window. Boundaries are
// whole days, inclusive on both ends: any instant of the start day or
// of the end day, evaluated in the window's location, is inside.
func (w Window) Contains(now time.Time) bool {
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}
	day := func(t time.Time) time.Time {
		t = t.In(loc)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
	n := day(now)
	return !n.Before(day(w.Start)) && !n.After(day(w.End))
}
