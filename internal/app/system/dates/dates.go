// Package dates handles the calendar-day strings stored on projects and tasks.
package dates

import (
	"strings"
	"time"
)

// Layout is the stored form of a calendar day.
const Layout = "2006-01-02"

// Parse reads a calendar day in loc. Besides YYYY-MM-DD it accepts RFC 3339
// timestamps, which are reduced to their day in loc.
func Parse(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	if d, err := time.ParseInLocation(Layout, s, loc); err == nil {
		return d, true
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return StartOfDay(ts, loc), true
	}
	return time.Time{}, false
}

// StartOfDay returns midnight of t's day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Format renders t as a stored calendar day.
func Format(t time.Time) string { return t.Format(Layout) }

// DaysBetween counts whole calendar days from a to b. Both should be
// midnights in the same location.
func DaysBetween(a, b time.Time) int {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	ua := time.Date(ya, ma, da, 0, 0, 0, 0, time.UTC)
	ub := time.Date(yb, mb, db, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// Location loads the IANA zone name, returning fallback when it is empty or unknown.
func Location(name string, fallback *time.Location) *time.Location {
	if fallback == nil {
		fallback = time.UTC
	}
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}
