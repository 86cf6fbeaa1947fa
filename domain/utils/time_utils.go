package utils

import (
	"fmt"
	"time"

	"pickem/domain/entities"
)

// LoadCanonicalLocation resolves the canonical timezone, falling back to UTC when empty
func LoadCanonicalLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return loc, nil
}

// CanonicalDay returns the calendar day of t in loc as YYYY-MM-DD
func CanonicalDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(entities.DayLayout)
}

// CanonicalMonth returns the calendar month of t in loc as YYYY-MM
func CanonicalMonth(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01")
}

// Yesterday returns the canonical day before t
func Yesterday(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	y := time.Date(local.Year(), local.Month(), local.Day()-1, 12, 0, 0, 0, loc)
	return y.Format(entities.DayLayout)
}

// NextDay returns the canonical day after t
func NextDay(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	n := time.Date(local.Year(), local.Month(), local.Day()+1, 12, 0, 0, 0, loc)
	return n.Format(entities.DayLayout)
}

// FirstDayOfNextMonth returns the first canonical day of the month after t
func FirstDayOfNextMonth(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	n := time.Date(local.Year(), local.Month()+1, 1, 12, 0, 0, 0, loc)
	return n.Format(entities.DayLayout)
}
