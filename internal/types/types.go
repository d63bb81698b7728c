// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, storage, and the notifier can all import types without
// depending on each other.
package types

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for birthday dates: day-month-year.
// Go reference-time layouts spell formats with the magic date
// 2006-01-02, so "02-01-2006" means DD-MM-YYYY.
const DateLayout = "02-01-2006"

// Birthday represents one user's stored birthday record.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON
//     (used by structured logs and any future API surface).
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package. "required" means the field must be non-zero / non-empty.
//
// Birthday is stored as midnight UTC of the calendar date. Only the
// month and day components are ever consulted for due-date matching;
// the year is kept for age computation and display.
type Birthday struct {
	UserID   uint64    `json:"user_id"  validate:"required"`
	Name     string    `json:"name"     validate:"required"`
	Birthday time.Time `json:"birthday" validate:"required"`
}

// ParseDate parses a user-supplied date string in DD-MM-YYYY form.
// A "/" separator is accepted and normalised to "-" before parsing, so
// "15/03/1990" and "15-03-1990" are equivalent.
//
// The result is pinned to midnight UTC — the time-of-day and timezone
// components are fixed at ingestion and never altered afterwards.
// Impossible calendar dates ("31-02-2000") are rejected by time.Parse.
func ParseDate(s string) (time.Time, error) {
	s = strings.ReplaceAll(s, "/", "-")

	date, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected DD-MM-YYYY", s)
	}

	return date, nil
}

// FormatDate renders the stored birthday back in DD-MM-YYYY form.
func (b Birthday) FormatDate() string {
	return b.Birthday.UTC().Format(DateLayout)
}

// DueOn reports whether the birthday falls on the same calendar day as
// the reference date, regardless of the stored year.
func (b Birthday) DueOn(ref time.Time) bool {
	bday := b.Birthday.UTC()
	ref = ref.UTC()

	return bday.Month() == ref.Month() && bday.Day() == ref.Day()
}

// AgeOn computes the user's age in whole years at the reference time,
// as days-since-birthday divided by 365.
//
// This intentionally ignores leap years, so it drifts by roughly one
// day per four years lived. Kept as the established behaviour.
func (b Birthday) AgeOn(ref time.Time) int64 {
	days := int64(ref.Sub(b.Birthday).Hours() / 24)
	return days / 365
}

// Age is AgeOn against the current wall clock.
func (b Birthday) Age() int64 {
	return b.AgeOn(time.Now())
}
