// Package daybounds maps calendar dates in a named time zone to the instant
// ranges they cover. Local midnight is not a fixed UTC offset, so the start
// and end of a day are resolved independently and may carry different
// offsets on daylight-saving transition days.
package daybounds

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("expected YYYY-MM-DD")
	ErrSkippedDate  = errors.New("date does not exist in time zone")
	ErrInvalidRange = errors.New("'from' must be before or equal to 'to'")

	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Bounds is the inclusive instant range of one or more local calendar days.
// From and To are expressed in the zone they were computed for.
type Bounds struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls within the bounds, inclusive on both ends.
func (b Bounds) Contains(t time.Time) bool {
	return !t.Before(b.From) && !t.After(b.To)
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC of that date.
func ParseDate(date string) (time.Time, error) {
	if !dateRe.MatchString(date) {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// LocalDate returns the calendar date of t in loc.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ForDate returns the first and last millisecond of date in loc:
// 00:00:00.000 and 23:59:59.999 local time, each with its own offset.
func ForDate(date string, loc *time.Location) (Bounds, error) {
	day, err := ParseDate(date)
	if err != nil {
		return Bounds{}, err
	}

	from, ok := startOfDay(day, loc)
	if !ok {
		return Bounds{}, fmt.Errorf("%s in %s: %w", date, loc, ErrSkippedDate)
	}

	next, _ := startOfDay(day.AddDate(0, 0, 1), loc)
	to := next.Add(-time.Millisecond).In(loc)

	return Bounds{From: from, To: to}, nil
}

// ForRange spans from the start of fromDate to the end of toDate.
func ForRange(fromDate, toDate string, loc *time.Location) (Bounds, error) {
	err := ValidateRange(fromDate, toDate)
	if err != nil {
		return Bounds{}, err
	}

	start, err := ForDate(fromDate, loc)
	if err != nil {
		return Bounds{}, err
	}
	end, err := ForDate(toDate, loc)
	if err != nil {
		return Bounds{}, err
	}

	return Bounds{From: start.From, To: end.To}, nil
}

// ValidateRange checks both dates and that from <= to.
func ValidateRange(fromDate, toDate string) error {
	from, err := ParseDate(fromDate)
	if err != nil {
		return err
	}
	to, err := ParseDate(toDate)
	if err != nil {
		return err
	}
	if from.After(to) {
		return ErrInvalidRange
	}
	return nil
}

// Dates enumerates every calendar date in [fromDate, toDate], ascending.
func Dates(fromDate, toDate string) ([]string, error) {
	err := ValidateRange(fromDate, toDate)
	if err != nil {
		return nil, err
	}

	from, _ := ParseDate(fromDate)
	to, _ := ParseDate(toDate)

	dates := make([]string, 0, DaysBetweenInclusive(from, to))
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates, nil
}

// DaysBetweenInclusive counts the calendar days in [from, to] for dates
// produced by ParseDate.
func DaysBetweenInclusive(from, to time.Time) int {
	if from.After(to) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// startOfDay returns the first instant whose local date in loc is day.
// When local midnight falls in a DST gap, that is the transition instant.
func startOfDay(day time.Time, loc *time.Location) (time.Time, bool) {
	key := day.Format(DateLayout)

	t := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	if LocalDate(t, loc) < key {
		_, end := t.ZoneBounds()
		if !end.IsZero() {
			t = end.In(loc)
		}
	}

	return t, LocalDate(t, loc) == key
}
