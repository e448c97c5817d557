package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: date_to must be after date_from")
)

// DateRange represents a half-open interval of calendar days [From, To).
// To is the checkout day and is never part of the stay.
type DateRange struct {
	From time.Time
	To   time.Time
}

func New(from, to time.Time) (DateRange, error) {
	dr := DateRange{From: Day(from), To: Day(to)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Day truncates a timestamp to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (dr DateRange) Validate() error {
	if dr.From.IsZero() || dr.To.IsZero() {
		return ErrInvalidRange
	}
	if !dr.To.After(dr.From) {
		return ErrInvalidRange
	}
	return nil
}

func (dr DateRange) IsZero() bool {
	return dr.From.IsZero() && dr.To.IsZero()
}

// Nights is the stay length in whole days.
func (dr DateRange) Nights() int {
	return DaysBetween(dr.From, dr.To)
}

// Overlaps reports whether two ranges share at least one day. Strict
// inequality on both ends: a range ending exactly when another starts
// does not conflict.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.From.Before(other.To) && other.From.Before(dr.To)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = Day(t)
	return !t.Before(dr.From) && t.Before(dr.To)
}

// StartedBy reports whether the stay has started as of the given day
// (today on or after From).
func (dr DateRange) StartedBy(today time.Time) bool {
	return !Day(today).Before(dr.From)
}

// EndedBefore reports whether the stay is fully over strictly before the
// given day.
func (dr DateRange) EndedBefore(today time.Time) bool {
	return dr.To.Before(Day(today))
}

// DaysBetween returns b - a in whole days; negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
