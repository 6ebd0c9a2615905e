package booking

import (
	"time"

	"github.com/staybook/service-booking/internal/platform/domain"
)

// DateLayout is the wire format for check-in and check-out dates.
const DateLayout = "2006-01-02"

// Stay is a value object for the nights between check-in (inclusive) and
// check-out (exclusive). Both dates are UTC midnights.
type Stay struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// ParseDate parses a YYYY-MM-DD calendar date. Impossible dates such as
// 2026-02-30 are rejected.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, domain.NewError(domain.KindInvalidDate, "%q is not a valid YYYY-MM-DD date", s)
	}
	return t, nil
}

// Today truncates now to its UTC calendar day.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewStay builds a stay and checks that check-out is strictly after check-in.
func NewStay(checkIn, checkOut time.Time) (Stay, error) {
	checkIn, checkOut = Today(checkIn), Today(checkOut)
	if !checkOut.After(checkIn) {
		return Stay{}, domain.NewError(domain.KindInvalidRange,
			"check-out %s must be after check-in %s", checkOut.Format(DateLayout), checkIn.Format(DateLayout))
	}
	return Stay{CheckIn: checkIn, CheckOut: checkOut}, nil
}

// Nights returns the number of calendar days between check-in and check-out.
func (s Stay) Nights() int {
	return int((s.CheckOut.Unix() - s.CheckIn.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// Overlaps reports whether two stays share at least one night.
func (s Stay) Overlaps(other Stay) bool {
	return s.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(s.CheckOut)
}

// CheckoutPassed reports whether the check-out day is strictly before today.
func (s Stay) CheckoutPassed(now time.Time) bool {
	return s.CheckOut.Before(Today(now))
}
