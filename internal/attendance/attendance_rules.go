package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rules decides status and hours. Times are interpreted in Location.
type Rules struct {
	Location *time.Location
	// LateCutoff is minutes after local midnight; a check-in after it is LATE.
	LateCutoff   int
	HalfDayHours decimal.Decimal
}

// WorkDate is the local calendar day of t, as a UTC midnight date value.
func (r Rules) WorkDate(t time.Time) time.Time {
	local := t.In(r.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func (r Rules) CheckInStatus(t time.Time) string {
	local := t.In(r.Location)
	if local.Hour()*60+local.Minute() > r.LateCutoff {
		return StatusLate
	}
	return StatusPresent
}

// WorkedHours is the span between check-in and check-out, rounded to 2 places.
func (r Rules) WorkedHours(in, out time.Time) decimal.Decimal {
	if out.Before(in) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(out.Sub(in).Hours()).Round(2)
}

// CheckOutStatus forces HALF_DAY below the threshold whatever the check-in status was.
func (r Rules) CheckOutStatus(current string, hours decimal.Decimal) string {
	if hours.LessThan(r.HalfDayHours) {
		return StatusHalfDay
	}
	return current
}
