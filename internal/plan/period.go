package plan

import "time"

// Subscription statuses reported by the billing integration
const (
	StatusActive   = "active"
	StatusTrialing = "trialing"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
)

// IsUsableStatus reports whether a subscription status grants access.
// Only active and trialing are usable; anything else, including unknown
// values, is not.
func IsUsableStatus(status string) bool {
	switch status {
	case StatusActive, StatusTrialing:
		return true
	default:
		return false
	}
}

// Period is a billing window [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
	// Fallback is set when either bound came from the calendar month.
	Fallback bool
}

// PeriodFor returns the billing window for the given bounds. A missing start
// falls back to the first instant of the current UTC month, a missing end to
// the first instant of the next one.
func PeriodFor(start, end *time.Time, now time.Time) Period {
	p := Period{}
	if start != nil {
		p.Start = start.UTC()
	} else {
		p.Start = MonthStart(now)
		p.Fallback = true
	}
	if end != nil {
		p.End = end.UTC()
	} else {
		p.End = NextMonthStart(now)
		p.Fallback = true
	}
	return p
}

// PeriodValid reports whether access is still within the paid period.
// A missing end is not valid.
func PeriodValid(end *time.Time, now time.Time) bool {
	return end != nil && now.Before(*end)
}

// MonthStart returns the first instant of now's UTC calendar month.
func MonthStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonthStart returns the first instant of the following UTC calendar month.
func NextMonthStart(now time.Time) time.Time {
	return MonthStart(now).AddDate(0, 1, 0)
}
