package ledger

import (
	"time"

	"money-tracker/internal/domain"
)

// DefaultCycleStartDay is the day of month a billing cycle opens on.
const DefaultCycleStartDay = 19

// BillingCycle runs from Start through End, both inclusive.
type BillingCycle struct {
	Start    time.Time
	End      time.Time
	startDay int
}

// CycleFor returns the billing cycle containing d. A start day outside 1..28
// falls back to DefaultCycleStartDay.
func CycleFor(d time.Time, startDay int) BillingCycle {
	if startDay < 1 || startDay > 28 {
		startDay = DefaultCycleStartDay
	}
	d = domain.DateOnly(d)
	month := d.Month()
	if d.Day() < startDay {
		month--
	}
	start := time.Date(d.Year(), month, startDay, 0, 0, 0, 0, time.UTC)
	return BillingCycle{
		Start:    start,
		End:      start.AddDate(0, 1, -1),
		startDay: startDay,
	}
}

// Key identifies the cycle by its start date.
func (c BillingCycle) Key() string {
	return c.Start.Format(domain.DateLayout)
}

// Contains reports whether d falls inside the cycle.
func (c BillingCycle) Contains(d time.Time) bool {
	d = domain.DateOnly(d)
	return !d.Before(c.Start) && !d.After(c.End)
}

// Previous returns the cycle immediately before c.
func (c BillingCycle) Previous() BillingCycle {
	return CycleFor(c.Start.AddDate(0, 0, -1), c.startDay)
}

// Next returns the cycle immediately after c.
func (c BillingCycle) Next() BillingCycle {
	return CycleFor(c.End.AddDate(0, 0, 1), c.startDay)
}

func (c BillingCycle) String() string {
	return c.Start.Format("02 Jan") + " to " + c.End.Format("02 Jan 2006")
}
