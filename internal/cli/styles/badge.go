package styles

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// VisitBadge renders a visit count.
func (t *Theme) VisitBadge(count int) string {
	if count == 1 {
		return t.BadgeMuted.Render("1 visit")
	}
	return t.BadgeMuted.Render(fmt.Sprintf("%d visits", count))
}

// TimeBadge renders tm relative to now.
func (t *Theme) TimeBadge(tm, now time.Time) string {
	return t.BadgeMuted.Render(RelativeTime(tm, now))
}

// DomainBadge renders a host name.
func (t *Theme) DomainBadge(domain string) string {
	return t.Badge.Render(domain)
}

// relativeUnits is ordered by limit; the first unit whose limit exceeds the
// age formats it.
var relativeUnits = []struct {
	limit  time.Duration
	size   time.Duration
	suffix string
}{
	{time.Hour, time.Minute, "m"},
	{day, time.Hour, "h"},
	{7 * day, day, "d"},
	{30 * day, 7 * day, "w"},
	{365 * day, 30 * day, "mo"},
}

// RelativeTime formats tm as a compact age such as "5m ago" or "2w ago".
func RelativeTime(tm, now time.Time) string {
	age := now.Sub(tm)
	if age < time.Minute {
		return "just now"
	}
	for _, u := range relativeUnits {
		if age < u.limit {
			return fmt.Sprintf("%d%s ago", int(age/u.size), u.suffix)
		}
	}
	return fmt.Sprintf("%dy ago", int(age/(365*day)))
}

// Period groups history entries in the listing.
type Period int

const (
	PeriodToday Period = iota
	PeriodYesterday
	PeriodThisWeek
	PeriodOlder
)

var periodLabels = [...]string{"Today", "Yesterday", "This Week", "Older"}

func (p Period) String() string {
	if p < 0 || int(p) >= len(periodLabels) {
		return "Unknown"
	}
	return periodLabels[p]
}

// PeriodOf returns the period of tm, with days starting at local midnight
// of now.
func PeriodOf(tm, now time.Time) Period {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case !tm.Before(midnight):
		return PeriodToday
	case !tm.Before(midnight.AddDate(0, 0, -1)):
		return PeriodYesterday
	case tm.After(midnight.AddDate(0, 0, -7)):
		return PeriodThisWeek
	default:
		return PeriodOlder
	}
}
