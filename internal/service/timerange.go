package service

import "time"

// DateRange is a resolved query window. Both bounds are inclusive, with
// millisecond precision.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ResolveRange maps a range token to concrete instants relative to now.
// Every input resolves; unknown tokens take the 30 day branch. This is a
// total function on purpose, so callers never validate tokens.
func ResolveRange(token string, now time.Time) DateRange {
	switch token {
	case "today":
		start := midnight(now)
		return DateRange{Start: start, End: endOfDay(start)}
	case "yesterday":
		// Subtract a full 24 hours before truncating, rather than doing
		// calendar-day arithmetic. Sensitive to the current time-of-day
		// around DST shifts; callers rely on this exact behavior.
		start := midnight(now.Add(-24 * time.Hour))
		return DateRange{Start: start, End: endOfDay(start)}
	case "7days", "last7Days":
		return trailingDays(now, 7)
	case "90days", "last90Days":
		return trailingDays(now, 90)
	case "thisMonth":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Start: start, End: endOfDay(now)}
	case "lastMonth":
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{
			Start: firstOfThis.AddDate(0, -1, 0),
			End:   firstOfThis.Add(-time.Millisecond),
		}
	default:
		// Covers "30days", "last30Days" and anything unrecognized.
		return trailingDays(now, 30)
	}
}

// trailingDays spans from midnight n days ago through today's end-of-day.
// The upper bound is always the request-time "today", so the window holds
// slightly more than n days of data.
func trailingDays(now time.Time, n int) DateRange {
	return DateRange{
		Start: midnight(now.AddDate(0, 0, -n)),
		End:   endOfDay(now),
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	// Built from components rather than midnight+24h, so the bound stays on
	// t's calendar day even when a DST shift makes the day 23 or 25 hours.
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}
