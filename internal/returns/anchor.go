package returns

import (
	"sort"
	"time"
)

// AnchorOptions controls how AlignToAnchor handles the edges of the window.
type AnchorOptions struct {
	// IncludeLeftEdge keeps a month's first observation when the anchor day
	// falls before any data in that month (fund not yet trading early in the
	// month).
	IncludeLeftEdge bool

	// IncludeRightEdge keeps the last observation of a still-open month when
	// the anchor day is later in the month than any data so far. The latest
	// NAV then stands in as a provisional value for a contribution due later
	// this month. This is a modeling choice carried over from the warehouse
	// feed, not a verified requirement.
	IncludeRightEdge bool

	// Today is the valuation date used by the right-edge rule. Zero means
	// time.Now in UTC.
	Today time.Time
}

// DefaultAnchorOptions returns the options used by the returns service:
// both edge cases included.
func DefaultAnchorOptions() AnchorOptions {
	return AnchorOptions{IncludeLeftEdge: true, IncludeRightEdge: true}
}

// WindowStart computes the start of an N-year observation window ending at
// today, optionally clamped to lowerBound. If the start's day-of-month is
// past the anchor day the start advances to the first day of the next
// month, so the window never opens on a partial first month.
func WindowStart(today time.Time, years, sipDay int, lowerBound time.Time) time.Time {
	start := today.AddDate(-years, 0, 0)
	if !lowerBound.IsZero() && lowerBound.After(start) {
		start = lowerBound
	}
	if start.Day() > sipDay {
		start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()).AddDate(0, 1, 0)
	}
	return start
}

// AlignToAnchor reduces a NAV series to at most one observation per
// calendar month: the NAV applicable to a contribution made on the sipDay
// of that month.
//
// Within each month the selected observation is the first trading day on or
// after the anchor day, i.e. the observation whose predecessor is strictly
// before the month's required date while the observation itself is on or
// after it ("roll forward to next trading day"). The two edge rules are
// described on AnchorOptions.
//
// The input does not have to be sorted; the output is ascending by date.
// An empty or invalid input yields an empty result, never an error.
func AlignToAnchor(series []NavPoint, sipDay int, opts AnchorOptions) []NavPoint {
	if len(series) == 0 || sipDay < 1 || sipDay > MaxSIPDay {
		return nil
	}

	today := opts.Today
	if today.IsZero() {
		today = time.Now().UTC()
	}
	today = truncateToDay(today)

	sorted := make([]NavPoint, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var out []NavPoint
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sameMonth(sorted[end].Date, sorted[start].Date) {
			end++
		}
		partition := sorted[start:end]
		start = end

		first := partition[0].Date
		required := time.Date(first.Year(), first.Month(), sipDay, 0, 0, 0, 0, first.Location())

		for i, obs := range partition {
			cur := truncateToDay(obs.Date)
			lag := cur
			if i > 0 {
				lag = truncateToDay(partition[i-1].Date)
			}

			selected := lag.Before(required) && !cur.Before(required)
			if !selected && opts.IncludeLeftEdge && i == 0 && !cur.Before(required) {
				selected = true
			}
			if !selected && opts.IncludeRightEdge && i == len(partition)-1 &&
				required.After(cur) && required.Before(today) {
				selected = true
			}

			if selected {
				out = append(out, obs)
				break
			}
		}
	}
	return out
}

// PercentageChanges annotates a series with each point's change relative to
// the first adjusted NAV, in percent rounded to two decimals. The returned
// slice is parallel to the input.
func PercentageChanges(series []NavPoint) []float64 {
	if len(series) == 0 {
		return nil
	}
	first := series[0].AdjNav
	changes := make([]float64, len(series))
	if first.IsZero() {
		return changes
	}
	hundred := intDecimal(100)
	for i, p := range series {
		changes[i] = roundFloat(p.AdjNav.Sub(first).Mul(hundred).Div(first), 2)
	}
	return changes
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
