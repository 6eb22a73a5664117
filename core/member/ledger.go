package member

import (
	"math"
	"sort"
	"time"

	"github.com/jherparva/TauroGym-sub000/core"
)

// ComputeSnapshot derives the ledger view of m at `now`. It is pure and
// deterministic: same member + same now => same snapshot. Callers must not
// cache results across reads since the elapsed window is time-dependent.
func ComputeSnapshot(m Member, now time.Time) Snapshot {
	if !m.HasPlan() {
		return Snapshot{State: StateNone}
	}

	snap := Snapshot{
		BalanceDue:     balanceDue(m.PlanPrice, m.AmountPaid),
		PercentPaid:    percentPaid(m.PlanPrice, m.AmountPaid),
		PercentElapsed: percentElapsed(m.StartDate, m.EndDate, now),
		DaysRemaining:  core.DaysUntil(now, core.DateOf(m.EndDate)),
	}

	switch {
	case core.DateOf(now).After(core.DateOf(m.EndDate)):
		snap.State = StateExpired
	case m.AmountPaid <= 0:
		snap.State = StatePending
	case m.AmountPaid < m.PlanPrice:
		snap.State = StatePartiallyPaid
	default:
		snap.State = StateCompleted
	}
	return snap
}

func balanceDue(price, paid core.Money) core.Money {
	if due := price - paid; due > 0 {
		return due
	}
	return 0
}

func percentPaid(price, paid core.Money) int {
	if price <= 0 {
		return 100
	}
	return clampPercent(math.Round(float64(paid) / float64(price) * 100))
}

// percentElapsed is the rounded fraction of the membership window consumed at
// `now`; it is 0 outside [startDate, endDate]. A single-day window
// (startDate == endDate) counts as fully consumed from its start of day.
func percentElapsed(start, end, now time.Time) int {
	start, end = core.DateOf(start), core.DateOf(end)
	if now.Before(start) || core.DateOf(now).After(end) {
		return 0
	}
	total := end.Sub(start)
	if total <= 0 {
		return 100
	}
	return clampPercent(math.Round(float64(now.Sub(start)) / float64(total) * 100))
}

func clampPercent(p float64) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return int(p)
}

// InAlertWindow reports whether the member's elapsed time sits in the
// half-open [threshold, 100) renewal window and the member is active.
func InAlertWindow(m Member, snap Snapshot, thresholdPercent int) bool {
	return m.IsActive && m.HasPlan() &&
		thresholdPercent <= snap.PercentElapsed && snap.PercentElapsed < 100
}

// SortNearExpiryFirst stably reorders members so active ones inside the alert
// window surface first; relative order is otherwise preserved.
func SortNearExpiryFirst(members []Member, now time.Time, thresholdPercent int) {
	sort.SliceStable(members, func(i, j int) bool {
		mi, mj := members[i], members[j]
		ni := InAlertWindow(mi, ComputeSnapshot(mi, now), thresholdPercent)
		nj := InAlertWindow(mj, ComputeSnapshot(mj, now), thresholdPercent)
		return ni && !nj
	})
}

// CountsByState aggregates members per derived payment state at `now`.
func CountsByState(members []Member, now time.Time) map[PaymentState]int {
	counts := make(map[PaymentState]int, len(AllStates))
	for _, m := range members {
		counts[ComputeSnapshot(m, now).State]++
	}
	return counts
}

// RevenueTotal sums every amount paid across the given members.
func RevenueTotal(members []Member) core.Money {
	var total core.Money
	for _, m := range members {
		total += m.AmountPaid
	}
	return total
}
