package billing

import (
	"math"
	"time"

	"gamelounge/internal/models"
)

// AmountFor prices a duration against a rate plan: duration/unit * rate,
// rounded half-up once on the final amount. Rounding never happens on
// intermediate per-second rates, so many short sessions do not compound
// error. A missing or negative rate prices as zero; the money path never
// fails.
func AmountFor(durationSec int64, plan models.RatePlan) models.Money {
	if durationSec <= 0 || plan.Amount <= 0 {
		return 0
	}
	unitSec := plan.Unit.Seconds()
	raw := float64(durationSec) / float64(unitSec) * float64(plan.Amount)
	return models.Money(math.Floor(raw + 0.5))
}

// Compose computes a session's game amount and its sub-period breakdown.
// With dual pricing disabled the whole duration is one standard
// sub-period. With it enabled the duration is split at the cutover on
// start's calendar day and each non-empty side is priced with its plan.
// A side of exactly zero seconds is omitted from the breakdown; a
// zero-length session still yields one zero sub-period so every bill has
// a breakdown.
func Compose(policy models.DualRatePolicy, start, end time.Time, loc *time.Location) (models.Money, []models.SubPeriod, SplitInfo) {
	if end.Before(start) {
		end = start
	}

	if !policy.Enabled || policy.Secondary == nil {
		total := int64(end.Sub(start) / time.Second)
		period := subPeriod(models.SubPeriodStandard, start, end, total, policy.Primary)
		return period.Amount, []models.SubPeriod{period}, SplitInfo{BeforeSec: total}
	}

	cutover := CutoverFor(start, policy.CutoverHour, policy.CutoverMinute, loc)
	beforeSec, afterSec, overlaps := SplitAtCutover(start, end, cutover)
	info := SplitInfo{BeforeSec: beforeSec, AfterSec: afterSec, Overlaps: overlaps}

	var breakdown []models.SubPeriod
	if beforeSec > 0 {
		to := end
		if overlaps {
			to = cutover
		}
		breakdown = append(breakdown, subPeriod(models.SubPeriodStandard, start, to, beforeSec, policy.Primary))
	}
	if afterSec > 0 {
		from := start
		if overlaps {
			from = cutover
		}
		breakdown = append(breakdown, subPeriod(models.SubPeriodEvening, from, end, afterSec, *policy.Secondary))
	}
	if len(breakdown) == 0 {
		breakdown = append(breakdown, subPeriod(models.SubPeriodStandard, start, end, 0, policy.Primary))
	}

	var total models.Money
	for _, p := range breakdown {
		total += p.Amount
	}
	return total, breakdown, info
}

// SplitInfo carries the splitter output that the bill snapshot records
// alongside the breakdown.
type SplitInfo struct {
	BeforeSec int64
	AfterSec  int64
	Overlaps  bool
}

func subPeriod(label string, from, to time.Time, durationSec int64, plan models.RatePlan) models.SubPeriod {
	return models.SubPeriod{
		Label:       label,
		From:        from,
		To:          to,
		DurationSec: durationSec,
		Rate:        plan.Amount,
		Unit:        plan.Unit,
		Amount:      AmountFor(durationSec, plan),
	}
}
