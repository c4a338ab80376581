package billing

import (
	"testing"
	"time"

	"gamelounge/internal/models"
)

func TestAmountFor(t *testing.T) {
	hourly := func(rate models.Money) models.RatePlan {
		return models.RatePlan{Name: "Standard", Amount: rate, Unit: models.RateUnitHourly}
	}
	halfHourly := func(rate models.Money) models.RatePlan {
		return models.RatePlan{Name: "Standard", Amount: rate, Unit: models.RateUnitHalfHourly}
	}

	tests := []struct {
		name        string
		durationSec int64
		plan        models.RatePlan
		want        models.Money
	}{
		{"one full hour at hourly rate", 3600, hourly(100), 100},
		{"ninety minutes at hourly rate", 5400, hourly(100), 150},
		{"one minute at hourly rate", 60, hourly(120), 2},
		{"half-up rounds 2.5 to 3", 90, hourly(100), 3},
		{"just below half rounds down", 89, hourly(100), 2},
		{"one half-hour unit", 1800, halfHourly(60), 60},
		{"45 minutes at half-hourly rate", 2700, halfHourly(60), 90},
		{"one second at half-hourly rate", 1, halfHourly(60), 0},
		{"zero duration", 0, hourly(100), 0},
		{"negative duration", -60, hourly(100), 0},
		{"zero rate", 3600, hourly(0), 0},
		{"negative rate", 3600, hourly(-50), 0},
		{"long session no compounding", 10 * 3600, hourly(150), 1500},
		{"49 minutes at 1400 per hour", 2940, hourly(1400), 1143},
		{"45 minutes at 100 per half hour", 2700, halfHourly(100), 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AmountFor(tt.durationSec, tt.plan); got != tt.want {
				t.Errorf("AmountFor(%d, %+v) = %d, want %d", tt.durationSec, tt.plan, got, tt.want)
			}
		})
	}
}

func TestAmountForMonotonic(t *testing.T) {
	plan := models.RatePlan{Name: "Standard", Amount: 137, Unit: models.RateUnitHourly}

	var prev models.Money
	for durSec := int64(0); durSec <= 7200; durSec += 13 {
		got := AmountFor(durSec, plan)
		if got < prev {
			t.Fatalf("amount decreased: %d seconds priced %d, shorter priced %d", durSec, got, prev)
		}
		prev = got
	}
}

func TestComposeSingleRate(t *testing.T) {
	plan := models.RatePlan{Name: "Standard", Amount: 100, Unit: models.RateUnitHourly}
	policy := models.DualRatePolicy{Primary: plan}
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	amount, breakdown, info := Compose(policy, start, end, time.UTC)

	if want := AmountFor(5400, plan); amount != want {
		t.Errorf("amount = %d, want %d", amount, want)
	}
	if len(breakdown) != 1 {
		t.Fatalf("breakdown length = %d, want 1", len(breakdown))
	}
	p := breakdown[0]
	if p.Label != models.SubPeriodStandard || p.DurationSec != 5400 || p.Amount != amount {
		t.Errorf("unexpected sub-period %+v", p)
	}
	if info.BeforeSec != 5400 || info.AfterSec != 0 || info.Overlaps {
		t.Errorf("unexpected split info %+v", info)
	}
}

func TestComposeDualRate(t *testing.T) {
	day := models.RatePlan{Name: "Standard", Amount: 100, Unit: models.RateUnitHourly}
	evening := models.RatePlan{Name: "Evening", Amount: 150, Unit: models.RateUnitHourly}
	policy := models.DualRatePolicy{
		Enabled:     true,
		Primary:     day,
		Secondary:   &evening,
		CutoverHour: 18,
	}

	t.Run("straddles cutover", func(t *testing.T) {
		start := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)
		end := time.Date(2025, 3, 10, 19, 30, 0, 0, time.UTC)

		amount, breakdown, info := Compose(policy, start, end, time.UTC)

		if len(breakdown) != 2 {
			t.Fatalf("breakdown length = %d, want 2", len(breakdown))
		}
		first, second := breakdown[0], breakdown[1]
		if first.Label != models.SubPeriodStandard || first.DurationSec != 3600 {
			t.Errorf("first sub-period %+v", first)
		}
		if second.Label != models.SubPeriodEvening || second.DurationSec != 5400 {
			t.Errorf("second sub-period %+v", second)
		}
		// 1h at 100 plus 1.5h at 150
		if want := models.Money(100 + 225); amount != want {
			t.Errorf("amount = %d, want %d", amount, want)
		}
		if amount != first.Amount+second.Amount {
			t.Errorf("amount %d != sum of sub-periods %d", amount, first.Amount+second.Amount)
		}
		if !info.Overlaps || info.BeforeSec != 3600 || info.AfterSec != 5400 {
			t.Errorf("split info %+v", info)
		}
		if !first.To.Equal(second.From) {
			t.Errorf("sub-periods not contiguous: %v vs %v", first.To, second.From)
		}
	})

	t.Run("half hour each side of cutover", func(t *testing.T) {
		steep := models.DualRatePolicy{
			Enabled:     true,
			Primary:     models.RatePlan{Name: "Standard", Amount: 1000, Unit: models.RateUnitHourly},
			Secondary:   &models.RatePlan{Name: "Evening", Amount: 2000, Unit: models.RateUnitHourly},
			CutoverHour: 18,
		}
		start := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
		end := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

		amount, breakdown, info := Compose(steep, start, end, time.UTC)

		if amount != 1500 {
			t.Errorf("amount = %d, want 1500", amount)
		}
		if len(breakdown) != 2 || breakdown[0].Amount != 500 || breakdown[1].Amount != 1000 {
			t.Errorf("breakdown %+v", breakdown)
		}
		if !info.Overlaps {
			t.Error("overlaps should be true")
		}
	})

	t.Run("entirely before cutover omits evening period", func(t *testing.T) {
		start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
		end := start.Add(time.Hour)

		amount, breakdown, info := Compose(policy, start, end, time.UTC)

		if len(breakdown) != 1 || breakdown[0].Label != models.SubPeriodStandard {
			t.Fatalf("breakdown %+v", breakdown)
		}
		if amount != 100 {
			t.Errorf("amount = %d, want 100", amount)
		}
		if info.Overlaps {
			t.Error("overlaps should be false")
		}
	})

	t.Run("entirely after cutover omits standard period", func(t *testing.T) {
		start := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
		end := start.Add(2 * time.Hour)

		amount, breakdown, _ := Compose(policy, start, end, time.UTC)

		if len(breakdown) != 1 || breakdown[0].Label != models.SubPeriodEvening {
			t.Fatalf("breakdown %+v", breakdown)
		}
		if amount != 300 {
			t.Errorf("amount = %d, want 300", amount)
		}
	})

	t.Run("zero-length session keeps one zero sub-period", func(t *testing.T) {
		start := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

		amount, breakdown, _ := Compose(policy, start, start, time.UTC)

		if amount != 0 {
			t.Errorf("amount = %d, want 0", amount)
		}
		if len(breakdown) != 1 || breakdown[0].DurationSec != 0 {
			t.Fatalf("breakdown %+v", breakdown)
		}
	})

	t.Run("end before start clamps to zero", func(t *testing.T) {
		start := time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC)
		end := start.Add(-time.Hour)

		amount, _, info := Compose(policy, start, end, time.UTC)

		if amount != 0 || info.BeforeSec != 0 || info.AfterSec != 0 {
			t.Errorf("amount %d, info %+v", amount, info)
		}
	})
}

func TestComposeDisabledMatchesAmountFor(t *testing.T) {
	plan := models.RatePlan{Name: "Standard", Amount: 137, Unit: models.RateUnitHalfHourly}
	policy := models.DualRatePolicy{Primary: plan}
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, durSec := range []int64{1, 60, 1800, 1801, 5400, 7777} {
		end := start.Add(time.Duration(durSec) * time.Second)
		amount, _, _ := Compose(policy, start, end, time.UTC)
		if want := AmountFor(durSec, plan); amount != want {
			t.Errorf("duration %ds: Compose = %d, AmountFor = %d", durSec, amount, want)
		}
	}
}

func TestComposeMixedUnits(t *testing.T) {
	day := models.RatePlan{Name: "Standard", Amount: 100, Unit: models.RateUnitHourly}
	evening := models.RatePlan{Name: "Evening", Amount: 80, Unit: models.RateUnitHalfHourly}
	policy := models.DualRatePolicy{
		Enabled:     true,
		Primary:     day,
		Secondary:   &evening,
		CutoverHour: 18,
	}

	start := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 18, 45, 0, 0, time.UTC)

	amount, breakdown, _ := Compose(policy, start, end, time.UTC)

	// 30 minutes at 100/hour = 50, 45 minutes at 80/30min = 120
	if want := models.Money(170); amount != want {
		t.Errorf("amount = %d, want %d", amount, want)
	}
	if len(breakdown) != 2 || breakdown[0].Unit != models.RateUnitHourly || breakdown[1].Unit != models.RateUnitHalfHourly {
		t.Errorf("breakdown %+v", breakdown)
	}
}
