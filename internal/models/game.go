package models

import "time"

// Game is a playable title with its current pricing. Rate and RateType
// form the standard plan; the evening columns, when present, form the
// plan that applies after the daily cutover.
type Game struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Rate            Money     `db:"rate" json:"rate"`
	RateType        RateUnit  `db:"rate_type" json:"rate_type"`
	EveningRate     *Money    `db:"evening_rate" json:"evening_rate,omitempty"`
	EveningRateType *RateUnit `db:"evening_rate_type" json:"evening_rate_type,omitempty"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// StandardPlan returns the game's current standard plan by value.
func (g *Game) StandardPlan() RatePlan {
	return RatePlan{Name: "Standard", Amount: g.Rate, Unit: g.RateType}
}

// CurrentEveningPlan returns the game's evening plan, or nil when the
// game has single pricing.
func (g *Game) CurrentEveningPlan() *RatePlan {
	if g.EveningRate == nil || *g.EveningRate <= 0 {
		return nil
	}
	unit := g.RateType
	if g.EveningRateType != nil && g.EveningRateType.Valid() {
		unit = *g.EveningRateType
	}
	return &RatePlan{Name: "Evening", Amount: *g.EveningRate, Unit: unit}
}
