package models

// RateUnit is the time unit a rate is quoted against. The literals match
// the rate_type column and the JSON wire format.
type RateUnit string

const (
	RateUnitHourly     RateUnit = "hour"
	RateUnitHalfHourly RateUnit = "30min"
)

// Valid reports whether the unit is one of the two supported literals.
func (u RateUnit) Valid() bool {
	return u == RateUnitHourly || u == RateUnitHalfHourly
}

// Seconds returns the unit length in seconds.
func (u RateUnit) Seconds() int64 {
	if u == RateUnitHalfHourly {
		return 1800
	}
	return 3600
}

// RatePlan is a named price per unit of play time. Plans are copied by
// value into a session when it starts, so later edits to a game never
// change historical bills.
type RatePlan struct {
	Name   string   `json:"name"`
	Amount Money    `json:"amount"`
	Unit   RateUnit `json:"unit"`
}

// DualRatePolicy selects between a primary plan and an optional evening
// plan that takes over at a fixed wall-clock cutover.
type DualRatePolicy struct {
	Enabled       bool      `json:"enabled"`
	Primary       RatePlan  `json:"primary"`
	Secondary     *RatePlan `json:"secondary,omitempty"`
	CutoverHour   int       `json:"cutover_hour"`
	CutoverMinute int       `json:"cutover_minute"`
}
