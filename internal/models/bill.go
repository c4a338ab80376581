package models

import "time"

// SubPeriod is a contiguous slice of a session billed at one rate.
type SubPeriod struct {
	Label       string    `json:"label"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	DurationSec int64     `json:"duration_sec"`
	Rate        Money     `json:"rate"`
	Unit        RateUnit  `json:"unit"`
	Amount      Money     `json:"amount"`
}

// Sub-period labels. A breakdown holds one entry per non-empty side of
// the cutover.
const (
	SubPeriodStandard = "standard"
	SubPeriodEvening  = "evening"
)

// ExtraLineItem is a requested product sale attached to a session close.
type ExtraLineItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ExtraLineResult is a priced, accepted extras line.
type ExtraLineResult struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice Money  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal Money  `json:"line_total"`
}

// BillSnapshot is the immutable record of how a session's charge was
// computed. It is stored as a single jsonb column on the session and is
// the only source of truth for receipts and reports; it is never
// recomputed after the session closes.
type BillSnapshot struct {
	GameAmount       Money             `json:"game_amount"`
	Breakdown        []SubPeriod       `json:"breakdown"`
	ExtrasTotal      Money             `json:"extras_total"`
	Extras           []ExtraLineResult `json:"extras,omitempty"`
	GrandTotal       Money             `json:"grand_total"`
	HasDualPricing   bool              `json:"has_dual_pricing"`
	OverlapsCutover  bool              `json:"overlaps_cutover"`
	BeforeCutoverSec int64             `json:"before_cutover_sec"`
	AfterCutoverSec  int64             `json:"after_cutover_sec"`
}

// ExtraCharge is the persisted audit row for one accepted extras line.
type ExtraCharge struct {
	ID        int64     `db:"id" json:"id"`
	SessionID int64     `db:"session_id" json:"session_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Name      string    `db:"name" json:"name"`
	UnitPrice Money     `db:"unit_price" json:"unit_price"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Amount    Money     `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
