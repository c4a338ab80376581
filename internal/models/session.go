package models

import "time"

// Session status constants.
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// Session represents one timed play session. The rate plan columns are a
// snapshot taken from the game at start time; billing must never
// dereference the live game row.
type Session struct {
	ID          int64         `db:"id" json:"id"`
	UserID      int64         `db:"user_id" json:"user_id"`
	GameID      int64         `db:"game_id" json:"game_id"`
	Status      string        `db:"status" json:"status"`
	StartTime   time.Time     `db:"start_time" json:"start_time"`
	EndTime     *time.Time    `db:"end_time" json:"end_time,omitempty"`
	UserName    string        `db:"user_name" json:"user_name"`
	GameName    string        `db:"game_name" json:"game_name"`
	Plan        RatePlan      `json:"plan"`
	EveningPlan *RatePlan     `json:"evening_plan,omitempty"`
	BillAmount  Money         `db:"bill_amount" json:"bill_amount"`
	BillDetails *BillSnapshot `json:"bill_details,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether the session is still running.
func (s *Session) IsActive() bool {
	return s.Status == SessionStatusActive
}

// Policy builds the dual-rate policy from the session's snapshot columns.
// It is enabled only when an evening plan with a positive rate was
// snapshotted at start time.
func (s *Session) Policy(cutoverHour, cutoverMinute int) DualRatePolicy {
	policy := DualRatePolicy{
		Primary:       s.Plan,
		CutoverHour:   cutoverHour,
		CutoverMinute: cutoverMinute,
	}
	if s.EveningPlan != nil && s.EveningPlan.Amount > 0 {
		secondary := *s.EveningPlan
		policy.Secondary = &secondary
		policy.Enabled = true
	}
	return policy
}
