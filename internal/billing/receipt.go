package billing

import (
	"fmt"
	"time"

	"gamelounge/internal/models"
)

// ReceiptData is the structured form of a bill used by printing and
// export. It is a projection of a stored snapshot: building it performs
// no new money computation.
type ReceiptData struct {
	SessionID int64                    `json:"session_id"`
	Player    string                   `json:"player"`
	Game      string                   `json:"game"`
	StartTime time.Time                `json:"start_time"`
	EndTime   time.Time                `json:"end_time"`
	Duration  string                   `json:"duration"`
	Breakdown []models.SubPeriod       `json:"breakdown"`
	Extras    []models.ExtraLineResult `json:"extras,omitempty"`

	GameAmount  models.Money `json:"game_amount"`
	ExtrasTotal models.Money `json:"extras_total"`
	GrandTotal  models.Money `json:"grand_total"`
	Ongoing     bool         `json:"ongoing"`
}

// Receipt projects a session and its bill snapshot into printable form.
// For an ongoing session the caller passes a preview snapshot and the
// instant it was computed at; end is then that instant.
func Receipt(session *models.Session, snapshot *models.BillSnapshot, end time.Time) ReceiptData {
	return ReceiptData{
		SessionID:   session.ID,
		Player:      session.UserName,
		Game:        session.GameName,
		StartTime:   session.StartTime,
		EndTime:     end,
		Duration:    FormatDuration(session.StartTime, end),
		Breakdown:   snapshot.Breakdown,
		Extras:      snapshot.Extras,
		GameAmount:  snapshot.GameAmount,
		ExtrasTotal: snapshot.ExtrasTotal,
		GrandTotal:  snapshot.GrandTotal,
		Ongoing:     session.IsActive(),
	}
}

// FormatDuration renders elapsed time as "1h 23m 45s".
func FormatDuration(start, end time.Time) string {
	if end.Before(start) {
		end = start
	}
	total := int64(end.Sub(start) / time.Second)
	return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
}
