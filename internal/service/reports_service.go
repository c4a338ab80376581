package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"gamelounge/internal/billing"
	"gamelounge/internal/models"
	"gamelounge/internal/repository"
)

// ReportsService exports session logs. Amounts come from the stored bill
// snapshots; the export never re-runs the calculator.
type ReportsService struct {
	sessions *repository.SessionRepository
	charges  *repository.ChargeRepository
}

// NewReportsService builds service.
func NewReportsService(sessions *repository.SessionRepository, charges *repository.ChargeRepository) *ReportsService {
	return &ReportsService{sessions: sessions, charges: charges}
}

// SessionsXLSX renders closed sessions matching the filter into an XLSX
// workbook: one sheet of sessions with a trailing revenue total, plus an
// extras sheet itemizing the recorded charge lines.
func (s *ReportsService) SessionsXLSX(ctx context.Context, filter repository.SessionFilter) ([]byte, error) {
	filter.Status = models.SessionStatusCompleted
	sessions, err := s.sessions.List(ctx, filter, 10000)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"date", "player", "game", "start_time", "end_time", "duration",
		"game_amount", "extras_total", "grand_total",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	var revenue models.Money
	row := 2
	for _, session := range sessions {
		if session.EndTime == nil || session.BillDetails == nil {
			continue
		}
		bill := session.BillDetails
		revenue += bill.GrandTotal

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			session.StartTime.Format("2006-01-02"),
			session.UserName,
			session.GameName,
			session.StartTime.Format("15:04:05"),
			session.EndTime.Format("15:04:05"),
			billing.FormatDuration(session.StartTime, *session.EndTime),
			int64(bill.GameAmount),
			int64(bill.ExtrasTotal),
			int64(bill.GrandTotal),
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
		row++
	}

	totalCell, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return nil, err
	}
	totalRow := []interface{}{fmt.Sprintf("total revenue (%d sessions)", row-2), "", "", "", "", "", "", "", int64(revenue)}
	if err := f.SetSheetRow(sheet, totalCell, &totalRow); err != nil {
		return nil, err
	}

	if err := s.writeExtrasSheet(ctx, f, sessions); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ReportsService) writeExtrasSheet(ctx context.Context, f *excelize.File, sessions []models.Session) error {
	const sheet = "Extras"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"session_id", "player", "product", "unit_price", "quantity", "amount"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	row := 2
	for _, session := range sessions {
		charges, err := s.charges.ListBySession(ctx, session.ID)
		if err != nil {
			return err
		}
		for _, charge := range charges {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			values := []interface{}{
				charge.SessionID,
				session.UserName,
				charge.Name,
				int64(charge.UnitPrice),
				charge.Quantity,
				int64(charge.Amount),
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}
