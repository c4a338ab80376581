package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gamelounge/internal/billing"
	"gamelounge/internal/metrics"
	"gamelounge/internal/models"
)

// SessionStore is the session persistence contract the assembler needs:
// read one session, and close it atomically together with its charges.
type SessionStore interface {
	GetByID(ctx context.Context, id int64) (*models.Session, error)
	CloseWithBill(ctx context.Context, id int64, endTime time.Time, snapshot *models.BillSnapshot, charges []models.ExtraCharge) error
}

// ProductCatalog resolves products for extras pricing.
type ProductCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error)
}

// ActiveSessionCache is the close-time hook into the live-session cache.
type ActiveSessionCache interface {
	Delete(ctx context.Context, sessionID int64) error
}

// BillingService assembles bills: it runs the pure engine over a
// session's snapshot policy and persists the result. The clock is a
// field so tests and previews share one code path with deterministic
// time.
type BillingService struct {
	sessions SessionStore
	products ProductCatalog
	cache    ActiveSessionCache
	metrics  *metrics.Metrics
	logger   *zap.Logger

	now           func() time.Time
	loc           *time.Location
	cutoverHour   int
	cutoverMinute int
}

// NewBillingService builds the assembler. cache and m may be nil.
func NewBillingService(
	sessions SessionStore,
	products ProductCatalog,
	cache ActiveSessionCache,
	m *metrics.Metrics,
	loc *time.Location,
	cutoverHour, cutoverMinute int,
	logger *zap.Logger,
) *BillingService {
	return &BillingService{
		sessions:      sessions,
		products:      products,
		cache:         cache,
		metrics:       m,
		logger:        logger,
		now:           time.Now,
		loc:           loc,
		cutoverHour:   cutoverHour,
		cutoverMinute: cutoverMinute,
	}
}

// WithClock replaces the wall clock. Tests use it; production code never
// should.
func (s *BillingService) WithClock(now func() time.Time) *BillingService {
	s.now = now
	return s
}

// CloseSession computes the final bill for an active session and
// persists the close plus one charge row per accepted extras line as a
// single transaction. A session that is not active fails with
// ErrSessionNotActive and nothing is written; a persistence failure
// leaves the session active so the operator can retry without double
// billing.
func (s *BillingService) CloseSession(ctx context.Context, sessionID int64, extras []models.ExtraLineItem, endOverride *time.Time) (*models.BillSnapshot, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	end := s.now()
	if endOverride != nil && !endOverride.IsZero() {
		end = *endOverride
	}

	snapshot, charges, dropped, err := s.assemble(ctx, session, extras, end)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.CloseWithBill(ctx, sessionID, end, snapshot, charges); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("failed to evict active session cache", zap.Int64("session_id", sessionID), zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.SessionsClosed.Inc()
		s.metrics.Revenue.Add(float64(snapshot.GrandTotal))
		if dropped > 0 {
			s.metrics.ExtrasDropped.Add(float64(dropped))
		}
	}

	s.logger.Info("session closed",
		zap.Int64("session_id", sessionID),
		zap.Int64("game_amount", int64(snapshot.GameAmount)),
		zap.Int64("extras_total", int64(snapshot.ExtrasTotal)),
		zap.Int64("grand_total", int64(snapshot.GrandTotal)),
		zap.Bool("overlaps_cutover", snapshot.OverlapsCutover),
	)
	return snapshot, nil
}

// PreviewAmount returns the running total for a session as of now,
// without persisting anything. It runs the same engine as CloseSession,
// so the displayed amount matches the eventual bill at the instant of
// close. Closed sessions answer from their stored snapshot.
func (s *BillingService) PreviewAmount(ctx context.Context, sessionID int64) (models.Money, []models.SubPeriod, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return 0, nil, err
	}

	if !session.IsActive() && session.BillDetails != nil {
		return session.BillDetails.GameAmount, session.BillDetails.Breakdown, nil
	}

	policy := session.Policy(s.cutoverHour, s.cutoverMinute)
	amount, breakdown, _ := billing.Compose(policy, session.StartTime, s.now(), s.loc)
	return amount, breakdown, nil
}

// Receipt projects a session's bill into printable form. A closed
// session uses its immutable snapshot; an active one gets a live
// preview receipt computed at now.
func (s *BillingService) Receipt(ctx context.Context, sessionID int64) (*billing.ReceiptData, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.IsActive() && session.BillDetails != nil && session.EndTime != nil {
		data := billing.Receipt(session, session.BillDetails, *session.EndTime)
		return &data, nil
	}

	now := s.now()
	snapshot, _, _, err := s.assemble(ctx, session, nil, now)
	if err != nil {
		return nil, err
	}
	data := billing.Receipt(session, snapshot, now)
	return &data, nil
}

func (s *BillingService) assemble(ctx context.Context, session *models.Session, extras []models.ExtraLineItem, end time.Time) (*models.BillSnapshot, []models.ExtraCharge, int, error) {
	policy := session.Policy(s.cutoverHour, s.cutoverMinute)
	gameAmount, breakdown, split := billing.Compose(policy, session.StartTime, end, s.loc)

	var extrasTotal models.Money
	var detail []models.ExtraLineResult
	if len(extras) > 0 {
		ids := make([]int64, 0, len(extras))
		seen := make(map[int64]bool, len(extras))
		for _, line := range extras {
			if !seen[line.ProductID] {
				seen[line.ProductID] = true
				ids = append(ids, line.ProductID)
			}
		}
		catalog, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, nil, 0, err
		}
		extrasTotal, detail = billing.PriceExtras(extras, catalog)
	}

	snapshot := &models.BillSnapshot{
		GameAmount:       gameAmount,
		Breakdown:        breakdown,
		ExtrasTotal:      extrasTotal,
		Extras:           detail,
		GrandTotal:       gameAmount + extrasTotal,
		HasDualPricing:   policy.Enabled,
		OverlapsCutover:  split.Overlaps,
		BeforeCutoverSec: split.BeforeSec,
		AfterCutoverSec:  split.AfterSec,
	}

	charges := make([]models.ExtraCharge, 0, len(detail))
	for _, line := range detail {
		charges = append(charges, models.ExtraCharge{
			SessionID: session.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Amount:    line.LineTotal,
		})
	}

	return snapshot, charges, len(extras) - len(detail), nil
}
