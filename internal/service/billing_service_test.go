package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gamelounge/internal/models"
	"gamelounge/internal/repository"
)

type fakeSessionStore struct {
	sessions map[int64]*models.Session

	closeCalls    int
	closeErr      error
	savedSnapshot *models.BillSnapshot
	savedCharges  []models.ExtraCharge
	savedEnd      time.Time
}

func newFakeSessionStore(sessions ...*models.Session) *fakeSessionStore {
	store := &fakeSessionStore{sessions: make(map[int64]*models.Session)}
	for _, s := range sessions {
		store.sessions[s.ID] = s
	}
	return store
}

func (f *fakeSessionStore) GetByID(_ context.Context, id int64) (*models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionStore) CloseWithBill(_ context.Context, id int64, endTime time.Time, snapshot *models.BillSnapshot, charges []models.ExtraCharge) error {
	f.closeCalls++
	if f.closeErr != nil {
		return f.closeErr
	}
	session, ok := f.sessions[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	if session.Status != models.SessionStatusActive {
		return repository.ErrSessionNotActive
	}
	session.Status = models.SessionStatusCompleted
	session.EndTime = &endTime
	session.BillAmount = snapshot.GrandTotal
	session.BillDetails = snapshot
	f.savedSnapshot = snapshot
	f.savedCharges = charges
	f.savedEnd = endTime
	return nil
}

type fakeCatalog struct {
	products map[int64]models.Product
}

func (f *fakeCatalog) GetByIDs(_ context.Context, ids []int64) (map[int64]models.Product, error) {
	out := make(map[int64]models.Product)
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeCache struct {
	deleted []int64
	err     error
}

func (f *fakeCache) Delete(_ context.Context, sessionID int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, sessionID)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testSession(id int64, start time.Time, eveningRate models.Money) *models.Session {
	session := &models.Session{
		ID:        id,
		UserID:    7,
		GameID:    3,
		Status:    models.SessionStatusActive,
		StartTime: start,
		UserName:  "Arjun",
		GameName:  "PS5",
		Plan:      models.RatePlan{Name: "Standard", Amount: 100, Unit: models.RateUnitHourly},
	}
	if eveningRate > 0 {
		session.EveningPlan = &models.RatePlan{Name: "Evening", Amount: eveningRate, Unit: models.RateUnitHourly}
	}
	return session
}

func newTestBillingService(store *fakeSessionStore, catalog *fakeCatalog, cache *fakeCache, now time.Time) *BillingService {
	if catalog == nil {
		catalog = &fakeCatalog{products: map[int64]models.Product{}}
	}
	var cacheIface ActiveSessionCache
	if cache != nil {
		cacheIface = cache
	}
	svc := NewBillingService(store, catalog, cacheIface, nil, time.UTC, 18, 0, zap.NewNop())
	return svc.WithClock(fixedClock(now))
}

func TestCloseSessionSingleRate(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	now := start.Add(90 * time.Minute)
	store := newFakeSessionStore(testSession(1, start, 0))
	cache := &fakeCache{}
	svc := newTestBillingService(store, nil, cache, now)

	snapshot, err := svc.CloseSession(context.Background(), 1, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, models.Money(150), snapshot.GameAmount)
	assert.Equal(t, models.Money(0), snapshot.ExtrasTotal)
	assert.Equal(t, snapshot.GameAmount+snapshot.ExtrasTotal, snapshot.GrandTotal)
	assert.False(t, snapshot.HasDualPricing)
	assert.Len(t, snapshot.Breakdown, 1)
	assert.Equal(t, now, store.savedEnd)
	assert.Equal(t, []int64{1}, cache.deleted)
	assert.Equal(t, models.SessionStatusCompleted, store.sessions[1].Status)
}

func TestCloseSessionDualRateWithExtras(t *testing.T) {
	start := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 19, 30, 0, 0, time.UTC)
	store := newFakeSessionStore(testSession(1, start, 150))
	catalog := &fakeCatalog{products: map[int64]models.Product{
		10: {ID: 10, Name: "Coke", Price: 40, IsActive: true},
	}}
	svc := newTestBillingService(store, catalog, nil, now)

	extras := []models.ExtraLineItem{
		{ProductID: 10, Quantity: 2},
		{ProductID: 99, Quantity: 1}, // unknown, dropped
	}
	snapshot, err := svc.CloseSession(context.Background(), 1, extras, nil)
	require.NoError(t, err)

	// 1h at 100 before cutover, 1.5h at 150 after
	assert.Equal(t, models.Money(325), snapshot.GameAmount)
	assert.Equal(t, models.Money(80), snapshot.ExtrasTotal)
	assert.Equal(t, models.Money(405), snapshot.GrandTotal)
	assert.True(t, snapshot.HasDualPricing)
	assert.True(t, snapshot.OverlapsCutover)
	assert.Equal(t, int64(3600), snapshot.BeforeCutoverSec)
	assert.Equal(t, int64(5400), snapshot.AfterCutoverSec)
	assert.Len(t, snapshot.Breakdown, 2)

	require.Len(t, store.savedCharges, 1)
	charge := store.savedCharges[0]
	assert.Equal(t, int64(10), charge.ProductID)
	assert.Equal(t, 2, charge.Quantity)
	assert.Equal(t, models.Money(80), charge.Amount)
}

func TestCloseSessionEndOverride(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	now := start.Add(5 * time.Hour)
	override := start.Add(time.Hour)
	store := newFakeSessionStore(testSession(1, start, 0))
	svc := newTestBillingService(store, nil, nil, now)

	snapshot, err := svc.CloseSession(context.Background(), 1, nil, &override)
	require.NoError(t, err)

	assert.Equal(t, models.Money(100), snapshot.GameAmount)
	assert.Equal(t, override, store.savedEnd)
}

func TestCloseSessionAlreadyClosed(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	now := start.Add(time.Hour)
	session := testSession(1, start, 0)
	store := newFakeSessionStore(session)
	svc := newTestBillingService(store, nil, nil, now)

	_, err := svc.CloseSession(context.Background(), 1, nil, nil)
	require.NoError(t, err)
	firstSnapshot := store.sessions[1].BillDetails

	_, err = svc.WithClock(fixedClock(now.Add(time.Hour))).CloseSession(context.Background(), 1, nil, nil)
	assert.ErrorIs(t, err, repository.ErrSessionNotActive)

	// losing close must not touch the stored bill
	assert.Same(t, firstSnapshot, store.sessions[1].BillDetails)
	assert.Equal(t, 2, store.closeCalls)
}

func TestCloseSessionNotFound(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestBillingService(store, nil, nil, time.Now())

	_, err := svc.CloseSession(context.Background(), 42, nil, nil)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	assert.Zero(t, store.closeCalls)
}

func TestCloseSessionPersistenceFailureLeavesActive(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	store := newFakeSessionStore(testSession(1, start, 0))
	store.closeErr = errors.New("connection reset")
	cache := &fakeCache{}
	svc := newTestBillingService(store, nil, cache, start.Add(time.Hour))

	_, err := svc.CloseSession(context.Background(), 1, nil, nil)
	require.Error(t, err)

	assert.Equal(t, models.SessionStatusActive, store.sessions[1].Status)
	assert.Nil(t, store.sessions[1].BillDetails)
	assert.Empty(t, cache.deleted)
}

func TestCloseSessionCacheFailureIsNonFatal(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	store := newFakeSessionStore(testSession(1, start, 0))
	cache := &fakeCache{err: errors.New("redis down")}
	svc := newTestBillingService(store, nil, cache, start.Add(time.Hour))

	_, err := svc.CloseSession(context.Background(), 1, nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.SessionStatusCompleted, store.sessions[1].Status)
}

func TestCloseSessionUsesSnapshotNotLiveGame(t *testing.T) {
	// the session snapshotted 100/hour; whatever the game row says now is
	// irrelevant because the service only ever reads the session
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	session := testSession(1, start, 0)
	session.Plan.Amount = 100
	store := newFakeSessionStore(session)
	svc := newTestBillingService(store, nil, nil, start.Add(2*time.Hour))

	snapshot, err := svc.CloseSession(context.Background(), 1, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.Money(200), snapshot.GameAmount)
}

func TestPreviewAmountDoesNotWrite(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	store := newFakeSessionStore(testSession(1, start, 0))
	svc := newTestBillingService(store, nil, nil, start.Add(30*time.Minute))

	amount, breakdown, err := svc.PreviewAmount(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, models.Money(50), amount)
	assert.Len(t, breakdown, 1)
	assert.Zero(t, store.closeCalls)
	assert.Equal(t, models.SessionStatusActive, store.sessions[1].Status)
}

func TestPreviewAmountMatchesCloseAtSameInstant(t *testing.T) {
	start := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 19, 15, 0, 0, time.UTC)
	store := newFakeSessionStore(testSession(1, start, 150))
	svc := newTestBillingService(store, nil, nil, now)

	previewAmount, _, err := svc.PreviewAmount(context.Background(), 1)
	require.NoError(t, err)

	snapshot, err := svc.CloseSession(context.Background(), 1, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, snapshot.GameAmount, previewAmount)
}

func TestPreviewAmountClosedSessionUsesStoredSnapshot(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	store := newFakeSessionStore(testSession(1, start, 0))
	svc := newTestBillingService(store, nil, nil, start.Add(time.Hour))

	snapshot, err := svc.CloseSession(context.Background(), 1, nil, nil)
	require.NoError(t, err)

	// preview long after close must return the stored amount, not a
	// recomputation at the later clock
	later := svc.WithClock(fixedClock(start.Add(48 * time.Hour)))
	amount, _, err := later.PreviewAmount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, snapshot.GameAmount, amount)
}

func TestReceiptOngoingSession(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	now := start.Add(83*time.Minute + 45*time.Second)
	store := newFakeSessionStore(testSession(1, start, 0))
	svc := newTestBillingService(store, nil, nil, now)

	receipt, err := svc.Receipt(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, receipt.Ongoing)
	assert.Equal(t, "Arjun", receipt.Player)
	assert.Equal(t, "PS5", receipt.Game)
	assert.Equal(t, "1h 23m 45s", receipt.Duration)
	assert.Equal(t, receipt.GameAmount+receipt.ExtrasTotal, receipt.GrandTotal)
	assert.Zero(t, store.closeCalls)
}

func TestReceiptClosedSession(t *testing.T) {
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	now := start.Add(time.Hour)
	store := newFakeSessionStore(testSession(1, start, 0))
	svc := newTestBillingService(store, nil, nil, now)

	snapshot, err := svc.CloseSession(context.Background(), 1, nil, nil)
	require.NoError(t, err)

	receipt, err := svc.Receipt(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, receipt.Ongoing)
	assert.Equal(t, snapshot.GrandTotal, receipt.GrandTotal)
	assert.Equal(t, now, receipt.EndTime)
	assert.Equal(t, "1h 0m 0s", receipt.Duration)
}
