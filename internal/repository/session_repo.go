package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gamelounge/internal/models"
)

var (
	// ErrSessionNotFound indicates a missing session row.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionNotActive is returned when closing a session that already closed.
	ErrSessionNotActive = errors.New("session is not active")
)

// SessionRepository handles persistence of play sessions.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository returns repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	s.id, s.user_id, s.game_id, s.status, s.start_time, s.end_time,
	u.name, s.game_name, s.rate_name, s.rate, s.rate_type,
	s.evening_rate, s.evening_rate_type,
	s.bill_amount, s.bill_details, s.created_at, s.updated_at
`

// Start inserts a new active session carrying the rate snapshot.
func (r *SessionRepository) Start(ctx context.Context, session *models.Session) (*models.Session, error) {
	const query = `
		INSERT INTO play_sessions
			(user_id, game_id, status, start_time, game_name, rate_name, rate, rate_type, evening_rate, evening_rate_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	var eveningRate sql.NullInt64
	var eveningUnit sql.NullString
	if session.EveningPlan != nil {
		eveningRate = sql.NullInt64{Int64: int64(session.EveningPlan.Amount), Valid: true}
		eveningUnit = sql.NullString{String: string(session.EveningPlan.Unit), Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		session.UserID,
		session.GameID,
		session.Status,
		session.StartTime,
		session.GameName,
		session.Plan.Name,
		int64(session.Plan.Amount),
		string(session.Plan.Unit),
		eveningRate,
		eveningUnit,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetByID fetches a session with player and snapshot fields.
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM play_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`, sessionColumns)

	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// CloseWithBill finalizes a session and records its extras charges in one
// transaction. The session row is locked and checked; only an active
// session transitions, so concurrent closes serialize and the loser
// observes ErrSessionNotActive. If anything fails nothing is written: the
// session stays active and no charge rows exist.
func (r *SessionRepository) CloseWithBill(ctx context.Context, id int64, endTime time.Time, snapshot *models.BillSnapshot, charges []models.ExtraCharge) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM play_sessions WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}
	if status != models.SessionStatusActive {
		return ErrSessionNotActive
	}

	details, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	const closeQuery = `
		UPDATE play_sessions
		SET end_time = $2,
		    status = $3,
		    bill_amount = $4,
		    bill_details = $5,
		    updated_at = NOW()
		WHERE id = $1 AND status = $6
	`
	result, err := tx.ExecContext(ctx, closeQuery,
		id, endTime, models.SessionStatusCompleted, int64(snapshot.GrandTotal), details, models.SessionStatusActive)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSessionNotActive
	}

	const chargeQuery = `
		INSERT INTO extra_charges (session_id, product_id, name, unit_price, quantity, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	for _, charge := range charges {
		if _, err := tx.ExecContext(ctx, chargeQuery,
			id, charge.ProductID, charge.Name, int64(charge.UnitPrice), charge.Quantity, int64(charge.Amount)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SessionFilter narrows List results. Zero values mean "no filter".
type SessionFilter struct {
	UserID int64
	GameID int64
	From   time.Time
	To     time.Time
	Status string
}

// List returns sessions newest-first, optionally filtered.
func (r *SessionRepository) List(ctx context.Context, filter SessionFilter, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = 100
	}

	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.UserID != 0 {
		conds = append(conds, "s.user_id = "+arg(filter.UserID))
	}
	if filter.GameID != 0 {
		conds = append(conds, "s.game_id = "+arg(filter.GameID))
	}
	if !filter.From.IsZero() {
		conds = append(conds, "s.start_time >= "+arg(filter.From))
	}
	if !filter.To.IsZero() {
		conds = append(conds, "s.start_time <= "+arg(filter.To))
	}
	if filter.Status != "" {
		conds = append(conds, "s.status = "+arg(filter.Status))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM play_sessions s
		JOIN users u ON u.id = s.user_id
		%s
		ORDER BY s.start_time DESC
		LIMIT %s
	`, sessionColumns, where, arg(limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetActive returns currently running sessions.
func (r *SessionRepository) GetActive(ctx context.Context, limit int) ([]models.Session, error) {
	return r.List(ctx, SessionFilter{Status: models.SessionStatusActive}, limit)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var s models.Session
	var endTime sql.NullTime
	var eveningRate, billAmount sql.NullInt64
	var eveningUnit sql.NullString
	var rate int64
	var rateType string
	var details []byte

	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.GameID,
		&s.Status,
		&s.StartTime,
		&endTime,
		&s.UserName,
		&s.GameName,
		&s.Plan.Name,
		&rate,
		&rateType,
		&eveningRate,
		&eveningUnit,
		&billAmount,
		&details,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	s.Plan.Amount = models.Money(rate)
	s.Plan.Unit = models.RateUnit(rateType)
	if endTime.Valid {
		t := endTime.Time
		s.EndTime = &t
	}
	if eveningRate.Valid {
		plan := models.RatePlan{Name: "Evening", Amount: models.Money(eveningRate.Int64), Unit: s.Plan.Unit}
		if eveningUnit.Valid {
			plan.Unit = models.RateUnit(eveningUnit.String)
		}
		s.EveningPlan = &plan
	}
	if billAmount.Valid {
		s.BillAmount = models.Money(billAmount.Int64)
	}
	if len(details) > 0 {
		var snapshot models.BillSnapshot
		if err := json.Unmarshal(details, &snapshot); err != nil {
			return nil, fmt.Errorf("session %d: decode bill details: %w", s.ID, err)
		}
		s.BillDetails = &snapshot
	}
	return &s, nil
}
