package repository

import (
	"context"
	"database/sql"

	"gamelounge/internal/models"
)

// ChargeRepository reads the extras audit trail. Writes happen inside the
// session-close transaction in SessionRepository.
type ChargeRepository struct {
	db *sql.DB
}

// NewChargeRepository returns repository.
func NewChargeRepository(db *sql.DB) *ChargeRepository {
	return &ChargeRepository{db: db}
}

// ListBySession returns the charge lines recorded for a session.
func (r *ChargeRepository) ListBySession(ctx context.Context, sessionID int64) ([]models.ExtraCharge, error) {
	const query = `
		SELECT id, session_id, product_id, name, unit_price, quantity, amount, created_at
		FROM extra_charges
		WHERE session_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []models.ExtraCharge
	for rows.Next() {
		var c models.ExtraCharge
		var unitPrice, amount int64
		if err := rows.Scan(&c.ID, &c.SessionID, &c.ProductID, &c.Name, &unitPrice, &c.Quantity, &amount, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.UnitPrice = models.Money(unitPrice)
		c.Amount = models.Money(amount)
		charges = append(charges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return charges, nil
}
