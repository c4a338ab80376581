package repository

import (
	"context"
	"database/sql"
	"errors"

	"gamelounge/internal/models"
)

var (
	// ErrGameNotFound indicates a missing game row.
	ErrGameNotFound = errors.New("game not found")
	// ErrGameInUse blocks deleting a game that has sessions recorded.
	ErrGameInUse = errors.New("game has recorded sessions")
)

// GameRepository handles CRUD for games and their current pricing.
type GameRepository struct {
	db *sql.DB
}

// NewGameRepository returns repository.
func NewGameRepository(db *sql.DB) *GameRepository {
	return &GameRepository{db: db}
}

// Create inserts a game.
func (r *GameRepository) Create(ctx context.Context, game *models.Game) error {
	const query = `
		INSERT INTO games (name, rate, rate_type, evening_rate, evening_rate_type, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, NOW(), NOW())
		RETURNING id, is_active, created_at, updated_at
	`
	eveningRate, eveningUnit := eveningColumns(game)
	return r.db.QueryRowContext(ctx, query,
		game.Name, int64(game.Rate), string(game.RateType), eveningRate, eveningUnit).
		Scan(&game.ID, &game.IsActive, &game.CreatedAt, &game.UpdatedAt)
}

// Update rewrites a game's pricing. Sessions keep their snapshots, so
// this never touches historical bills.
func (r *GameRepository) Update(ctx context.Context, game *models.Game) error {
	const query = `
		UPDATE games
		SET name = $2, rate = $3, rate_type = $4, evening_rate = $5, evening_rate_type = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1
	`
	eveningRate, eveningUnit := eveningColumns(game)
	result, err := r.db.ExecContext(ctx, query,
		game.ID, game.Name, int64(game.Rate), string(game.RateType), eveningRate, eveningUnit, game.IsActive)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrGameNotFound
	}
	return nil
}

// GetByID fetches one game.
func (r *GameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	const query = `
		SELECT id, name, rate, rate_type, evening_rate, evening_rate_type, is_active, created_at, updated_at
		FROM games
		WHERE id = $1
	`
	game, err := scanGame(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

// List returns all games newest-first.
func (r *GameRepository) List(ctx context.Context) ([]models.Game, error) {
	const query = `
		SELECT id, name, rate, rate_type, evening_rate, evening_rate_type, is_active, created_at, updated_at
		FROM games
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// Delete removes a game unless sessions reference it.
func (r *GameRepository) Delete(ctx context.Context, id int64) error {
	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM play_sessions WHERE game_id = $1`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return ErrGameInUse
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrGameNotFound
	}
	return nil
}

func eveningColumns(game *models.Game) (sql.NullInt64, sql.NullString) {
	var rate sql.NullInt64
	var unit sql.NullString
	if game.EveningRate != nil {
		rate = sql.NullInt64{Int64: int64(*game.EveningRate), Valid: true}
	}
	if game.EveningRateType != nil {
		unit = sql.NullString{String: string(*game.EveningRateType), Valid: true}
	}
	return rate, unit
}

func scanGame(row rowScanner) (*models.Game, error) {
	var g models.Game
	var rate int64
	var rateType string
	var eveningRate sql.NullInt64
	var eveningUnit sql.NullString

	if err := row.Scan(&g.ID, &g.Name, &rate, &rateType, &eveningRate, &eveningUnit, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	g.Rate = models.Money(rate)
	g.RateType = models.RateUnit(rateType)
	if eveningRate.Valid {
		m := models.Money(eveningRate.Int64)
		g.EveningRate = &m
	}
	if eveningUnit.Valid {
		u := models.RateUnit(eveningUnit.String)
		g.EveningRateType = &u
	}
	return &g, nil
}
