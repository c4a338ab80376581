package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"gamelounge/internal/models"
	"gamelounge/internal/repository"
)

// Validation errors surfaced to the API layer.
var (
	ErrNameRequired = errors.New("catalog: name required")
	ErrBadRate      = errors.New("catalog: rate must be non-negative")
	ErrBadRateUnit  = errors.New("catalog: unsupported rate unit")
)

// CatalogService maintains the games, products and players the billing
// engine prices against.
type CatalogService struct {
	games    *repository.GameRepository
	products *repository.ProductRepository
	users    *repository.UserRepository
	logger   *zap.Logger
}

// NewCatalogService builds service.
func NewCatalogService(
	games *repository.GameRepository,
	products *repository.ProductRepository,
	users *repository.UserRepository,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		games:    games,
		products: products,
		users:    users,
		logger:   logger,
	}
}

// CreateGame validates and stores a game.
func (s *CatalogService) CreateGame(ctx context.Context, game *models.Game) error {
	if err := validateGame(game); err != nil {
		return err
	}
	if err := s.games.Create(ctx, game); err != nil {
		return err
	}
	s.logger.Info("game created", zap.Int64("game_id", game.ID), zap.String("name", game.Name))
	return nil
}

// UpdateGame validates and rewrites a game's pricing. Existing session
// snapshots are unaffected.
func (s *CatalogService) UpdateGame(ctx context.Context, game *models.Game) error {
	if err := validateGame(game); err != nil {
		return err
	}
	return s.games.Update(ctx, game)
}

// DeleteGame removes a game without recorded sessions.
func (s *CatalogService) DeleteGame(ctx context.Context, id int64) error {
	return s.games.Delete(ctx, id)
}

// ListGames returns all games.
func (s *CatalogService) ListGames(ctx context.Context) ([]models.Game, error) {
	return s.games.List(ctx)
}

// CreateProduct validates and stores a product.
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return ErrNameRequired
	}
	if product.Price < 0 {
		return ErrBadRate
	}
	return s.products.Create(ctx, product)
}

// UpdateProduct rewrites a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return ErrNameRequired
	}
	if product.Price < 0 {
		return ErrBadRate
	}
	return s.products.Update(ctx, product)
}

// DeactivateProduct soft-deletes a product.
func (s *CatalogService) DeactivateProduct(ctx context.Context, id int64) error {
	return s.products.Deactivate(ctx, id)
}

// ListProducts returns sellable products.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.products.ListActive(ctx)
}

// CreateUser stores a player.
func (s *CatalogService) CreateUser(ctx context.Context, user *models.User) error {
	user.Name = strings.TrimSpace(user.Name)
	if user.Name == "" {
		return ErrNameRequired
	}
	return s.users.Create(ctx, user)
}

// ListUsers returns active players.
func (s *CatalogService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.ListActive(ctx)
}

func validateGame(game *models.Game) error {
	game.Name = strings.TrimSpace(game.Name)
	if game.Name == "" {
		return ErrNameRequired
	}
	if game.Rate < 0 {
		return ErrBadRate
	}
	if !game.RateType.Valid() {
		return ErrBadRateUnit
	}
	if game.EveningRateType != nil && !game.EveningRateType.Valid() {
		return ErrBadRateUnit
	}
	if game.EveningRate != nil && *game.EveningRate < 0 {
		return ErrBadRate
	}
	return nil
}
