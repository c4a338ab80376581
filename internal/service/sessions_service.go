package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"gamelounge/internal/metrics"
	"gamelounge/internal/models"
	redisstore "gamelounge/internal/redis"
	"gamelounge/internal/repository"
)

// ErrGameInactive blocks starting a session on a deactivated game.
var ErrGameInactive = errors.New("game is not active")

// SessionsService starts sessions and serves session history. Starting a
// session snapshots the game's current plans into the session row; from
// that point billing never reads the live game again.
type SessionsService struct {
	sessions    *repository.SessionRepository
	users       *repository.UserRepository
	games       *repository.GameRepository
	activeStore *redisstore.Store
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewSessionsService builds service. activeStore and m may be nil.
func NewSessionsService(
	sessions *repository.SessionRepository,
	users *repository.UserRepository,
	games *repository.GameRepository,
	activeStore *redisstore.Store,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SessionsService {
	return &SessionsService{
		sessions:    sessions,
		users:       users,
		games:       games,
		activeStore: activeStore,
		metrics:     m,
		logger:      logger,
	}
}

// StartSessionInput carries the start request.
type StartSessionInput struct {
	UserID    int64
	GameID    int64
	StartTime time.Time
}

// Start creates an active session with the game's plans copied in.
func (s *SessionsService) Start(ctx context.Context, input StartSessionInput) (*models.Session, error) {
	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	game, err := s.games.GetByID(ctx, input.GameID)
	if err != nil {
		return nil, err
	}
	if !game.IsActive {
		return nil, ErrGameInactive
	}

	startTime := input.StartTime
	if startTime.IsZero() {
		startTime = time.Now().UTC()
	}

	session := &models.Session{
		UserID:      user.ID,
		GameID:      game.ID,
		Status:      models.SessionStatusActive,
		StartTime:   startTime.UTC(),
		UserName:    user.Name,
		GameName:    game.Name,
		Plan:        game.StandardPlan(),
		EveningPlan: game.CurrentEveningPlan(),
	}

	session, err = s.sessions.Start(ctx, session)
	if err != nil {
		return nil, err
	}

	if s.activeStore != nil {
		cacheErr := s.activeStore.Save(ctx, redisstore.ActiveSession{
			SessionID:   session.ID,
			UserName:    session.UserName,
			GameName:    session.GameName,
			StartTime:   session.StartTime,
			Plan:        session.Plan,
			EveningPlan: session.EveningPlan,
		})
		if cacheErr != nil {
			s.logger.Warn("failed to cache active session", zap.Error(cacheErr))
		}
	}
	if s.metrics != nil {
		s.metrics.SessionsStarted.Inc()
	}

	s.logger.Info("session started",
		zap.Int64("session_id", session.ID),
		zap.Int64("user_id", user.ID),
		zap.Int64("game_id", game.ID),
		zap.Int64("rate", int64(session.Plan.Amount)),
		zap.String("rate_type", string(session.Plan.Unit)),
	)
	return session, nil
}

// List returns session history, newest-first, with optional filters.
func (s *SessionsService) List(ctx context.Context, filter repository.SessionFilter, limit int) ([]models.Session, error) {
	return s.sessions.List(ctx, filter, limit)
}

// Active returns currently running sessions.
func (s *SessionsService) Active(ctx context.Context, limit int) ([]models.Session, error) {
	return s.sessions.GetActive(ctx, limit)
}

// Get returns one session.
func (s *SessionsService) Get(ctx context.Context, id int64) (*models.Session, error) {
	return s.sessions.GetByID(ctx, id)
}
