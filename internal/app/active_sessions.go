package app

import (
	"context"

	"go.uber.org/zap"

	"gamelounge/internal/models"
	redisstore "gamelounge/internal/redis"
	"gamelounge/internal/repository"
)

// activeSessions feeds the live broadcaster. The Redis cache is the fast
// path; when it is cold (server restart, flushed cache) the sessions
// table is the source of truth.
type activeSessions struct {
	cache    *redisstore.Store
	sessions *repository.SessionRepository
	logger   *zap.Logger
}

func (a *activeSessions) List(ctx context.Context) ([]redisstore.ActiveSession, error) {
	cached, err := a.cache.List(ctx)
	if err != nil {
		a.logger.Warn("active session cache unavailable, falling back to db", zap.Error(err))
	} else if len(cached) > 0 {
		return cached, nil
	}

	rows, err := a.sessions.GetActive(ctx, 0)
	if err != nil {
		return nil, err
	}

	out := make([]redisstore.ActiveSession, 0, len(rows))
	for _, s := range rows {
		out = append(out, toActiveSession(s))
	}
	return out, nil
}

func toActiveSession(s models.Session) redisstore.ActiveSession {
	return redisstore.ActiveSession{
		SessionID:   s.ID,
		UserName:    s.UserName,
		GameName:    s.GameName,
		StartTime:   s.StartTime,
		Plan:        s.Plan,
		EveningPlan: s.EveningPlan,
	}
}
