package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"gamelounge/internal/models"
)

const keyPrefix = "lounge:active:"

// ActiveSession is the cached shape of a running session: everything the
// live feed needs to recompute the current amount without touching
// Postgres on every tick.
type ActiveSession struct {
	SessionID   int64            `json:"session_id"`
	UserName    string           `json:"user_name"`
	GameName    string           `json:"game_name"`
	StartTime   time.Time        `json:"start_time"`
	Plan        models.RatePlan  `json:"plan"`
	EveningPlan *models.RatePlan `json:"evening_plan,omitempty"`
}

// Store manages the active session cache.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(sessionID int64) string {
	return keyPrefix + strconv.FormatInt(sessionID, 10)
}

// Save caches a started session.
func (s *Store) Save(ctx context.Context, session ActiveSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(session.SessionID), data, s.ttl).Err()
}

// Get returns one cached session.
func (s *Store) Get(ctx context.Context, sessionID int64) (*ActiveSession, error) {
	result, err := s.client.Get(ctx, key(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	var session ActiveSession
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// List scans all cached active sessions.
func (s *Store) List(ctx context.Context) ([]ActiveSession, error) {
	var sessions []ActiveSession
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		result, err := s.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, err
		}
		var session ActiveSession
		if err := json.Unmarshal([]byte(result), &session); err != nil {
			return nil, fmt.Errorf("redisstore: decode %s: %w", iter.Val(), err)
		}
		sessions = append(sessions, session)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Delete removes a cached session on close.
func (s *Store) Delete(ctx context.Context, sessionID int64) error {
	return s.client.Del(ctx, key(sessionID)).Err()
}
