// Package ws streams live session totals to connected operator consoles.
// Every tick the feed recomputes the running amount for each active
// session from its cached rate snapshot and pushes one JSON frame to all
// subscribers, so the front desk sees per-second totals without polling.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gamelounge/internal/billing"
	"gamelounge/internal/models"
	redisstore "gamelounge/internal/redis"
)

// ActiveLister supplies the set of running sessions to broadcast.
type ActiveLister interface {
	List(ctx context.Context) ([]redisstore.ActiveSession, error)
}

// LiveSession is one entry in a broadcast frame.
type LiveSession struct {
	SessionID     int64              `json:"session_id"`
	UserName      string             `json:"user_name"`
	GameName      string             `json:"game_name"`
	StartTime     time.Time          `json:"start_time"`
	ElapsedSec    int64              `json:"elapsed_sec"`
	CurrentAmount models.Money       `json:"current_amount"`
	Breakdown     []models.SubPeriod `json:"breakdown"`
}

// Frame is the payload pushed to every subscriber on each tick.
type Frame struct {
	Timestamp time.Time     `json:"timestamp"`
	Sessions  []LiveSession `json:"sessions"`
}

// Feed upgrades HTTP connections and broadcasts live totals.
type Feed struct {
	active        ActiveLister
	logger        *zap.Logger
	loc           *time.Location
	cutoverHour   int
	cutoverMinute int
	interval      time.Duration
	writeTimeout  time.Duration
	upgrader      websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	ws   *websocket.Conn
	send chan []byte
}

// NewFeed builds the live feed.
func NewFeed(active ActiveLister, loc *time.Location, cutoverHour, cutoverMinute int, logger *zap.Logger) *Feed {
	return &Feed{
		active:        active,
		logger:        logger,
		loc:           loc,
		cutoverHour:   cutoverHour,
		cutoverMinute: cutoverMinute,
		interval:      time.Second,
		writeTimeout:  5 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// HandleWS is the HTTP handler for the /ws/live endpoint.
func (f *Feed) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{ws: conn, send: make(chan []byte, 16)}
	f.mu.Lock()
	f.clients[c] = struct{}{}
	total := len(f.clients)
	f.mu.Unlock()
	f.logger.Info("live feed client connected", zap.Int("clients", total))

	go f.writePump(c)
	f.readPump(c)
}

// Run drives the broadcast loop until ctx is cancelled.
func (f *Feed) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.closeAll()
			return
		case now := <-ticker.C:
			if !f.hasClients() {
				continue
			}
			frame, err := f.buildFrame(ctx, now.UTC())
			if err != nil {
				f.logger.Warn("failed to build live frame", zap.Error(err))
				continue
			}
			f.broadcast(frame)
		}
	}
}

func (f *Feed) buildFrame(ctx context.Context, now time.Time) ([]byte, error) {
	sessions, err := f.active.List(ctx)
	if err != nil {
		return nil, err
	}

	frame := Frame{Timestamp: now, Sessions: make([]LiveSession, 0, len(sessions))}
	for _, s := range sessions {
		policy := models.DualRatePolicy{
			Primary:       s.Plan,
			CutoverHour:   f.cutoverHour,
			CutoverMinute: f.cutoverMinute,
		}
		if s.EveningPlan != nil && s.EveningPlan.Amount > 0 {
			secondary := *s.EveningPlan
			policy.Secondary = &secondary
			policy.Enabled = true
		}
		amount, breakdown, _ := billing.Compose(policy, s.StartTime, now, f.loc)

		elapsed := int64(now.Sub(s.StartTime) / time.Second)
		if elapsed < 0 {
			elapsed = 0
		}
		frame.Sessions = append(frame.Sessions, LiveSession{
			SessionID:     s.SessionID,
			UserName:      s.UserName,
			GameName:      s.GameName,
			StartTime:     s.StartTime,
			ElapsedSec:    elapsed,
			CurrentAmount: amount,
			Breakdown:     breakdown,
		})
	}
	return json.Marshal(frame)
}

func (f *Feed) broadcast(frame []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c.send <- frame:
		default:
			f.logger.Warn("dropping live frame, client buffer full")
		}
	}
}

func (f *Feed) hasClients() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients) > 0
}

func (f *Feed) remove(c *client) {
	f.mu.Lock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
	f.mu.Unlock()
}

func (f *Feed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		delete(f.clients, c)
		close(c.send)
		_ = c.ws.Close()
	}
}

// readPump drains client messages; the feed is push-only, so reads exist
// to detect disconnects and answer pings.
func (f *Feed) readPump(c *client) {
	defer func() {
		f.remove(c)
		_ = c.ws.Close()
	}()
	c.ws.SetReadLimit(512)
	c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) writePump(c *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.write(websocket.CloseMessage, []byte{}, f.writeTimeout)
				return
			}
			if err := c.write(websocket.TextMessage, msg, f.writeTimeout); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, []byte("ping"), f.writeTimeout); err != nil {
				return
			}
		}
	}
}

func (c *client) write(messageType int, data []byte, timeout time.Duration) error {
	c.ws.SetWriteDeadline(time.Now().Add(timeout))
	return c.ws.WriteMessage(messageType, data)
}
