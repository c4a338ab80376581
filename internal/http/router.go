package httpserver

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes groups handlers.
type Routes struct {
	Signup http.HandlerFunc
	Login  http.HandlerFunc

	SessionStart   http.HandlerFunc
	SessionList    http.HandlerFunc
	ActiveSessions http.HandlerFunc
	SessionClose   http.HandlerFunc
	SessionPreview http.HandlerFunc
	SessionReceipt http.HandlerFunc

	UserCreate http.HandlerFunc
	UserList   http.HandlerFunc

	GameCreate http.HandlerFunc
	GameList   http.HandlerFunc
	GameUpdate http.HandlerFunc
	GameDelete http.HandlerFunc

	ProductCreate     http.HandlerFunc
	ProductList       http.HandlerFunc
	ProductUpdate     http.HandlerFunc
	ProductDeactivate http.HandlerFunc

	SessionsReport http.HandlerFunc
	LiveFeed       http.HandlerFunc
	Health         http.HandlerFunc

	// Auth wraps every route except signup, login, health and metrics.
	Auth func(http.Handler) http.Handler

	MetricsEnabled bool
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()

	guard := func(h http.HandlerFunc) http.Handler {
		if routes.Auth == nil {
			return h
		}
		return routes.Auth(h)
	}

	register := func(pattern string, h http.HandlerFunc) {
		if h != nil {
			mux.Handle(pattern, guard(h))
		}
	}

	if routes.Signup != nil {
		mux.Handle("POST /auth/signup", routes.Signup)
	}
	if routes.Login != nil {
		mux.Handle("POST /auth/login", routes.Login)
	}

	register("POST /sessions", routes.SessionStart)
	register("GET /sessions", routes.SessionList)
	register("GET /sessions/active", routes.ActiveSessions)
	register("POST /sessions/{id}/close", routes.SessionClose)
	register("GET /sessions/{id}/preview", routes.SessionPreview)
	register("GET /sessions/{id}/receipt", routes.SessionReceipt)

	register("POST /users", routes.UserCreate)
	register("GET /users", routes.UserList)

	register("POST /games", routes.GameCreate)
	register("GET /games", routes.GameList)
	register("PUT /games/{id}", routes.GameUpdate)
	register("DELETE /games/{id}", routes.GameDelete)

	register("POST /products", routes.ProductCreate)
	register("GET /products", routes.ProductList)
	register("PUT /products/{id}", routes.ProductUpdate)
	register("DELETE /products/{id}", routes.ProductDeactivate)

	register("GET /reports/sessions.xlsx", routes.SessionsReport)
	register("GET /ws/live", routes.LiveFeed)

	if routes.Health != nil {
		mux.Handle("GET /health", routes.Health)
	}
	if routes.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	return mux
}
