package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gamelounge/internal/config"
	httpserver "gamelounge/internal/http"
	"gamelounge/internal/http/handlers"
	"gamelounge/internal/http/middleware"
	"gamelounge/internal/metrics"
	"gamelounge/internal/password"
	redisstore "gamelounge/internal/redis"
	"gamelounge/internal/repository"
	"gamelounge/internal/service"
	"gamelounge/internal/ws"
	libdb "gamelounge/libs/db"
	libredis "gamelounge/libs/redis"
)

// App wires lounge server dependencies.
type App struct {
	server      *httpserver.Server
	feed        *ws.Feed
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		sqlDB.Close()
		redisClient.Close()
		return nil, err
	}

	sessionRepo := repository.NewSessionRepository(sqlDB)
	userRepo := repository.NewUserRepository(sqlDB)
	gameRepo := repository.NewGameRepository(sqlDB)
	productRepo := repository.NewProductRepository(sqlDB)
	operatorRepo := repository.NewOperatorRepository(sqlDB)
	chargeRepo := repository.NewChargeRepository(sqlDB)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	activeStore := redisstore.NewStore(redisClient, cfg.ActiveSessionTTL())

	hasher := password.NewBcryptHasher(0)
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(operatorRepo, hasher, tokens, logger)
	sessionsService := service.NewSessionsService(sessionRepo, userRepo, gameRepo, activeStore, m, logger)
	billingService := service.NewBillingService(sessionRepo, productRepo, activeStore, m, loc, cfg.Billing.CutoverHour, cfg.Billing.CutoverMinute, logger)
	catalogService := service.NewCatalogService(gameRepo, productRepo, userRepo, logger)
	reportsService := service.NewReportsService(sessionRepo, chargeRepo)

	feed := ws.NewFeed(&activeSessions{cache: activeStore, sessions: sessionRepo, logger: logger},
		loc, cfg.Billing.CutoverHour, cfg.Billing.CutoverMinute, logger)

	authHandlers := handlers.NewAuthHandlers(authService, logger)
	sessionsHandlers := handlers.NewSessionsHandlers(sessionsService, logger)
	billingHandlers := handlers.NewBillingHandlers(billingService, logger)
	catalogHandlers := handlers.NewCatalogHandlers(catalogService, logger)
	reportsHandlers := handlers.NewReportsHandlers(reportsService, logger)

	routes := httpserver.Routes{
		Signup: authHandlers.HandleSignup,
		Login:  authHandlers.HandleLogin,

		SessionStart:   sessionsHandlers.HandleStart,
		SessionList:    sessionsHandlers.HandleList,
		ActiveSessions: sessionsHandlers.HandleActive,
		SessionClose:   billingHandlers.HandleClose,
		SessionPreview: billingHandlers.HandlePreview,
		SessionReceipt: billingHandlers.HandleReceipt,

		UserCreate: catalogHandlers.HandleUserCreate,
		UserList:   catalogHandlers.HandleUserList,

		GameCreate: catalogHandlers.HandleGameCreate,
		GameList:   catalogHandlers.HandleGameList,
		GameUpdate: catalogHandlers.HandleGameUpdate,
		GameDelete: catalogHandlers.HandleGameDelete,

		ProductCreate:     catalogHandlers.HandleProductCreate,
		ProductList:       catalogHandlers.HandleProductList,
		ProductUpdate:     catalogHandlers.HandleProductUpdate,
		ProductDeactivate: catalogHandlers.HandleProductDeactivate,

		SessionsReport: reportsHandlers.HandleSessionsReport,
		LiveFeed:       feed.HandleWS,
		Health:         handlers.HandleHealth,

		Auth:           middleware.AuthMiddleware(tokens),
		MetricsEnabled: cfg.Metrics.Enabled,
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		feed:        feed,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the live feed broadcaster and the HTTP server, blocking
// until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	go a.feed.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
