package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/avintas/shootout/internal/clienttoken"
	"github.com/avintas/shootout/internal/config"
	"github.com/avintas/shootout/internal/content"
	"github.com/avintas/shootout/internal/logging"
	"github.com/avintas/shootout/internal/server"
	"github.com/avintas/shootout/internal/shootout"
	"github.com/avintas/shootout/internal/store"
)

// Application aggregates shared infrastructure (DB, store, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, optional Postgres/Redis, the session
// store and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	if cfg.Security.ClientTokenSecret == "" {
		return nil, fmt.Errorf("CLIENT_TOKEN_SECRET must be configured")
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.Configured() {
		connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
			cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

		var err error
		pool, err = pgxpool.New(ctx, connString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
	} else {
		logger.Warn().Msg("postgres not configured; content API disabled")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
	}

	sessionStore, err := store.NewByEngine(cfg.Session.StoreEngine, redisClient, cfg.Session.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("build session store: %w", err)
	}
	logger.Info().Str("engine", cfg.Session.StoreEngine).Msg("session store ready")

	tokenMgr := clienttoken.NewManager(clienttoken.Config{
		Secret: []byte(cfg.Security.ClientTokenSecret),
		TTL:    cfg.Security.ClientTokenTTL,
		Issuer: cfg.Name,
	})
	tokenHandlers := clienttoken.NewHTTPHandlers(tokenMgr, logger)

	// Question source: the hosted feed when configured, otherwise the
	// content database.
	var (
		source       shootout.QuestionSource
		contentRepo  *content.Repository
		contentRoute *content.HTTPHandlers
	)
	if pool != nil {
		contentRepo = content.NewRepository(pool)
		contentRoute = content.NewHTTPHandlers(contentRepo, logger)
		source = contentRepo
	}
	if cfg.Feed.URL != "" {
		source = content.NewFeed(cfg.Feed.URL, &http.Client{Timeout: cfg.Feed.Timeout})
	}
	if source == nil {
		return nil, fmt.Errorf("no question source: configure Postgres or QUESTION_FEED_URL")
	}

	sessions := shootout.NewManager(sessionStore, logger, nil, nil)
	metrics := shootout.NewMetrics(prometheus.DefaultRegisterer)
	shootoutSvc := shootout.NewService(sessions, source, logger, metrics)
	shootoutHTTP := shootout.NewHTTPHandlers(shootoutSvc, logger)
	shootoutWS := shootout.NewWSHandler(shootoutSvc, tokenMgr, logger)

	routes := server.Routes{
		Ping:          pingDependencies(pool, redisClient),
		ClientIssue:   tokenHandlers.Issue,
		RequireClient: clienttoken.Middleware(tokenMgr, logger),
		Session:       shootoutHTTP.GetSession,
		Start:         shootoutHTTP.Start,
		Answer:        shootoutHTTP.Answer,
		Skip:          shootoutHTTP.Skip,
		Next:          shootoutHTTP.Next,
		Reset:         shootoutHTTP.Reset,
		PlayWS:        shootoutWS.HandleWebSocket,
	}
	if contentRoute != nil {
		routes.Trivia = contentRoute.Trivia
		routes.Quotes = contentRoute.Quotes
		routes.Facts = contentRoute.Facts
	}

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   server.NewHTTPServer(cfg, logger, routes),
	}, nil
}

// Run serves HTTP until the context is canceled or a signal arrives, then
// shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		a.logger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown failed")
	}

	a.Close()
	a.logger.Info().Msg("shutdown complete")
	return nil
}

// Close releases infrastructure handles.
func (a *Application) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("redis close failed")
		}
	}
}

func pingDependencies(pool *pgxpool.Pool, redisClient *redis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if pool != nil {
			if err := pool.Ping(ctx); err != nil {
				return err
			}
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return err
			}
		}
		return nil
	}
}
