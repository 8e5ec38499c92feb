// Package adminconsole собирает административную консоль: хранилища,
// клиент backend API, брокер событий, HTTP-сервер и его маршруты.
package adminconsole

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/lamisai/legalcare-admin/internal/cache"
	"github.com/lamisai/legalcare-admin/internal/config"
	"github.com/lamisai/legalcare-admin/internal/lib/jwt"
	"github.com/lamisai/legalcare-admin/internal/lib/rabbitmq"
	"github.com/lamisai/legalcare-admin/internal/migrations"
	authservice "github.com/lamisai/legalcare-admin/internal/services/auth"
	directoryservice "github.com/lamisai/legalcare-admin/internal/services/directory"
	"github.com/lamisai/legalcare-admin/internal/session"
	"github.com/lamisai/legalcare-admin/internal/storage"
	"github.com/lamisai/legalcare-admin/internal/theme"
	"github.com/lamisai/legalcare-admin/internal/upstream"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetEventQueues())
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch, rabbitmq.EventsExchange)

	upstreamClient := upstream.NewClient(cfg.BaseURL, cfg.TimeoutUpstream)

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.SessionTTL)
	sessions := session.NewStore(cacheRedis, jwtMaker, cfg.SessionTTL)
	themes := theme.NewStore(cacheRedis)

	authSvc := authservice.New(logger, upstreamClient, sessions)
	directorySvc := directoryservice.New(logger, upstreamClient, cacheRedis, db, publisher, cfg.CacheTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authSvc, directorySvc, sessions, themes, db)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", slog.Any("err", closeErr))
		}
		return err
	}
}
