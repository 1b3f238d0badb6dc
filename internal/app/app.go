package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gatorguides/tutoring_core/internal/api"
	"github.com/gatorguides/tutoring_core/internal/channel"
	"github.com/gatorguides/tutoring_core/internal/config"
	"github.com/gatorguides/tutoring_core/internal/events"
	"github.com/gatorguides/tutoring_core/internal/repository"
	"github.com/gatorguides/tutoring_core/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// App собирает ядро: пул, репозитории, сервисы, канал доставки и
// HTTP-сервер
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	server *http.Server
}

// New подключается к базе, применяет миграции и связывает компоненты
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	migrator, err := NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()
	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	slotRepo := repository.NewPostgresSlotRepository(pool)
	bookingRepo := repository.NewPostgresBookingRepository(pool)
	messageRepo := repository.NewPostgresMessageRepository(pool)
	tutorRepo := repository.NewPostgresTutorRepository(pool)
	tagRepo := repository.NewPostgresTagRepository(pool)

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NatsURL != "" {
		publisher, err = events.NewNatsPublisher(cfg.NatsURL)
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("Connected to NATS", zap.String("url", cfg.NatsURL))
	}

	registry := channel.NewRegistry(logger)

	availabilityService := service.NewAvailabilityService(slotRepo, bookingRepo, logger)
	bookingService := service.NewBookingService(tutorRepo, bookingRepo, availabilityService, publisher, logger)
	messageService := service.NewMessageService(messageRepo, registry, logger)

	server := api.NewServer(availabilityService, bookingService, messageService, tagRepo, registry, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		server: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: server,
		},
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", zap.String("addr", a.cfg.HTTPAddr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	a.pool.Close()
	return nil
}
