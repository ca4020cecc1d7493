package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/pickup-scoreboard/config"
	"github.com/Dosada05/pickup-scoreboard/db"
	"github.com/Dosada05/pickup-scoreboard/handlers"
	"github.com/Dosada05/pickup-scoreboard/live"
	"github.com/Dosada05/pickup-scoreboard/repositories"
	"github.com/Dosada05/pickup-scoreboard/routes"
	"github.com/Dosada05/pickup-scoreboard/services"
	"github.com/Dosada05/pickup-scoreboard/storage"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const (
	connectTimeout  = 5 * time.Second
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("store", cfg.StoreDriver),
		slog.Bool("export", cfg.ExportEnabled()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	var uploader storage.FileUploader
	if cfg.ExportEnabled() {
		uploader, err = storage.NewR2Uploader(ctx, storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
			Endpoint:        cfg.R2Endpoint,
		}, logger)
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	}

	hub := live.NewHub(logger)
	clock, err := services.NewMatchClock(hub, logger)
	if err != nil {
		logger.Error("failed to start match clock", slog.Any("error", err))
		os.Exit(1)
	}

	actor := services.NewActor()
	gameService := services.NewGameService(store, actor, cfg.Defaults, logger)
	matchService := services.NewMatchService(store, actor, clock, services.NewEffectQueue(), hub, logger)
	resultsService := services.NewResultsService(store, actor, logger)
	exportService := services.NewExportService(resultsService, uploader, logger)

	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Games:   handlers.NewGameHandler(gameService),
		Matches: handlers.NewMatchHandler(matchService),
		Results: handlers.NewResultsHandler(resultsService, exportService),
		Live:    handlers.NewLiveHandler(hub, matchService, cfg.CORSAllowedOrigins, logger),
	}, routes.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		LicenseSecret:  []byte(cfg.LicenseSecretKey),
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		if err := clock.Shutdown(); err != nil {
			return fmt.Errorf("failed to stop match clock: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

// openStore connects the configured backend and brings its schema up to date.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories.Store, func(), error) {
	var (
		driver = db.DriverSQLite
		dsn    = cfg.SQLitePath
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		return repositories.NewMemoryStore(), func() {}, nil
	case config.StorePostgres:
		driver, dsn = db.DriverPostgres, cfg.DatabaseURL
	}

	conn, err := db.Connect(driver, dsn, connectTimeout)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	logger.Info("database connection established", slog.String("driver", driver))

	closeFn := func() {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}
	return repositories.NewSQLStore(conn), closeFn, nil
}
