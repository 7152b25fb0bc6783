package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/tubeproxy/internal/api/handler"
	"github.com/hszk-dev/tubeproxy/internal/api/middleware"
	"github.com/hszk-dev/tubeproxy/internal/config"
	"github.com/hszk-dev/tubeproxy/internal/domain/model"
	"github.com/hszk-dev/tubeproxy/internal/domain/repository"
	"github.com/hszk-dev/tubeproxy/internal/infrastructure/cache"
	"github.com/hszk-dev/tubeproxy/internal/infrastructure/postgres"
	"github.com/hszk-dev/tubeproxy/internal/infrastructure/storage"
	"github.com/hszk-dev/tubeproxy/internal/infrastructure/youtube"
	"github.com/hszk-dev/tubeproxy/internal/usecase"
)

// Snapshot names, one per cache.
const (
	queryCacheName    = "querycache"
	videoCacheName    = "videocache"
	playlistCacheName = "playlistcache"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Server.SlogLevel(),
	}))
	slog.SetDefault(logger)

	backend, err := openSnapshotBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.close()

	queries := cache.NewStore[json.RawMessage](queryCacheName, backend.store, logger)
	videos := cache.NewStore[model.Video](videoCacheName, backend.store, logger)
	playlists := cache.NewStore[model.Playlist](playlistCacheName, backend.store, logger)
	queries.Load(ctx)
	videos.Load(ctx)
	playlists.Load(ctx)

	platform := youtube.NewClient(youtube.Config{
		APIKey:    cfg.YouTube.APIKey,
		BaseURL:   cfg.YouTube.BaseURL,
		Timeout:   cfg.YouTube.Timeout,
		RateLimit: cfg.YouTube.RateLimit,
		RateBurst: cfg.YouTube.RateBurst,
	}, logger)

	videoResolver := usecase.NewVideoResolver(platform, videos, logger)
	playlistResolver := usecase.NewPlaylistResolver(platform, videoResolver, videos, playlists, cfg.Server.RequestTimeout, logger)
	searchSvc := usecase.NewSearchService(usecase.SearchServiceDeps{
		Platform:         platform,
		Queries:          queries,
		Videos:           videos,
		Playlists:        playlists,
		VideoResolver:    videoResolver,
		PlaylistResolver: playlistResolver,
		CallTimeout:      cfg.Server.RequestTimeout,
	}, logger)

	r := setupRouter(logger, routerDeps{
		search:         handler.NewSearchHandler(searchSvc, logger),
		backend:        backend.ping,
		caches:         []handler.CacheStats{queries, videos, playlists},
		requestTimeout: cfg.Server.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.Int("port", cfg.Server.Port),
			slog.String("cache_backend", cfg.Cache.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// snapshotBackend is the configured snapshot store with its health check
// and the func releasing its connections.
type snapshotBackend struct {
	store repository.SnapshotStore
	ping  handler.Pinger
	close func()
}

// openSnapshotBackend connects the configured snapshot backend.
// The file backend has no health check.
func openSnapshotBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*snapshotBackend, error) {
	noop := func() {}

	switch cfg.Cache.Backend {
	case config.BackendRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("connected to Redis", slog.String("addr", cfg.Redis.Addr()))
		return &snapshotBackend{
			store: cache.NewRedisSnapshotStore(redisClient),
			ping: handler.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
			close: func() { redisClient.Close() },
		}, nil

	case config.BackendMinIO:
		store, err := storage.NewSnapshotStore(ctx, storage.ClientConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
		}
		logger.Info("connected to MinIO", slog.String("bucket", store.Bucket()))
		return &snapshotBackend{store: store, ping: store, close: noop}, nil

	case config.BackendPostgres:
		pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		repo := postgres.NewSnapshotRepository(pgClient.Pool())
		if err := repo.EnsureSchema(ctx); err != nil {
			pgClient.Close()
			return nil, err
		}
		logger.Info("connected to PostgreSQL")
		return &snapshotBackend{store: repo, ping: pgClient, close: pgClient.Close}, nil

	default:
		store, err := cache.NewFileSnapshotStore(cfg.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache directory: %w", err)
		}
		logger.Info("using file snapshots", slog.String("dir", cfg.Cache.Dir))
		return &snapshotBackend{store: store, close: noop}, nil
	}
}

type routerDeps struct {
	search         *handler.SearchHandler
	backend        handler.Pinger
	caches         []handler.CacheStats
	requestTimeout time.Duration
}

func setupRouter(logger *slog.Logger, deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", handler.Health(deps.backend, deps.caches...))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Compress(5, "application/json"))
		if deps.requestTimeout > 0 {
			r.Use(chimw.Timeout(deps.requestTimeout))
		}
		r.Get("/search", deps.search.Search)
	})

	return r
}
