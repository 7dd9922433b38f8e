package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore/config"
	"bookstore/internal/book"
	"bookstore/internal/db"
	"bookstore/internal/handler"
	"bookstore/internal/routes"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const healthCheckInterval = 10 * time.Second

// App holds the connections and the books service shared by every command.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Client   *mongo.Client
	Database *mongo.Database
	Cache    *redis.Client
	Books    *book.BookService
}

// NewApp connects to the store and, when enabled, the summary cache. An
// unreachable cache is logged and left out.
func NewApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	client, database, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	logger.Info().Str("database", cfg.Mongo.Database).Msg("connected to database")

	var rdb *redis.Client
	if cfg.Cache.Enabled {
		rdb, err = StartRedisClient(ctx, cfg.Redis, cfg.Cache, logger)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, summaries will not be cached")
			rdb = nil
		}
	}

	books := book.NewBookService(database, cfg.Mongo.Collection, book.Options{
		Cache:        rdb,
		CacheTTL:     cfg.Cache.TTL,
		UniqueTitles: cfg.Mongo.UniqueTitles,
		Timeout:      cfg.Mongo.RequestTimeout,
		Logger:       logger,
	})

	return &App{
		Config:   cfg,
		Logger:   logger,
		Client:   client,
		Database: database,
		Cache:    rdb,
		Books:    books,
	}, nil
}

func (a *App) Ping(ctx context.Context) error {
	return a.Client.Ping(ctx, readpref.Primary())
}

func (a *App) Close(ctx context.Context) {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("error closing redis client")
		}
	}
	if err := a.Client.Disconnect(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("error disconnecting from database")
	}
}

// Serve runs the HTTP API and the gRPC health endpoint until ctx is done
// or SIGINT/SIGTERM arrives, then shuts both down.
func Serve(ctx context.Context, app *App) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if app.Cache != nil {
		WarmCache(ctx, app.Books, app.Logger)
	}

	router := routes.SetupRoutes(handler.NewBookHandler(app.Books, app.Logger), app.Ping, app.Logger)
	srv := &http.Server{
		Addr:    app.Config.HTTP.Addr,
		Handler: router,
	}

	errs := make(chan error, 2)
	go func() {
		app.Logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("http server: %w", err)
		}
	}()

	var grpcServer *grpc.Server
	if app.Config.GRPC.Addr != "" {
		lis, err := net.Listen("tcp", app.Config.GRPC.Addr)
		if err != nil {
			srv.Close()
			return fmt.Errorf("listening on %s: %w", app.Config.GRPC.Addr, err)
		}
		grpcServer = StartHealthServer(ctx, lis, app.Ping, app.Logger, errs)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		app.Logger.Info().Msg("shutting down")
	case serveErr = <-errs:
		app.Logger.Error().Err(serveErr).Msg("server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Warn().Err(err).Msg("http server forced to shutdown")
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	app.Logger.Info().Msg("server exited")
	return serveErr
}

// StartHealthServer serves grpc.health.v1 on lis. The overall status
// follows ping, checked every healthCheckInterval until ctx is done.
func StartHealthServer(ctx context.Context, lis net.Listener, ping routes.Pinger, logger zerolog.Logger, errs chan<- error) *grpc.Server {
	s := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(s, healthServer)

	logger.Info().Str("addr", lis.Addr().String()).Msg("grpc health server listening")
	go func() {
		if err := s.Serve(lis); err != nil {
			errs <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	go watchHealth(ctx, healthServer, ping, logger)
	return s
}

func watchHealth(ctx context.Context, healthServer *health.Server, ping routes.Pinger, logger zerolog.Logger) {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		updateHealth(ctx, healthServer, ping, logger)
		select {
		case <-ctx.Done():
			healthServer.Shutdown()
			return
		case <-ticker.C:
		}
	}
}

func updateHealth(ctx context.Context, healthServer *health.Server, ping routes.Pinger, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, healthCheckInterval/2)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("store ping failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	healthServer.SetServingStatus("", status)
}

func StartRedisClient(ctx context.Context, cfg *config.RedisConfig, cache config.CacheConfig, logger zerolog.Logger) (*redis.Client, error) {
	options := &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
	}
	rdb := redis.NewClient(options)

	// Test connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, err
	}

	if cache.MaxMemory != "" || cache.Policy != "" {
		if err := SetupRedisCache(ctx, rdb, cache, logger); err != nil {
			rdb.Close()
			return nil, err
		}
	}

	logger.Info().Str("addr", cfg.Addr).Dur("ttl", cache.TTL).Msg("summary cache enabled")
	return rdb, nil
}

func SetupRedisCache(ctx context.Context, client *redis.Client, cache config.CacheConfig, logger zerolog.Logger) error {
	// Set maximum memory
	if cache.MaxMemory != "" {
		if err := client.ConfigSet(ctx, "maxmemory", cache.MaxMemory).Err(); err != nil {
			return fmt.Errorf("failed to set maxmemory: %w", err)
		}
	}

	// Set eviction policy
	if cache.Policy != "" {
		if err := client.ConfigSet(ctx, "maxmemory-policy", cache.Policy).Err(); err != nil {
			return fmt.Errorf("failed to set maxmemory-policy: %w", err)
		}
	}

	return VerifyConfig(ctx, client, logger)
}

func VerifyConfig(ctx context.Context, client *redis.Client, logger zerolog.Logger) error {
	maxMem, err := client.ConfigGet(ctx, "maxmemory").Result()
	if err != nil {
		return fmt.Errorf("failed to get maxmemory config: %w", err)
	}

	policy, err := client.ConfigGet(ctx, "maxmemory-policy").Result()
	if err != nil {
		return fmt.Errorf("failed to get maxmemory-policy config: %w", err)
	}

	logger.Info().
		Str("max_memory", maxMem["maxmemory"]).
		Str("eviction_policy", policy["maxmemory-policy"]).
		Msg("redis cache configured")
	return nil
}

// WarmCache computes the three summaries once so the first readers hit
// the cache. Failures are logged and otherwise ignored.
func WarmCache(ctx context.Context, books *book.BookService, logger zerolog.Logger) {
	warmers := map[string]func(context.Context) error{
		"average_price_by_genre": func(ctx context.Context) error {
			_, err := books.AveragePriceByGenre(ctx)
			return err
		},
		"author_with_most_books": func(ctx context.Context) error {
			_, err := books.AuthorWithMostBooks(ctx)
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil
			}
			return err
		},
		"books_by_decade": func(ctx context.Context) error {
			_, err := books.BooksByDecade(ctx)
			return err
		},
	}

	warmed := 0
	for name, warm := range warmers {
		if err := warm(ctx); err != nil {
			logger.Warn().Err(err).Str("summary", name).Msg("failed to warm cache")
			continue
		}
		warmed++
	}
	logger.Info().Int("summaries", warmed).Msg("warmed cache")
}
