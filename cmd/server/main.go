package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drone-route-service/internal/adapters/cache"
	"drone-route-service/internal/adapters/distance"
	"drone-route-service/internal/adapters/repositories"
	"drone-route-service/internal/api"
	"drone-route-service/internal/config"
	"drone-route-service/internal/platform/db"
	"drone-route-service/internal/platform/obs"
	"drone-route-service/internal/ports"
	"drone-route-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, distance caches) behind ports and starts the HTTP server.
func main() {
	found, dotenvErr := config.LoadDotenv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if dotenvErr != nil {
		log.Warn("reading .env failed", zap.Error(dotenvErr))
	} else if !found {
		log.Info("no .env file found (using environment variables)")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}
	dsn := cfg.DBPath
	if dialect == db.Postgres {
		dsn = cfg.DatabaseURL
		if dsn == "" {
			return errors.New("DATABASE_URL is required for the pgx driver")
		}
	}

	conn, err := db.Open(dialect, dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, conn, dialect, cfg.SeedPath, log); err != nil {
		return err
	}

	distanceCache, err := newDistanceCache(cfg, conn, dialect)
	if err != nil {
		return err
	}
	provider, err := distance.NewGeodesicProvider(distanceCache, 0, log.Named("geodesic"))
	if err != nil {
		return err
	}

	fleet, err := loadFleet(cfg)
	if err != nil {
		return err
	}

	metaheuristic, err := services.ParseMetaheuristic(cfg.Metaheuristic)
	if err != nil {
		return err
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}

	router := api.NewRouter(api.Deps{
		Repo:      repositories.NewSQLNodeRepository(conn),
		Provider:  provider,
		Fleet:     fleet,
		TimeLimit: cfg.TimeLimit,
		Options: services.Options{
			Metaheuristic: metaheuristic,
			Workers:       cfg.Workers,
			Logger:        log.Named("solver"),
		},
		Limiter: limiter,
		Logger:  log.Named("http"),
	})

	// Write timeout leaves room for the longest accepted solve time limit.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("db", string(dialect)),
			zap.Int("vehicles", len(fleet.Vehicles)),
			zap.Strings("dimensions", fleet.DimensionNames()),
		)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect, seedPath string, log *zap.Logger) error {
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if seedPath == "" {
		return nil
	}
	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		log.Info("seed file not found, keeping stored nodes", zap.String("path", seedPath))
		return nil
	}
	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// newDistanceCache prefers Redis when REDIS_URL is set, else the SQL store.
func newDistanceCache(cfg config.Config, conn *sql.DB, dialect db.Dialect) (ports.DistanceCache, error) {
	if cfg.RedisURL != "" {
		c, err := cache.NewRedisDistanceCacheFromURL(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	if dialect == db.Postgres {
		return cache.NewSQLDistanceCache(conn), nil
	}
	return cache.NewSqliteDistanceCache(conn), nil
}

func loadFleet(cfg config.Config) (config.Fleet, error) {
	if cfg.FleetFile != "" {
		return config.LoadFleet(cfg.FleetFile)
	}
	return config.Preset(cfg.FleetPreset)
}
