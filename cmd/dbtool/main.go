package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"drone-route-service/internal/adapters/repositories"
	"drone-route-service/internal/config"
	"drone-route-service/internal/platform/db"
	"drone-route-service/internal/platform/obs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// dbtool initializes the schema and seeds the node table.
func main() {
	if _, err := config.LoadDotenv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	driver := flag.String("driver", config.Get("DB_DRIVER", "sqlite"), "database driver: sqlite or pgx")
	dsn := flag.String("dsn", "", "data source name (defaults to DB_PATH or DATABASE_URL)")
	seedPath := flag.String("seed", config.Get("SEED_PATH", "data/seeds/nodes.json"), "JSON node seed file")
	flag.Parse()

	log, err := obs.NewLogger(config.Get("LOG_LEVEL", "info"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	dialect, err := db.ParseDialect(*driver)
	if err != nil {
		log.Fatal("bad driver", zap.Error(err))
	}
	if *dsn == "" {
		if dialect == db.Postgres {
			*dsn = config.Get("DATABASE_URL", "")
		} else {
			*dsn = config.Get("DB_PATH", "data/app.db")
		}
	}
	if *dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(dialect, *dsn)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer conn.Close()

	ctx := context.Background()

	log.Info("initializing database schema", zap.String("driver", string(dialect)))
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		log.Fatal("schema initialization failed", zap.Error(err))
	}

	log.Info("seeding nodes", zap.String("path", *seedPath))
	if err := repositories.SeedFromJSON(ctx, conn, dialect, *seedPath); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
	log.Info("seeding complete")
}
