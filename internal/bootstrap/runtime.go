// Package bootstrap wires the process-wide runtime shared by the server and the CLI tools.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"quorum/internal/cache"
	"quorum/internal/config"
	"quorum/internal/database"
	"quorum/internal/middleware"
	"quorum/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipSchema leaves the schema untouched. The migrate tool manages it itself.
	SkipSchema bool
	// SkipRedis avoids dialing Redis for tools that never touch the cache.
	SkipRedis bool
}

// InitRuntime connects to the database and Redis, applies the schema and
// seeds the demo forum when configured to.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if !opts.SkipSchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	if cfg.SeedDemoData {
		if err := seedDemo(ctx, db); err != nil {
			_ = database.Close(db)
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	// May result in a nil client if Redis is unreachable
	var r *redis.Client
	if !opts.SkipRedis {
		r = cache.InitRedis(cfg.RedisURL)
	}

	return db, r, nil
}

// seedDemo loads the bundled fixtures into an empty database.
func seedDemo(ctx context.Context, db *gorm.DB) error {
	has, err := seed.HasUsers(ctx, db)
	if err != nil {
		return err
	}
	if has {
		middleware.Logger.InfoContext(ctx, "Skipping demo data, database already has users")
		return nil
	}

	fx, err := seed.DemoFixtures()
	if err != nil {
		return err
	}
	sum, err := seed.ApplyFixtures(ctx, db, fx, false)
	if err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "Demo data seeded", slog.String("summary", sum.String()))
	return nil
}
