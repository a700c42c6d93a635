package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/CORREAK18/Biometrico-App/internal/config"
	"github.com/CORREAK18/Biometrico-App/internal/store"
	"github.com/CORREAK18/Biometrico-App/internal/store/mysql"
	"github.com/CORREAK18/Biometrico-App/internal/store/postgres"
)

// openEnrollmentStore connects to the configured database backend and
// returns the enrollment repository plus a close function.
func openEnrollmentStore(ctx context.Context, cfg *config.Config) (store.EnrollmentWriter, func() error, error) {
	if cfg.Database.URL == "" {
		return nil, nil, errors.New("DATABASE_URL environment variable is required")
	}

	switch cfg.Database.Driver {
	case "postgres":
		fmt.Printf("Connecting to PostgreSQL database...\n")
		if err := postgres.Initialize(&cfg.Database); err != nil {
			return nil, nil, fmt.Errorf("could not initialize PostgreSQL: %w", err)
		}
		pool := postgres.GetGlobalPool()
		return postgres.NewEnrollmentRepository(pool), pool.Close, nil

	case "mysql":
		fmt.Printf("Connecting to MySQL database...\n")
		pool, err := mysql.NewPool(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("could not initialize MySQL: %w", err)
		}
		if err := pool.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("could not create MySQL schema: %w", err)
		}
		return mysql.NewEnrollmentRepository(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown DATABASE_DRIVER %q (expected postgres or mysql)", cfg.Database.Driver)
	}
}
