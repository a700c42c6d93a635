// Package mysql provides a MySQL/MariaDB enrollment store. Embeddings
// are stored as little-endian float32 blobs since MySQL has no native
// vector column type.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/CORREAK18/Biometrico-App/internal/config"
)

// Pool manages a MySQL connection pool.
type Pool struct {
	db *sql.DB
}

// NewPool creates a new MySQL connection pool.
func NewPool(cfg *config.DatabaseConfig) (*Pool, error) {
	if cfg.URL == "" {
		return nil, errors.New("MySQL DSN is required")
	}

	db, err := sql.Open("mysql", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	return &Pool{db: db}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

// EnsureSchema creates the enrollments table if it does not exist.
func (p *Pool) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS enrollments (
			id CHAR(36) PRIMARY KEY,
			external_id VARCHAR(255) NOT NULL,
			display_name VARCHAR(255) NOT NULL,
			embedding BLOB NOT NULL,
			profile_version INT NOT NULL,
			photo MEDIUMBLOB,
			created_at TIMESTAMP(6) NOT NULL,
			INDEX idx_enrollments_external_id (external_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("create enrollments table: %w", err)
	}
	return nil
}
