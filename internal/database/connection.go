package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/tumorboard-analysis-server/internal/domain"
)

// DB wraps the literature store connection pool
type DB struct {
	SQL *sql.DB
	log *logrus.Logger
}

// NewConnection opens a connection pool to the literature store
func NewConnection(ctx context.Context, cfg *domain.DatabaseConfig, logger *logrus.Logger) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.Username, cfg.Password, cfg.SSLMode,
	)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"host":           cfg.Host,
		"port":           cfg.Port,
		"database":       cfg.Database,
		"max_open_conns": cfg.MaxOpenConns,
	}).Info("Literature store connection pool established")

	return &DB{
		SQL: db,
		log: logger,
	}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.SQL != nil {
		db.SQL.Close()
		db.log.Info("Literature store connection pool closed")
	}
}

// Health checks the connection health
func (db *DB) Health(ctx context.Context) error {
	return db.SQL.PingContext(ctx)
}
