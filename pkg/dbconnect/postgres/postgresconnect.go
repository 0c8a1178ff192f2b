package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"pharmacatalog_api/config"
	"pharmacatalog_api/pkg/logger"
)

const maxRetries = 10
const defaultMaxOpenConns = 20
const retryDelay = 5 * time.Second

type PostgresDatabase struct {
	config.DatabaseConfig
	log logger.Logger
	db  *sql.DB
	mu  sync.Mutex // guards db
}

func NewPgConnector(dbConfig config.DatabaseConfig, log logger.Logger) *PostgresDatabase {
	return &PostgresDatabase{DatabaseConfig: dbConfig, log: log}
}

func (pg *PostgresDatabase) Connect(ctx context.Context) (*sql.DB, error) {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.db != nil {
		return pg.db, nil
	}

	conStr := pg.GetConnectionString()
	maxOpen := pg.MaxOpenConns()
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		db, err := sql.Open("postgres", conStr)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(maxOpen)

		if err := db.PingContext(ctx); err != nil {
			lastErr = err
			db.Close()
			pg.log.Warn("Failed to ping Postgres db (attempt %d/%d): %v", i+1, maxRetries, err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
			continue
		}

		pg.log.Log("Successfully connected to Postgres")
		pg.db = db
		return pg.db, nil
	}
	return nil, fmt.Errorf("connect to postgres after %d attempts: %w", maxRetries, lastErr)
}

func (pg *PostgresDatabase) Ping(ctx context.Context) error {
	pg.mu.Lock()
	db := pg.db
	pg.mu.Unlock()

	if db == nil {
		return fmt.Errorf("database connection is not established")
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func (pg *PostgresDatabase) Close() error {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.db == nil {
		return nil
	}
	err := pg.db.Close()
	pg.db = nil
	return err
}
