package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"newsticker/internal/config"
)

// OpenDB connects to the registry database and verifies the connection.
func OpenDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	dbConn, err := sql.Open("postgres", cfg.PostgresURL())
	if err != nil {
		return nil, err
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetMaxIdleConns(10)
	dbConn.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := dbConn.PingContext(pingCtx); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("connect to postgres at %s:%d: %w", cfg.PGHost, cfg.PGPort, err)
	}
	return dbConn, nil
}
