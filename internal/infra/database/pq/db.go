package pq

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Session is a short-lived single connection to PostgreSQL over lib/pq.
type Session struct {
	db *sql.DB
}

// Open opens a session for dsn. lib/pq connects lazily, so connection errors surface on the first query.
func Open(ctx context.Context, dsn string) (*Session, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	return &Session{db: db}, nil
}

// SelectOne runs the SELECT 1 round trip.
func (s *Session) SelectOne(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return err
	}
	if one != 1 {
		return fmt.Errorf("unexpected SELECT 1 result %d", one)
	}
	return nil
}

// Close releases the connection.
func (s *Session) Close() error {
	return s.db.Close()
}
