// Package postgres is the durable store: the product catalog and placed
// orders. Queries are built with squirrel and run through sqlx.
package postgres

import (
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/YusovID/storefront/internal/config"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Storage struct {
	db  *sqlx.DB
	log *slog.Logger
}

func New(cfg config.Postgres, log *slog.Logger) (*Storage, error) {
	const fn = "storage.postgres.New"
	log = log.With(slog.String("fn", fn))

	log.Info("starting storage initialization...")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	// sqlx.Connect opens the pool and pings it
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("%s: can't connect to database: %w", fn, err)
	}

	return NewWithDB(db, log), nil
}

// NewWithDB wraps an open connection pool.
func NewWithDB(db *sqlx.DB, log *slog.Logger) *Storage {
	return &Storage{db: db, log: log}
}

func (s *Storage) Close() error {
	return s.db.Close()
}
