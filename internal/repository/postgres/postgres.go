package postgres

import (
	"context"
	"database/sql"
	"time"

	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/logger"
	"dods-cars-backend/internal/repository"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string, pool PoolConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, domain.Infrastructure(err, "open database")
	}
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, domain.Infrastructure(err, "ping database")
	}
	return db, nil
}

// Store owns the database handle and exposes the repositories bound to it.
type Store struct {
	db *sqlx.DB
	repository.CarRepository
	repository.MaintenanceRepository
	repository.BookingRepository
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:                    db,
		CarRepository:         NewCarRepository(db),
		MaintenanceRepository: NewMaintenanceRepository(db),
		BookingRepository:     NewBookingRepository(db),
	}
}

// DB exposes the underlying handle for migrations and jobs.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Repos returns the non-transactional repositories.
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Cars:        s.CarRepository,
		Maintenance: s.MaintenanceRepository,
		Bookings:    s.BookingRepository,
	}
}

// WithinTx runs fn in a READ COMMITTED transaction. Callers that need
// check-then-write atomicity take row locks through LockByID.
func (s *Store) WithinTx(ctx context.Context, fn func(r repository.Repos) error) error {
	logger.DatabaseCall("BeginTx", "BEGIN")
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return mapError(err, "begin transaction")
	}
	defer tx.Rollback()

	repos := repository.Repos{
		Cars:        NewCarRepository(tx),
		Maintenance: NewMaintenanceRepository(tx),
		Bookings:    NewBookingRepository(tx),
	}
	if err := fn(repos); err != nil {
		logger.DatabaseResult("RollbackTx", 0, nil, "reason", err.Error())
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError(err, "commit transaction")
	}
	logger.DatabaseResult("CommitTx", 0, nil)
	return nil
}

var _ repository.Transactor = (*Store)(nil)
