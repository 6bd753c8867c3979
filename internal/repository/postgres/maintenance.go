package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/logger"
	"dods-cars-backend/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const maintenanceColumns = `id, car_id, type, cost_cents, start_date, end_date, notes, created_at`

type maintenanceRepository struct {
	db sqlx.ExtContext
}

func NewMaintenanceRepository(db sqlx.ExtContext) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) Create(ctx context.Context, m *domain.Maintenance) error {
	query := `INSERT INTO maintenance (car_id, type, cost_cents, start_date, end_date, notes)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	logger.DatabaseCall("MaintenanceCreate", query, "car_id", m.CarID)
	err := r.db.QueryRowxContext(ctx, query, m.CarID, m.Type, m.CostCents, m.StartDate, m.EndDate, m.Notes).
		Scan(&m.ID, &m.CreatedAt)
	logger.DatabaseResult("MaintenanceCreate", 1, err, "maintenance_id", m.ID)
	return mapError(err, "open maintenance on car %d", m.CarID)
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id int64) (*domain.Maintenance, error) {
	var m domain.Maintenance
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &m, query, id); err != nil {
		return nil, mapError(err, "maintenance %d", id)
	}
	return &m, nil
}

// Close sets the end date. Notes are only replaced when provided.
func (r *maintenanceRepository) Close(ctx context.Context, id int64, endDate time.Time, notes *string) error {
	query := `UPDATE maintenance SET end_date = $1, notes = COALESCE($2, notes) WHERE id = $3`
	logger.DatabaseCall("MaintenanceClose", query, "maintenance_id", id)
	res, err := r.db.ExecContext(ctx, query, endDate, notes, id)
	if err != nil {
		return mapError(err, "close maintenance %d", id)
	}
	return expectAffected(res, "maintenance", id)
}

func (r *maintenanceRepository) List(ctx context.Context, f domain.MaintenanceFilter) ([]domain.Maintenance, error) {
	var (
		conds []string
		args  []any
	)
	if f.CarID != 0 {
		args = append(args, f.CarID)
		conds = append(conds, fmt.Sprintf("car_id = $%d", len(args)))
	}
	if f.Active != nil {
		if *f.Active {
			conds = append(conds, "end_date IS NULL")
		} else {
			conds = append(conds, "end_date IS NOT NULL")
		}
	}

	query := `SELECT ` + maintenanceColumns + ` FROM maintenance`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if f.Sort == domain.MaintenanceSortStartAsc {
		query += " ORDER BY start_date ASC, id ASC"
	} else {
		query += " ORDER BY start_date DESC, id DESC"
	}

	items := []domain.Maintenance{}
	if err := sqlx.SelectContext(ctx, r.db, &items, query, args...); err != nil {
		return nil, mapError(err, "list maintenance")
	}
	return items, nil
}

func (r *maintenanceRepository) ListStartingBefore(ctx context.Context, carIDs []int64, before time.Time) ([]domain.Maintenance, error) {
	if len(carIDs) == 0 {
		return []domain.Maintenance{}, nil
	}
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance
	          WHERE car_id = ANY($1) AND start_date < $2
	          ORDER BY car_id, start_date`
	logger.DatabaseCall("MaintenanceListStartingBefore", query, "cars", len(carIDs))
	items := []domain.Maintenance{}
	if err := sqlx.SelectContext(ctx, r.db, &items, query, pq.Array(carIDs), before); err != nil {
		return nil, mapError(err, "list maintenance for cars")
	}
	return items, nil
}

func (r *maintenanceRepository) ListOpenStartedBefore(ctx context.Context, before time.Time) ([]domain.Maintenance, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance
	          WHERE end_date IS NULL AND start_date < $1
	          ORDER BY start_date ASC`
	items := []domain.Maintenance{}
	if err := sqlx.SelectContext(ctx, r.db, &items, query, before); err != nil {
		return nil, mapError(err, "list open maintenance")
	}
	return items, nil
}
