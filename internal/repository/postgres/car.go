package postgres

import (
	"context"
	"fmt"
	"strings"

	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/logger"
	"dods-cars-backend/internal/repository"

	"github.com/jmoiron/sqlx"
)

// likeEscaper makes user input match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const carColumns = `id, make, model, year, color, mileage, daily_rate_cents, available_now, min_rent_days, max_rent_days, created_at`

type carRepository struct {
	db sqlx.ExtContext
}

func NewCarRepository(db sqlx.ExtContext) repository.CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, c *domain.Car) error {
	query := `INSERT INTO cars (make, model, year, color, mileage, daily_rate_cents, available_now, min_rent_days, max_rent_days)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at`
	logger.DatabaseCall("CarCreate", query, "make", c.Make, "model", c.Model)
	err := r.db.QueryRowxContext(ctx, query, c.Make, c.Model, c.Year, c.Color, c.Mileage, c.DailyRateCents, c.AvailableNow, c.MinRentDays, c.MaxRentDays).
		Scan(&c.ID, &c.CreatedAt)
	logger.DatabaseResult("CarCreate", 1, err, "car_id", c.ID)
	return mapError(err, "create car")
}

func (r *carRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	var c domain.Car
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &c, query, id); err != nil {
		return nil, mapError(err, "car %d", id)
	}
	return &c, nil
}

func (r *carRepository) LockByID(ctx context.Context, id int64) (*domain.Car, error) {
	var c domain.Car
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 FOR UPDATE`
	logger.DatabaseCall("CarLock", query, "car_id", id)
	if err := sqlx.GetContext(ctx, r.db, &c, query, id); err != nil {
		return nil, mapError(err, "car %d", id)
	}
	return &c, nil
}

func (r *carRepository) List(ctx context.Context, f domain.CarFilter) ([]domain.Car, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Make != "" {
		add(`make ILIKE '%%' || $%d || '%%' ESCAPE '\'`, likeEscaper.Replace(f.Make))
	}
	if f.Model != "" {
		add(`model ILIKE '%%' || $%d || '%%' ESCAPE '\'`, likeEscaper.Replace(f.Model))
	}
	if f.YearMin > 0 {
		add("year >= $%d", f.YearMin)
	}
	if f.YearMax > 0 {
		add("year <= $%d", f.YearMax)
	}
	if f.Available != nil {
		add("available_now = $%d", *f.Available)
	}

	query := `SELECT ` + carColumns + ` FROM cars`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY year DESC, make ASC, model ASC"

	cars := []domain.Car{}
	if err := sqlx.SelectContext(ctx, r.db, &cars, query, args...); err != nil {
		return nil, mapError(err, "list cars")
	}
	return cars, nil
}

func (r *carRepository) ListAvailable(ctx context.Context) ([]domain.Car, error) {
	available := true
	return r.List(ctx, domain.CarFilter{Available: &available})
}

func (r *carRepository) Update(ctx context.Context, c *domain.Car) error {
	query := `UPDATE cars SET make=$1, model=$2, year=$3, color=$4, mileage=$5, daily_rate_cents=$6, available_now=$7, min_rent_days=$8, max_rent_days=$9 WHERE id=$10`
	logger.DatabaseCall("CarUpdate", query, "car_id", c.ID)
	res, err := r.db.ExecContext(ctx, query, c.Make, c.Model, c.Year, c.Color, c.Mileage, c.DailyRateCents, c.AvailableNow, c.MinRentDays, c.MaxRentDays, c.ID)
	if err != nil {
		return mapError(err, "update car %d", c.ID)
	}
	return expectAffected(res, "car", c.ID)
}

// Delete removes the car; maintenance and bookings cascade in the schema.
func (r *carRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM cars WHERE id = $1`
	logger.DatabaseCall("CarDelete", query, "car_id", id)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return mapError(err, "delete car %d", id)
	}
	return expectAffected(res, "car", id)
}
