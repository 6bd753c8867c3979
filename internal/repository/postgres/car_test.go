package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"dods-cars-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var carRowColumns = []string{"id", "make", "model", "year", "color", "mileage", "daily_rate_cents", "available_now", "min_rent_days", "max_rent_days", "created_at"}

func TestCarRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCarRepository(db)
	ctx := context.Background()

	car := &domain.Car{Make: "Toyota", Model: "Corolla", Year: 2021, DailyRateCents: 5000, AvailableNow: true, MinRentDays: 2, MaxRentDays: 7}
	now := time.Now()
	mock.ExpectQuery("INSERT INTO cars").
		WithArgs("Toyota", "Corolla", 2021, nil, nil, int64(5000), true, 2, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))

	err := repo.Create(ctx, car)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), car.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCarRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(carRowColumns).
			AddRow(1, "Toyota", "Corolla", 2021, "red", 42000, 5000, true, 2, 7, time.Now())
		mock.ExpectQuery("SELECT (.+) FROM cars WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(rows)

		car, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Toyota", car.Make)
		require.NotNil(t, car.Color)
		assert.Equal(t, "red", *car.Color)
		assert.Equal(t, int64(5000), car.DailyRateCents)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM cars WHERE id = \\$1").
			WithArgs(int64(9)).
			WillReturnError(sql.ErrNoRows)

		car, err := repo.GetByID(ctx, 9)
		assert.Nil(t, car)
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarRepository_LockByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCarRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM cars WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(carRowColumns).
			AddRow(1, "Toyota", "Corolla", 2021, nil, nil, 5000, true, 2, 7, time.Now()))

	car, err := repo.LockByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, car.Color)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCarRepository(db)
	ctx := context.Background()

	t.Run("All filters", func(t *testing.T) {
		available := true
		query := regexp.QuoteMeta(`FROM cars WHERE make ILIKE '%' || $1 || '%' ESCAPE '\' AND model ILIKE '%' || $2 || '%' ESCAPE '\' AND year >= $3 AND year <= $4 AND available_now = $5 ORDER BY year DESC, make ASC, model ASC`)
		mock.ExpectQuery(query).
			WithArgs("toy", "cor", 2019, 2022, true).
			WillReturnRows(sqlmock.NewRows(carRowColumns).
				AddRow(1, "Toyota", "Corolla", 2021, nil, nil, 5000, true, 2, 7, time.Now()))

		cars, err := repo.List(ctx, domain.CarFilter{Make: "toy", Model: "cor", YearMin: 2019, YearMax: 2022, Available: &available})
		require.NoError(t, err)
		assert.Len(t, cars, 1)
	})

	t.Run("Wildcards match literally", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM cars WHERE make ILIKE '%' || $1 || '%' ESCAPE '\' ORDER BY`)).
			WithArgs(`50\%\_off\\`).
			WillReturnRows(sqlmock.NewRows(carRowColumns))

		_, err := repo.List(ctx, domain.CarFilter{Make: `50%_off\`})
		require.NoError(t, err)
	})

	t.Run("No filters", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM cars ORDER BY year DESC`)).
			WillReturnRows(sqlmock.NewRows(carRowColumns))

		cars, err := repo.List(ctx, domain.CarFilter{})
		require.NoError(t, err)
		assert.NotNil(t, cars)
		assert.Empty(t, cars)
	})

	t.Run("Available", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM cars WHERE available_now = $1`)).
			WithArgs(true).
			WillReturnRows(sqlmock.NewRows(carRowColumns))

		_, err := repo.ListAvailable(ctx)
		require.NoError(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCarRepository_UpdateDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCarRepository(db)
	ctx := context.Background()

	car := &domain.Car{ID: 1, Make: "Toyota", Model: "Corolla", Year: 2021, DailyRateCents: 5500, MinRentDays: 2, MaxRentDays: 7}
	mock.ExpectExec("UPDATE cars SET").
		WithArgs("Toyota", "Corolla", 2021, nil, nil, int64(5500), false, 2, 7, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Update(ctx, car))

	mock.ExpectExec("DELETE FROM cars WHERE id = \\$1").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Delete(ctx, 2)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}
