package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"dods-cars-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingRowColumns = []string{"id", "user_id", "car_id", "start_date", "end_date", "rental_days", "total_fee_cents", "status", "decision_note", "decided_by", "created_at", "updated_at"}

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBookingRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	b := &domain.Booking{
		UserID:        7,
		CarID:         1,
		StartDate:     day("2025-01-10"),
		EndDate:       day("2025-01-13"),
		RentalDays:    3,
		TotalFeeCents: 15000,
		Status:        domain.BookingStatusPending,
	}

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("INSERT INTO bookings").
			WithArgs(int64(7), int64(1), b.StartDate, b.EndDate, 3, int64(15000), domain.BookingStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, now, now))

		err := repo.Create(ctx, b)
		assert.NoError(t, err)
		assert.Equal(t, int64(10), b.ID)
	})

	t.Run("Unknown car", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO bookings").
			WillReturnError(&pq.Error{Code: "23503", Constraint: "bookings_car_id_fkey"})

		err := repo.Create(ctx, &domain.Booking{CarID: 99, Status: domain.BookingStatusPending})
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id = \\$1 FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).
			AddRow(1, 7, 1, day("2025-01-10"), day("2025-01-13"), 3, 15000, "pending", nil, nil, now, now))

	b, err := repo.LockByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, b.Status)
	assert.Equal(t, 3, b.RentalDays)
	assert.Nil(t, b.DecidedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_UpdateDecision(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	approver := int64(100)
	b := &domain.Booking{ID: 1, CarID: 1, Status: domain.BookingStatusApproved, DecidedBy: &approver}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("UPDATE bookings SET status = \\$1, decision_note = \\$2, decided_by = \\$3, updated_at = NOW\\(\\)\\s+WHERE id = \\$4 AND status = 'pending'").
			WithArgs(domain.BookingStatusApproved, nil, int64(100), int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

		assert.NoError(t, repo.UpdateDecision(ctx, b))
	})

	t.Run("Already decided", func(t *testing.T) {
		mock.ExpectQuery("UPDATE bookings SET status").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

		err := repo.UpdateDecision(ctx, b)
		assert.True(t, domain.IsKind(err, domain.KindInvalidState))
	})

	t.Run("Exclusion constraint", func(t *testing.T) {
		mock.ExpectQuery("UPDATE bookings SET status").
			WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_no_approved_overlap"})

		err := repo.UpdateDecision(ctx, b)
		require.True(t, domain.IsKind(err, domain.KindBookingConflict))
		var de *domain.Error
		require.True(t, errors.As(err, &de))
		assert.Equal(t, int64(1), de.BookingID)
		assert.Equal(t, int64(1), de.CarID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_UpdateTotalFee(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectExec("UPDATE bookings SET total_fee_cents = \\$1").
		WithArgs(int64(20000), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateTotalFee(context.Background(), 1, 20000))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_Lists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()
	now := time.Now()

	row := func(rows *sqlmock.Rows, id int64, status string) *sqlmock.Rows {
		return rows.AddRow(id, 7, 1, day("2025-01-10"), day("2025-01-13"), 3, 15000, status, nil, nil, now, now)
	}

	mock.ExpectQuery("FROM bookings WHERE user_id = \\$1 ORDER BY created_at DESC").
		WithArgs(int64(7)).
		WillReturnRows(row(row(sqlmock.NewRows(bookingRowColumns), 2, "pending"), 1, "approved"))
	mine, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	mock.ExpectQuery("FROM bookings WHERE status = 'pending' ORDER BY created_at ASC").
		WillReturnRows(row(sqlmock.NewRows(bookingRowColumns), 2, "pending"))
	pending, err := repo.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	mock.ExpectQuery("FROM bookings ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))
	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)

	mock.ExpectQuery("FROM bookings WHERE status = \\$1").
		WithArgs(domain.BookingStatusRejected).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))
	_, err = repo.List(ctx, domain.BookingStatusRejected)
	require.NoError(t, err)

	mock.ExpectQuery("WHERE car_id = ANY\\(\\$1\\) AND status = 'approved' AND start_date < \\$2").
		WithArgs(pq.Array([]int64{1, 2}), day("2025-01-13")).
		WillReturnRows(row(sqlmock.NewRows(bookingRowColumns), 1, "approved"))
	approved, err := repo.ListApprovedStartingBefore(ctx, []int64{1, 2}, day("2025-01-13"))
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	// no query for an empty car set
	none, err := repo.ListApprovedStartingBefore(ctx, nil, day("2025-01-13"))
	require.NoError(t, err)
	assert.Empty(t, none)

	mock.ExpectQuery("WHERE status = 'pending' AND start_date < \\$1").
		WithArgs(day("2025-01-01")).
		WillReturnError(errors.New("connection refused"))
	_, err = repo.ListPendingStartedBefore(ctx, day("2025-01-01"))
	assert.True(t, domain.IsKind(err, domain.KindInfrastructure))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_Charges(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	c := &domain.Charge{BookingID: 1, Code: "INSURANCE", AmountCents: 2000}
	mock.ExpectQuery("INSERT INTO booking_charges").
		WithArgs(int64(1), "INSURANCE", int64(2000)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(4, time.Now()))
	require.NoError(t, repo.CreateCharge(ctx, c))
	assert.Equal(t, int64(4), c.ID)

	mock.ExpectQuery("FROM booking_charges WHERE booking_id = \\$1 ORDER BY id ASC").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "code", "amount_cents", "created_at"}).
			AddRow(4, 1, "INSURANCE", 2000, time.Now()).
			AddRow(5, 1, "CLEANING", 1500, time.Now()))
	charges, err := repo.ListCharges(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, charges, 2)
	assert.Equal(t, "CLEANING", charges[1].Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}
