package postgres

import (
	"context"
	"time"

	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/logger"
	"dods-cars-backend/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const bookingColumns = `id, user_id, car_id, start_date, end_date, rental_days, total_fee_cents, status, decision_note, decided_by, created_at, updated_at`

type bookingRepository struct {
	db sqlx.ExtContext
}

func NewBookingRepository(db sqlx.ExtContext) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (user_id, car_id, start_date, end_date, rental_days, total_fee_cents, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	logger.DatabaseCall("BookingCreate", query, "car_id", b.CarID, "user_id", b.UserID)
	err := r.db.QueryRowxContext(ctx, query, b.UserID, b.CarID, b.StartDate, b.EndDate, b.RentalDays, b.TotalFeeCents, b.Status).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	logger.DatabaseResult("BookingCreate", 1, err, "booking_id", b.ID)
	return mapError(err, "create booking for car %d", b.CarID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, &b, query, id); err != nil {
		return nil, mapError(err, "booking %d", id)
	}
	return &b, nil
}

func (r *bookingRepository) LockByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	logger.DatabaseCall("BookingLock", query, "booking_id", id)
	if err := sqlx.GetContext(ctx, r.db, &b, query, id); err != nil {
		return nil, mapError(err, "booking %d", id)
	}
	return &b, nil
}

// UpdateDecision persists a pending -> approved/rejected transition. The
// status guard in the WHERE clause keeps a decided booking from moving again.
func (r *bookingRepository) UpdateDecision(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET status = $1, decision_note = $2, decided_by = $3, updated_at = NOW()
	          WHERE id = $4 AND status = 'pending'
	          RETURNING updated_at`
	logger.DatabaseCall("BookingUpdateDecision", query, "booking_id", b.ID, "status", b.Status)
	err := r.db.QueryRowxContext(ctx, query, b.Status, b.DecisionNote, b.DecidedBy, b.ID).Scan(&b.UpdatedAt)
	logger.DatabaseResult("BookingUpdateDecision", 1, err, "booking_id", b.ID)
	if err != nil {
		mapped := mapError(err, "booking %d", b.ID)
		if domain.IsKind(mapped, domain.KindNotFound) {
			return domain.InvalidState("booking %d is no longer pending", b.ID)
		}
		if domain.IsKind(mapped, domain.KindBookingConflict) {
			return domain.BookingConflict(b.CarID, b.ID, 0)
		}
		return mapped
	}
	return nil
}

func (r *bookingRepository) UpdateTotalFee(ctx context.Context, id int64, totalFeeCents int64) error {
	query := `UPDATE bookings SET total_fee_cents = $1, updated_at = NOW() WHERE id = $2`
	logger.DatabaseCall("BookingUpdateTotalFee", query, "booking_id", id)
	res, err := r.db.ExecContext(ctx, query, totalFeeCents, id)
	if err != nil {
		return mapError(err, "update fee of booking %d", id)
	}
	return expectAffected(res, "booking", id)
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	return r.selectBookings(ctx, "list bookings of user", query, userID)
}

func (r *bookingRepository) ListPending(ctx context.Context) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = 'pending' ORDER BY created_at ASC, id ASC`
	return r.selectBookings(ctx, "list pending bookings", query)
}

// List returns every booking, newest first; an empty status means all.
func (r *bookingRepository) List(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	if status == "" {
		query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC, id DESC`
		return r.selectBookings(ctx, "list bookings", query)
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY created_at DESC, id DESC`
	return r.selectBookings(ctx, "list bookings", query, status)
}

func (r *bookingRepository) ListApprovedStartingBefore(ctx context.Context, carIDs []int64, before time.Time) ([]domain.Booking, error) {
	if len(carIDs) == 0 {
		return []domain.Booking{}, nil
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE car_id = ANY($1) AND status = 'approved' AND start_date < $2
	          ORDER BY car_id, start_date`
	logger.DatabaseCall("BookingListApprovedStartingBefore", query, "cars", len(carIDs))
	return r.selectBookings(ctx, "list approved bookings for cars", query, pq.Array(carIDs), before)
}

func (r *bookingRepository) ListPendingStartedBefore(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE status = 'pending' AND start_date < $1
	          ORDER BY start_date ASC, id ASC`
	return r.selectBookings(ctx, "list stale pending bookings", query, before)
}

func (r *bookingRepository) selectBookings(ctx context.Context, op, query string, args ...any) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	if err := sqlx.SelectContext(ctx, r.db, &bookings, query, args...); err != nil {
		return nil, mapError(err, "%s", op)
	}
	return bookings, nil
}

func (r *bookingRepository) CreateCharge(ctx context.Context, c *domain.Charge) error {
	query := `INSERT INTO booking_charges (booking_id, code, amount_cents) VALUES ($1, $2, $3) RETURNING id, created_at`
	logger.DatabaseCall("ChargeCreate", query, "booking_id", c.BookingID, "code", c.Code)
	err := r.db.QueryRowxContext(ctx, query, c.BookingID, c.Code, c.AmountCents).Scan(&c.ID, &c.CreatedAt)
	logger.DatabaseResult("ChargeCreate", 1, err, "charge_id", c.ID)
	return mapError(err, "add charge to booking %d", c.BookingID)
}

func (r *bookingRepository) ListCharges(ctx context.Context, bookingID int64) ([]domain.Charge, error) {
	query := `SELECT id, booking_id, code, amount_cents, created_at FROM booking_charges WHERE booking_id = $1 ORDER BY id ASC`
	charges := []domain.Charge{}
	if err := sqlx.SelectContext(ctx, r.db, &charges, query, bookingID); err != nil {
		return nil, mapError(err, "list charges of booking %d", bookingID)
	}
	return charges, nil
}
