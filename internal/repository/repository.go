package repository

import (
	"context"
	"time"

	"dods-cars-backend/internal/domain"
)

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
	// LockByID reads the car and holds a row lock until the surrounding
	// transaction ends. Outside a transaction it behaves like GetByID.
	LockByID(ctx context.Context, id int64) (*domain.Car, error)
	List(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error)
	ListAvailable(ctx context.Context) ([]domain.Car, error)
	Update(ctx context.Context, car *domain.Car) error
	Delete(ctx context.Context, id int64) error
}

type MaintenanceRepository interface {
	Create(ctx context.Context, m *domain.Maintenance) error
	GetByID(ctx context.Context, id int64) (*domain.Maintenance, error)
	Close(ctx context.Context, id int64, endDate time.Time, notes *string) error
	List(ctx context.Context, filter domain.MaintenanceFilter) ([]domain.Maintenance, error)
	// ListStartingBefore returns windows on the given cars whose start date is
	// before the given day; exact overlap is decided by the caller.
	ListStartingBefore(ctx context.Context, carIDs []int64, before time.Time) ([]domain.Maintenance, error)
	ListOpenStartedBefore(ctx context.Context, before time.Time) ([]domain.Maintenance, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	LockByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateDecision(ctx context.Context, b *domain.Booking) error
	UpdateTotalFee(ctx context.Context, id int64, totalFeeCents int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListPending(ctx context.Context) ([]domain.Booking, error)
	List(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
	// ListApprovedStartingBefore is the approved-booking counterpart of
	// MaintenanceRepository.ListStartingBefore.
	ListApprovedStartingBefore(ctx context.Context, carIDs []int64, before time.Time) ([]domain.Booking, error)
	ListPendingStartedBefore(ctx context.Context, before time.Time) ([]domain.Booking, error)

	// Booking charges
	CreateCharge(ctx context.Context, c *domain.Charge) error
	ListCharges(ctx context.Context, bookingID int64) ([]domain.Charge, error)
}

// Repos groups the repositories bound to one connection or transaction.
type Repos struct {
	Cars        CarRepository
	Maintenance MaintenanceRepository
	Bookings    BookingRepository
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
