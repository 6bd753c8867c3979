package service

import (
	"context"
	"time"

	"dods-cars-backend/internal/domain"
)

type CarService interface {
	CreateCar(ctx context.Context, car *domain.Car) error
	GetCar(ctx context.Context, id int64) (*domain.Car, error)
	ListCars(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error)
	UpdateCar(ctx context.Context, car *domain.Car) error
	DeleteCar(ctx context.Context, id int64) error

	// Maintenance windows
	OpenMaintenance(ctx context.Context, carID int64, maintType string, start time.Time, costCents *int64, notes *string) (*domain.Maintenance, error)
	CloseMaintenance(ctx context.Context, id int64, end *time.Time, notes *string) (*domain.Maintenance, error) // nil end closes today
	GetMaintenance(ctx context.Context, id int64) (*domain.Maintenance, error)
	ListMaintenance(ctx context.Context, filter domain.MaintenanceFilter) ([]domain.Maintenance, error)
	ActiveMaintenance(ctx context.Context, carID int64) ([]domain.Maintenance, error)
}

type AvailabilityService interface {
	AvailableCars(ctx context.Context, filter AvailabilityFilter) ([]domain.Car, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID, carID int64, start, end time.Time, extras []domain.ExtraCharge) (*domain.Booking, error)
	ApproveBooking(ctx context.Context, approverID, bookingID int64) (*domain.Booking, error)
	RejectBooking(ctx context.Context, approverID, bookingID int64, reason string) (*domain.Booking, error)
	RecalculateFee(ctx context.Context, bookingID int64) (*domain.Booking, error)
	AddCharge(ctx context.Context, bookingID int64, code string, amountCents int64) (*domain.Charge, error)
	ListCharges(ctx context.Context, bookingID int64) ([]domain.Charge, error)

	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListPendingBookings(ctx context.Context) ([]domain.Booking, error)
	ListBookings(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
}
