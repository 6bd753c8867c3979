package service

import (
	"context"
	"strings"
	"time"

	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/logger"
	"dods-cars-backend/internal/repository"
	"dods-cars-backend/internal/utils"
)

type bookingService struct {
	tx    repository.Transactor
	repos repository.Repos
}

// NewBookingService builds the booking lifecycle service. Reads go through
// repos; every write runs inside a transaction obtained from tx.
func NewBookingService(tx repository.Transactor, repos repository.Repos) BookingService {
	return &bookingService{tx: tx, repos: repos}
}

// CreateBooking stores a pending booking and its extra charges. Overlaps are
// not checked here; they are resolved when the booking is approved.
func (s *bookingService) CreateBooking(ctx context.Context, userID, carID int64, start, end time.Time, extras []domain.ExtraCharge) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CreateBooking", "userID", userID, "carID", carID, "start", start, "end", end)

	rng, err := domain.NewDateRange(start, end)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err)
		return nil, err
	}
	if err := utils.ValidateExtras(extras); err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err)
		return nil, err
	}

	var booking *domain.Booking
	err = s.tx.WithinTx(ctx, func(r repository.Repos) error {
		car, err := r.Cars.GetByID(ctx, carID)
		if err != nil {
			return err
		}
		days := rng.Days()
		if err := car.ValidateDays(days); err != nil {
			return err
		}

		charges := utils.ExtrasToCharges(0, extras)
		fee, err := utils.CalculateTotalFee(car.DailyRateCents, days, charges)
		if err != nil {
			return err
		}
		b := &domain.Booking{
			UserID:        userID,
			CarID:         carID,
			StartDate:     rng.Start,
			EndDate:       rng.End,
			RentalDays:    days,
			TotalFeeCents: fee,
			Status:        domain.BookingStatusPending,
		}
		if err := r.Bookings.Create(ctx, b); err != nil {
			return err
		}
		for i := range charges {
			charges[i].BookingID = b.ID
			if err := r.Bookings.CreateCharge(ctx, &charges[i]); err != nil {
				return err
			}
		}
		booking = b
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err)
		return nil, err
	}

	logger.Info("Booking created", "bookingID", booking.ID, "carID", carID, "userID", userID,
		"range", rng.String(), "fee", utils.FormatCents(booking.TotalFeeCents))
	logger.ExitMethod("bookingService.CreateBooking", "bookingID", booking.ID)
	return booking, nil
}

// ApproveBooking moves a pending booking to approved after re-checking it
// against maintenance windows and approved bookings on the same car. The
// booking and car rows stay locked until the transaction ends, so concurrent
// approvals for one car are serialized.
func (s *bookingService) ApproveBooking(ctx context.Context, approverID, bookingID int64) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.ApproveBooking", "approverID", approverID, "bookingID", bookingID)

	var booking *domain.Booking
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		b, err := r.Bookings.LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if !b.CanTransition(domain.BookingStatusApproved) {
			return domain.InvalidState("booking %d is %s, only pending bookings can be approved", b.ID, b.Status)
		}
		if _, err := r.Cars.LockByID(ctx, b.CarID); err != nil {
			return err
		}

		rng := b.Range()
		maints, err := r.Maintenance.ListStartingBefore(ctx, []int64{b.CarID}, rng.End)
		if err != nil {
			return err
		}
		for i := range maints {
			if maints[i].Overlaps(rng) {
				return domain.MaintenanceConflict(b.CarID, b.ID, maints[i].ID)
			}
		}

		approved, err := r.Bookings.ListApprovedStartingBefore(ctx, []int64{b.CarID}, rng.End)
		if err != nil {
			return err
		}
		for i := range approved {
			other := approved[i]
			if other.ID == b.ID || other.Status != domain.BookingStatusApproved {
				continue
			}
			if other.Overlaps(rng) {
				return domain.BookingConflict(b.CarID, b.ID, other.ID)
			}
		}

		b.Status = domain.BookingStatusApproved
		b.DecidedBy = &approverID
		if err := r.Bookings.UpdateDecision(ctx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.ApproveBooking", err)
		return nil, err
	}

	logger.Info("Booking approved", "bookingID", booking.ID, "carID", booking.CarID, "approverID", approverID)
	logger.ExitMethod("bookingService.ApproveBooking")
	return booking, nil
}

// RejectBooking moves a pending booking to rejected. The reason, when given,
// is kept as the decision note.
func (s *bookingService) RejectBooking(ctx context.Context, approverID, bookingID int64, reason string) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.RejectBooking", "approverID", approverID, "bookingID", bookingID)

	var booking *domain.Booking
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		b, err := r.Bookings.LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if !b.CanTransition(domain.BookingStatusRejected) {
			return domain.InvalidState("booking %d is %s, only pending bookings can be rejected", b.ID, b.Status)
		}
		b.Status = domain.BookingStatusRejected
		b.DecidedBy = &approverID
		if note := strings.TrimSpace(reason); note != "" {
			b.DecisionNote = &note
		}
		if err := r.Bookings.UpdateDecision(ctx, b); err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.RejectBooking", err)
		return nil, err
	}

	logger.Info("Booking rejected", "bookingID", booking.ID, "approverID", approverID)
	logger.ExitMethod("bookingService.RejectBooking")
	return booking, nil
}

// RecalculateFee reprices a booking from the car's current rate, the stored
// day count and the charges on file. Allowed in any status.
func (s *bookingService) RecalculateFee(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.RecalculateFee", "bookingID", bookingID)

	var booking *domain.Booking
	err := s.tx.WithinTx(ctx, func(r repository.Repos) error {
		b, err := r.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		car, err := r.Cars.GetByID(ctx, b.CarID)
		if err != nil {
			return err
		}
		charges, err := r.Bookings.ListCharges(ctx, b.ID)
		if err != nil {
			return err
		}
		fee, err := utils.CalculateTotalFee(car.DailyRateCents, b.RentalDays, charges)
		if err != nil {
			return err
		}
		if fee != b.TotalFeeCents {
			if err := r.Bookings.UpdateTotalFee(ctx, b.ID, fee); err != nil {
				return err
			}
			b.TotalFeeCents = fee
		}
		booking = b
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.RecalculateFee", err)
		return nil, err
	}

	logger.ExitMethod("bookingService.RecalculateFee", "fee", utils.FormatCents(booking.TotalFeeCents))
	return booking, nil
}

// AddCharge appends a charge line. The booking fee is not changed until
// RecalculateFee runs.
func (s *bookingService) AddCharge(ctx context.Context, bookingID int64, code string, amountCents int64) (*domain.Charge, error) {
	logger.EnterMethod("bookingService.AddCharge", "bookingID", bookingID, "code", code)

	extra := domain.ExtraCharge{Code: strings.TrimSpace(code), AmountCents: amountCents}
	if err := utils.ValidateExtras([]domain.ExtraCharge{extra}); err != nil {
		logger.ExitMethodWithError("bookingService.AddCharge", err)
		return nil, err
	}
	if _, err := s.repos.Bookings.GetByID(ctx, bookingID); err != nil {
		logger.ExitMethodWithError("bookingService.AddCharge", err)
		return nil, err
	}

	charge := &domain.Charge{BookingID: bookingID, Code: extra.Code, AmountCents: extra.AmountCents}
	if err := s.repos.Bookings.CreateCharge(ctx, charge); err != nil {
		logger.ExitMethodWithError("bookingService.AddCharge", err)
		return nil, err
	}

	logger.ExitMethod("bookingService.AddCharge", "chargeID", charge.ID)
	return charge, nil
}

func (s *bookingService) ListCharges(ctx context.Context, bookingID int64) ([]domain.Charge, error) {
	if _, err := s.repos.Bookings.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.repos.Bookings.ListCharges(ctx, bookingID)
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.repos.Bookings.GetByID(ctx, id)
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.repos.Bookings.ListByUser(ctx, userID)
}

func (s *bookingService) ListPendingBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.repos.Bookings.ListPending(ctx)
}

func (s *bookingService) ListBookings(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	if status != "" && !status.Valid() {
		return nil, domain.PolicyViolation(0, "unknown booking status %q", status)
	}
	return s.repos.Bookings.List(ctx, status)
}
