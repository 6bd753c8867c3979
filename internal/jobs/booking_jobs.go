package jobs

import (
	"context"

	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/logger"
)

const staleBookingNote = "expired: start date passed"

// RejectStalePendingBookings rejects pending bookings whose start date
// passed more than the configured grace period ago. They can no longer be
// honoured and would otherwise sit in the approval queue forever.
func (jr *JobRunner) RejectStalePendingBookings() {
	jr.runWithRecovery("RejectStalePendingBookings", func() {
		rejected, err := jr.rejectStalePendingBookings(context.Background())
		if err != nil {
			logger.Error("Failed to reject stale pending bookings", "error", err)
			return
		}
		logger.Info("Rejected stale pending bookings", "count", rejected)
	})
}

func (jr *JobRunner) rejectStalePendingBookings(ctx context.Context) (int, error) {
	cutoff := jr.today().AddDate(0, 0, -jr.config.Booking.PendingExpiryGraceDays)

	stale, err := jr.repos.Bookings.ListPendingStartedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	rejected := 0
	for _, b := range stale {
		_, err := jr.services.Booking.RejectBooking(ctx, SystemApproverID, b.ID, staleBookingNote)
		if err != nil {
			// Decided by someone else since the listing.
			if domain.IsKind(err, domain.KindInvalidState) {
				logger.Warn("Skipping booking no longer pending", "booking_id", b.ID)
				continue
			}
			logger.Error("Failed to reject stale booking", "booking_id", b.ID, "error", err)
			continue
		}
		logger.Debug("Rejected stale booking",
			"booking_id", b.ID,
			"car_id", b.CarID,
			"user_id", b.UserID,
			"start_date", b.StartDate.Format(domain.DateLayout))
		rejected++
	}
	return rejected, nil
}
