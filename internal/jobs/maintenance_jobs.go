package jobs

import (
	"context"

	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/logger"
)

// ReportLongRunningMaintenance logs open maintenance windows that started
// more than the configured number of days ago. An open window blocks every
// approval on its car, so forgotten ones need attention.
func (jr *JobRunner) ReportLongRunningMaintenance() {
	jr.runWithRecovery("ReportLongRunningMaintenance", func() {
		found, err := jr.reportLongRunningMaintenance(context.Background())
		if err != nil {
			logger.Error("Failed to list long running maintenance", "error", err)
			return
		}
		logger.Info("Long running maintenance report", "count", len(found))
	})
}

func (jr *JobRunner) reportLongRunningMaintenance(ctx context.Context) ([]domain.Maintenance, error) {
	today := jr.today()
	cutoff := today.AddDate(0, 0, -jr.config.Booking.MaintenanceAlertDays)

	items, err := jr.repos.Maintenance.ListOpenStartedBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	for _, m := range items {
		logger.Warn("Maintenance window still open",
			"maintenance_id", m.ID,
			"car_id", m.CarID,
			"type", m.Type,
			"start_date", m.StartDate.Format(domain.DateLayout),
			"open_days", int(today.Sub(domain.Day(m.StartDate)).Hours()/24))
	}
	return items, nil
}
