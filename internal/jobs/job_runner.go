package jobs

import (
	"time"

	"dods-cars-backend/internal/config"
	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/logger"
	"dods-cars-backend/internal/repository"
	"dods-cars-backend/internal/service"
)

// SystemApproverID is recorded as decided_by on bookings the jobs reject.
const SystemApproverID int64 = 0

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos    repository.Repos
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Booking service.BookingService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos repository.Repos, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		repos:    repos,
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// today is the current UTC calendar day
func (jr *JobRunner) today() time.Time {
	return domain.Day(jr.now().UTC())
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.RejectStalePendingBookings()
	jr.ReportLongRunningMaintenance()
}
