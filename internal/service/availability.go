package service

import (
	"context"
	"sort"
	"time"

	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/logger"
	"dods-cars-backend/internal/repository"
)

type AvailabilitySort string

const (
	SortYearDesc AvailabilitySort = "year_desc"
	SortRateAsc  AvailabilitySort = "rate_asc"
	SortRateDesc AvailabilitySort = "rate_desc"
)

func (s AvailabilitySort) Valid() bool {
	switch s {
	case "", SortYearDesc, SortRateAsc, SortRateDesc:
		return true
	}
	return false
}

// AvailabilityFilter describes an availability search. MinDays and MaxDays
// are optional caller bounds on the requested rental length; a range outside
// them matches no car, whatever the per-car policy.
type AvailabilityFilter struct {
	Start   time.Time
	End     time.Time
	MinDays *int
	MaxDays *int
	Sort    AvailabilitySort
}

type availabilityService struct {
	carRepo     repository.CarRepository
	maintRepo   repository.MaintenanceRepository
	bookingRepo repository.BookingRepository
}

func NewAvailabilityService(
	carRepo repository.CarRepository,
	maintRepo repository.MaintenanceRepository,
	bookingRepo repository.BookingRepository,
) AvailabilityService {
	return &availabilityService{
		carRepo:     carRepo,
		maintRepo:   maintRepo,
		bookingRepo: bookingRepo,
	}
}

func (s *availabilityService) AvailableCars(ctx context.Context, f AvailabilityFilter) ([]domain.Car, error) {
	logger.EnterMethod("availabilityService.AvailableCars", "start", f.Start, "end", f.End)

	rng, err := domain.NewDateRange(f.Start, f.End)
	if err != nil {
		logger.ExitMethodWithError("availabilityService.AvailableCars", err)
		return nil, err
	}
	if !f.Sort.Valid() {
		err := domain.PolicyViolation(0, "unknown sort %q", f.Sort)
		logger.ExitMethodWithError("availabilityService.AvailableCars", err)
		return nil, err
	}
	days := rng.Days()
	if (f.MinDays != nil && days < *f.MinDays) || (f.MaxDays != nil && days > *f.MaxDays) {
		logger.ExitMethod("availabilityService.AvailableCars", "count", 0)
		return []domain.Car{}, nil
	}

	cars, err := s.carRepo.ListAvailable(ctx)
	if err != nil {
		logger.ExitMethodWithError("availabilityService.AvailableCars", err)
		return nil, err
	}

	candidates := make([]domain.Car, 0, len(cars))
	ids := make([]int64, 0, len(cars))
	for _, c := range cars {
		if c.ValidateDays(days) != nil {
			continue
		}
		candidates = append(candidates, c)
		ids = append(ids, c.ID)
	}

	// Windows starting on or after the range end cannot overlap it, so the
	// store only needs to return those starting before it.
	maints, err := s.maintRepo.ListStartingBefore(ctx, ids, rng.End)
	if err != nil {
		logger.ExitMethodWithError("availabilityService.AvailableCars", err)
		return nil, err
	}
	approved, err := s.bookingRepo.ListApprovedStartingBefore(ctx, ids, rng.End)
	if err != nil {
		logger.ExitMethodWithError("availabilityService.AvailableCars", err)
		return nil, err
	}

	blocked := make(map[int64]bool)
	for i := range maints {
		if maints[i].Overlaps(rng) {
			blocked[maints[i].CarID] = true
		}
	}
	for i := range approved {
		if approved[i].Status == domain.BookingStatusApproved && approved[i].Overlaps(rng) {
			blocked[approved[i].CarID] = true
		}
	}

	result := make([]domain.Car, 0, len(candidates))
	for _, c := range candidates {
		if !blocked[c.ID] {
			result = append(result, c)
		}
	}
	sortCars(result, f.Sort)

	logger.ExitMethod("availabilityService.AvailableCars", "count", len(result))
	return result, nil
}

func sortCars(cars []domain.Car, by AvailabilitySort) {
	byYear := func(a, b domain.Car) bool {
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Make != b.Make {
			return a.Make < b.Make
		}
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		return a.ID < b.ID
	}
	sort.SliceStable(cars, func(i, j int) bool {
		a, b := cars[i], cars[j]
		switch by {
		case SortRateAsc:
			if a.DailyRateCents != b.DailyRateCents {
				return a.DailyRateCents < b.DailyRateCents
			}
		case SortRateDesc:
			if a.DailyRateCents != b.DailyRateCents {
				return a.DailyRateCents > b.DailyRateCents
			}
		}
		return byYear(a, b)
	})
}
