package service

import (
	"context"
	"strings"
	"time"

	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/logger"
	"dods-cars-backend/internal/repository"
)

type carService struct {
	carRepo   repository.CarRepository
	maintRepo repository.MaintenanceRepository
	now       func() time.Time
}

func NewCarService(carRepo repository.CarRepository, maintRepo repository.MaintenanceRepository) CarService {
	return &carService{
		carRepo:   carRepo,
		maintRepo: maintRepo,
		now:       time.Now,
	}
}

func (s *carService) CreateCar(ctx context.Context, car *domain.Car) error {
	logger.EnterMethod("carService.CreateCar", "make", car.Make, "model", car.Model)
	car.Make = strings.TrimSpace(car.Make)
	car.Model = strings.TrimSpace(car.Model)
	if err := car.Validate(); err != nil {
		logger.ExitMethodWithError("carService.CreateCar", err)
		return err
	}
	if err := s.carRepo.Create(ctx, car); err != nil {
		logger.ExitMethodWithError("carService.CreateCar", err)
		return err
	}
	logger.Info("Car added", "carID", car.ID, "car", car.Label())
	logger.ExitMethod("carService.CreateCar", "carID", car.ID)
	return nil
}

func (s *carService) GetCar(ctx context.Context, id int64) (*domain.Car, error) {
	return s.carRepo.GetByID(ctx, id)
}

func (s *carService) ListCars(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error) {
	if filter.YearMin != 0 && filter.YearMax != 0 && filter.YearMin > filter.YearMax {
		return nil, domain.InvalidRange("year_min %d is after year_max %d", filter.YearMin, filter.YearMax)
	}
	filter.Make = strings.TrimSpace(filter.Make)
	filter.Model = strings.TrimSpace(filter.Model)
	return s.carRepo.List(ctx, filter)
}

func (s *carService) UpdateCar(ctx context.Context, car *domain.Car) error {
	logger.EnterMethod("carService.UpdateCar", "carID", car.ID)
	car.Make = strings.TrimSpace(car.Make)
	car.Model = strings.TrimSpace(car.Model)
	if err := car.Validate(); err != nil {
		logger.ExitMethodWithError("carService.UpdateCar", err)
		return err
	}
	if err := s.carRepo.Update(ctx, car); err != nil {
		logger.ExitMethodWithError("carService.UpdateCar", err)
		return err
	}
	logger.ExitMethod("carService.UpdateCar")
	return nil
}

// DeleteCar removes a car. Its bookings, charges and maintenance go with it
// through the schema's cascade rules.
func (s *carService) DeleteCar(ctx context.Context, id int64) error {
	logger.EnterMethod("carService.DeleteCar", "carID", id)
	if err := s.carRepo.Delete(ctx, id); err != nil {
		logger.ExitMethodWithError("carService.DeleteCar", err)
		return err
	}
	logger.Info("Car deleted", "carID", id)
	logger.ExitMethod("carService.DeleteCar")
	return nil
}

// OpenMaintenance starts an open-ended window. While open it blocks every
// booking on the car that ends after its start.
func (s *carService) OpenMaintenance(ctx context.Context, carID int64, maintType string, start time.Time, costCents *int64, notes *string) (*domain.Maintenance, error) {
	logger.EnterMethod("carService.OpenMaintenance", "carID", carID, "type", maintType)

	maintType = strings.TrimSpace(maintType)
	if maintType == "" {
		err := domain.PolicyViolation(carID, "maintenance type is required")
		logger.ExitMethodWithError("carService.OpenMaintenance", err)
		return nil, err
	}
	if costCents != nil && *costCents < 0 {
		err := domain.PolicyViolation(carID, "maintenance cost must not be negative")
		logger.ExitMethodWithError("carService.OpenMaintenance", err)
		return nil, err
	}
	if start.IsZero() {
		start = s.now()
	}
	if _, err := s.carRepo.GetByID(ctx, carID); err != nil {
		logger.ExitMethodWithError("carService.OpenMaintenance", err)
		return nil, err
	}

	m := &domain.Maintenance{
		CarID:     carID,
		Type:      maintType,
		CostCents: costCents,
		StartDate: domain.Day(start),
		Notes:     notes,
	}
	if err := s.maintRepo.Create(ctx, m); err != nil {
		logger.ExitMethodWithError("carService.OpenMaintenance", err)
		return nil, err
	}

	logger.Info("Maintenance opened", "maintenanceID", m.ID, "carID", carID, "start", m.StartDate.Format(domain.DateLayout))
	logger.ExitMethod("carService.OpenMaintenance", "maintenanceID", m.ID)
	return m, nil
}

// CloseMaintenance sets the end date of an open window; nil means today.
func (s *carService) CloseMaintenance(ctx context.Context, id int64, end *time.Time, notes *string) (*domain.Maintenance, error) {
	logger.EnterMethod("carService.CloseMaintenance", "maintenanceID", id)

	m, err := s.maintRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("carService.CloseMaintenance", err)
		return nil, err
	}
	if !m.Active() {
		err := domain.InvalidState("maintenance %d is already closed", id)
		logger.ExitMethodWithError("carService.CloseMaintenance", err)
		return nil, err
	}

	endDate := domain.Day(s.now())
	if end != nil {
		endDate = domain.Day(*end)
	}
	if endDate.Before(domain.Day(m.StartDate)) {
		err := domain.InvalidRange("maintenance end %s is before its start %s",
			endDate.Format(domain.DateLayout), m.StartDate.Format(domain.DateLayout))
		logger.ExitMethodWithError("carService.CloseMaintenance", err)
		return nil, err
	}

	if err := s.maintRepo.Close(ctx, id, endDate, notes); err != nil {
		logger.ExitMethodWithError("carService.CloseMaintenance", err)
		return nil, err
	}
	m.EndDate = &endDate
	if notes != nil {
		m.Notes = notes
	}

	logger.Info("Maintenance closed", "maintenanceID", id, "carID", m.CarID, "end", endDate.Format(domain.DateLayout))
	logger.ExitMethod("carService.CloseMaintenance")
	return m, nil
}

func (s *carService) GetMaintenance(ctx context.Context, id int64) (*domain.Maintenance, error) {
	return s.maintRepo.GetByID(ctx, id)
}

func (s *carService) ListMaintenance(ctx context.Context, filter domain.MaintenanceFilter) ([]domain.Maintenance, error) {
	switch filter.Sort {
	case "", domain.MaintenanceSortStartDesc, domain.MaintenanceSortStartAsc:
	default:
		return nil, domain.PolicyViolation(filter.CarID, "unknown sort %q", filter.Sort)
	}
	return s.maintRepo.List(ctx, filter)
}

// ActiveMaintenance lists the open windows on a car, newest first.
func (s *carService) ActiveMaintenance(ctx context.Context, carID int64) ([]domain.Maintenance, error) {
	active := true
	return s.maintRepo.List(ctx, domain.MaintenanceFilter{
		CarID:  carID,
		Active: &active,
		Sort:   domain.MaintenanceSortStartDesc,
	})
}
