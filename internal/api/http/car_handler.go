package http

import (
	"net/http"
	"strings"
	"time"

	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/service"
)

type CarHandler struct {
	carSvc          service.CarService
	availabilitySvc service.AvailabilityService
}

func NewCarHandler(carSvc service.CarService, availabilitySvc service.AvailabilityService) *CarHandler {
	return &CarHandler{carSvc: carSvc, availabilitySvc: availabilitySvc}
}

func (h *CarHandler) CreateCar(w http.ResponseWriter, r *http.Request) {
	var req CarRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	car := MapCarRequestToDomain(&req)
	if err := h.carSvc.CreateCar(r.Context(), car); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapDomainCarToResponse(car))
}

func (h *CarHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	car, err := h.carSvc.GetCar(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainCarToResponse(car))
}

func (h *CarHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.CarFilter{Make: q.Get("make"), Model: q.Get("model")}

	yearMin, apiErr := queryInt(r, "year_min")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	yearMax, apiErr := queryInt(r, "year_max")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	available, apiErr := queryBool(r, "available")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	if yearMin != nil {
		filter.YearMin = *yearMin
	}
	if yearMax != nil {
		filter.YearMax = *yearMax
	}
	filter.Available = available

	cars, err := h.carSvc.ListCars(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainCarsToResponse(cars))
}

func (h *CarHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	var req CarRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	car := MapCarRequestToDomain(&req)
	car.ID = id
	if err := h.carSvc.UpdateCar(r.Context(), car); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainCarToResponse(car))
}

func (h *CarHandler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	if err := h.carSvc.DeleteCar(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AvailableCars answers GET /cars/available?start=&end=&min_days=&max_days=&sort=
func (h *CarHandler) AvailableCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := domain.ParseDate(q.Get("start"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := domain.ParseDate(q.Get("end"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	minDays, apiErr := queryInt(r, "min_days")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	maxDays, apiErr := queryInt(r, "max_days")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}

	cars, err := h.availabilitySvc.AvailableCars(r.Context(), service.AvailabilityFilter{
		Start:   start,
		End:     end,
		MinDays: minDays,
		MaxDays: maxDays,
		Sort:    service.AvailabilitySort(strings.ToLower(q.Get("sort"))),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainCarsToResponse(cars))
}

func (h *CarHandler) OpenMaintenance(w http.ResponseWriter, r *http.Request) {
	carID, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	var req MaintenanceRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}

	var start time.Time
	if req.StartDate != "" {
		var err error
		if start, err = domain.ParseDate(req.StartDate); err != nil {
			writeError(w, r, err)
			return
		}
	}
	var cost *int64
	if req.CostCents != nil || req.Cost != nil {
		c := centsOrDollars(req.CostCents, req.Cost)
		cost = &c
	}

	m, err := h.carSvc.OpenMaintenance(r.Context(), carID, req.Type, start, cost, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapDomainMaintenanceToResponse(m))
}

func (h *CarHandler) ActiveMaintenance(w http.ResponseWriter, r *http.Request) {
	carID, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	items, err := h.carSvc.ActiveMaintenance(r.Context(), carID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainMaintenanceListToResponse(items))
}

func (h *CarHandler) CloseMaintenance(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	var req CloseMaintenanceRequest
	if r.ContentLength != 0 {
		if apiErr := decodeJSON(r, &req); apiErr != nil {
			writeAPIError(w, r, apiErr)
			return
		}
	}

	var end *time.Time
	if req.EndDate != "" {
		t, err := domain.ParseDate(req.EndDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		end = &t
	}

	m, err := h.carSvc.CloseMaintenance(r.Context(), id, end, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainMaintenanceToResponse(m))
}

func (h *CarHandler) GetMaintenance(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	m, err := h.carSvc.GetMaintenance(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainMaintenanceToResponse(m))
}

// ListMaintenance answers GET /maintenance?car_id=&active=&sort=
func (h *CarHandler) ListMaintenance(w http.ResponseWriter, r *http.Request) {
	carID, apiErr := queryInt(r, "car_id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	active, apiErr := queryBool(r, "active")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	filter := domain.MaintenanceFilter{
		Active: active,
		Sort:   domain.MaintenanceSort(strings.ToLower(r.URL.Query().Get("sort"))),
	}
	if carID != nil {
		filter.CarID = int64(*carID)
	}

	items, err := h.carSvc.ListMaintenance(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainMaintenanceListToResponse(items))
}
