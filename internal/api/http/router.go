package http

import (
	"net/http"

	"dods-cars-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services bundles the services the HTTP surface exposes.
type Services struct {
	Car          service.CarService
	Availability service.AvailabilityService
	Booking      service.BookingService
}

// NewRouter builds the REST router with request id, access log and panic
// recovery middleware.
func NewRouter(svcs Services) *mux.Router {
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware, RequestIDMiddleware, LoggingMiddleware)

	router.HandleFunc("/health", Health).Methods(http.MethodGet)

	RegisterCarRoutes(router, NewCarHandler(svcs.Car, svcs.Availability))
	RegisterBookingRoutes(router, NewBookingHandler(svcs.Booking))
	return router
}

// RegisterCarRoutes registers the car catalog, availability and maintenance endpoints
func RegisterCarRoutes(router *mux.Router, h *CarHandler) {
	router.HandleFunc("/cars", h.ListCars).Methods(http.MethodGet)
	router.HandleFunc("/cars", h.CreateCar).Methods(http.MethodPost)
	router.HandleFunc("/cars/available", h.AvailableCars).Methods(http.MethodGet)
	router.HandleFunc("/cars/{id:[0-9]+}", h.GetCar).Methods(http.MethodGet)
	router.HandleFunc("/cars/{id:[0-9]+}", h.UpdateCar).Methods(http.MethodPut)
	router.HandleFunc("/cars/{id:[0-9]+}", h.DeleteCar).Methods(http.MethodDelete)
	router.HandleFunc("/cars/{id:[0-9]+}/maintenance", h.OpenMaintenance).Methods(http.MethodPost)
	router.HandleFunc("/cars/{id:[0-9]+}/maintenance/active", h.ActiveMaintenance).Methods(http.MethodGet)

	router.HandleFunc("/maintenance", h.ListMaintenance).Methods(http.MethodGet)
	router.HandleFunc("/maintenance/{id:[0-9]+}", h.GetMaintenance).Methods(http.MethodGet)
	router.HandleFunc("/maintenance/{id:[0-9]+}/close", h.CloseMaintenance).Methods(http.MethodPost)
}

// RegisterBookingRoutes registers the booking lifecycle endpoints
func RegisterBookingRoutes(router *mux.Router, h *BookingHandler) {
	router.HandleFunc("/bookings", h.ListBookings).Methods(http.MethodGet)
	router.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	router.HandleFunc("/bookings/pending", h.ListPendingBookings).Methods(http.MethodGet)
	router.HandleFunc("/bookings/mine", h.ListMyBookings).Methods(http.MethodGet)
	router.HandleFunc("/bookings/{id:[0-9]+}", h.GetBooking).Methods(http.MethodGet)
	router.HandleFunc("/bookings/{id:[0-9]+}/approve", h.ApproveBooking).Methods(http.MethodPost)
	router.HandleFunc("/bookings/{id:[0-9]+}/reject", h.RejectBooking).Methods(http.MethodPost)
	router.HandleFunc("/bookings/{id:[0-9]+}/recalculate", h.RecalculateFee).Methods(http.MethodPost)
	router.HandleFunc("/bookings/{id:[0-9]+}/charges", h.ListCharges).Methods(http.MethodGet)
	router.HandleFunc("/bookings/{id:[0-9]+}/charges", h.AddCharge).Methods(http.MethodPost)
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
