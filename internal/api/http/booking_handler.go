package http

import (
	"net/http"
	"strings"

	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/service"
)

type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, apiErr := GetUserIDFromRequest(r)
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	var req BookingRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	if req.CarID <= 0 {
		writeAPIError(w, r, newAPIError(http.StatusBadRequest, "INVALID_ARGUMENT", "car_id is required"))
		return
	}
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	b, err := h.bookingSvc.CreateBooking(r.Context(), userID, req.CarID, start, end, MapExtrasToDomain(req.Extras))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapDomainBookingToResponse(b))
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	b, err := h.bookingSvc.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainBookingToResponse(b))
}

// ListBookings answers GET /bookings?status=
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	status := domain.BookingStatus(strings.ToLower(r.URL.Query().Get("status")))
	bookings, err := h.bookingSvc.ListBookings(r.Context(), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainBookingsToResponse(bookings))
}

func (h *BookingHandler) ListPendingBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingSvc.ListPendingBookings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainBookingsToResponse(bookings))
}

func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	userID, apiErr := GetUserIDFromRequest(r)
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	bookings, err := h.bookingSvc.ListUserBookings(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainBookingsToResponse(bookings))
}

func (h *BookingHandler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	approverID, apiErr := GetUserIDFromRequest(r)
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	b, err := h.bookingSvc.ApproveBooking(r.Context(), approverID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainBookingToResponse(b))
}

func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	approverID, apiErr := GetUserIDFromRequest(r)
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	var req RejectRequest
	if r.ContentLength != 0 {
		if apiErr := decodeJSON(r, &req); apiErr != nil {
			writeAPIError(w, r, apiErr)
			return
		}
	}
	b, err := h.bookingSvc.RejectBooking(r.Context(), approverID, id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainBookingToResponse(b))
}

func (h *BookingHandler) RecalculateFee(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	b, err := h.bookingSvc.RecalculateFee(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapDomainBookingToResponse(b))
}

func (h *BookingHandler) AddCharge(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	var req ExtraChargeRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	c, err := h.bookingSvc.AddCharge(r.Context(), id, req.Code, centsOrDollars(req.AmountCents, req.Amount))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapDomainChargeToResponse(c))
}

func (h *BookingHandler) ListCharges(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		writeAPIError(w, r, apiErr)
		return
	}
	charges, err := h.bookingSvc.ListCharges(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := MapDomainChargesToResponse(charges)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
