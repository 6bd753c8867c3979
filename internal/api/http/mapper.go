package http

import (
	"time"

	"dods-cars-backend/internal/domain"
	"dods-cars-backend/internal/utils"
)

// CarRequest is the create/update payload for a car. The rate may be given
// in cents or in dollars; cents win when both are set.
type CarRequest struct {
	Make           string   `json:"make"`
	Model          string   `json:"model"`
	Year           int      `json:"year"`
	Color          *string  `json:"color,omitempty"`
	Mileage        *int64   `json:"mileage,omitempty"`
	DailyRateCents *int64   `json:"daily_rate_cents,omitempty"`
	DailyRate      *float64 `json:"daily_rate,omitempty"`
	AvailableNow   *bool    `json:"available_now,omitempty"`
	MinRentDays    int      `json:"min_rent_days"`
	MaxRentDays    int      `json:"max_rent_days"`
}

type CarResponse struct {
	ID             int64   `json:"id"`
	Make           string  `json:"make"`
	Model          string  `json:"model"`
	Year           int     `json:"year"`
	Label          string  `json:"label"`
	Color          *string `json:"color,omitempty"`
	Mileage        *int64  `json:"mileage,omitempty"`
	DailyRateCents int64   `json:"daily_rate_cents"`
	DailyRate      string  `json:"daily_rate"`
	AvailableNow   bool    `json:"available_now"`
	MinRentDays    int     `json:"min_rent_days"`
	MaxRentDays    int     `json:"max_rent_days"`
	CreatedOn      string  `json:"created_on,omitempty"`
}

type MaintenanceRequest struct {
	Type      string   `json:"type"`
	StartDate string   `json:"start_date,omitempty"`
	CostCents *int64   `json:"cost_cents,omitempty"`
	Cost      *float64 `json:"cost,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

type CloseMaintenanceRequest struct {
	EndDate string  `json:"end_date,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

type MaintenanceResponse struct {
	ID        int64   `json:"id"`
	CarID     int64   `json:"car_id"`
	Type      string  `json:"type"`
	CostCents *int64  `json:"cost_cents,omitempty"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date,omitempty"`
	Active    bool    `json:"active"`
	Notes     *string `json:"notes,omitempty"`
}

type ExtraChargeRequest struct {
	Code        string   `json:"code"`
	AmountCents *int64   `json:"amount_cents,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
}

type BookingRequest struct {
	CarID     int64                `json:"car_id"`
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Extras    []ExtraChargeRequest `json:"extras,omitempty"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type BookingResponse struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	CarID         int64   `json:"car_id"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	RentalDays    int     `json:"rental_days"`
	TotalFeeCents int64   `json:"total_fee_cents"`
	TotalFee      string  `json:"total_fee"`
	Status        string  `json:"status"`
	DecisionNote  *string `json:"decision_note,omitempty"`
	DecidedBy     *int64  `json:"decided_by,omitempty"`
	CreatedOn     string  `json:"created_on,omitempty"`
	UpdatedOn     string  `json:"updated_on,omitempty"`
}

type ChargeResponse struct {
	ID          int64  `json:"id"`
	BookingID   int64  `json:"booking_id"`
	Code        string `json:"code"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
}

// ChargesResponse lists a booking's charges with their per-code totals.
type ChargesResponse struct {
	Charges     []ChargeResponse `json:"charges"`
	TotalCents  int64            `json:"total_cents"`
	TotalByCode map[string]int64 `json:"total_by_code"`
}

// centsOrDollars picks an amount given either in cents or in dollars.
func centsOrDollars(cents *int64, dollars *float64) int64 {
	if cents != nil {
		return *cents
	}
	if dollars != nil {
		return utils.DollarsToCents(*dollars)
	}
	return 0
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.DateLayout)
}

func MapCarRequestToDomain(req *CarRequest) *domain.Car {
	car := &domain.Car{
		Make:           req.Make,
		Model:          req.Model,
		Year:           req.Year,
		Color:          req.Color,
		Mileage:        req.Mileage,
		DailyRateCents: centsOrDollars(req.DailyRateCents, req.DailyRate),
		AvailableNow:   true,
		MinRentDays:    req.MinRentDays,
		MaxRentDays:    req.MaxRentDays,
	}
	if req.AvailableNow != nil {
		car.AvailableNow = *req.AvailableNow
	}
	return car
}

func MapDomainCarToResponse(c *domain.Car) *CarResponse {
	if c == nil {
		return nil
	}
	return &CarResponse{
		ID:             c.ID,
		Make:           c.Make,
		Model:          c.Model,
		Year:           c.Year,
		Label:          c.Label(),
		Color:          c.Color,
		Mileage:        c.Mileage,
		DailyRateCents: c.DailyRateCents,
		DailyRate:      utils.FormatCents(c.DailyRateCents),
		AvailableNow:   c.AvailableNow,
		MinRentDays:    c.MinRentDays,
		MaxRentDays:    c.MaxRentDays,
		CreatedOn:      formatDate(c.CreatedAt),
	}
}

func MapDomainCarsToResponse(cars []domain.Car) []*CarResponse {
	res := make([]*CarResponse, 0, len(cars))
	for i := range cars {
		res = append(res, MapDomainCarToResponse(&cars[i]))
	}
	return res
}

func MapDomainMaintenanceToResponse(m *domain.Maintenance) *MaintenanceResponse {
	if m == nil {
		return nil
	}
	res := &MaintenanceResponse{
		ID:        m.ID,
		CarID:     m.CarID,
		Type:      m.Type,
		CostCents: m.CostCents,
		StartDate: formatDate(m.StartDate),
		Active:    m.Active(),
		Notes:     m.Notes,
	}
	if m.EndDate != nil {
		end := formatDate(*m.EndDate)
		res.EndDate = &end
	}
	return res
}

func MapDomainMaintenanceListToResponse(items []domain.Maintenance) []*MaintenanceResponse {
	res := make([]*MaintenanceResponse, 0, len(items))
	for i := range items {
		res = append(res, MapDomainMaintenanceToResponse(&items[i]))
	}
	return res
}

func MapExtrasToDomain(extras []ExtraChargeRequest) []domain.ExtraCharge {
	res := make([]domain.ExtraCharge, 0, len(extras))
	for _, ex := range extras {
		res = append(res, domain.ExtraCharge{
			Code:        ex.Code,
			AmountCents: centsOrDollars(ex.AmountCents, ex.Amount),
		})
	}
	return res
}

func MapDomainBookingToResponse(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}
	return &BookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		CarID:         b.CarID,
		StartDate:     formatDate(b.StartDate),
		EndDate:       formatDate(b.EndDate),
		RentalDays:    b.RentalDays,
		TotalFeeCents: b.TotalFeeCents,
		TotalFee:      utils.FormatCents(b.TotalFeeCents),
		Status:        string(b.Status),
		DecisionNote:  b.DecisionNote,
		DecidedBy:     b.DecidedBy,
		CreatedOn:     formatDate(b.CreatedAt),
		UpdatedOn:     formatDate(b.UpdatedAt),
	}
}

func MapDomainBookingsToResponse(bookings []domain.Booking) []*BookingResponse {
	res := make([]*BookingResponse, 0, len(bookings))
	for i := range bookings {
		res = append(res, MapDomainBookingToResponse(&bookings[i]))
	}
	return res
}

func MapDomainChargeToResponse(c *domain.Charge) *ChargeResponse {
	if c == nil {
		return nil
	}
	return &ChargeResponse{
		ID:          c.ID,
		BookingID:   c.BookingID,
		Code:        c.Code,
		AmountCents: c.AmountCents,
		Amount:      utils.FormatCents(c.AmountCents),
	}
}

func MapDomainChargesToResponse(charges []domain.Charge) (*ChargesResponse, error) {
	breakdown, err := utils.CalculateFeeBreakdown(0, 0, charges)
	if err != nil {
		return nil, err
	}
	res := &ChargesResponse{
		Charges:     make([]ChargeResponse, 0, len(charges)),
		TotalCents:  breakdown.ExtrasCost,
		TotalByCode: breakdown.ExtrasByCode,
	}
	for i := range charges {
		res.Charges = append(res.Charges, *MapDomainChargeToResponse(&charges[i]))
	}
	return res, nil
}
