package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusApproved BookingStatus = "approved"
	BookingStatusRejected BookingStatus = "rejected"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected:
		return true
	}
	return false
}

type Booking struct {
	ID            int64         `json:"id" db:"id"`
	UserID        int64         `json:"user_id" db:"user_id"`
	CarID         int64         `json:"car_id" db:"car_id"`
	StartDate     time.Time     `json:"start_date" db:"start_date"`
	EndDate       time.Time     `json:"end_date" db:"end_date"`
	RentalDays    int           `json:"rental_days" db:"rental_days"`
	TotalFeeCents int64         `json:"total_fee_cents" db:"total_fee_cents"`
	Status        BookingStatus `json:"status" db:"status"`
	DecisionNote  *string       `json:"decision_note,omitempty" db:"decision_note"`
	DecidedBy     *int64        `json:"decided_by,omitempty" db:"decided_by"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

func (b *Booking) Range() DateRange {
	return DateRange{Start: Day(b.StartDate), End: Day(b.EndDate)}
}

func (b *Booking) Overlaps(r DateRange) bool {
	return b.Range().Overlaps(r)
}

// CanTransition reports whether the booking may move to next. Only
// pending bookings move, and only to approved or rejected.
func (b *Booking) CanTransition(next BookingStatus) bool {
	if b.Status != BookingStatusPending {
		return false
	}
	return next == BookingStatusApproved || next == BookingStatusRejected
}

// MaxAmountCents caps a single money amount (daily rate or charge line) at
// one billion dollars.
const MaxAmountCents int64 = 100_000_000_000

// Charge is an extra fee line on a booking. Charges are only ever added.
type Charge struct {
	ID          int64     `json:"id" db:"id"`
	BookingID   int64     `json:"booking_id" db:"booking_id"`
	Code        string    `json:"code" db:"code"`
	AmountCents int64     `json:"amount_cents" db:"amount_cents"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ExtraCharge is a charge requested before its booking exists.
type ExtraCharge struct {
	Code        string `json:"code"`
	AmountCents int64  `json:"amount_cents"`
}
