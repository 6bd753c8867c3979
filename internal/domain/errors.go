package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so callers can branch on it without
// matching message text.
type ErrorKind string

const (
	KindInvalidRange        ErrorKind = "INVALID_RANGE"
	KindPolicyViolation     ErrorKind = "POLICY_VIOLATION"
	KindMaintenanceConflict ErrorKind = "MAINTENANCE_CONFLICT"
	KindBookingConflict     ErrorKind = "BOOKING_CONFLICT"
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindInvalidState        ErrorKind = "INVALID_STATE"
	KindInfrastructure      ErrorKind = "INFRASTRUCTURE"
)

// Error is the single error type returned by the domain, service and
// repository layers. The id fields are zero when not relevant.
type Error struct {
	Kind                 ErrorKind
	Message              string
	CarID                int64
	BookingID            int64
	MaintenanceID        int64
	ConflictingBookingID int64
	Err                  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Expected reports whether the error is a business-rule outcome rather than
// a fault.
func (e *Error) Expected() bool {
	return e.Kind != KindInfrastructure
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: k}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func InvalidRange(format string, args ...any) *Error {
	return NewError(KindInvalidRange, format, args...)
}

func PolicyViolation(carID int64, format string, args ...any) *Error {
	e := NewError(KindPolicyViolation, format, args...)
	e.CarID = carID
	return e
}

func NotFound(format string, args ...any) *Error {
	return NewError(KindNotFound, format, args...)
}

func InvalidState(format string, args ...any) *Error {
	return NewError(KindInvalidState, format, args...)
}

// MaintenanceConflict reports that a booking range collides with a
// maintenance window on the same car.
func MaintenanceConflict(carID, bookingID, maintenanceID int64) *Error {
	return &Error{
		Kind:          KindMaintenanceConflict,
		Message:       fmt.Sprintf("booking %d overlaps maintenance window %d on car %d", bookingID, maintenanceID, carID),
		CarID:         carID,
		BookingID:     bookingID,
		MaintenanceID: maintenanceID,
	}
}

// BookingConflict reports that a booking range collides with another
// approved booking on the same car. conflictID is the approved booking.
func BookingConflict(carID, bookingID, conflictID int64) *Error {
	msg := fmt.Sprintf("booking %d overlaps approved booking %d on car %d", bookingID, conflictID, carID)
	if conflictID == 0 {
		msg = fmt.Sprintf("booking %d overlaps an approved booking on car %d", bookingID, carID)
	}
	return &Error{
		Kind:                 KindBookingConflict,
		Message:              msg,
		CarID:                carID,
		BookingID:            bookingID,
		ConflictingBookingID: conflictID,
	}
}

// Infrastructure wraps a storage or transport failure the domain does not
// interpret.
func Infrastructure(err error, format string, args ...any) *Error {
	e := NewError(KindInfrastructure, format, args...)
	e.Err = err
	return e
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInfrastructure for any other non-nil error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInfrastructure
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
