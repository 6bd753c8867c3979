package utils

import (
	"fmt"
	"math"
	"strings"

	"dods-cars-backend/internal/domain"
)

// FeeBreakdown provides a detailed booking fee breakdown
type FeeBreakdown struct {
	Days          int
	DailyRate     int64
	BaseCost      int64
	ExtrasCost    int64
	ExtrasByCode  map[string]int64
	TotalFeeCents int64
}

// CalculateTotalFee returns daily rate * days + the sum of extra charges.
// All amounts are integer cents, so the total is already exact to 2 decimal places.
func CalculateTotalFee(dailyRateCents int64, days int, charges []domain.Charge) (int64, error) {
	b, err := CalculateFeeBreakdown(dailyRateCents, days, charges)
	if err != nil {
		return 0, err
	}
	return b.TotalFeeCents, nil
}

// CalculateFeeBreakdown provides the per-part cost of a booking. A total
// that does not fit in int64 cents is a PolicyViolation.
func CalculateFeeBreakdown(dailyRateCents int64, days int, charges []domain.Charge) (FeeBreakdown, error) {
	b := FeeBreakdown{
		Days:         days,
		DailyRate:    dailyRateCents,
		ExtrasByCode: make(map[string]int64),
	}
	var ok bool
	if b.BaseCost, ok = mulCents(dailyRateCents, int64(days)); !ok {
		return FeeBreakdown{}, errFeeOverflow()
	}
	for _, c := range charges {
		if b.ExtrasCost, ok = addCents(b.ExtrasCost, c.AmountCents); !ok {
			return FeeBreakdown{}, errFeeOverflow()
		}
		if b.ExtrasByCode[c.Code], ok = addCents(b.ExtrasByCode[c.Code], c.AmountCents); !ok {
			return FeeBreakdown{}, errFeeOverflow()
		}
	}
	if b.TotalFeeCents, ok = addCents(b.BaseCost, b.ExtrasCost); !ok {
		return FeeBreakdown{}, errFeeOverflow()
	}
	return b, nil
}

func errFeeOverflow() error {
	return domain.PolicyViolation(0, "booking fee exceeds the largest supported amount")
}

func addCents(a, b int64) (int64, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}

func mulCents(a, n int64) (int64, bool) {
	if a == 0 || n == 0 {
		return 0, true
	}
	if (a == -1 && n == math.MinInt64) || (n == -1 && a == math.MinInt64) {
		return 0, false
	}
	p := a * n
	if p/n != a {
		return 0, false
	}
	return p, true
}

// ExtrasToCharges converts requested extras into unsaved charge lines
func ExtrasToCharges(bookingID int64, extras []domain.ExtraCharge) []domain.Charge {
	charges := make([]domain.Charge, 0, len(extras))
	for _, ex := range extras {
		charges = append(charges, domain.Charge{
			BookingID:   bookingID,
			Code:        ex.Code,
			AmountCents: ex.AmountCents,
		})
	}
	return charges
}

// ValidateExtras rejects blank codes and amounts outside [0, MaxAmountCents]
func ValidateExtras(extras []domain.ExtraCharge) error {
	for _, ex := range extras {
		if strings.TrimSpace(ex.Code) == "" {
			return domain.PolicyViolation(0, "extra charge code is required")
		}
		if ex.AmountCents < 0 {
			return domain.PolicyViolation(0, "extra charge %q must not be negative", ex.Code)
		}
		if ex.AmountCents > domain.MaxAmountCents {
			return domain.PolicyViolation(0, "extra charge %q exceeds %s", ex.Code, FormatCents(domain.MaxAmountCents))
		}
	}
	return nil
}

// DollarsToCents rounds a dollar amount half away from zero to whole cents.
// Amounts beyond the int64 range saturate; NaN converts to 0.
func DollarsToCents(dollars float64) int64 {
	cents := math.Round(dollars * 100)
	switch {
	case math.IsNaN(cents):
		return 0
	case cents >= math.MaxInt64:
		return math.MaxInt64
	case cents <= math.MinInt64:
		return math.MinInt64
	}
	return int64(cents)
}

// FormatCents renders cents as a dollar string, e.g. 15000 -> "$150.00"
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
