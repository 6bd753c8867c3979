package domain

import (
	"fmt"
	"strings"
	"time"
)

type Car struct {
	ID             int64     `json:"id" db:"id"`
	Make           string    `json:"make" db:"make"`
	Model          string    `json:"model" db:"model"`
	Year           int       `json:"year" db:"year"`
	Color          *string   `json:"color,omitempty" db:"color"`
	Mileage        *int64    `json:"mileage,omitempty" db:"mileage"`
	DailyRateCents int64     `json:"daily_rate_cents" db:"daily_rate_cents"`
	AvailableNow   bool      `json:"available_now" db:"available_now"`
	MinRentDays    int       `json:"min_rent_days" db:"min_rent_days"`
	MaxRentDays    int       `json:"max_rent_days" db:"max_rent_days"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

func (c *Car) Label() string {
	return fmt.Sprintf("%d %s %s", c.Year, c.Make, c.Model)
}

// ValidateDays checks a rental length against the car's min/max policy.
func (c *Car) ValidateDays(days int) error {
	if days < c.MinRentDays {
		return PolicyViolation(c.ID, "minimum rental for car %d is %d days, requested %d", c.ID, c.MinRentDays, days)
	}
	if days > c.MaxRentDays {
		return PolicyViolation(c.ID, "maximum rental for car %d is %d days, requested %d", c.ID, c.MaxRentDays, days)
	}
	return nil
}

// Validate checks the fields an administrator sets on create and update.
func (c *Car) Validate() error {
	if strings.TrimSpace(c.Make) == "" || strings.TrimSpace(c.Model) == "" {
		return PolicyViolation(c.ID, "make and model are required")
	}
	if c.Year < 1900 {
		return PolicyViolation(c.ID, "invalid year %d", c.Year)
	}
	if c.DailyRateCents <= 0 {
		return PolicyViolation(c.ID, "daily rate must be positive")
	}
	if c.DailyRateCents > MaxAmountCents {
		return PolicyViolation(c.ID, "daily rate %d cents exceeds the supported maximum", c.DailyRateCents)
	}
	if c.MinRentDays < 1 || c.MaxRentDays < c.MinRentDays {
		return PolicyViolation(c.ID, "rental day policy [%d, %d] is invalid", c.MinRentDays, c.MaxRentDays)
	}
	return nil
}

// CarFilter narrows a catalog listing. Zero values mean "any".
type CarFilter struct {
	Make      string
	Model     string
	YearMin   int
	YearMax   int
	Available *bool
}
