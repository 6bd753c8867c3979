package domain

import "time"

type MaintenanceSort string

const (
	MaintenanceSortStartDesc MaintenanceSort = "start_desc"
	MaintenanceSortStartAsc  MaintenanceSort = "start_asc"
)

// Maintenance is a window during which a car cannot be rented. A nil
// EndDate means the window is still open.
type Maintenance struct {
	ID        int64      `json:"id" db:"id"`
	CarID     int64      `json:"car_id" db:"car_id"`
	Type      string     `json:"type" db:"type"`
	CostCents *int64     `json:"cost_cents,omitempty" db:"cost_cents"`
	StartDate time.Time  `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty" db:"end_date"`
	Notes     *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

func (m *Maintenance) Active() bool {
	return m.EndDate == nil
}

// Window returns the blocked range, running to MaxDate while open.
func (m *Maintenance) Window() DateRange {
	end := MaxDate
	if m.EndDate != nil {
		end = Day(*m.EndDate)
	}
	return DateRange{Start: Day(m.StartDate), End: end}
}

func (m *Maintenance) Overlaps(r DateRange) bool {
	return m.Window().Overlaps(r)
}

type MaintenanceFilter struct {
	CarID  int64
	Active *bool // true: open only, false: closed only, nil: all
	Sort   MaintenanceSort
}
