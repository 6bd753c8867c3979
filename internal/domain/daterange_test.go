package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"Identical", "2025-01-10", "2025-01-13", "2025-01-10", "2025-01-13", true},
		{"Partial", "2025-01-10", "2025-01-13", "2025-01-12", "2025-01-15", true},
		{"Contained", "2025-01-10", "2025-01-20", "2025-01-12", "2025-01-13", true},
		{"Back to back", "2025-01-10", "2025-01-13", "2025-01-13", "2025-01-15", false},
		{"Back to back reversed", "2025-01-13", "2025-01-15", "2025-01-10", "2025-01-13", false},
		{"Disjoint", "2025-01-10", "2025-01-11", "2025-02-01", "2025-02-03", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(d(tt.aStart), d(tt.aEnd), d(tt.bStart), d(tt.bEnd))
			assert.Equal(t, tt.want, got)
			// symmetric
			assert.Equal(t, tt.want, Overlaps(d(tt.bStart), d(tt.bEnd), d(tt.aStart), d(tt.aEnd)))
		})
	}
}

func TestNewDateRange(t *testing.T) {
	r, err := NewDateRange(time.Date(2025, 1, 10, 15, 4, 0, 0, time.UTC), d("2025-01-13"))
	require.NoError(t, err)
	assert.Equal(t, d("2025-01-10"), r.Start)
	assert.Equal(t, 3, r.Days())
	assert.Equal(t, "2025-01-10..2025-01-13", r.String())

	_, err = NewDateRange(d("2025-01-10"), d("2025-01-10"))
	assert.True(t, IsKind(err, KindInvalidRange))

	_, err = NewDateRange(d("2025-01-13"), d("2025-01-10"))
	assert.True(t, IsKind(err, KindInvalidRange))
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange(" 2024-02-28 ", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Days())

	long, err := ParseDateRange("1500-01-01", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, 191753, long.Days())

	for _, tc := range [][2]string{
		{"2024-02-30", "2024-03-01"},
		{"01/10/2025", "2025-01-13"},
		{"2025-01-10", ""},
	} {
		_, err := ParseDateRange(tc[0], tc[1])
		assert.True(t, IsKind(err, KindInvalidRange), "%v", tc)
	}
}

func TestMaintenanceWindow(t *testing.T) {
	open := &Maintenance{ID: 1, StartDate: d("2025-01-05")}
	assert.True(t, open.Active())
	assert.Equal(t, MaxDate, open.Window().End)
	assert.True(t, open.Overlaps(DateRange{Start: d("2030-01-01"), End: d("2030-01-03")}))
	assert.False(t, open.Overlaps(DateRange{Start: d("2025-01-01"), End: d("2025-01-05")}))

	end := d("2025-01-08")
	closed := &Maintenance{ID: 2, StartDate: d("2025-01-05"), EndDate: &end}
	assert.False(t, closed.Active())
	assert.True(t, closed.Overlaps(DateRange{Start: d("2025-01-07"), End: d("2025-01-09")}))
	assert.False(t, closed.Overlaps(DateRange{Start: d("2025-01-08"), End: d("2025-01-09")}))

	// A same-day close still blocks bookings spanning that day.
	sameDay := d("2025-01-05")
	brief := &Maintenance{ID: 3, StartDate: d("2025-01-05"), EndDate: &sameDay}
	assert.True(t, brief.Overlaps(DateRange{Start: d("2025-01-04"), End: d("2025-01-06")}))
	assert.False(t, brief.Overlaps(DateRange{Start: d("2025-01-05"), End: d("2025-01-07")}))
}
