package itinerary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(value string) time.Time {
	d, _ := time.Parse("2006-01-02", value)
	return d
}

func TestTotalDaysInclusive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"weekend trip", "2026-03-06", "2026-03-08", 3},
		{"consecutive days", "2026-03-06", "2026-03-07", 2},
		{"one week", "2026-03-01", "2026-03-07", 7},
		{"across month boundary", "2026-01-30", "2026-02-02", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Itinerary{StartDate: date(tt.start), EndDate: date(tt.end)}
			assert.Equal(t, tt.want, it.TotalDays())
		})
	}
}

func TestTripTypeIsValid(t *testing.T) {
	t.Parallel()

	for _, tripType := range []TripType{TripTypeSolo, TripTypeCouple, TripTypeFamily, TripTypeGroup} {
		assert.True(t, tripType.IsValid())
	}
	assert.False(t, TripType("BUSINESS").IsValid())
	assert.False(t, TripType("").IsValid())
}

func TestBudgetIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Budget50To100.IsValid())
	assert.True(t, Budget300To500p.IsValid())
	assert.False(t, Budget("0-50").IsValid())
}

func TestDurationIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Duration3Days.IsValid())
	assert.True(t, Duration2Weeks.IsValid())
	assert.False(t, Duration("1_MONTH").IsValid())
}
