package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr(t time.Time) *time.Time { return &t }

func TestDeriveStatus(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		due    *time.Time
		stored StoredStatus
		want   DerivedStatus
	}{
		{"просрочено на день", ptr(today.AddDate(0, 0, -1)), StatusActive, DerivedLocked},
		{"просрочено давно", ptr(today.AddDate(-1, 0, 0)), StatusActive, DerivedLocked},
		{"срок сегодня утром", ptr(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)), StatusActive, DerivedWarning},
		{"срок сегодня вечером", ptr(time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)), StatusActive, DerivedWarning},
		{"ровно 7 дней", ptr(today.AddDate(0, 0, 7)), StatusActive, DerivedWarning},
		{"8 дней", ptr(today.AddDate(0, 0, 8)), StatusActive, DerivedActive},
		{"полгода", ptr(today.AddDate(0, 0, 180)), StatusActive, DerivedActive},
		{"неисправно при действующем сроке", ptr(today.AddDate(0, 0, 100)), StatusMaintenanceRequired, DerivedLocked},
		{"неисправно в окне предупреждения", ptr(today.AddDate(0, 0, 3)), StatusMaintenanceRequired, DerivedLocked},
		{"нет даты обслуживания", nil, StatusActive, DerivedLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(today, tt.due, tt.stored))
		})
	}
}

func TestDeriveStatus_PastAlwaysLocked(t *testing.T) {
	today := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for d := 1; d <= 400; d++ {
		due := today.AddDate(0, 0, -d)
		assert.Equal(t, DerivedLocked, DeriveStatus(today, &due, StatusActive), "дней назад: %d", d)
	}
}

func TestDeriveStatus_WindowAndBeyond(t *testing.T) {
	today := time.Date(2026, 6, 15, 18, 45, 0, 0, time.UTC)
	for d := 0; d <= 30; d++ {
		due := today.AddDate(0, 0, d)
		want := DerivedActive
		if d <= WarningWindowDays {
			want = DerivedWarning
		}
		assert.Equal(t, want, DeriveStatus(today, &due, StatusActive), "дней вперёд: %d", d)
	}
}

func TestDeriveStatus_IsPure(t *testing.T) {
	today := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	due := today.AddDate(0, 0, 5)
	first := DeriveStatus(today, &due, StatusActive)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DeriveStatus(today, &due, StatusActive))
	}
}

func TestDaysUntil_CalendarGranularity(t *testing.T) {
	loc := time.FixedZone("TRT", 3*60*60)
	today := time.Date(2026, 3, 10, 23, 50, 0, 0, loc)
	tomorrowEarly := time.Date(2026, 3, 11, 0, 10, 0, 0, loc)

	assert.Equal(t, 1, DaysUntil(today, tomorrowEarly), "20 минут, но следующий календарный день")
	assert.Equal(t, 0, DaysUntil(today, today.Add(-time.Hour)))
	assert.Equal(t, -1, DaysUntil(today, today.AddDate(0, 0, -1)))
}

func TestNextMaintenanceDate_NewEquipmentIsActive(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	next := NextMaintenanceDate(now, 180)

	assert.Equal(t, now.AddDate(0, 0, 180), next)
	assert.Equal(t, 180, DaysUntil(now, next))
	assert.Equal(t, DerivedActive, DeriveStatus(now, &next, StatusActive))
}
