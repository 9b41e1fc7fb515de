// Package lifecycle содержит чистые правила жизненного цикла оборудования:
// вычисление отображаемого статуса и оценку чек-листа инспекции.
package lifecycle

import (
	"math"
	"time"
)

// StoredStatus - статус, хранящийся в equipment.status.
type StoredStatus string

const (
	StatusActive              StoredStatus = "active"
	StatusMaintenanceRequired StoredStatus = "maintenance_required"
)

func (s StoredStatus) Valid() bool {
	return s == StatusActive || s == StatusMaintenanceRequired
}

// DerivedStatus - вычисляемый статус для экранов.
type DerivedStatus string

const (
	DerivedActive  DerivedStatus = "active"
	DerivedWarning DerivedStatus = "warning"
	DerivedLocked  DerivedStatus = "locked"
)

// WarningWindowDays - за сколько календарных дней до срока показывается предупреждение.
const WarningWindowDays = 7

// DeriveStatus: явная неисправность всегда важнее срока обслуживания.
// Оборудование без даты следующего обслуживания считается просроченным.
func DeriveStatus(today time.Time, nextMaintenance *time.Time, stored StoredStatus) DerivedStatus {
	if stored == StatusMaintenanceRequired {
		return DerivedLocked
	}
	if nextMaintenance == nil {
		return DerivedLocked
	}

	days := DaysUntil(today, *nextMaintenance)
	switch {
	case days < 0:
		return DerivedLocked
	case days <= WarningWindowDays:
		return DerivedWarning
	default:
		return DerivedActive
	}
}

// DaysUntil считает разницу в календарных днях в часовом поясе today.
// Срок "сегодня" даёт 0, а не отрицательное значение.
func DaysUntil(today, due time.Time) int {
	loc := today.Location()
	from := dateOnly(today, loc)
	to := dateOnly(due.In(loc), loc)
	// Round: сутки при переходе на летнее время длятся 23 или 25 часов.
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// NextMaintenanceDate - дата следующего обслуживания для только что обслуженного оборудования.
func NextMaintenanceDate(from time.Time, periodDays int) time.Time {
	return from.AddDate(0, 0, periodDays)
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
