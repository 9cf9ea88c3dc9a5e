package billing

import "time"

// Grace periods between a period's due date and its overdue threshold.
// The two paths deliberately carry different values: the general payment
// flow allows 7 days while member self-service submissions allow 5.
const (
	PaymentGraceDays     = 7
	SelfServiceGraceDays = 5
)

// DueDates computes the rent due date and overdue threshold for a billing
// period. The due day-of-month mirrors the member's join day; when the
// target month is shorter the due date falls back to the month's last day.
// Pure and deterministic.
func DueDates(joinDate time.Time, month time.Month, year int, graceDays int) (dueDate, overdueDate time.Time) {
	day := joinDate.Day()
	if last := DaysInMonth(month, year); day > last {
		day = last
	}
	dueDate = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	overdueDate = dueDate.AddDate(0, 0, graceDays)
	return dueDate, overdueDate
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(month time.Month, year int) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

// dateOnly truncates a timestamp to its UTC calendar day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
