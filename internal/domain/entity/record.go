package entity

import (
	"time"
)

// DateLayout is the wire format of a record date.
const DateLayout = "2006-01-02"

// RecordKind identifies one of the measurement collections.
type RecordKind string

const (
	RecordKindWeight  RecordKind = "weight"
	RecordKindSleep   RecordKind = "sleep"
	RecordKindCalorie RecordKind = "calorie"
)

// ValueField returns the JSON field that carries the measurement for the kind.
func (k RecordKind) ValueField() string {
	switch k {
	case RecordKindSleep:
		return "sleep_time"
	case RecordKindCalorie:
		return "calorie"
	default:
		return "weight"
	}
}

// UniquePerDay reports whether a user can hold at most one record of the kind per date.
func (k RecordKind) UniquePerDay() bool {
	return k == RecordKindWeight || k == RecordKindSleep
}

// IsValid reports whether k is a known kind.
func (k RecordKind) IsValid() bool {
	switch k {
	case RecordKindWeight, RecordKindSleep, RecordKindCalorie:
		return true
	default:
		return false
	}
}

// Record is a single dated measurement owned by a user.
// Weight is kilograms, sleep is hours and calorie is kcal.
type Record struct {
	ID         uint64
	UserID     uint64
	Kind       RecordKind
	RecordedAt time.Time // Calendar date, time of day is always zero UTC.
	Value      float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ParseDate parses a YYYY-MM-DD calendar date into a UTC midnight time.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// TruncateDate drops the time of day, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
