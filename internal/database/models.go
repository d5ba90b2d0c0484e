package database

import (
	"database/sql"
	"time"
)

// Record kinds. Every stored record belongs to exactly one family.
const (
	KindExpense = "expense"
	KindKey     = "key"
	KindMetric  = "metric"
)

// Record is a single user-owned entry: an expense, a stored API key
// reference, or a recorded metric sample. Amount is nullable because key
// records carry no numeric value.
type Record struct {
	ID        int64     `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	UserID   int64           `db:"user_id"`
	Kind     string          `db:"kind"`
	Name     string          `db:"name"`
	Category string          `db:"category"`
	Amount   sql.NullFloat64 `db:"amount"`
	Unit     string          `db:"unit"`
	Year     int             `db:"year"`
	Note     string          `db:"note"`
}

// UserPref stores a user's persisted response-language preference. It is
// created on the first set-language command and read on every message.
type UserPref struct {
	UserID    int64     `db:"user_id"`
	Language  string    `db:"language"`
	UpdatedAt time.Time `db:"updated_at"`
}

// RecordStats is the aggregate result for a user's expense records in a
// given year.
type RecordStats struct {
	Year  int     `db:"year"`
	Count int     `db:"count"`
	Total float64 `db:"total"`
}
