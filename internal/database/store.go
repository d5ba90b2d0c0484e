package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the persistence operations the dispatcher depends on.
// Single-row lookups return nil, nil when the row is absent; id-keyed
// update and delete report whether the target existed through their
// boolean result rather than an error.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// CreateRecord inserts a new record and returns its assigned id.
	CreateRecord(ctx context.Context, record *Record) (int64, error)

	// GetRecord retrieves one of the user's records by id. Returns nil, nil if not found.
	GetRecord(ctx context.Context, userID, id int64) (*Record, error)

	// ListRecords retrieves the user's most recent records, optionally
	// filtered by kind (empty means all), year (0 means all), and
	// category (empty means all).
	ListRecords(ctx context.Context, userID int64, kind string, year int, category string, limit int) ([]Record, error)

	// SearchRecords retrieves records whose name, category, or note contains the keyword.
	SearchRecords(ctx context.Context, userID int64, keyword string, limit int) ([]Record, error)

	// UpdateRecord applies the non-zero fields of record to the stored
	// row with the same id and user. Returns false if no such row exists.
	UpdateRecord(ctx context.Context, record *Record) (bool, error)

	// DeleteRecord removes one of the user's records. Returns false if no such row exists.
	DeleteRecord(ctx context.Context, userID, id int64) (bool, error)

	// AggregateRecords returns count and amount total for the user's expense records in a year.
	AggregateRecords(ctx context.Context, userID int64, year int) (*RecordStats, error)

	// GetUserPref retrieves a user's language preference. Returns nil, nil if not set.
	GetUserPref(ctx context.Context, userID int64) (*UserPref, error)

	// SetUserPref inserts or updates a user's language preference.
	SetUserPref(ctx context.Context, pref *UserPref) error

	// DeleteAllRecords removes every record (admin reset).
	DeleteAllRecords(ctx context.Context) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateRecord inserts a new record and returns its assigned id.
func (s *sqlxStore) CreateRecord(ctx context.Context, record *Record) (int64, error) {
	if record == nil {
		return 0, fmt.Errorf("cannot create nil record")
	}
	if record.UserID == 0 {
		return 0, fmt.Errorf("record must have a non-zero user_id")
	}
	if record.Kind == "" {
		return 0, fmt.Errorf("record must have a kind")
	}

	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO records (user_id, kind, name, category, amount, unit, year, note, created_at, updated_at)
		VALUES (:user_id, :kind, :name, :category, :amount, :unit, :year, :note, :created_at, :updated_at)`,
		record)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to insert record",
			"user_id", record.UserID, "kind", record.Kind, "error", err)
		return 0, fmt.Errorf("failed to insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted record id: %w", err)
	}
	record.ID = id

	s.logger.DebugContext(ctx, "Record created", "record_id", id, "kind", record.Kind)
	return id, nil
}

// GetRecord retrieves one of the user's records by id.
func (s *sqlxStore) GetRecord(ctx context.Context, userID, id int64) (*Record, error) {
	var record Record
	err := s.db.GetContext(ctx, &record,
		"SELECT * FROM records WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "Failed to get record", "record_id", id, "error", err)
		return nil, fmt.Errorf("failed to get record %d: %w", id, err)
	}
	return &record, nil
}

// ListRecords retrieves the user's most recent records with optional filters.
func (s *sqlxStore) ListRecords(ctx context.Context, userID int64, kind string, year int, category string, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := "SELECT * FROM records WHERE user_id = ?"
	args := []any{userID}
	if kind != "" {
		query += " AND kind = ?"
		args = append(args, kind)
	}
	if year != 0 {
		query += " AND year = ?"
		args = append(args, year)
	}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	records := []Record{}
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list records", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// SearchRecords retrieves records whose text fields contain the keyword.
func (s *sqlxStore) SearchRecords(ctx context.Context, userID int64, keyword string, limit int) ([]Record, error) {
	if keyword == "" {
		return nil, fmt.Errorf("search keyword cannot be empty")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	pattern := "%" + keyword + "%"
	records := []Record{}
	err := s.db.SelectContext(ctx, &records, `
		SELECT * FROM records
		WHERE user_id = ? AND (name LIKE ? OR category LIKE ? OR note LIKE ?)
		ORDER BY id DESC LIMIT ?`,
		userID, pattern, pattern, pattern, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to search records",
			"user_id", userID, "keyword", keyword, "error", err)
		return nil, fmt.Errorf("failed to search records: %w", err)
	}
	return records, nil
}

// UpdateRecord applies the non-zero fields of record to the stored row.
func (s *sqlxStore) UpdateRecord(ctx context.Context, record *Record) (bool, error) {
	if record == nil {
		return false, fmt.Errorf("cannot update nil record")
	}
	if record.ID == 0 || record.UserID == 0 {
		return false, fmt.Errorf("record update requires id and user_id")
	}

	query := "UPDATE records SET updated_at = ?"
	args := []any{time.Now().UTC()}
	if record.Amount.Valid {
		query += ", amount = ?"
		args = append(args, record.Amount.Float64)
	}
	if record.Name != "" {
		query += ", name = ?"
		args = append(args, record.Name)
	}
	if record.Category != "" {
		query += ", category = ?"
		args = append(args, record.Category)
	}
	query += " WHERE id = ? AND user_id = ?"
	args = append(args, record.ID, record.UserID)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update record", "record_id", record.ID, "error", err)
		return false, fmt.Errorf("failed to update record %d: %w", record.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check update result: %w", err)
	}
	return affected > 0, nil
}

// DeleteRecord removes one of the user's records.
func (s *sqlxStore) DeleteRecord(ctx context.Context, userID, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM records WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete record", "record_id", id, "error", err)
		return false, fmt.Errorf("failed to delete record %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

// AggregateRecords returns count and amount total for expense records in a year.
func (s *sqlxStore) AggregateRecords(ctx context.Context, userID int64, year int) (*RecordStats, error) {
	stats := RecordStats{Year: year}
	err := s.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total, ? AS year
		FROM records WHERE user_id = ? AND kind = ? AND year = ?`,
		year, userID, KindExpense, year)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to aggregate records",
			"user_id", userID, "year", year, "error", err)
		return nil, fmt.Errorf("failed to aggregate records: %w", err)
	}
	return &stats, nil
}

// GetUserPref retrieves a user's language preference.
func (s *sqlxStore) GetUserPref(ctx context.Context, userID int64) (*UserPref, error) {
	var pref UserPref
	err := s.db.GetContext(ctx, &pref,
		"SELECT * FROM user_prefs WHERE user_id = ?", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "Failed to get user preference", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get user preference: %w", err)
	}
	return &pref, nil
}

// SetUserPref inserts or updates a user's language preference.
func (s *sqlxStore) SetUserPref(ctx context.Context, pref *UserPref) error {
	if pref == nil {
		return fmt.Errorf("cannot save nil preference")
	}
	if pref.UserID == 0 {
		return fmt.Errorf("preference must have a non-zero user_id")
	}
	pref.UpdatedAt = time.Now().UTC()

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO user_prefs (user_id, language, updated_at)
		VALUES (:user_id, :language, :updated_at)
		ON CONFLICT(user_id) DO UPDATE SET language = :language, updated_at = :updated_at`,
		pref)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save user preference", "user_id", pref.UserID, "error", err)
		return fmt.Errorf("failed to save user preference: %w", err)
	}
	return nil
}

// DeleteAllRecords removes every record.
func (s *sqlxStore) DeleteAllRecords(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM records"); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete all records", "error", err)
		return fmt.Errorf("failed to delete all records: %w", err)
	}
	s.logger.InfoContext(ctx, "All records deleted")
	return nil
}

// RunSQLMaintenance performs database maintenance tasks.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	for _, stmt := range []string{"VACUUM", "ANALYZE"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.ErrorContext(ctx, "Maintenance statement failed", "statement", stmt, "error", err)
			return fmt.Errorf("maintenance statement %s failed: %w", stmt, err)
		}
	}
	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
