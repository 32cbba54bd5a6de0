package database

import (
	"fmt"
	"time"

	"github.com/lysyi3m/wire-comb/app/feed"
)

var _ RecordRepository = (*RecordRepositoryImpl)(nil)

// RecordRepositoryImpl handles database operations for wire records
type RecordRepositoryImpl struct {
	db *DB
}

func NewRecordRepository(db *DB) *RecordRepositoryImpl {
	return &RecordRepositoryImpl{db: db}
}

const recordColumns = `id, ts, time_label, title, body, source, popularity, is_flagged, is_read, raw_markup, created_at, updated_at`

// GetAllRecords returns the full stored set, most recent first.
func (r *RecordRepositoryImpl) GetAllRecords() ([]feed.Record, error) {
	rows, err := r.db.Query(`
		SELECT ` + recordColumns + `
		FROM records
		ORDER BY ts DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetRecords returns one filtered view of the stored set. The hot filter
// needs the current threshold; other filters ignore it.
func (r *RecordRepositoryImpl) GetRecords(filter string, hotThreshold, limit int) ([]feed.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
	`
	var args []interface{}

	switch filter {
	case FilterAll, "":
	case FilterUnread:
		query += ` WHERE is_read = 0`
	case FilterImportant:
		query += ` WHERE is_flagged = 1`
	case FilterHot:
		query += ` WHERE popularity >= ?`
		args = append(args, hotThreshold)
	default:
		return nil, fmt.Errorf("unknown record filter: %q", filter)
	}

	query += ` ORDER BY ts DESC, id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetRecordCount returns the total number of stored records
func (r *RecordRepositoryImpl) GetRecordCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get record count: %w", err)
	}
	return count, nil
}

// ApplyMerge persists one reconciliation outcome in a single transaction.
// A failure rolls everything back, leaving the previously persisted set
// untouched.
func (r *RecordRepositoryImpl) ApplyMerge(records []feed.Record, removedIDs []string, cycleAt time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin merge transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range removedIDs {
		if _, err := tx.Exec(`DELETE FROM records WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete superseded record %s: %w", id, err)
		}
	}

	for _, rec := range records {
		_, err := tx.Exec(`
			INSERT INTO records (
				id, ts, time_label, title, body, source,
				popularity, is_flagged, is_read, raw_markup
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				ts = excluded.ts,
				time_label = excluded.time_label,
				title = excluded.title,
				body = excluded.body,
				source = excluded.source,
				popularity = excluded.popularity,
				is_flagged = excluded.is_flagged,
				is_read = excluded.is_read,
				raw_markup = excluded.raw_markup,
				updated_at = CURRENT_TIMESTAMP
		`, rec.ID, rec.Timestamp.UTC(), rec.TimeLabel, rec.Title, rec.Body, rec.Source,
			rec.Popularity, rec.Flagged, rec.Read, rec.RawMarkup)
		if err != nil {
			return fmt.Errorf("failed to upsert record %s: %w", rec.ID, err)
		}
	}

	_, err = tx.Exec(`
		UPDATE wire_state
		SET last_cycle_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`, cycleAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to update cycle state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit merge transaction: %w", err)
	}

	return nil
}

// MarkRead marks one record as read and reports whether it existed.
func (r *RecordRepositoryImpl) MarkRead(id string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE records
		SET is_read = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark record read: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

// MarkAllRead marks every stored record as read and returns how many changed.
func (r *RecordRepositoryImpl) MarkAllRead() (int64, error) {
	res, err := r.db.Exec(`
		UPDATE records
		SET is_read = 1, updated_at = CURRENT_TIMESTAMP
		WHERE is_read = 0
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all records read: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected, nil
}

// PurgeOlderThan drops records older than the retention cutoff regardless of
// read state.
func (r *RecordRepositoryImpl) PurgeOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM records WHERE ts < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge records: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanRecords(rows rowScanner) ([]feed.Record, error) {
	var records []feed.Record
	for rows.Next() {
		var rec feed.Record
		err := rows.Scan(
			&rec.ID, &rec.Timestamp, &rec.TimeLabel, &rec.Title, &rec.Body,
			&rec.Source, &rec.Popularity, &rec.Flagged, &rec.Read,
			&rec.RawMarkup, &rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}

	return records, nil
}
