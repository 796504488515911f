package repository

import (
	"tenure-registry/internal/models"

	"github.com/jmoiron/sqlx"
)

type ImportHistoryRepository struct {
	db *sqlx.DB
}

func NewImportHistoryRepository(db *sqlx.DB) *ImportHistoryRepository {
	return &ImportHistoryRepository{db: db}
}

// Append writes one audit row. The table is append-only; nothing in the
// pipeline updates or deletes history rows.
func (r *ImportHistoryRepository) Append(entry *models.ImportHistoryEntry) error {
	query := `INSERT INTO import_history (import_id, file_name, file_path, file_hash, import_date,
	          imported_by, status, total_records, imported_records, failed_records, skipped_records,
	          warnings_count, errors)
	          VALUES (:import_id, :file_name, :file_path, :file_hash, :import_date,
	          :imported_by, :status, :total_records, :imported_records, :failed_records,
	          :skipped_records, :warnings_count, :errors)`
	_, err := r.db.NamedExec(query, entry)
	return err
}

func (r *ImportHistoryRepository) FindAll(limit, offset int) ([]models.ImportHistoryEntry, int, error) {
	var entries []models.ImportHistoryEntry
	var total int

	if err := r.db.Get(&total, "SELECT COUNT(*) FROM import_history"); err != nil {
		return nil, 0, err
	}

	query := `SELECT import_id, file_name, file_path, file_hash, import_date, imported_by, status,
	          total_records, imported_records, failed_records, skipped_records, warnings_count, errors
	          FROM import_history ORDER BY import_date DESC LIMIT ? OFFSET ?`
	if err := r.db.Select(&entries, query, limit, offset); err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
