package repository

import (
	"encoding/json"
	"fmt"

	"tenure-registry/internal/models"

	"github.com/jmoiron/sqlx"
)

// ImportRecordRepository snapshots the orchestrator's staging area between
// the validate and commit phases so the worker process can rebuild it.
// Position preserves staged order; commit replays records in that order.
type ImportRecordRepository struct {
	db *sqlx.DB
}

func NewImportRecordRepository(db *sqlx.DB) *ImportRecordRepository {
	return &ImportRecordRepository{db: db}
}

type importRecordRow struct {
	ID          int    `db:"id"`
	SessionID   int    `db:"session_id"`
	Position    int    `db:"position"`
	RecordID    string `db:"record_id"`
	RecordType  string `db:"record_type"`
	Payload     string `db:"payload"`
	Status      string `db:"status"`
	Errors      string `db:"errors"`
	Warnings    string `db:"warnings"`
	DuplicateOf string `db:"duplicate_of"`
	Resolution  string `db:"resolution"`
}

func toRow(sessionID, position int, record *models.ImportRecord) (*importRecordRow, error) {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s: %w", record.RecordID, err)
	}
	errs, _ := json.Marshal(record.Errors)
	warns, _ := json.Marshal(record.Warnings)

	return &importRecordRow{
		SessionID:   sessionID,
		Position:    position,
		RecordID:    record.RecordID,
		RecordType:  record.RecordType,
		Payload:     string(payload),
		Status:      string(record.Status),
		Errors:      string(errs),
		Warnings:    string(warns),
		DuplicateOf: record.DuplicateOf,
		Resolution:  string(record.Resolution),
	}, nil
}

func (row *importRecordRow) toRecord() (*models.ImportRecord, error) {
	record := &models.ImportRecord{
		RecordID:    row.RecordID,
		RecordType:  row.RecordType,
		Status:      models.ImportStatus(row.Status),
		DuplicateOf: row.DuplicateOf,
		Resolution:  models.Resolution(row.Resolution),
	}
	if err := json.Unmarshal([]byte(row.Payload), &record.Payload); err != nil {
		return nil, fmt.Errorf("corrupt payload for staged record %s: %w", row.RecordID, err)
	}
	if row.Errors != "" {
		_ = json.Unmarshal([]byte(row.Errors), &record.Errors)
	}
	if row.Warnings != "" {
		_ = json.Unmarshal([]byte(row.Warnings), &record.Warnings)
	}
	return record, nil
}

// ReplaceSession atomically replaces the staged snapshot for a session with
// a fresh validation result.
func (r *ImportRecordRepository) ReplaceSession(sessionID int, records []*models.ImportRecord) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM import_records WHERE session_id = ?", sessionID); err != nil {
		return err
	}

	query := `INSERT INTO import_records (session_id, position, record_id, record_type, payload,
	          status, errors, warnings, duplicate_of, resolution)
	          VALUES (:session_id, :position, :record_id, :record_type, :payload,
	          :status, :errors, :warnings, :duplicate_of, :resolution)`

	for i, record := range records {
		row, err := toRow(sessionID, i, record)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExec(query, row); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindBySession returns the staged snapshot in staged order.
func (r *ImportRecordRepository) FindBySession(sessionID int) ([]*models.ImportRecord, error) {
	var rows []importRecordRow
	query := "SELECT * FROM import_records WHERE session_id = ? ORDER BY position"
	if err := r.db.Select(&rows, query, sessionID); err != nil {
		return nil, err
	}

	records := make([]*models.ImportRecord, 0, len(rows))
	for i := range rows {
		record, err := rows[i].toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// UpdateStatus persists a single record's state after a resolution.
func (r *ImportRecordRepository) UpdateStatus(sessionID int, record *models.ImportRecord) error {
	query := `UPDATE import_records SET status = ?, resolution = ?
	          WHERE session_id = ? AND record_id = ?`
	result, err := r.db.Exec(query, string(record.Status), string(record.Resolution), sessionID, record.RecordID)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("no staged record %s in session %d", record.RecordID, sessionID)
	}
	return nil
}

// SyncStatuses writes back the post-commit statuses for the whole session.
func (r *ImportRecordRepository) SyncStatuses(sessionID int, records []*models.ImportRecord) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := "UPDATE import_records SET status = ? WHERE session_id = ? AND record_id = ?"
	for _, record := range records {
		if _, err := tx.Exec(query, string(record.Status), sessionID, record.RecordID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *ImportRecordRepository) DeleteBySession(sessionID int) error {
	_, err := r.db.Exec("DELETE FROM import_records WHERE session_id = ?", sessionID)
	return err
}

// FindBySessionAndStatus filters the staged snapshot by status, in staged order.
func (r *ImportRecordRepository) FindBySessionAndStatus(sessionID int, status models.ImportStatus) ([]*models.ImportRecord, error) {
	var rows []importRecordRow
	query := "SELECT * FROM import_records WHERE session_id = ? AND status = ? ORDER BY position"
	if err := r.db.Select(&rows, query, sessionID, string(status)); err != nil {
		return nil, err
	}

	records := make([]*models.ImportRecord, 0, len(rows))
	for i := range rows {
		record, err := rows[i].toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
