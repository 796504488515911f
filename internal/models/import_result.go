package models

import "time"

// ValidationSummary aggregates the staging area by status.
type ValidationSummary struct {
	Total      int `json:"total"`
	Valid      int `json:"valid"`
	Warnings   int `json:"warnings"`
	Errors     int `json:"errors"`
	Duplicates int `json:"duplicates"`
}

// ImportResult is produced exactly once per commit and is immutable
// afterward. Errors is truncated for display; FailedRecords carries the full
// count.
type ImportResult struct {
	Success      bool     `json:"success"`
	TotalRecords int      `json:"total_records"`
	Imported     int      `json:"imported"`
	Failed       int      `json:"failed"`
	Skipped      int      `json:"skipped"`
	Warnings     int      `json:"warnings"`
	Errors       []string `json:"errors"`
	ImportID     string   `json:"import_id"`
}

// Import history terminal statuses.
const (
	HistoryCompleted           = "completed"
	HistoryCompletedWithErrors = "completed_with_errors"
)

// ImportHistoryEntry is the append-only audit row written once per commit.
type ImportHistoryEntry struct {
	ImportID        string    `db:"import_id" json:"import_id"`
	FileName        string    `db:"file_name" json:"file_name"`
	FilePath        string    `db:"file_path" json:"file_path"`
	FileHash        string    `db:"file_hash" json:"file_hash"`
	ImportDate      time.Time `db:"import_date" json:"import_date"`
	ImportedBy      string    `db:"imported_by" json:"imported_by"`
	Status          string    `db:"status" json:"status"`
	TotalRecords    int       `db:"total_records" json:"total_records"`
	ImportedRecords int       `db:"imported_records" json:"imported_records"`
	FailedRecords   int       `db:"failed_records" json:"failed_records"`
	SkippedRecords  int       `db:"skipped_records" json:"skipped_records"`
	WarningsCount   int       `db:"warnings_count" json:"warnings_count"`
	Errors          string    `db:"errors" json:"errors"` // JSON array, truncated
}
