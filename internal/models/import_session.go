package models

import "time"

// Import session statuses driving the web flow.
const (
	SessionUploaded   = "uploaded"
	SessionValidating = "validating"
	SessionValidated  = "validated"
	SessionCommitting = "committing"
	SessionCompleted  = "completed"
	SessionFailed     = "failed"
	SessionCanceled   = "canceled"
)

// ImportSession tracks one import run from upload through commit. The staged
// records themselves live in the import_records table between the validate
// and commit phases.
type ImportSession struct {
	ID            int       `db:"id" json:"id"`
	SessionCode   string    `db:"session_code" json:"session_code"`
	UserID        int       `db:"user_id" json:"user_id"`
	Username      string    `db:"username" json:"username"`
	Filename      string    `db:"filename" json:"filename"`
	FilePath      string    `db:"file_path" json:"file_path"`
	ManifestJSON  string    `db:"manifest_json" json:"-"`
	DeclaredCount int       `db:"declared_count" json:"declared_count"`
	TotalRecords  int       `db:"total_records" json:"total_records"`
	ValidCount    int       `db:"valid_count" json:"valid_count"`
	WarningCount  int       `db:"warning_count" json:"warning_count"`
	ErrorCount    int       `db:"error_count" json:"error_count"`
	DuplicateCount int      `db:"duplicate_count" json:"duplicate_count"`
	Status        string    `db:"status" json:"status"`
	ErrorMessage  string    `db:"error_message" json:"error_message"`
	ImportID      string    `db:"import_id" json:"import_id"`
	ReportPath    string    `db:"report_path" json:"report_path"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
