package models

import "fmt"

// ImportStatus is the lifecycle state of a staged record.
type ImportStatus string

const (
	StatusPending   ImportStatus = "pending"
	StatusValid     ImportStatus = "valid"
	StatusWarning   ImportStatus = "warning"
	StatusError     ImportStatus = "error"
	StatusDuplicate ImportStatus = "duplicate"
	StatusImported  ImportStatus = "imported"
	StatusSkipped   ImportStatus = "skipped"
)

// Record types carried by a .uhc container.
const (
	RecordTypeBuilding = "building"
	RecordTypeUnit     = "unit"
	RecordTypePerson   = "person"
	RecordTypeClaim    = "claim"
)

// Resolution is the operator's decision for a duplicate record.
type Resolution string

const (
	ResolutionMerge        Resolution = "merge"
	ResolutionKeepExisting Resolution = "keep_existing"
	ResolutionKeepNew      Resolution = "keep_new"
	ResolutionSkip         Resolution = "skip"
)

func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case ResolutionMerge, ResolutionKeepExisting, ResolutionKeepNew, ResolutionSkip:
		return Resolution(s), nil
	}
	return "", fmt.Errorf("unknown resolution: %s", s)
}

// ImportRecord is one candidate row held in the staging area during an
// import run, distinct from its eventual persisted form.
type ImportRecord struct {
	RecordID    string                 `json:"record_id"`
	RecordType  string                 `json:"record_type"`
	Payload     map[string]interface{} `json:"payload"`
	Status      ImportStatus           `json:"status"`
	Errors      []string               `json:"errors"`
	Warnings    []string               `json:"warnings"`
	DuplicateOf string                 `json:"duplicate_of,omitempty"`
	Resolution  Resolution             `json:"resolution,omitempty"`
}

func NewImportRecord(recordID, recordType string, payload map[string]interface{}) *ImportRecord {
	return &ImportRecord{
		RecordID:   recordID,
		RecordType: recordType,
		Payload:    payload,
		Status:     StatusPending,
	}
}

// SetValidation applies a validation verdict. Errors always win over
// warnings; a record with errors carries status "error" and vice versa.
func (r *ImportRecord) SetValidation(errors, warnings []string) {
	r.Errors = errors
	r.Warnings = warnings
	switch {
	case len(errors) > 0:
		r.Status = StatusError
	case len(warnings) > 0:
		r.Status = StatusWarning
	default:
		r.Status = StatusValid
	}
}

// MarkDuplicate escalates a valid/warning record to duplicate. Error records
// are never touched; duplicate detection only ever escalates.
func (r *ImportRecord) MarkDuplicate(existingKey, message string) {
	if r.Status != StatusValid && r.Status != StatusWarning {
		return
	}
	r.Status = StatusDuplicate
	r.DuplicateOf = existingKey
	r.Warnings = append(r.Warnings, message)
}

// ApplyResolution records the operator's decision. Skip is terminal; merge
// and keep_new re-admit the record for commit. Keep_existing leaves the
// record as a duplicate so commit reports it under skipped.
func (r *ImportRecord) ApplyResolution(res Resolution) {
	r.Resolution = res
	switch res {
	case ResolutionSkip:
		r.Status = StatusSkipped
	case ResolutionMerge, ResolutionKeepNew:
		r.Status = StatusValid
	}
}

// Committable reports whether the commit engine may write this record.
func (r *ImportRecord) Committable() bool {
	return r.Status == StatusValid || r.Status == StatusWarning
}
