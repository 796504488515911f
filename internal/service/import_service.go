package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"tenure-registry/internal/models"
	"tenure-registry/internal/utils"

	"github.com/google/uuid"
)

// ProgressFunc receives per-record progress during validation and commit.
type ProgressFunc func(current, total int)

// LoadResult is what the caller learns about a container before validation.
// ExtractedCount is the number of records actually read; the declared count
// lives on the manifest.
type LoadResult struct {
	FileName       string                 `json:"file_name"`
	Manifest       *models.ImportManifest `json:"manifest"`
	ExtractedCount int                    `json:"extracted_count"`
}

// ImportService orchestrates one import run: load, validate, review,
// commit, audit. The staging area lives in memory for the duration of a
// phase; Restore rebuilds it from a persisted snapshot when validate and
// commit run in separate processes.
type ImportService struct {
	reader     ContainerReader
	validator  *RecordValidator
	duplicates *DuplicateService
	commits    *CommitService
	history    HistoryStore
	operator   string
	maxErrors  int

	staging     []*models.ImportRecord
	currentFile string
	manifest    *models.ImportManifest
}

func NewImportService(reader ContainerReader, validator *RecordValidator, duplicates *DuplicateService,
	commits *CommitService, history HistoryStore, operator string, maxErrors int) *ImportService {
	if maxErrors <= 0 {
		maxErrors = 10
	}
	return &ImportService{
		reader:     reader,
		validator:  validator,
		duplicates: duplicates,
		commits:    commits,
		history:    history,
		operator:   operator,
		maxErrors:  maxErrors,
	}
}

// LoadFile opens a container and gates it on the manifest. A rejected
// manifest fails the whole run before any record is staged.
func (s *ImportService) LoadFile(path string) (*LoadResult, error) {
	data, err := s.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !s.reader.ValidateManifest(data.Manifest) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidManifest, filepath.Base(path))
	}

	s.currentFile = path
	s.manifest = data.Manifest
	s.staging = nil

	s.warnOnVocabDrift(data.Manifest)
	utils.GetLogger().Infof("Loaded container %s: %d records declared", filepath.Base(path), data.Manifest.RecordCount)

	return &LoadResult{
		FileName:       filepath.Base(path),
		Manifest:       data.Manifest,
		ExtractedCount: len(data.Records),
	}, nil
}

// Collector vocabularies from a different major version still import, but
// the operator should know before reviewing coded fields.
func (s *ImportService) warnOnVocabDrift(manifest *models.ImportManifest) {
	for name, version := range manifest.VocabVersions {
		major, _, _ := strings.Cut(version, ".")
		if major != "1" {
			utils.GetLogger().Warnf("Vocabulary %s is at version %s; coded values may not match the registry", name, version)
		}
	}
}

// ValidateAll re-reads the loaded container, stages every record in
// container order, and runs validation plus duplicate detection on each.
// Any prior staging for this service is replaced.
func (s *ImportService) ValidateAll(progress ProgressFunc) ([]*models.ImportRecord, error) {
	if s.currentFile == "" {
		return nil, errors.New("no file loaded")
	}

	data, err := s.reader.ReadFile(s.currentFile)
	if err != nil {
		return nil, err
	}

	iter := s.reader.ExtractRecords(data)
	total := iter.Total()
	s.staging = make([]*models.ImportRecord, 0, total)

	current := 0
	for {
		record, ok := iter.Next()
		if !ok {
			break
		}
		errs, warns := s.validator.Validate(record.Payload, record.RecordType)
		record.SetValidation(errs, warns)
		s.duplicates.DetectDuplicates(record)
		s.staging = append(s.staging, record)

		current++
		if progress != nil {
			progress(current, total)
		}
	}

	summary := s.GetValidationSummary()
	utils.GetLogger().Infof("Validated %d records: %d valid, %d warnings, %d errors, %d duplicates",
		summary.Total, summary.Valid, summary.Warnings, summary.Errors, summary.Duplicates)

	return s.staging, nil
}

func (s *ImportService) GetValidationSummary() models.ValidationSummary {
	summary := models.ValidationSummary{Total: len(s.staging)}
	for _, record := range s.staging {
		switch record.Status {
		case models.StatusValid:
			summary.Valid++
		case models.StatusWarning:
			summary.Warnings++
		case models.StatusError:
			summary.Errors++
		case models.StatusDuplicate:
			summary.Duplicates++
		}
	}
	return summary
}

// GetRecordsByStatus filters the staging area, preserving staged order.
func (s *ImportService) GetRecordsByStatus(status models.ImportStatus) []*models.ImportRecord {
	var matched []*models.ImportRecord
	for _, record := range s.staging {
		if record.Status == status {
			matched = append(matched, record)
		}
	}
	return matched
}

func (s *ImportService) Records() []*models.ImportRecord {
	return s.staging
}

// ResolveRecord applies an operator decision to one staged duplicate.
// Returns false when the record is not staged or not a duplicate.
func (s *ImportService) ResolveRecord(recordID string, resolution models.Resolution) bool {
	for _, record := range s.staging {
		if record.RecordID != recordID {
			continue
		}
		if record.Status != models.StatusDuplicate {
			return false
		}
		record.ApplyResolution(resolution)
		return true
	}
	return false
}

// Restore rebuilds the staging area from a persisted snapshot so commit can
// run in a different process than validation.
func (s *ImportService) Restore(filePath string, manifest *models.ImportManifest, records []*models.ImportRecord) {
	s.currentFile = filePath
	s.manifest = manifest
	s.staging = records
}

// Commit walks the staging area in order, writes every committable record,
// and appends exactly one history entry, even for an empty run. Unresolved
// duplicates count as skipped; commit failures leave the record's status
// unchanged and count as failed.
func (s *ImportService) Commit(progress ProgressFunc) (*models.ImportResult, error) {
	// Worker concurrency allows two sessions to commit in the same second,
	// so the timestamp alone is not unique.
	importID := fmt.Sprintf("IMP-%s-%s", time.Now().Format("20060102150405"), uuid.NewString()[:8])
	result := &models.ImportResult{
		ImportID:     importID,
		TotalRecords: len(s.staging),
	}

	var errorMessages []string
	for i, record := range s.staging {
		switch {
		case record.Status == models.StatusError:
			result.Failed++
			for _, msg := range record.Errors {
				errorMessages = append(errorMessages, fmt.Sprintf("%s: %s", record.RecordID, msg))
			}
		case record.Status == models.StatusSkipped || record.Status == models.StatusDuplicate:
			result.Skipped++
		case record.Committable():
			hadWarnings := len(record.Warnings) > 0
			if s.commits.CommitRecord(record) {
				result.Imported++
				if hadWarnings {
					result.Warnings++
				}
			} else {
				result.Failed++
				errorMessages = append(errorMessages, fmt.Sprintf("%s: failed to persist", record.RecordID))
			}
		}

		if progress != nil {
			progress(i+1, len(s.staging))
		}
	}

	result.Success = result.Failed == 0
	if len(errorMessages) > s.maxErrors {
		errorMessages = errorMessages[:s.maxErrors]
	}
	result.Errors = errorMessages

	if err := s.appendHistory(result); err != nil {
		return result, fmt.Errorf("import %s committed but history write failed: %w", importID, err)
	}

	utils.GetLogger().Infof("Import %s finished: %d imported, %d failed, %d skipped",
		importID, result.Imported, result.Failed, result.Skipped)

	return result, nil
}

func (s *ImportService) appendHistory(result *models.ImportResult) error {
	status := models.HistoryCompleted
	if result.Failed > 0 {
		status = models.HistoryCompletedWithErrors
	}

	fileHash := ""
	if s.manifest != nil {
		fileHash = s.manifest.Checksum
	}

	errorsJSON, _ := json.Marshal(result.Errors)
	return s.history.Append(&models.ImportHistoryEntry{
		ImportID:        result.ImportID,
		FileName:        filepath.Base(s.currentFile),
		FilePath:        s.currentFile,
		FileHash:        fileHash,
		ImportDate:      time.Now(),
		ImportedBy:      s.operator,
		Status:          status,
		TotalRecords:    result.TotalRecords,
		ImportedRecords: result.Imported,
		FailedRecords:   result.Failed,
		SkippedRecords:  result.Skipped,
		WarningsCount:   result.Warnings,
		Errors:          string(errorsJSON),
	})
}

// Clear abandons the current run.
func (s *ImportService) Clear() {
	s.staging = nil
	s.currentFile = ""
	s.manifest = nil
}
