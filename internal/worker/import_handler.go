package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"tenure-registry/internal/config"
	"tenure-registry/internal/models"
	"tenure-registry/internal/repository"
	"tenure-registry/internal/service"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// ImportTaskHandler runs the heavy import phases off the request path:
// validation after upload, and the final commit after review. Both phases
// publish per-record progress to Redis for the UI to poll.
type ImportTaskHandler struct {
	db          *sqlx.DB
	redis       *redis.Client
	cfg         *config.Config
	sessionRepo *repository.SessionRepository
	recordRepo  *repository.ImportRecordRepository
	reports     *service.ReportService
}

func NewImportTaskHandler(db *sqlx.DB, redis *redis.Client, cfg *config.Config) *ImportTaskHandler {
	return &ImportTaskHandler{
		db:          db,
		redis:       redis,
		cfg:         cfg,
		sessionRepo: repository.NewSessionRepository(db),
		recordRepo:  repository.NewImportRecordRepository(db),
		reports:     service.NewReportService(cfg.ReportPath),
	}
}

type ImportTaskPayload struct {
	SessionID   int    `json:"session_id"`
	SessionCode string `json:"session_code"`
}

// newPipeline assembles the import pipeline for one session. The operator
// name lands in created_by and the audit trail.
func (h *ImportTaskHandler) newPipeline(operator string) *service.ImportService {
	buildingRepo := repository.NewBuildingRepository(h.db)
	unitRepo := repository.NewUnitRepository(h.db)
	personRepo := repository.NewPersonRepository(h.db)
	claimRepo := repository.NewClaimRepository(h.db)
	historyRepo := repository.NewImportHistoryRepository(h.db)

	reader := service.NewUHCReader(h.cfg.ContainerExtension)
	validator := service.NewRecordValidator(service.RegionBounds{
		LatMin: h.cfg.RegionLatMin,
		LatMax: h.cfg.RegionLatMax,
		LngMin: h.cfg.RegionLngMin,
		LngMax: h.cfg.RegionLngMax,
	})
	duplicates := service.NewDuplicateService(buildingRepo, unitRepo, personRepo)
	commits := service.NewCommitService(buildingRepo, unitRepo, personRepo, claimRepo, operator)

	return service.NewImportService(reader, validator, duplicates, commits, historyRepo, operator, h.cfg.MaxResultErrors)
}

func (h *ImportTaskHandler) publishProgress(ctx context.Context, sessionID, current, total int) {
	if total == 0 {
		return
	}
	progressKey := fmt.Sprintf("import:progress:%d", sessionID)
	progress := float64(current) / float64(total) * 100
	h.redis.Set(ctx, progressKey, fmt.Sprintf("%.2f", progress), 0)
}

// HandleValidate stages and validates the uploaded container, then
// snapshots the staging area so review and commit can happen later.
func (h *ImportTaskHandler) HandleValidate(ctx context.Context, task *asynq.Task) error {
	var payload ImportTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.Printf("Starting validation for session %s (ID: %d)", payload.SessionCode, payload.SessionID)

	session, err := h.sessionRepo.GetByID(payload.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	if session.Status == models.SessionCanceled {
		log.Printf("Session %s has been canceled, skipping validation", payload.SessionCode)
		return nil
	}

	h.sessionRepo.UpdateStatus(session.ID, models.SessionValidating)

	pipeline := h.newPipeline(session.Username)
	loaded, err := pipeline.LoadFile(session.FilePath)
	if err != nil {
		session.Status = models.SessionFailed
		session.ErrorMessage = err.Error()
		h.sessionRepo.Update(session)
		return fmt.Errorf("failed to load container: %w", err)
	}

	manifestJSON, _ := json.Marshal(loaded.Manifest)
	session.ManifestJSON = string(manifestJSON)
	session.DeclaredCount = loaded.Manifest.RecordCount

	records, err := pipeline.ValidateAll(func(current, total int) {
		h.publishProgress(ctx, session.ID, current, total)
	})
	if err != nil {
		session.Status = models.SessionFailed
		session.ErrorMessage = err.Error()
		h.sessionRepo.Update(session)
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := h.recordRepo.ReplaceSession(session.ID, records); err != nil {
		session.Status = models.SessionFailed
		session.ErrorMessage = err.Error()
		h.sessionRepo.Update(session)
		return fmt.Errorf("failed to snapshot staged records: %w", err)
	}

	summary := pipeline.GetValidationSummary()
	session.TotalRecords = summary.Total
	session.ValidCount = summary.Valid
	session.WarningCount = summary.Warnings
	session.ErrorCount = summary.Errors
	session.DuplicateCount = summary.Duplicates
	session.Status = models.SessionValidated

	if summary.Errors > 0 || summary.Warnings > 0 || summary.Duplicates > 0 {
		reportPath, err := h.reports.ExportErrorReport(session.SessionCode, records)
		if err != nil {
			log.Printf("Warning: failed to write issue report for session %s: %v", payload.SessionCode, err)
		} else {
			session.ReportPath = reportPath
		}
	}

	if err := h.sessionRepo.Update(session); err != nil {
		log.Printf("Failed to update session after validation: %v", err)
	}

	log.Printf("Validation completed for session %s. Total: %d, Valid: %d, Warnings: %d, Errors: %d, Duplicates: %d",
		payload.SessionCode, summary.Total, summary.Valid, summary.Warnings, summary.Errors, summary.Duplicates)

	return nil
}

// HandleCommit rebuilds the staging area from the snapshot and writes
// every committable record to the registry.
func (h *ImportTaskHandler) HandleCommit(ctx context.Context, task *asynq.Task) error {
	var payload ImportTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.Printf("Starting commit for session %s (ID: %d)", payload.SessionCode, payload.SessionID)

	session, err := h.sessionRepo.GetByID(payload.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	if session.Status == models.SessionCanceled {
		log.Printf("Session %s has been canceled, skipping commit", payload.SessionCode)
		return nil
	}
	if session.Status == models.SessionCompleted {
		log.Printf("Session %s is already completed, skipping commit", payload.SessionCode)
		return nil
	}

	records, err := h.recordRepo.FindBySession(session.ID)
	if err != nil {
		return fmt.Errorf("failed to load staged records: %w", err)
	}

	var manifest models.ImportManifest
	if session.ManifestJSON != "" {
		if err := json.Unmarshal([]byte(session.ManifestJSON), &manifest); err != nil {
			return fmt.Errorf("corrupt manifest snapshot: %w", err)
		}
	}

	pipeline := h.newPipeline(session.Username)
	pipeline.Restore(session.FilePath, &manifest, records)

	result, err := pipeline.Commit(func(current, total int) {
		h.publishProgress(ctx, session.ID, current, total)
	})
	if err != nil {
		session.Status = models.SessionFailed
		session.ErrorMessage = err.Error()
		h.sessionRepo.Update(session)
		return err
	}

	if err := h.recordRepo.SyncStatuses(session.ID, records); err != nil {
		log.Printf("Warning: failed to sync record statuses for session %s: %v", payload.SessionCode, err)
	}

	session.ImportID = result.ImportID
	session.Status = models.SessionCompleted
	if err := h.sessionRepo.Update(session); err != nil {
		log.Printf("Failed to update session after commit: %v", err)
	}

	log.Printf("Commit completed for session %s. Imported: %d, Failed: %d, Skipped: %d",
		payload.SessionCode, result.Imported, result.Failed, result.Skipped)

	return nil
}
