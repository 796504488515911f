package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"tenure-registry/internal/config"
	"tenure-registry/internal/models"
	"tenure-registry/internal/repository"
	"tenure-registry/internal/utils"
	"tenure-registry/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// ImportHandler drives the import flow over HTTP: upload a container,
// poll validation, review duplicates, commit, browse history. The heavy
// phases run in the worker; this handler only enqueues them.
type ImportHandler struct {
	sessionRepo *repository.SessionRepository
	recordRepo  *repository.ImportRecordRepository
	historyRepo *repository.ImportHistoryRepository
	asynqClient *asynq.Client
	redis       *redis.Client
	cfg         *config.Config
}

func NewImportHandler(
	sessionRepo *repository.SessionRepository,
	recordRepo *repository.ImportRecordRepository,
	historyRepo *repository.ImportHistoryRepository,
	asynqClient *asynq.Client,
	redis *redis.Client,
	cfg *config.Config,
) *ImportHandler {
	return &ImportHandler{
		sessionRepo: sessionRepo,
		recordRepo:  recordRepo,
		historyRepo: historyRepo,
		asynqClient: asynqClient,
		redis:       redis,
		cfg:         cfg,
	}
}

func (h *ImportHandler) UploadFile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)
	username, _ := c.Locals("username").(string)

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	ext := filepath.Ext(file.Filename)
	if !strings.EqualFold(ext, h.cfg.ContainerExtension) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest,
			fmt.Sprintf("Only %s containers are allowed", h.cfg.ContainerExtension), nil)
	}

	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	sessionCode := fmt.Sprintf("IMPORT-%s", uuid.New().String()[:8])

	filePath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("%s%s", sessionCode, ext))
	if err := c.SaveFile(file, filePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}

	session := &models.ImportSession{
		SessionCode: sessionCode,
		UserID:      userID,
		Username:    username,
		Filename:    file.Filename,
		FilePath:    filePath,
		Status:      models.SessionUploaded,
	}

	if err := h.sessionRepo.Create(session); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create import session", err)
	}

	jobID, err := h.enqueue(worker.TaskImportValidate, session)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Failed to queue validation task", err)
	}

	return utils.SuccessResponse(c, "File uploaded, validation started", fiber.Map{
		"session": session,
		"job_id":  jobID,
	})
}

func (h *ImportHandler) enqueue(taskType string, session *models.ImportSession) (string, error) {
	if h.asynqClient == nil {
		return "", fmt.Errorf("background job processing is not available (Redis not connected)")
	}

	payload, _ := json.Marshal(worker.ImportTaskPayload{
		SessionID:   session.ID,
		SessionCode: session.SessionCode,
	})

	info, err := h.asynqClient.Enqueue(asynq.NewTask(taskType, payload))
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

func (h *ImportHandler) GetSessions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)
	role, _ := c.Locals("role").(string)

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	// Admin sees every session, users only their own
	filterUserID := 0
	if role != "admin" {
		filterUserID = userID
	}

	sessions, total, err := h.sessionRepo.GetSessions(params.Limit, offset, filterUserID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve sessions", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Sessions retrieved successfully", fiber.Map{
		"sessions":   sessions,
		"pagination": pagination,
	}, pagination)
}

func (h *ImportHandler) GetSessionDetail(c *fiber.Ctx) error {
	session, errResp := h.sessionByParam(c)
	if session == nil {
		return errResp
	}
	return utils.SuccessResponse(c, "Session retrieved successfully", session)
}

// GetSummary returns the validation summary recorded on the session.
func (h *ImportHandler) GetSummary(c *fiber.Ctx) error {
	session, errResp := h.sessionByParam(c)
	if session == nil {
		return errResp
	}

	return utils.SuccessResponse(c, "Summary retrieved successfully", models.ValidationSummary{
		Total:      session.TotalRecords,
		Valid:      session.ValidCount,
		Warnings:   session.WarningCount,
		Errors:     session.ErrorCount,
		Duplicates: session.DuplicateCount,
	})
}

// GetRecords returns the staged records, optionally filtered by status, in
// staged order.
func (h *ImportHandler) GetRecords(c *fiber.Ctx) error {
	session, errResp := h.sessionByParam(c)
	if session == nil {
		return errResp
	}

	var records []*models.ImportRecord
	var err error
	if status := c.Query("status"); status != "" {
		records, err = h.recordRepo.FindBySessionAndStatus(session.ID, models.ImportStatus(status))
	} else {
		records, err = h.recordRepo.FindBySession(session.ID)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve records", err)
	}

	return utils.SuccessResponse(c, "Records retrieved successfully", fiber.Map{
		"records": records,
		"total":   len(records),
	})
}

type resolveRequest struct {
	Resolution string `json:"resolution"`
}

// ResolveRecord applies an operator decision to one duplicate record.
func (h *ImportHandler) ResolveRecord(c *fiber.Ctx) error {
	session, errResp := h.sessionByParam(c)
	if session == nil {
		return errResp
	}

	if session.Status != models.SessionValidated {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Session is not in review", nil)
	}

	var req resolveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	resolution, err := models.ParseResolution(req.Resolution)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	recordID := c.Params("record_id")
	records, err := h.recordRepo.FindBySession(session.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve records", err)
	}

	var target *models.ImportRecord
	for _, record := range records {
		if record.RecordID == recordID {
			target = record
			break
		}
	}
	if target == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Record not found in session", nil)
	}
	if target.Status != models.StatusDuplicate {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only duplicate records can be resolved", nil)
	}

	target.ApplyResolution(resolution)
	if err := h.recordRepo.UpdateStatus(session.ID, target); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update record", err)
	}

	h.refreshCounts(session, records)

	return utils.SuccessResponse(c, "Record resolved", target)
}

// refreshCounts recomputes the session's status tallies after a resolution.
func (h *ImportHandler) refreshCounts(session *models.ImportSession, records []*models.ImportRecord) {
	session.ValidCount = 0
	session.WarningCount = 0
	session.ErrorCount = 0
	session.DuplicateCount = 0
	for _, record := range records {
		switch record.Status {
		case models.StatusValid:
			session.ValidCount++
		case models.StatusWarning:
			session.WarningCount++
		case models.StatusError:
			session.ErrorCount++
		case models.StatusDuplicate:
			session.DuplicateCount++
		}
	}
	if err := h.sessionRepo.Update(session); err != nil {
		utils.GetLogger().Warnf("Failed to refresh counts for session %s: %v", session.SessionCode, err)
	}
}

// CommitSession queues the commit phase for a reviewed session.
func (h *ImportHandler) CommitSession(c *fiber.Ctx) error {
	session, errResp := h.sessionByParam(c)
	if session == nil {
		return errResp
	}

	if session.Status != models.SessionValidated {
		return utils.ErrorResponse(c, fiber.StatusBadRequest,
			fmt.Sprintf("Session cannot be committed while %s", session.Status), nil)
	}

	if err := h.sessionRepo.UpdateStatus(session.ID, models.SessionCommitting); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update session status", err)
	}

	jobID, err := h.enqueue(worker.TaskImportCommit, session)
	if err != nil {
		h.sessionRepo.UpdateStatus(session.ID, models.SessionValidated)
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Failed to queue commit task", err)
	}

	return utils.SuccessResponse(c, "Commit started", fiber.Map{
		"job_id":  jobID,
		"session": session,
	})
}

func (h *ImportHandler) CancelSession(c *fiber.Ctx) error {
	session, errResp := h.sessionByParam(c)
	if session == nil {
		return errResp
	}

	if session.Status == models.SessionCompleted {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Completed sessions cannot be canceled", nil)
	}

	if err := h.sessionRepo.UpdateStatus(session.ID, models.SessionCanceled); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to cancel session", err)
	}

	return utils.SuccessResponse(c, "Session canceled", nil)
}

func (h *ImportHandler) DeleteSession(c *fiber.Ctx) error {
	session, errResp := h.sessionByParam(c)
	if session == nil {
		return errResp
	}

	if err := h.recordRepo.DeleteBySession(session.ID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete staged records", err)
	}
	if err := h.sessionRepo.UpdateStatus(session.ID, models.SessionCanceled); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete session", err)
	}

	return utils.SuccessResponse(c, "Session deleted", nil)
}

// GetProgress reads the per-record progress published by the worker.
func (h *ImportHandler) GetProgress(c *fiber.Ctx) error {
	session, err := h.sessionRepo.GetByCode(c.Params("session_code"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve session", err)
	}
	if session == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Session not found", nil)
	}

	progress := 0.0
	if h.redis != nil {
		progressKey := fmt.Sprintf("import:progress:%d", session.ID)
		if raw, err := h.redis.Get(context.Background(), progressKey).Result(); err == nil {
			progress, _ = strconv.ParseFloat(raw, 64)
		}
	}

	return utils.SuccessResponse(c, "Progress retrieved successfully", fiber.Map{
		"session_code": session.SessionCode,
		"status":       session.Status,
		"progress":     progress,
	})
}

// DownloadReport serves the validation issue workbook written by the worker.
func (h *ImportHandler) DownloadReport(c *fiber.Ctx) error {
	session, errResp := h.sessionByParam(c)
	if session == nil {
		return errResp
	}

	if session.ReportPath == "" {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "No report available for this session", nil)
	}

	return c.Download(session.ReportPath, filepath.Base(session.ReportPath))
}

// GetHistory lists the append-only audit trail, newest first.
func (h *ImportHandler) GetHistory(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	entries, total, err := h.historyRepo.FindAll(params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve history", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "History retrieved successfully", fiber.Map{
		"history":    entries,
		"pagination": pagination,
	}, pagination)
}

func (h *ImportHandler) sessionByParam(c *fiber.Ctx) (*models.ImportSession, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid session ID", err)
	}

	session, err := h.sessionRepo.GetByID(id)
	if err != nil {
		return nil, utils.ErrorResponse(c, fiber.StatusNotFound, "Session not found", err)
	}
	return session, nil
}
