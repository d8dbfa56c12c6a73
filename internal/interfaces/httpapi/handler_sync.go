package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/hoopstack/hoops-tracker/internal/domain/datasync"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

// StartSync kicks off an ingestion job. Mode "full" walks every entity
// in dependency order; "selective" takes an explicit entity list.
func (h *Handler) StartSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartSync")
	defer span.End()

	var req startSyncRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	mode := datasync.Mode(strings.ToLower(strings.TrimSpace(req.Mode)))
	var entities []datasync.EntityType
	for _, raw := range req.Entities {
		entity, err := datasync.ParseEntityType(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
			return
		}
		entities = append(entities, entity)
	}

	jobID, err := h.syncService.StartSync(ctx, mode, entities)
	if err != nil {
		h.logger.WarnContext(ctx, "start sync failed", "mode", mode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

func (h *Handler) GetSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSyncJob")
	defer span.End()

	jobID := strings.TrimSpace(r.PathValue("jobID"))
	status, err := h.syncService.JobStatus(jobID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, status)
}

func (h *Handler) ListSyncJobs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncJobs")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.syncService.ListJobs())
}

func (h *Handler) CancelSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelSyncJob")
	defer span.End()

	jobID := strings.TrimSpace(r.PathValue("jobID"))
	if err := h.syncService.CancelJob(jobID); err != nil {
		h.logger.WarnContext(ctx, "cancel sync job failed", "job_id", jobID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "cancelling"})
}

func (h *Handler) ListSyncLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncLogs")
	defer span.End()

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logs, err := h.syncService.RecentLogs(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list sync logs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]syncLogDTO, 0, len(logs))
	for _, entry := range logs {
		items = append(items, syncLogToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type startSyncRequest struct {
	Mode     string   `json:"mode" validate:"required,oneof=full selective"`
	Entities []string `json:"entities" validate:"omitempty,dive,required"`
}

type syncLogDTO struct {
	JobID       string   `json:"job_id"`
	Mode        string   `json:"mode"`
	State       string   `json:"state"`
	Entities    []string `json:"entities"`
	Records     int      `json:"records"`
	Error       string   `json:"error,omitempty"`
	StartedAt   string   `json:"started_at"`
	CompletedAt string   `json:"completed_at,omitempty"`
}

func syncLogToDTO(entry datasync.LogEntry) syncLogDTO {
	out := syncLogDTO{
		JobID:     entry.JobID,
		Mode:      string(entry.Mode),
		State:     string(entry.State),
		Entities:  make([]string, 0, len(entry.Entities)),
		Records:   entry.Records,
		Error:     entry.Error,
		StartedAt: entry.StartedAt.UTC().Format(time.RFC3339),
	}
	for _, entity := range entry.Entities {
		out.Entities = append(out.Entities, string(entity))
	}
	if entry.CompletedAt != nil {
		out.CompletedAt = entry.CompletedAt.UTC().Format(time.RFC3339)
	}
	return out
}
