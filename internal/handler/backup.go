package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rmoliveira/feira/internal/backup"
	"github.com/rmoliveira/feira/internal/model"
	"github.com/rmoliveira/feira/internal/store"
)

// BackupHandler exposes the backup history and the restore/download
// operations. The records are server-wide, not per owner: a snapshot covers
// the whole database.
type BackupHandler struct {
	manager *backup.Manager
	store   *store.BackupStore
	logger  *slog.Logger
}

func NewBackupHandler(manager *backup.Manager, bs *store.BackupStore, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: manager, store: bs, logger: logger}
}

// List returns the manager status and the most recent backup records.
func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := h.store.List(50)
	if err != nil {
		h.logger.Error("list backups", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if backups == nil {
		backups = []model.Backup{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  h.manager.Status(),
		"backups": backups,
	})
}

// Run triggers an immediate backup.
func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !h.manager.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "backups are not configured")
		return
	}
	id, err := h.manager.RunNow(r.Context())
	if err != nil {
		h.logger.Error("run backup", "error", err)
		writeError(w, http.StatusInternalServerError, "backup failed")
		return
	}
	record, err := h.store.GetByID(id)
	if err != nil || record == nil {
		h.logger.Error("get backup record", "backup_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// Download streams the encrypted snapshot back to the caller.
func (h *BackupHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid backup id")
		return
	}
	record, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get backup record", "backup_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	body, size, err := h.manager.Download(r.Context(), id)
	if err != nil {
		h.logger.Error("download backup", "backup_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "download failed")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Filename))
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Error("stream backup", "backup_id", id, "error", err)
	}
}

// Restore acknowledges the request, then restores in the background. On
// success the process exits so the supervisor restarts it on the restored
// data; failures only reach the log.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid backup id")
		return
	}
	if !h.manager.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "backups are not configured")
		return
	}
	record, err := h.store.GetByID(id)
	if err != nil {
		h.logger.Error("get backup record", "backup_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "restoring"})

	go func() {
		if err := h.manager.Restore(context.Background(), id); err != nil {
			h.logger.Error("restore failed", "backup_id", id, "error", err)
		}
	}()
}
