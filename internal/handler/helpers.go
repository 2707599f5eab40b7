package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rmoliveira/feira/internal/list"
	"github.com/rmoliveira/feira/internal/receipt"
)

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the managers' sentinel errors onto HTTP statuses.
// Unclassified errors are server faults and get logged.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, list.ErrValidation), errors.Is(err, receipt.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, list.ErrNotFound), errors.Is(err, receipt.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		logger.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
