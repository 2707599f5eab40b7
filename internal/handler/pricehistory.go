package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/rmoliveira/feira/internal/auth"
	"github.com/rmoliveira/feira/internal/model"
	"github.com/rmoliveira/feira/internal/store"
)

// PriceHistoryHandler exposes the append-only price log for reading.
type PriceHistoryHandler struct {
	history *store.PriceHistoryStore
	logger  *slog.Logger
}

func NewPriceHistoryHandler(history *store.PriceHistoryStore, logger *slog.Logger) *PriceHistoryHandler {
	return &PriceHistoryHandler{history: history, logger: logger}
}

// List returns the recorded prices for one item name, newest first. History
// is keyed by name, so renamed items keep their old entries under the old
// name.
func (h *PriceHistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	item := strings.TrimSpace(r.URL.Query().Get("item"))
	if item == "" {
		writeError(w, http.StatusBadRequest, "item query parameter is required")
		return
	}

	records, err := h.history.ListByItemName(auth.OwnerID(r.Context()), item)
	if err != nil {
		h.logger.Error("list price history", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if records == nil {
		records = []model.PriceRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
