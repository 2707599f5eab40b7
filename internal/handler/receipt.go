package handler

import (
	"log/slog"
	"net/http"

	"github.com/rmoliveira/feira/internal/auth"
	"github.com/rmoliveira/feira/internal/model"
	"github.com/rmoliveira/feira/internal/receipt"
	"github.com/rmoliveira/feira/internal/websocket"
)

// ReceiptHandler serves the purchase history.
type ReceiptHandler struct {
	receipts *receipt.Manager
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewReceiptHandler(receipts *receipt.Manager, hub *websocket.Hub, logger *slog.Logger) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts, hub: hub, logger: logger}
}

// List returns the owner's receipts with their line items, newest first.
func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.receipts.List(auth.OwnerID(r.Context()))
	if err != nil {
		writeDomainError(w, h.logger, "list receipts", err)
		return
	}
	if receipts == nil {
		receipts = []model.ReceiptWithItems{}
	}
	writeJSON(w, http.StatusOK, receipts)
}

// Get returns a single receipt.
func (h *ReceiptHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	rec, err := h.receipts.Get(id, auth.OwnerID(r.Context()))
	if err != nil {
		writeDomainError(w, h.logger, "get receipt", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete removes a receipt and its lines.
func (h *ReceiptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	ownerID := auth.OwnerID(r.Context())
	if err := h.receipts.Delete(id, ownerID); err != nil {
		writeDomainError(w, h.logger, "delete receipt", err)
		return
	}
	h.hub.Broadcast(ownerID, websocket.NewMessage("receipt", "deleted", id, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
