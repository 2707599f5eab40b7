package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rmoliveira/feira/internal/auth"
	"github.com/rmoliveira/feira/internal/checkout"
	"github.com/rmoliveira/feira/internal/websocket"
)

// CheckoutHandler turns the current list into a receipt.
type CheckoutHandler struct {
	coordinator *checkout.Coordinator
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewCheckoutHandler(c *checkout.Coordinator, hub *websocket.Hub, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{coordinator: c, hub: hub, logger: logger}
}

// Defaults returns the pre-filled checkout form values.
func (h *CheckoutHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"title":           checkout.DefaultTitle(time.Now()),
		"payment_methods": []string{"pix", "credit", "debit", "cash"},
	})
}

// Confirm records the purchase and returns the new receipt plus the view the
// client should switch to.
func (h *CheckoutHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var in checkout.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ownerID := auth.OwnerID(r.Context())
	rec, view, err := h.coordinator.Confirm(ownerID, in)
	if err != nil {
		writeDomainError(w, h.logger, "checkout", err)
		return
	}

	h.hub.Broadcast(ownerID, websocket.NewMessage("receipt", "created", rec.ID, nil))
	writeJSON(w, http.StatusCreated, map[string]any{
		"receipt": rec,
		"view":    view,
	})
}
