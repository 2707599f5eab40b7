package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rmoliveira/feira/internal/auth"
	"github.com/rmoliveira/feira/internal/list"
	"github.com/rmoliveira/feira/internal/model"
	"github.com/rmoliveira/feira/internal/websocket"
)

// ShoppingHandler serves the active list and its mutations.
type ShoppingHandler struct {
	lists  *list.Registry
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewShoppingHandler(lists *list.Registry, hub *websocket.Hub, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{lists: lists, hub: hub, logger: logger}
}

type listResponse struct {
	List       *model.ShoppingList       `json:"list"`
	Categories []model.CategoryWithItems `json:"categories"`
	Subtotal   decimal.Decimal           `json:"subtotal"`
}

func (h *ShoppingHandler) manager(r *http.Request) *list.Manager {
	return h.lists.ForOwner(auth.OwnerID(r.Context()))
}

func (h *ShoppingHandler) broadcast(r *http.Request, entity, action string, id int64) {
	h.hub.Broadcast(auth.OwnerID(r.Context()), websocket.NewMessage(entity, action, id, nil))
}

// GetList loads (or bootstraps) the owner's active list and returns the full
// snapshot.
func (h *ShoppingHandler) GetList(w http.ResponseWriter, r *http.Request) {
	m := h.manager(r)
	if err := m.LoadOrCreate(); err != nil {
		writeDomainError(w, h.logger, "load list", err)
		return
	}

	l, cats := m.Snapshot()
	if cats == nil {
		cats = []model.CategoryWithItems{}
	}
	writeJSON(w, http.StatusOK, listResponse{List: l, Categories: cats, Subtotal: m.Subtotal()})
}

// Subtotal returns the running total and how many items carry a price.
func (h *ShoppingHandler) Subtotal(w http.ResponseWriter, r *http.Request) {
	m := h.manager(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"subtotal":         m.Subtotal(),
		"items_with_price": len(m.ItemsWithPrice()),
	})
}

// Lists returns every list the owner has, newest first.
func (h *ShoppingHandler) Lists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.manager(r).Lists()
	if err != nil {
		writeDomainError(w, h.logger, "list lists", err)
		return
	}
	if lists == nil {
		lists = []model.ShoppingList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

type nameRequest struct {
	Name string `json:"name"`
}

// CreateList creates a custom named list and makes it active.
func (h *ShoppingHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	l, err := h.manager(r).CreateCustomList(req.Name)
	if err != nil {
		writeDomainError(w, h.logger, "create list", err)
		return
	}
	h.broadcast(r, "list", "created", l.ID)
	writeJSON(w, http.StatusCreated, l)
}

// RenameList renames the active list. Renaming an inactive list is not
// supported.
func (h *ShoppingHandler) RenameList(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	m := h.manager(r)
	cur := m.CurrentList()
	if cur == nil {
		if err := m.LoadOrCreate(); err != nil {
			writeDomainError(w, h.logger, "load list", err)
			return
		}
		cur = m.CurrentList()
	}
	if cur == nil || cur.ID != id {
		writeError(w, http.StatusConflict, "only the active list can be renamed")
		return
	}

	if err := m.RenameList(req.Name); err != nil {
		writeDomainError(w, h.logger, "rename list", err)
		return
	}
	h.broadcast(r, "list", "updated", id)
	writeJSON(w, http.StatusOK, m.CurrentList())
}

// ActivateList switches the owner's active list.
func (h *ShoppingHandler) ActivateList(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	l, err := h.manager(r).SwitchList(id)
	if err != nil {
		writeDomainError(w, h.logger, "switch list", err)
		return
	}
	h.broadcast(r, "list", "activated", l.ID)
	writeJSON(w, http.StatusOK, l)
}

// CreateCategory adds a custom category to the active list.
func (h *ShoppingHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	cat, err := h.manager(r).AddCategory(req.Name)
	if err != nil {
		writeDomainError(w, h.logger, "add category", err)
		return
	}
	h.broadcast(r, "category", "created", cat.ID)
	writeJSON(w, http.StatusCreated, cat)
}

// RenameCategory renames a category on the active list.
func (h *ShoppingHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.manager(r).RenameCategory(id, req.Name); err != nil {
		writeDomainError(w, h.logger, "rename category", err)
		return
	}
	h.broadcast(r, "category", "updated", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

type itemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// CreateItem adds an item to a category on the active list.
func (h *ShoppingHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(r.PathValue("category_id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category_id")
		return
	}
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	item, err := h.manager(r).AddItem(categoryID, req.Name, req.Quantity)
	if err != nil {
		writeDomainError(w, h.logger, "add item", err)
		return
	}
	h.broadcast(r, "item", "created", item.ID)
	writeJSON(w, http.StatusCreated, item)
}

// CreateItemAuto adds an item without an explicit category, routing it by
// name into the matching category (Extra when nothing matches).
func (h *ShoppingHandler) CreateItemAuto(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	item, err := h.manager(r).AddItemAuto(req.Name, req.Quantity)
	if err != nil {
		writeDomainError(w, h.logger, "add item", err)
		return
	}
	h.broadcast(r, "item", "created", item.ID)
	writeJSON(w, http.StatusCreated, item)
}

// RenameItem renames an item.
func (h *ShoppingHandler) RenameItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.manager(r).RenameItem(id, req.Name); err != nil {
		writeDomainError(w, h.logger, "rename item", err)
		return
	}
	h.broadcast(r, "item", "updated", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateQuantity sets an item's quantity. Zero keeps the item on the list.
func (h *ShoppingHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.manager(r).SetItemQuantity(id, req.Quantity); err != nil {
		writeDomainError(w, h.logger, "set quantity", err)
		return
	}
	h.broadcast(r, "item", "updated", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type priceRequest struct {
	Price  decimal.Decimal `json:"price"`
	Market *string         `json:"market"`
}

// UpdatePrice records an item's unit price and, as a side effect, appends a
// price history entry.
func (h *ShoppingHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := h.manager(r).SetItemPrice(id, req.Price, req.Market); err != nil {
		writeDomainError(w, h.logger, "set price", err)
		return
	}
	h.broadcast(r, "item", "updated", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// CheckItem toggles the checked flag and returns the item's new state.
func (h *ShoppingHandler) CheckItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := h.manager(r).ToggleItemChecked(id)
	if err != nil {
		writeDomainError(w, h.logger, "toggle item", err)
		return
	}
	h.broadcast(r, "item", "updated", id)
	writeJSON(w, http.StatusOK, item)
}

// DeleteItem removes an item from the active list.
func (h *ShoppingHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.manager(r).DeleteItem(id); err != nil {
		writeDomainError(w, h.logger, "delete item", err)
		return
	}
	h.broadcast(r, "item", "deleted", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
