package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes order HTTP endpoints.
type Handler struct {
	service Service
	items   ItemService
}

func NewHandler(service Service, items ItemService) *Handler {
	return &Handler{service: service, items: items}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/{id}", h.getOrder)
		r.Put("/{id}", h.updateStatus)
		r.Delete("/{id}", h.deleteOrder)
		r.Post("/{id}/reconcile", h.reconcileTotal)

		r.Route("/{orderID}/items", func(r chi.Router) {
			r.Post("/", h.addItem)
			r.Get("/", h.listItems)
			r.Put("/{itemID}", h.updateItem)
			r.Delete("/{itemID}", h.removeItem)
		})
	})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.CreateOrder(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reconcileTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.items.ReconcileTotal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]float64{"total_amount": total})
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	item, err := h.items.AddItem(r.Context(), chi.URLParam(r, "orderID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, item)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.ListItems(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	item, err := h.items.UpdateItem(r.Context(), chi.URLParam(r, "orderID"), chi.URLParam(r, "itemID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil {
		// quantity <= 0 removed the line
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respond(w, http.StatusOK, item)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	err := h.items.RemoveItem(r.Context(), chi.URLParam(r, "orderID"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrForeignItem):
		status = http.StatusConflict
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidProductID):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ErrPriceUnavailable):
		status = http.StatusBadGateway
	}
	http.Error(w, err.Error(), status)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
