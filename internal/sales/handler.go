package sales

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Handler wires HTTP endpoints for sales operations.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createSale)
	r.Get("/", h.listSales)
	r.Get("/{id}", h.showSale)
	r.Post("/{id}/items", h.addItem)
	r.Post("/{id}/items/{itemID}/cancel", h.cancelItem)
	r.Post("/{id}/cancel", h.cancelSale)
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	sale, err := h.service.CreateSale(r.Context(), req, actorID(r))
	if err != nil {
		h.respondError(w, r, "create sale", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	req := ListSalesRequest{
		Limit:  httpx.QueryInt(r, "limit", 20),
		Offset: httpx.QueryInt(r, "offset", 0),
	}
	if v, ok := httpx.QueryInt64(r, "customer_id"); ok {
		req.CustomerID = &v
	}
	if v, ok := httpx.QueryInt64(r, "branch_id"); ok {
		req.BranchID = &v
	}
	if v, ok := httpx.QueryBool(r, "cancelled"); ok {
		req.Cancelled = &v
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	sales, total, err := h.service.ListSales(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "list sales", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"sales": sales,
		"total": total,
	})
}

func (h *Handler) showSale(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "sale id must be a UUID")
		return
	}
	sale, err := h.service.GetSale(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get sale", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "sale id must be a UUID")
		return
	}
	var req AddItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	sale, err := h.service.AddItem(r.Context(), id, req, actorID(r))
	if err != nil {
		h.respondError(w, r, "add item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) cancelItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "sale id must be a UUID")
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "item id must be a UUID")
		return
	}

	sale, err := h.service.CancelItem(r.Context(), id, itemID, actorID(r))
	if err != nil {
		h.respondError(w, r, "cancel item", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) cancelSale(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "sale id must be a UUID")
		return
	}

	sale, err := h.service.CancelSale(r.Context(), id, actorID(r))
	if err != nil {
		h.respondError(w, r, "cancel sale", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrSaleNotFound), errors.Is(err, ErrItemNotFound), errors.Is(err, ErrProductNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrQuantityExceeded), errors.Is(err, ErrInvalidQuantity):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrSaleCancelled), errors.Is(err, ErrAlreadyCancelled), errors.Is(err, ErrItemCancelled), errors.Is(err, ErrAlreadyExists):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error(op, slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// actorID resolves the acting user from the X-Actor-ID header; authn itself
// is an upstream concern.
func actorID(r *http.Request) int64 {
	if v, ok := httpx.HeaderInt64(r, "X-Actor-ID"); ok {
		return v
	}
	return 0
}
