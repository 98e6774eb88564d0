package sales

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	svc, _, _, _ := newTestService()
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/sales", handler.MountRoutes)
	return r, svc
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", "99")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreateSale(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/sales", CreateSaleRequest{
		CustomerID: 7,
		BranchID:   1,
		Items:      []CreateSaleItemRequest{{ProductID: 1, Quantity: 5}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var sale Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))
	require.NotEqual(t, uuid.Nil, sale.ID)
	require.InDelta(t, 45.00, sale.TotalAmount, 0.001)
	require.Len(t, sale.Items, 1)
}

func TestHandlerCreateSaleValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/sales", map[string]any{
		"customer_id": 0,
		"branch_id":   1,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/sales", CreateSaleRequest{
		CustomerID: 7,
		BranchID:   1,
		Items:      []CreateSaleItemRequest{{ProductID: 1, Quantity: 21}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerAddItemAndShow(t *testing.T) {
	router, svc := newTestRouter(t)
	sale, err := svc.CreateSale(context.Background(), CreateSaleRequest{CustomerID: 7, BranchID: 1}, 99)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/sales/"+sale.ID.String()+"/items", AddItemRequest{ProductID: 2, Quantity: 4})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/sales/"+sale.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Items, 1)
	require.InDelta(t, 90.00, got.TotalAmount, 0.001)
}

func TestHandlerAddItemQuantityExceeded(t *testing.T) {
	router, svc := newTestRouter(t)
	sale, err := svc.CreateSale(context.Background(), CreateSaleRequest{CustomerID: 7, BranchID: 1}, 99)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, "/sales/"+sale.ID.String()+"/items", AddItemRequest{ProductID: 1, Quantity: 25})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerCancelFlow(t *testing.T) {
	router, svc := newTestRouter(t)
	sale, err := svc.CreateSale(context.Background(), CreateSaleRequest{
		CustomerID: 7,
		BranchID:   1,
		Items: []CreateSaleItemRequest{
			{ProductID: 1, Quantity: 5},
			{ProductID: 2, Quantity: 3},
		},
	}, 99)
	require.NoError(t, err)
	itemID := sale.Items[0].ID

	rec := doJSON(t, router, http.MethodPost, "/sales/"+sale.ID.String()+"/items/"+itemID.String()+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got Sale
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.InDelta(t, 55.00, got.TotalAmount, 0.001)

	// cancelling the same item again conflicts
	rec = doJSON(t, router, http.MethodPost, "/sales/"+sale.ID.String()+"/items/"+itemID.String()+"/cancel", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/sales/"+sale.ID.String()+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/sales/"+sale.ID.String()+"/cancel", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerNotFoundAndBadIDs(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/sales/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/sales/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/sales/"+uuid.NewString()+"/items", AddItemRequest{ProductID: 99, Quantity: 1})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerListSales(t *testing.T) {
	router, svc := newTestRouter(t)
	_, err := svc.CreateSale(context.Background(), CreateSaleRequest{CustomerID: 7, BranchID: 1}, 99)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodGet, "/sales?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Sales []SaleSummary `json:"sales"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	require.Len(t, body.Sales, 1)
}
