package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alextreichler/dinedash/internal/models"
	"github.com/alextreichler/dinedash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderHandler(t *testing.T) (*OrderHandler, *store.Store) {
	t.Helper()

	s, err := store.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.DB.Close() })
	require.NoError(t, s.InitSchema())

	return &OrderHandler{Store: s}, s
}

func closedOrder(t *testing.T, s *store.Store) int64 {
	t.Helper()

	userID, err := s.CreateUser("jessica", "hash", models.RoleServer)
	require.NoError(t, err)
	tableID, err := s.CreateTable("T1", 4)
	require.NoError(t, err)
	productID, err := s.CreateProduct(&models.Product{Name: "Coca-Cola", Price: 3.50, Category: "Drinks"})
	require.NoError(t, err)

	orderID, err := s.CreateOrder(int(tableID), int(userID))
	require.NoError(t, err)
	require.NoError(t, s.AddItem(orderID, int(productID), 1, 3.50))
	_, err = s.CloseOrder(orderID)
	require.NoError(t, err)
	return orderID
}

func getQR(h *OrderHandler, orderID string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/receipt/"+orderID+"/qr.png", nil)
	r.SetPathValue("id", orderID)
	w := httptest.NewRecorder()
	h.ReceiptQR(w, r)
	return w
}

func TestReceiptQR(t *testing.T) {
	h, s := newOrderHandler(t)
	orderID := closedOrder(t, s)

	w := getQR(h, fmt.Sprint(orderID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestReceiptQRUnknownOrder(t *testing.T) {
	h, _ := newOrderHandler(t)

	w := getQR(h, "9999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReceiptQROpenOrderHasNoRef(t *testing.T) {
	h, s := newOrderHandler(t)

	userID, err := s.CreateUser("jessica", "hash", models.RoleServer)
	require.NoError(t, err)
	tableID, err := s.CreateTable("T1", 4)
	require.NoError(t, err)
	orderID, err := s.CreateOrder(int(tableID), int(userID))
	require.NoError(t, err)

	w := getQR(h, fmt.Sprint(orderID))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReceiptQRStorageFailure(t *testing.T) {
	h, s := newOrderHandler(t)
	orderID := closedOrder(t, s)

	// A broken database is a 500, not a quiet 404.
	require.NoError(t, s.DB.Close())
	w := getQR(h, fmt.Sprint(orderID))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
