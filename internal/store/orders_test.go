package store

import (
	"testing"

	"github.com/alextreichler/dinedash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderSingleOpenPerTable(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)

	// Second open order for the same table is rejected.
	_, err = s.CreateOrder(f.tableID, f.userID)
	assert.ErrorIs(t, err, ErrTableOccupied)

	// Closing releases the table for a fresh order.
	require.NoError(t, s.AddItem(orderID, f.coke.ID, 1, f.coke.Price))
	_, err = s.CloseOrder(orderID)
	require.NoError(t, err)

	_, err = s.CreateOrder(f.tableID, f.userID)
	assert.NoError(t, err)
}

func TestGetOpenOrderForTable(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	open, err := s.GetOpenOrderForTable(f.tableID)
	require.NoError(t, err)
	assert.Nil(t, open)

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)

	open, err = s.GetOpenOrderForTable(f.tableID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, orderID, open.ID)
	assert.Equal(t, models.OrderOpen, open.Status)
	assert.Nil(t, open.ClosedAt)
}

func TestAddItemMergesRepeats(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)

	require.NoError(t, s.AddItem(orderID, f.pizza.ID, 1, f.pizza.Price))
	require.NoError(t, s.AddItem(orderID, f.pizza.ID, 1, f.pizza.Price))

	items, err := s.GetOrderItems(orderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, f.pizza.Price, items[0].PriceAtTime)
}

func TestAddItemRejectsBadQuantity(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)

	assert.Error(t, s.AddItem(orderID, f.pizza.ID, 0, f.pizza.Price))
	assert.Error(t, s.AddItem(orderID, f.pizza.ID, -2, f.pizza.Price))
}

func TestAddItemUnknownOrder(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	err := s.AddItem(9999, f.pizza.ID, 1, f.pizza.Price)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetItemQuantityFloorDeletes(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)
	require.NoError(t, s.AddItem(orderID, f.pizza.ID, 2, f.pizza.Price))

	items, err := s.GetOrderItems(orderID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	itemID := items[0].ID
	require.NoError(t, s.SetItemQuantity(itemID, 0))

	items, err = s.GetOrderItems(orderID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// The deleted line is gone for good.
	assert.ErrorIs(t, s.SetItemQuantity(itemID, 3), ErrNotFound)
}

func TestSetItemQuantityUpdatesInPlace(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)
	require.NoError(t, s.AddItem(orderID, f.pizza.ID, 1, f.pizza.Price))

	items, err := s.GetOrderItems(orderID)
	require.NoError(t, err)

	require.NoError(t, s.SetItemQuantity(items[0].ID, 5))

	items, err = s.GetOrderItems(orderID)
	require.NoError(t, err)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestPriceSnapshotSurvivesCatalogEdit(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)
	require.NoError(t, s.AddItem(orderID, f.pizza.ID, 1, 10.00))

	f.pizza.Price = 20.00
	require.NoError(t, s.UpdateProduct(f.pizza))

	items, err := s.GetOrderItems(orderID)
	require.NoError(t, err)
	assert.Equal(t, 10.00, items[0].PriceAtTime)
}

func TestCloseOrderFreezesTotals(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)
	require.NoError(t, s.AddItem(orderID, f.pizza.ID, 2, f.pizza.Price))
	require.NoError(t, s.AddItem(orderID, f.coke.ID, 1, f.coke.Price))

	totals, err := s.CloseOrder(orderID)
	require.NoError(t, err)
	assert.Equal(t, 35.48, totals.Subtotal)
	assert.Equal(t, 3.55, totals.Tax)
	assert.Equal(t, 39.03, totals.Total)

	order, err := s.GetOrder(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderClosed, order.Status)
	assert.Equal(t, 39.03, order.TotalAmount)
	assert.NotNil(t, order.ClosedAt)
	assert.NotEmpty(t, order.ReceiptRef)

	// Closed orders are immutable.
	assert.ErrorIs(t, s.AddItem(orderID, f.coke.ID, 1, f.coke.Price), ErrOrderClosed)
	items, err := s.GetOrderItems(orderID)
	require.NoError(t, err)
	assert.ErrorIs(t, s.SetItemQuantity(items[0].ID, 9), ErrOrderClosed)

	_, err = s.CloseOrder(orderID)
	assert.ErrorIs(t, err, ErrOrderClosed)

	// And the frozen total did not move.
	order, err = s.GetOrder(orderID)
	require.NoError(t, err)
	assert.Equal(t, 39.03, order.TotalAmount)
}

func TestCloseOrderRejectsEmpty(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)

	_, err = s.CloseOrder(orderID)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	// Adding then removing everything leaves it empty again.
	require.NoError(t, s.AddItem(orderID, f.pizza.ID, 1, f.pizza.Price))
	items, err := s.GetOrderItems(orderID)
	require.NoError(t, err)
	require.NoError(t, s.SetItemQuantity(items[0].ID, 0))

	_, err = s.CloseOrder(orderID)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCloseOrderUsesConfiguredTaxRate(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)
	require.NoError(t, s.SetSetting("tax_rate", "0.20"))

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)
	require.NoError(t, s.AddItem(orderID, f.coke.ID, 2, f.coke.Price))

	totals, err := s.CloseOrder(orderID)
	require.NoError(t, err)
	assert.Equal(t, 7.00, totals.Subtotal)
	assert.Equal(t, 1.40, totals.Tax)
	assert.Equal(t, 8.40, totals.Total)
}

func TestGetLastClosedOrderForTable(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	last, err := s.GetLastClosedOrderForTable(f.tableID)
	require.NoError(t, err)
	assert.Nil(t, last)

	first, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)
	require.NoError(t, s.AddItem(first, f.pizza.ID, 1, f.pizza.Price))
	_, err = s.CloseOrder(first)
	require.NoError(t, err)

	second, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)
	require.NoError(t, s.AddItem(second, f.coke.ID, 1, f.coke.Price))
	_, err = s.CloseOrder(second)
	require.NoError(t, err)

	last, err = s.GetLastClosedOrderForTable(f.tableID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, second, last.ID)
}

// End-to-end: open, tap Pizza twice, add a Coke, close at 10% tax.
func TestOrderLifecycleScenario(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)

	tables, err := s.ListTables()
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, tables[0].Status)

	require.NoError(t, s.AddItem(orderID, f.pizza.ID, 1, f.pizza.Price))
	require.NoError(t, s.AddItem(orderID, f.pizza.ID, 1, f.pizza.Price))
	require.NoError(t, s.AddItem(orderID, f.coke.ID, 1, f.coke.Price))

	items, err := s.GetOrderItems(orderID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	totals, err := s.CloseOrder(orderID)
	require.NoError(t, err)
	assert.Equal(t, 35.48, totals.Subtotal)
	assert.Equal(t, 3.55, totals.Tax)
	assert.Equal(t, 39.03, totals.Total)

	tables, err = s.ListTables()
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, tables[0].Status)
}
