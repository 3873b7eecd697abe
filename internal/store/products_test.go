package store

import (
	"testing"

	"github.com/alextreichler/dinedash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteProductGuardedByOrderItems(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)
	require.NoError(t, s.AddItem(orderID, f.pizza.ID, 1, f.pizza.Price))

	assert.ErrorIs(t, s.DeleteProduct(f.pizza.ID), ErrInUse)

	// A product no order ever touched deletes fine.
	assert.NoError(t, s.DeleteProduct(f.coke.ID))
	_, err = s.GetProduct(f.coke.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserGuardedByOrders(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	otherID, err := s.CreateUser("david", "hash", models.RoleServer)
	require.NoError(t, err)

	_, err = s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteUser(f.userID), ErrInUse)
	assert.NoError(t, s.DeleteUser(int(otherID)))
}

func TestUpdateProductImage(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	require.NoError(t, s.UpdateProductImage(f.pizza.ID, "/static/uploads/p.jpg"))

	got, err := s.GetProduct(f.pizza.ID)
	require.NoError(t, err)
	assert.Equal(t, "/static/uploads/p.jpg", got.ImageURL)
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Setting("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetSetting("restaurant_name", "DineDash"))
	value, err := s.Setting("restaurant_name")
	require.NoError(t, err)
	assert.Equal(t, "DineDash", value)

	// Unset and garbage tax rates fall back to the default.
	rate, err := s.TaxRate()
	require.NoError(t, err)
	assert.Equal(t, 0.10, rate)

	require.NoError(t, s.SetSetting("tax_rate", "banana"))
	rate, err = s.TaxRate()
	require.NoError(t, err)
	assert.Equal(t, 0.10, rate)
}
