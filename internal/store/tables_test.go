package store

import (
	"testing"

	"github.com/alextreichler/dinedash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTablesDerivesOccupancy(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	tables, err := s.ListTables()
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, models.TableAvailable, tables[0].Status)

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)

	tables, err = s.ListTables()
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, tables[0].Status)

	// No explicit "set available" call exists anywhere: closing the
	// order is what frees the table.
	require.NoError(t, s.AddItem(orderID, f.coke.ID, 1, f.coke.Price))
	_, err = s.CloseOrder(orderID)
	require.NoError(t, err)

	tables, err = s.ListTables()
	require.NoError(t, err)
	assert.Equal(t, models.TableAvailable, tables[0].Status)
}

func TestDeleteTableGuardedByOpenOrder(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	orderID, err := s.CreateOrder(f.tableID, f.userID)
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteTable(f.tableID), ErrTableOccupied)

	require.NoError(t, s.AddItem(orderID, f.coke.ID, 1, f.coke.Price))
	_, err = s.CloseOrder(orderID)
	require.NoError(t, err)

	// Closed history still pins the table, but as ErrInUse rather than
	// occupied.
	assert.ErrorIs(t, s.DeleteTable(f.tableID), ErrInUse)

	spareID, err := s.CreateTable("T9", 2)
	require.NoError(t, err)
	require.NoError(t, s.DeleteTable(int(spareID)))

	_, err = s.GetTable(int(spareID))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTableUnknown(t *testing.T) {
	s := newTestStore(t)

	assert.ErrorIs(t, s.DeleteTable(42), ErrNotFound)
}

func TestUpdateTable(t *testing.T) {
	s := newTestStore(t)
	f := newFixture(t, s)

	require.NoError(t, s.UpdateTable(&models.Table{ID: f.tableID, Name: "VIP1", Capacity: 8}))

	got, err := s.GetTable(f.tableID)
	require.NoError(t, err)
	assert.Equal(t, "VIP1", got.Name)
	assert.Equal(t, 8, got.Capacity)
}
