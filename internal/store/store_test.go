package store

import (
	"testing"

	"github.com/alextreichler/dinedash/internal/models"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.DB.Close() })

	require.NoError(t, s.InitSchema())
	return s
}

type fixture struct {
	userID  int
	tableID int
	pizza   *models.Product
	coke    *models.Product
}

func newFixture(t *testing.T, s *Store) fixture {
	t.Helper()

	userID, err := s.CreateUser("jessica", "hash", models.RoleServer)
	require.NoError(t, err)

	tableID, err := s.CreateTable("T1", 4)
	require.NoError(t, err)

	pizzaID, err := s.CreateProduct(&models.Product{Name: "Margherita Pizza", Price: 15.99, Category: "Mains"})
	require.NoError(t, err)
	pizza, err := s.GetProduct(int(pizzaID))
	require.NoError(t, err)

	cokeID, err := s.CreateProduct(&models.Product{Name: "Coca-Cola", Price: 3.50, Category: "Drinks"})
	require.NoError(t, err)
	coke, err := s.GetProduct(int(cokeID))
	require.NoError(t, err)

	return fixture{userID: int(userID), tableID: int(tableID), pizza: pizza, coke: coke}
}
