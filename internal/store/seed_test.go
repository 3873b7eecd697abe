package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Seed())

	users, err := s.ListUsers()
	require.NoError(t, err)
	tables, err := s.ListTables()
	require.NoError(t, err)
	products, err := s.ListProducts()
	require.NoError(t, err)

	assert.NotEmpty(t, users)
	assert.NotEmpty(t, tables)
	assert.NotEmpty(t, products)

	// Re-running against a populated database changes nothing.
	require.NoError(t, s.Seed())

	users2, err := s.ListUsers()
	require.NoError(t, err)
	tables2, err := s.ListTables()
	require.NoError(t, err)
	products2, err := s.ListProducts()
	require.NoError(t, err)

	assert.Len(t, users2, len(users))
	assert.Len(t, tables2, len(tables))
	assert.Len(t, products2, len(products))
}

func TestSeedDefaults(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Seed())

	rate, err := s.TaxRate()
	require.NoError(t, err)
	assert.Equal(t, 0.10, rate)

	license, err := s.LicenseStatus()
	require.NoError(t, err)
	assert.Equal(t, "unlicensed", license)

	admin, err := s.GetUserByUsername("admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.NotEqual(t, "admin", admin.Password) // stored hashed

	categories, err := s.Categories()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Appetizers", "Mains", "Desserts", "Drinks"}, categories)
}

func TestSeedKeepsCustomSettings(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Seed())

	require.NoError(t, s.SetSetting("tax_rate", "0.25"))
	require.NoError(t, s.Seed())

	rate, err := s.TaxRate()
	require.NoError(t, err)
	assert.Equal(t, 0.25, rate)
}

func TestInitSchemaRerunIsNoop(t *testing.T) {
	s := newTestStore(t)

	// newTestStore already applied the schema once.
	require.NoError(t, s.InitSchema())

	var version int
	require.NoError(t, s.DB.QueryRow(`PRAGMA user_version`).Scan(&version))
	assert.Equal(t, len(schemaSteps), version)
}
