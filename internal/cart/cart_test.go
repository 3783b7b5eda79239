package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cazuela-chapina/cazuela/internal/shared"
)

func item(id int64, price float64) map[string]any {
	return map[string]any{"ID_PRODUCTO": float64(id), "PRECIO": price}
}

func TestAddSumsQuantitiesForSameID(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.Add(item(7, 12.5), 2))
	require.NoError(t, c.Add(item(7, 12.5), 3))

	require.Len(t, c.Entries, 1)
	assert.Equal(t, 5, c.Entries[0].Qty)
}

func TestAddRejectsItemWithoutIdentifier(t *testing.T) {
	c := &Cart{}
	err := c.Add(map[string]any{"PRECIO": 5.0}, 1)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Empty(t, c.Entries)
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	c := &Cart{}
	assert.ErrorIs(t, c.Add(item(1, 5.0), 0), shared.ErrInvalidInput)
	assert.ErrorIs(t, c.Add(item(1, 5.0), -2), shared.ErrInvalidInput)
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.Add(item(1, 5.0), 1))
	c.Remove(99)
	c.Remove(1)
	c.Remove(1)
	assert.Empty(t, c.Entries)
}

func TestSetQuantityZeroRemovesEntry(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.Add(item(4, 9.0), 2))

	c.SetQuantity(4, 0)

	assert.Empty(t, c.Entries)
}

func TestSetQuantityNegativeRemovesEntry(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.Add(item(4, 9.0), 2))

	c.SetQuantity(4, -3)

	assert.Empty(t, c.Entries)
}

func TestSetQuantityReplacesValue(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.Add(item(4, 9.0), 2))

	c.SetQuantity(4, 7)

	require.Len(t, c.Entries, 1)
	assert.Equal(t, 7, c.Entries[0].Qty)
}

func TestCountSumsQuantities(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.Add(item(1, 1.0), 2))
	require.NoError(t, c.Add(item(2, 1.0), 3))
	assert.Equal(t, 5, c.Count())
}

func TestTotalMixedProductAndCombo(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.Add(item(1, 12.5), 2))
	require.NoError(t, c.Add(item(2, 30.0), 1))
	assert.InDelta(t, 55.0, c.Total(), 1e-9)
}

func TestTotalUsesLegacyPriceFields(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.Add(map[string]any{"id": float64(3), "Precio_base": 4.25}, 2))
	assert.InDelta(t, 8.5, c.Total(), 1e-9)
}

func TestClearEmptiesCart(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.Add(item(1, 2.0), 1))
	c.Clear()
	assert.Empty(t, c.Entries)
	assert.Equal(t, 0, c.Count())
}

func TestResolveIDPrecedence(t *testing.T) {
	id, ok := ResolveID(map[string]any{"ID_PRODUCTO": float64(10), "id": float64(99)})
	require.True(t, ok)
	assert.Equal(t, int64(10), id)

	id, ok = ResolveID(map[string]any{"id": "42"})
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = ResolveID(map[string]any{"nombre": "tamal"})
	assert.False(t, ok)
}
