package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
		want   float64
	}{
		{
			name:   "canonical field wins",
			record: map[string]any{"PRECIO": 12.5, "PRECIO_BASE": 99.0},
			want:   12.5,
		},
		{
			name:   "legacy uppercase base price",
			record: map[string]any{"PRECIO_BASE": 18.0},
			want:   18.0,
		},
		{
			name:   "legacy mixed case base price",
			record: map[string]any{"Precio_base": 7.25},
			want:   7.25,
		},
		{
			name:   "english spelling",
			record: map[string]any{"price": 3.5},
			want:   3.5,
		},
		{
			name:   "no price fields resolves to zero",
			record: map[string]any{"Nombre_producto": "Tamal de Elote"},
			want:   0,
		},
		{
			name:   "nil record resolves to zero",
			record: nil,
			want:   0,
		},
		{
			name:   "numeric string coerced",
			record: map[string]any{"Precio_base": "15.75"},
			want:   15.75,
		},
		{
			name:   "json number coerced",
			record: map[string]any{"PRECIO": json.Number("30")},
			want:   30,
		},
		{
			name:   "unparseable value skipped for next key",
			record: map[string]any{"PRECIO": "n/a", "price": 4.0},
			want:   4.0,
		},
		{
			name:   "null value skipped for next key",
			record: map[string]any{"PRECIO": nil, "PRECIO_BASE": 9.0},
			want:   9.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Resolve(tc.record), 1e-9)
		})
	}
}

func TestResolveUnit(t *testing.T) {
	assert.InDelta(t, 10.0, ResolveUnit(map[string]any{"PRECIO_UNITARIO": 10.0}), 1e-9)
	assert.InDelta(t, 6.5, ResolveUnit(map[string]any{"PRECIO_VENTA": 6.5}), 1e-9)
	assert.InDelta(t, 0.0, ResolveUnit(map[string]any{"Cantidad": 3}), 1e-9)
}

func TestComboPriceBasePriceWins(t *testing.T) {
	items := []Item{{UnitPrice: 10, Quantity: 3}}
	assert.InDelta(t, 50.0, ComboPrice(50.0, items), 1e-9)
}

func TestComboPriceSumsItemsWhenBaseUnset(t *testing.T) {
	items := []Item{
		{UnitPrice: 10, Quantity: 2},
		{UnitPrice: 5, Quantity: 1},
	}
	assert.InDelta(t, 25.0, ComboPrice(0, items), 1e-9)
}

func TestComboPriceEmpty(t *testing.T) {
	assert.InDelta(t, 0.0, ComboPrice(0, nil), 1e-9)
}

func TestLineTotal(t *testing.T) {
	assert.InDelta(t, 37.5, LineTotal(12.5, 3), 1e-9)
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 10.01, Round2(10.005), 1e-9)
	assert.InDelta(t, 10.0, Round2(9.999), 1e-9)
}

func TestAccumulationDoesNotCompoundRounding(t *testing.T) {
	// Three thirds of a cent accumulate exactly; rounding happens once.
	items := []Item{
		{UnitPrice: 0.333, Quantity: 1},
		{UnitPrice: 0.333, Quantity: 1},
		{UnitPrice: 0.334, Quantity: 1},
	}
	assert.InDelta(t, 1.0, Round2(ComboPrice(0, items)), 1e-9)
}
