package sales

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cazuela-chapina/cazuela/internal/cart"
	"github.com/cazuela-chapina/cazuela/internal/catalog"
	"github.com/cazuela-chapina/cazuela/internal/shared"
)

// ==== MOCK REPOSITORY ====

type mockRepository struct {
	sales  []Sale
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{nextID: 1}
}

func (m *mockRepository) Create(ctx context.Context, sale Sale) (int64, error) {
	sale.ID = m.nextID
	m.nextID++
	m.sales = append(m.sales, sale)
	return sale.ID, nil
}

type mockCatalog struct {
	products map[int64]catalog.Product
	combos   map[int64]catalog.Combo
}

func (m *mockCatalog) Get(ctx context.Context, id int64) (catalog.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return catalog.Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *mockCatalog) GetCombo(ctx context.Context, id int64) (catalog.Combo, error) {
	c, ok := m.combos[id]
	if !ok {
		return catalog.Combo{}, shared.ErrNotFound
	}
	return c, nil
}

func (m *mockCatalog) EffectivePrice(combo catalog.Combo) float64 {
	if combo.BasePrice != nil && *combo.BasePrice > 0 {
		return *combo.BasePrice
	}
	var sum float64
	for _, item := range combo.Items {
		sum += item.UnitPrice * float64(item.Quantity)
	}
	return sum
}

type countingInvalidator struct{ bumps int }

func (c *countingInvalidator) Bump(ctx context.Context) error {
	c.bumps++
	return nil
}

func ptr[T any](v T) *T { return &v }

func cartWith(entries ...cart.Entry) *cart.Cart {
	return &cart.Cart{Entries: entries}
}

func TestCheckoutResolvesPricesFromCatalog(t *testing.T) {
	repo := newMockRepository()
	cat := &mockCatalog{products: map[int64]catalog.Product{
		1: {ID: 1, Name: "Tamal colorado", Kind: catalog.KindTamal, BasePrice: ptr(12.5)},
	}}
	svc := NewService(repo, cat, nil)

	// The client claims a lower price; the catalog wins.
	c := cartWith(cart.Entry{ID: 1, Item: map[string]any{"ID": float64(1), "PRECIO": 1.0}, Qty: 2})

	sale, err := svc.Checkout(context.Background(), "sess-1", nil, c)
	require.NoError(t, err)
	assert.Equal(t, 25.0, sale.Total)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 12.5, sale.Items[0].UnitPrice)
	assert.Equal(t, "Tamal colorado", sale.Items[0].ProductName)
}

func TestCheckoutChargesComboEffectivePrice(t *testing.T) {
	repo := newMockRepository()
	cat := &mockCatalog{
		products: map[int64]catalog.Product{
			5: {ID: 5, Name: "Combo chapín", Kind: catalog.KindCombo},
		},
		combos: map[int64]catalog.Combo{
			5: {
				Product: catalog.Product{ID: 5, Name: "Combo chapín", Kind: catalog.KindCombo},
				Items: []catalog.ComboItem{
					{ProductID: 1, Quantity: 2, UnitPrice: 10},
					{ProductID: 2, Quantity: 1, UnitPrice: 8},
				},
			},
		},
	}
	svc := NewService(repo, cat, nil)

	c := cartWith(cart.Entry{ID: 5, Item: map[string]any{"ID": float64(5)}, Qty: 1})

	sale, err := svc.Checkout(context.Background(), "sess-1", nil, c)
	require.NoError(t, err)
	assert.Equal(t, 28.0, sale.Total)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc := NewService(newMockRepository(), &mockCatalog{}, nil)

	_, err := svc.Checkout(context.Background(), "sess-1", nil, cartWith())
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Checkout(context.Background(), "sess-1", nil, nil)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCheckoutRejectsUnknownProduct(t *testing.T) {
	svc := NewService(newMockRepository(), &mockCatalog{products: map[int64]catalog.Product{}}, nil)

	c := cartWith(cart.Entry{ID: 99, Item: map[string]any{"ID": float64(99)}, Qty: 1})
	_, err := svc.Checkout(context.Background(), "sess-1", nil, c)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestCheckoutRecordsUserAndBumpsCache(t *testing.T) {
	repo := newMockRepository()
	cat := &mockCatalog{products: map[int64]catalog.Product{
		1: {ID: 1, Name: "Atol de elote", Kind: catalog.KindBebida, BasePrice: ptr(8.0)},
	}}
	inv := &countingInvalidator{}
	svc := NewService(repo, cat, inv)

	c := cartWith(cart.Entry{ID: 1, Item: map[string]any{"ID": float64(1)}, Qty: 3})

	sale, err := svc.Checkout(context.Background(), "sess-1", ptr(int64(7)), c)
	require.NoError(t, err)
	require.NotNil(t, sale.UserID)
	assert.Equal(t, int64(7), *sale.UserID)
	assert.Equal(t, 1, inv.bumps)
	require.Len(t, repo.sales, 1)
	assert.Equal(t, 24.0, repo.sales[0].Total)
}

func TestCheckoutUnpricedProductChargesZero(t *testing.T) {
	repo := newMockRepository()
	cat := &mockCatalog{products: map[int64]catalog.Product{
		3: {ID: 3, Name: "Tamal de muestra", Kind: catalog.KindTamal},
	}}
	svc := NewService(repo, cat, nil)

	c := cartWith(cart.Entry{ID: 3, Item: map[string]any{"ID": float64(3)}, Qty: 2})

	sale, err := svc.Checkout(context.Background(), "sess-1", nil, c)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sale.Total)
}
