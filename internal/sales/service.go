package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/cazuela-chapina/cazuela/internal/cart"
	"github.com/cazuela-chapina/cazuela/internal/catalog"
	"github.com/cazuela-chapina/cazuela/internal/pricing"
	"github.com/cazuela-chapina/cazuela/internal/shared"
)

// Catalog is the slice of the catalog service checkout needs to
// re-resolve prices. Client-supplied snapshots are never trusted here.
type Catalog interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
	GetCombo(ctx context.Context, id int64) (catalog.Combo, error)
	EffectivePrice(combo catalog.Combo) float64
}

// Service records checkouts.
type Service struct {
	repo        Repository
	catalog     Catalog
	invalidator catalog.Invalidator
}

// NewService constructs a Service. The invalidator may be nil.
func NewService(repo Repository, cat Catalog, invalidator catalog.Invalidator) *Service {
	return &Service{repo: repo, catalog: cat, invalidator: invalidator}
}

// Checkout turns the session cart into a Sale. Each line's price is
// looked up in the catalog at this moment; combo lines charge the
// combo's effective price. There is no payment step.
func (s *Service) Checkout(ctx context.Context, sessionID string, userID *int64, c *cart.Cart) (Sale, error) {
	if c == nil || len(c.Entries) == 0 {
		return Sale{}, fmt.Errorf("%w: cart is empty", shared.ErrValidation)
	}

	sale := Sale{
		UserID:     userID,
		SessionID:  sessionID,
		OccurredAt: time.Now(),
		Items:      make([]SaleItem, 0, len(c.Entries)),
	}

	var total float64
	for _, entry := range c.Entries {
		product, err := s.catalog.Get(ctx, entry.ID)
		if err != nil {
			return Sale{}, fmt.Errorf("%w: cart references unknown product %d", shared.ErrInvalidInput, entry.ID)
		}

		var unit float64
		if product.Kind == catalog.KindCombo {
			combo, err := s.catalog.GetCombo(ctx, entry.ID)
			if err != nil {
				return Sale{}, fmt.Errorf("%w: cart references unknown combo %d", shared.ErrInvalidInput, entry.ID)
			}
			unit = s.catalog.EffectivePrice(combo)
		} else if product.BasePrice != nil {
			unit = *product.BasePrice
		}

		sale.Items = append(sale.Items, SaleItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    entry.Qty,
			UnitPrice:   unit,
		})
		total += pricing.LineTotal(unit, entry.Qty)
	}
	sale.Total = pricing.Round2(total)

	id, err := s.repo.Create(ctx, sale)
	if err != nil {
		return Sale{}, err
	}
	sale.ID = id

	if s.invalidator != nil {
		// A sale changes every dashboard figure; a failed bump only
		// delays the refresh until the TTL expires.
		_ = s.invalidator.Bump(ctx)
	}
	return sale, nil
}
