package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/cazuela-chapina/cazuela/internal/pricing"
	"github.com/cazuela-chapina/cazuela/internal/shared"
)

// Invalidator is notified after catalog mutations so dependent caches
// can drop stale aggregates.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Service wraps catalog business rules on top of the Repository.
type Service struct {
	repo        Repository
	invalidator Invalidator
}

// NewService constructs a Service. The invalidator may be nil.
func NewService(repo Repository, invalidator Invalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return Product{}, fmt.Errorf("%w: product name is required", shared.ErrValidation)
	}
	product.Kind = NormalizeKind(string(product.Kind))
	if product.Kind == KindCombo {
		return Product{}, fmt.Errorf("%w: combos are created via the combo endpoint", shared.ErrValidation)
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, err
	}
	s.bump(ctx)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, shared.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	if patch.IsZero() {
		return shared.ErrNoFields
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("%w: product name cannot be empty", shared.ErrValidation)
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bump(ctx)
	return nil
}

func (s *Service) SetImage(ctx context.Context, id int64, data []byte) error {
	if id <= 0 {
		return shared.ErrNotFound
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: no file uploaded", shared.ErrValidation)
	}
	return s.repo.SetImage(ctx, id, data)
}

func (s *Service) Image(ctx context.Context, id int64) ([]byte, error) {
	if id <= 0 {
		return nil, shared.ErrNotFound
	}
	return s.repo.Image(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Product, error) {
	if filter.Kind != "" {
		filter.Kind = NormalizeKind(string(filter.Kind))
	}
	return s.repo.List(ctx, filter)
}

// CreateCombo validates and denormalizes a combo before saving. Item
// names and unit prices missing from the request are snapshotted from
// the referenced products at save time.
func (s *Service) CreateCombo(ctx context.Context, combo Combo) (Combo, error) {
	if strings.TrimSpace(combo.Name) == "" {
		return Combo{}, fmt.Errorf("%w: combo name is required", shared.ErrValidation)
	}
	for i := range combo.Items {
		item := &combo.Items[i]
		if item.Quantity <= 0 {
			return Combo{}, fmt.Errorf("%w: combo item quantity must be positive", shared.ErrValidation)
		}
		if item.ProductID <= 0 {
			return Combo{}, fmt.Errorf("%w: combo item product reference is required", shared.ErrValidation)
		}
		if item.UnitPrice == 0 || item.ProductName == "" {
			ref, err := s.repo.Get(ctx, item.ProductID)
			if err != nil {
				return Combo{}, fmt.Errorf("%w: combo item product %d", shared.ErrNotFound, item.ProductID)
			}
			if item.ProductName == "" {
				item.ProductName = ref.Name
			}
			if item.UnitPrice == 0 && ref.BasePrice != nil {
				item.UnitPrice = *ref.BasePrice
			}
		}
	}
	created, err := s.repo.CreateCombo(ctx, combo)
	if err != nil {
		return Combo{}, err
	}
	s.bump(ctx)
	return created, nil
}

func (s *Service) GetCombo(ctx context.Context, id int64) (Combo, error) {
	if id <= 0 {
		return Combo{}, shared.ErrNotFound
	}
	return s.repo.GetCombo(ctx, id)
}

// EffectivePrice derives the chargeable price of a combo: the flat
// base price when set and positive, otherwise the item sum.
func (s *Service) EffectivePrice(combo Combo) float64 {
	var base float64
	if combo.BasePrice != nil {
		base = *combo.BasePrice
	}
	items := make([]pricing.Item, len(combo.Items))
	for i, item := range combo.Items {
		items[i] = pricing.Item{UnitPrice: item.UnitPrice, Quantity: item.Quantity}
	}
	return pricing.ComboPrice(base, items)
}

func (s *Service) bump(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	// Analytics tolerates a stale aggregate; a failed bump is not a
	// reason to fail the mutation.
	_ = s.invalidator.Bump(ctx)
}
