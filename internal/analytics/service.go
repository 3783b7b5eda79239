package analytics

import (
	"context"

	"golang.org/x/sync/singleflight"
)

const topLimit = 5

// Service assembles the dashboard, caching the result and collapsing
// concurrent rebuilds of the same key into one execution.
type Service struct {
	repo  Repository
	cache *Cache
	group singleflight.Group
}

// NewService wires a Repository with a Cache helper.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Dashboard returns the composite figures, ranking the top sellers of
// the given kind (tamal when empty).
func (s *Service) Dashboard(ctx context.Context, topKind string) (Dashboard, error) {
	if topKind == "" {
		topKind = "tamal"
	}
	key, err := s.cache.BuildKey(ctx, keyDashboard(topKind))
	if err != nil {
		return Dashboard{}, err
	}

	var dash Dashboard
	err = s.cache.FetchJSON(ctx, key, &dash, func(ctx context.Context) (interface{}, error) {
		value, err, _ := s.group.Do(key, func() (interface{}, error) {
			return s.build(ctx, topKind)
		})
		return value, err
	})
	if err != nil {
		return Dashboard{}, err
	}
	return dash, nil
}

func (s *Service) build(ctx context.Context, topKind string) (Dashboard, error) {
	var dash Dashboard
	var err error

	if dash.DailySales, err = s.repo.DailySales(ctx); err != nil {
		return Dashboard{}, err
	}
	if dash.MonthlySales, err = s.repo.MonthlySales(ctx); err != nil {
		return Dashboard{}, err
	}
	if dash.TopProducts, err = s.repo.TopByKind(ctx, topKind, topLimit); err != nil {
		return Dashboard{}, err
	}
	if dash.SalesByHour, err = s.repo.SalesByHour(ctx); err != nil {
		return Dashboard{}, err
	}
	if dash.SpicyRatio, err = s.repo.SpicyRatio(ctx); err != nil {
		return Dashboard{}, err
	}
	if dash.ProfitByLine, err = s.repo.RevenueByLine(ctx); err != nil {
		return Dashboard{}, err
	}
	return dash, nil
}
