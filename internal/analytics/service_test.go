package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==== STUB REPOSITORY ====

type stubRepository struct {
	calls    int
	lastKind string
}

func (s *stubRepository) DailySales(ctx context.Context) (float64, error) {
	s.calls++
	return 150.5, nil
}

func (s *stubRepository) MonthlySales(ctx context.Context) (float64, error) {
	return 3200.0, nil
}

func (s *stubRepository) TopByKind(ctx context.Context, kind string, limit int) ([]ProductCount, error) {
	s.lastKind = kind
	return []ProductCount{
		{ProductName: "Tamal colorado", Quantity: 40},
		{ProductName: "Tamal negro", Quantity: 25},
	}, nil
}

func (s *stubRepository) SalesByHour(ctx context.Context) ([]HourCount, error) {
	return []HourCount{{Hour: 7, Quantity: 12}, {Hour: 12, Quantity: 30}}, nil
}

func (s *stubRepository) SpicyRatio(ctx context.Context) (Ratio, error) {
	return Ratio{Spicy: 3, NonSpicy: 7}, nil
}

func (s *stubRepository) RevenueByLine(ctx context.Context) ([]LineRevenue, error) {
	return []LineRevenue{{Kind: "tamal", Revenue: 2000}, {Kind: "bebida", Revenue: 1200}}, nil
}

func testCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, 10*time.Minute)
}

func TestDashboardAssemblesFigures(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, testCache(t))

	dash, err := svc.Dashboard(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 150.5, dash.DailySales)
	assert.Equal(t, 3200.0, dash.MonthlySales)
	assert.Len(t, dash.TopProducts, 2)
	assert.Equal(t, []HourCount{{Hour: 7, Quantity: 12}, {Hour: 12, Quantity: 30}}, dash.SalesByHour)
	assert.Equal(t, "tamal", repo.lastKind)
	assert.Equal(t, Ratio{Spicy: 3, NonSpicy: 7}, dash.SpicyRatio)
	assert.Len(t, dash.ProfitByLine, 2)
}

func TestDashboardServedFromCache(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, testCache(t))

	_, err := svc.Dashboard(context.Background(), "tamal")
	require.NoError(t, err)
	_, err = svc.Dashboard(context.Background(), "tamal")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
}

func TestBumpInvalidatesDashboard(t *testing.T) {
	repo := &stubRepository{}
	cache := testCache(t)
	svc := NewService(repo, cache)

	_, err := svc.Dashboard(context.Background(), "tamal")
	require.NoError(t, err)

	require.NoError(t, cache.Bump(context.Background()))

	_, err = svc.Dashboard(context.Background(), "tamal")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestDashboardKindScopesCacheKey(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, testCache(t))

	_, err := svc.Dashboard(context.Background(), "tamal")
	require.NoError(t, err)
	_, err = svc.Dashboard(context.Background(), "bebida")
	require.NoError(t, err)

	assert.Equal(t, 2, repo.calls)
	assert.Equal(t, "bebida", repo.lastKind)
}

func TestDashboardWithoutRedisFallsThrough(t *testing.T) {
	repo := &stubRepository{}
	svc := NewService(repo, NewCache(nil, time.Minute))

	_, err := svc.Dashboard(context.Background(), "")
	require.NoError(t, err)
	_, err = svc.Dashboard(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 2, repo.calls)
}
