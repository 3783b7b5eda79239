package analytics

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the rollup queries behind the dashboard figures.
type Repository interface {
	DailySales(ctx context.Context) (float64, error)
	MonthlySales(ctx context.Context) (float64, error)
	TopByKind(ctx context.Context, kind string, limit int) ([]ProductCount, error)
	SalesByHour(ctx context.Context) ([]HourCount, error)
	SpicyRatio(ctx context.Context) (Ratio, error)
	RevenueByLine(ctx context.Context) ([]LineRevenue, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: db}
}

func (r *PGRepository) DailySales(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM sales WHERE occurred_at::date = CURRENT_DATE`,
	).Scan(&total)
	return total, err
}

func (r *PGRepository) MonthlySales(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM sales
		 WHERE date_trunc('month', occurred_at) = date_trunc('month', CURRENT_DATE)`,
	).Scan(&total)
	return total, err
}

func (r *PGRepository) TopByKind(ctx context.Context, kind string, limit int) ([]ProductCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT si.product_name, SUM(si.quantity) AS sold
		   FROM sale_items si
		   JOIN products p ON p.id = si.product_id
		  WHERE p.kind = $1
		  GROUP BY si.product_name
		  ORDER BY sold DESC, si.product_name
		  LIMIT $2`,
		kind, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ProductCount{}
	for rows.Next() {
		var pc ProductCount
		if err := rows.Scan(&pc.ProductName, &pc.Quantity); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// SalesByHour buckets today's sales by hour of day. Each sale counts
// once regardless of how many items it carried.
func (r *PGRepository) SalesByHour(ctx context.Context) ([]HourCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT EXTRACT(HOUR FROM occurred_at)::int AS hour, COUNT(*)
		   FROM sales
		  WHERE occurred_at::date = CURRENT_DATE
		  GROUP BY hour
		  ORDER BY hour`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []HourCount{}
	for rows.Next() {
		var hc HourCount
		if err := rows.Scan(&hc.Hour, &hc.Quantity); err != nil {
			return nil, err
		}
		out = append(out, hc)
	}
	return out, rows.Err()
}

// SpicyRatio classifies by substring over the rendered attributes, the
// way the legacy dashboard did. An edible entry (tamal or bebida) whose
// attributes mention "picante" in any form counts as spicy.
func (r *PGRepository) SpicyRatio(ctx context.Context) (Ratio, error) {
	var ratio Ratio
	err := r.db.QueryRow(ctx,
		`SELECT
		   COUNT(*) FILTER (WHERE attributes::text ILIKE '%picante%'),
		   COUNT(*) FILTER (WHERE attributes::text NOT ILIKE '%picante%')
		 FROM products WHERE kind IN ('tamal', 'bebida')`,
	).Scan(&ratio.Spicy, &ratio.NonSpicy)
	return ratio, err
}

func (r *PGRepository) RevenueByLine(ctx context.Context) ([]LineRevenue, error) {
	rows, err := r.db.Query(ctx,
		`SELECT p.kind, COALESCE(SUM(si.unit_price * si.quantity), 0) AS revenue
		   FROM sale_items si
		   JOIN products p ON p.id = si.product_id
		  GROUP BY p.kind
		  ORDER BY revenue DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LineRevenue{}
	for rows.Next() {
		var lr LineRevenue
		if err := rows.Scan(&lr.Kind, &lr.Revenue); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
