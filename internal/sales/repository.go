package sales

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists completed sales.
type Repository interface {
	Create(ctx context.Context, sale Sale) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: db}
}

// Create inserts the sale header and its items in one transaction.
func (r *PGRepository) Create(ctx context.Context, sale Sale) (int64, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO sales (user_id, session_id, total, occurred_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		sale.UserID, sale.SessionID, sale.Total, sale.OccurredAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	for _, item := range sale.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO sale_items (sale_id, product_id, product_name, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5)`,
			id, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return id, nil
}

var _ Repository = (*PGRepository)(nil)
