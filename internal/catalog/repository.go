package catalog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cazuela-chapina/cazuela/internal/shared"
)

// Repository defines persistence operations for the catalog store.
type Repository interface {
	Create(ctx context.Context, product Product) (Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Update(ctx context.Context, id int64, patch Patch) error
	Delete(ctx context.Context, id int64) error
	SetImage(ctx context.Context, id int64, data []byte) error
	Image(ctx context.Context, id int64) ([]byte, error)
	List(ctx context.Context, filter Filter) ([]Product, error)
	CreateCombo(ctx context.Context, combo Combo) (Combo, error)
	GetCombo(ctx context.Context, id int64) (Combo, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, kind, description, COALESCE(attributes, '{}'::jsonb), base_price, available, customizable, (image IS NOT NULL), created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Kind, &p.Description, &p.Attributes, &p.BasePrice, &p.Available, &p.Customizable, &p.HasImage, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	if len(p.Attributes) == 0 {
		p.Attributes = nil
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	query := `INSERT INTO products (name, kind, description, attributes, base_price, available, customizable, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query,
		product.Name, product.Kind, product.Description, product.Attributes,
		product.BasePrice, product.Available, product.Customizable, now,
	).Scan(&product.ID)
	if err != nil {
		return Product{}, err
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *repository) Update(ctx context.Context, id int64, patch Patch) error {
	sets := []string{}
	args := []interface{}{}
	argCount := 0

	add := func(column string, value interface{}) {
		argCount++
		sets = append(sets, column+" = $"+strconv.Itoa(argCount))
		args = append(args, value)
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.BasePrice != nil {
		add("base_price", *patch.BasePrice)
	}
	if patch.Attributes != nil {
		add("attributes", patch.Attributes)
	}
	if patch.Available != nil {
		add("available", *patch.Available)
	}
	if patch.Customizable != nil {
		add("customizable", *patch.Customizable)
	}
	if len(sets) == 0 {
		return shared.ErrNoFields
	}
	add("updated_at", time.Now())

	argCount++
	args = append(args, id)

	query := "UPDATE products SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += " WHERE id = $" + strconv.Itoa(argCount)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetImage replaces the blob in a single statement so a partial upload
// can never leave a half-written image behind.
func (r *repository) SetImage(ctx context.Context, id int64, data []byte) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET image = $1, updated_at = $2 WHERE id = $3`, data, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Image(ctx context.Context, id int64) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT image FROM products WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, shared.ErrNotFound
	}
	return data, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []interface{}{}
	if filter.Kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, filter.Kind)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateCombo writes the combo row and its items in one transaction so
// the store never holds a combo with missing items.
func (r *repository) CreateCombo(ctx context.Context, combo Combo) (Combo, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Combo{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now()
	combo.Kind = KindCombo
	err = tx.QueryRow(ctx,
		`INSERT INTO products (name, kind, description, attributes, base_price, available, customizable, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`,
		combo.Name, combo.Kind, combo.Description, combo.Attributes,
		combo.BasePrice, combo.Available, combo.Customizable, now,
	).Scan(&combo.ID)
	if err != nil {
		return Combo{}, err
	}

	for i, item := range combo.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO combo_items (combo_id, position, product_id, product_name, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			combo.ID, i, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return Combo{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Combo{}, err
	}
	combo.CreatedAt = now
	combo.UpdatedAt = now
	return combo, nil
}

func (r *repository) GetCombo(ctx context.Context, id int64) (Combo, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND kind = $2`
	product, err := scanProduct(r.db.QueryRow(ctx, query, id, KindCombo))
	if err != nil {
		return Combo{}, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT product_id, product_name, quantity, unit_price FROM combo_items WHERE combo_id = $1 ORDER BY position`,
		id,
	)
	if err != nil {
		return Combo{}, err
	}
	defer rows.Close()

	combo := Combo{Product: product}
	for rows.Next() {
		var item ComboItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			return Combo{}, err
		}
		combo.Items = append(combo.Items, item)
	}
	return combo, rows.Err()
}
