package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/pandit-seva/internal/model"
)

// ShopRepo reads the shop catalog.  Items are only written by the seed
// command.
type ShopRepo struct {
	DB      *sql.DB
	Timeout time.Duration
}

func NewShopRepo(db *sql.DB, timeout time.Duration) *ShopRepo {
	return &ShopRepo{DB: db, Timeout: timeout}
}

// List returns all items, newest first.
func (r *ShopRepo) List(ctx context.Context) ([]model.ShopItem, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,description,price,image_url,created_at FROM shop_items ORDER BY created_at DESC, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ShopItem{}
	for rows.Next() {
		var it model.ShopItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.ImageURL, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetByID fetches a single item.
func (r *ShopRepo) GetByID(ctx context.Context, id string) (*model.ShopItem, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	var it model.ShopItem
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,description,price,image_url,created_at FROM shop_items WHERE id=? LIMIT 1", id).
		Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.ImageURL, &it.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

// Count returns the number of catalog rows.
func (r *ShopRepo) Count(ctx context.Context) (int, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM shop_items").Scan(&n)
	return n, err
}

// CreateMany inserts items in a single statement inside a transaction.
// Passing an empty slice has no effect and returns nil.
func (r *ShopRepo) CreateMany(ctx context.Context, items []model.ShopItem) error {
	if len(items) == 0 {
		return nil
	}
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	query := `INSERT INTO shop_items (id, name, description, price, image_url) VALUES `
	args := make([]interface{}, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, it.ID, it.Name, it.Description, it.Price, it.ImageURL)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return translate(err)
	}
	return tx.Commit()
}
