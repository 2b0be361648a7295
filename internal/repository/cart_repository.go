package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/pandit-seva/internal/model"
)

// CartRepo stores cart rows.  Every method is scoped by owner so one user
// can never read or modify another user's rows.
type CartRepo struct {
	DB      *sql.DB
	Timeout time.Duration
}

func NewCartRepo(db *sql.DB, timeout time.Duration) *CartRepo {
	return &CartRepo{DB: db, Timeout: timeout}
}

// Increment adds one unit of itemID to owner's cart.  A new row gets
// newID; an existing (owner, item) row has its quantity bumped in the same
// statement, so concurrent calls can never produce two rows.
func (r *CartRepo) Increment(ctx context.Context, owner, itemID, newID string) error {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO cart_items (id, user_id, shop_item_id, quantity) VALUES (?, ?, ?, 1)
		 ON DUPLICATE KEY UPDATE quantity = quantity + 1`,
		newID, owner, itemID)
	return translate(err)
}

// SetQuantity overwrites the quantity of one of owner's rows.  n must be
// at least 1.
func (r *CartRepo) SetQuantity(ctx context.Context, owner, cartItemID string, n int) error {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cart_items SET quantity=? WHERE id=? AND user_id=?", n, cartItemID, owner)
	if err != nil {
		return translate(err)
	}
	return expectOne(res)
}

// Delete removes one of owner's rows.
func (r *CartRepo) Delete(ctx context.Context, owner, cartItemID string) error {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE id=? AND user_id=?", cartItemID, owner)
	if err != nil {
		return translate(err)
	}
	return expectOne(res)
}

// DeleteAll empties owner's cart and returns the number of rows removed.
func (r *CartRepo) DeleteAll(ctx context.Context, owner string) (int64, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	res, err := r.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id=?", owner)
	if err != nil {
		return 0, translate(err)
	}
	n, err := res.RowsAffected()
	return n, translate(err)
}

// ListByOwner returns owner's rows joined with the current catalog data,
// oldest first so lines keep a stable position as quantities change.
func (r *CartRepo) ListByOwner(ctx context.Context, owner string) ([]model.CartLine, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	rows, err := r.DB.QueryContext(ctx,
		`SELECT c.id, c.user_id, c.shop_item_id, c.quantity, c.created_at,
		        s.id, s.name, s.description, s.price, s.image_url, s.created_at
		   FROM cart_items c JOIN shop_items s ON s.id = c.shop_item_id
		  WHERE c.user_id=? ORDER BY c.created_at, c.id`, owner)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := []model.CartLine{}
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ID, &l.UserID, &l.ShopItemID, &l.Quantity, &l.CartItem.CreatedAt,
			&l.Item.ID, &l.Item.Name, &l.Item.Description, &l.Item.Price, &l.Item.ImageURL, &l.Item.CreatedAt); err != nil {
			return nil, translate(err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
