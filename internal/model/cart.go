package model

import "time"

// CartItem is one row of a user's cart.  (UserID, ShopItemID) is unique
// and Quantity is always at least 1.
type CartItem struct {
	ID         string    `json:"id"`           // cart_items.id
	UserID     string    `json:"user_id"`      // cart_items.user_id
	ShopItemID string    `json:"shop_item_id"` // cart_items.shop_item_id
	Quantity   int       `json:"quantity"`     // cart_items.quantity
	CreatedAt  time.Time `json:"created_at"`   // cart_items.created_at
}

// CartLine is a cart row joined with the catalog item it refers to.
type CartLine struct {
	CartItem
	Item ShopItem `json:"shop_item"`
}

// Subtotal is price × quantity for the line.
func (l CartLine) Subtotal() int64 { return l.Item.Price * int64(l.Quantity) }

// CartSnapshot is a consistent view of a cart at one fetch.  Version grows
// strictly within one Cart Sync.
type CartSnapshot struct {
	Owner     string     `json:"owner"`
	Items     []CartLine `json:"items"`
	Count     int        `json:"count"`
	Value     int64      `json:"value"`
	Version   uint64     `json:"version"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// CartTotals returns the number of distinct rows and Σ price × quantity.
func CartTotals(lines []CartLine) (count int, value int64) {
	for _, l := range lines {
		value += l.Subtotal()
	}
	return len(lines), value
}

// NewCartSnapshot builds a snapshot with totals recomputed from lines.
func NewCartSnapshot(owner string, lines []CartLine, version uint64, at time.Time) CartSnapshot {
	if lines == nil {
		lines = []CartLine{}
	}
	count, value := CartTotals(lines)
	return CartSnapshot{
		Owner:     owner,
		Items:     lines,
		Count:     count,
		Value:     value,
		Version:   version,
		FetchedAt: at,
	}
}
