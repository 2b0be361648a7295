package model

import "time"

// ShopItem is a read-only catalog entry in the `shop_items` table.
type ShopItem struct {
	ID          string    `json:"id"`                    // shop_items.id
	Name        string    `json:"name"`                  // shop_items.name
	Description *string   `json:"description,omitempty"` // shop_items.description (nullable)
	Price       int64     `json:"price"`                 // shop_items.price
	ImageURL    *string   `json:"image_url,omitempty"`   // shop_items.image_url (nullable)
	CreatedAt   time.Time `json:"created_at"`            // shop_items.created_at
}
