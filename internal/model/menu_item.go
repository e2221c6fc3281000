package model

import "time"

// MenuItem represents a row in the `menu_items` table.  Prices are
// stored in cents to avoid floating point drift.  Category is the name
// of a row in `categories`.  ImageURL may point at an Image record's
// public URL or any external location.
type MenuItem struct {
	ID          uint64    // menu_items.id
	Name        string    // menu_items.name
	Description string    // menu_items.description
	PriceCents  uint32    // menu_items.price_cents
	Category    string    // menu_items.category
	ImageURL    string    // menu_items.image_url
	Available   bool      // menu_items.available
	CreatedAt   time.Time // menu_items.created_at
	UpdatedAt   time.Time // menu_items.updated_at
}
