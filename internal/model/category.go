package model

import "time"

// Category represents a menu category row (`categories` table).  Names
// are unique; menu items reference a category by name.
type Category struct {
	ID          uint64    // categories.id
	Name        string    // categories.name (unique)
	Description string    // categories.description
	CreatedAt   time.Time // categories.created_at
	UpdatedAt   time.Time // categories.updated_at
}
