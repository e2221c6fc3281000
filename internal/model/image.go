package model

import "time"

// Image categories accepted in `images.category`.
var ImageCategories = map[string]bool{
	"menu-item": true,
	"category":  true,
	"cafe":      true,
	"general":   true,
}

// Image represents an uploaded image's metadata (`images` table).  The
// binary upload and storage mechanics live outside this service; only
// the record is managed here.  Filenames are unique.
type Image struct {
	ID           uint64    // images.id
	Filename     string    // images.filename (unique)
	OriginalName string    // images.original_name
	MimeType     string    // images.mime_type
	SizeBytes    uint64    // images.size_bytes
	URL          string    // images.url
	Category     string    // images.category
	Alt          string    // images.alt
	Description  string    // images.description
	IsActive     bool      // images.is_active
	CreatedAt    time.Time // images.created_at
	UpdatedAt    time.Time // images.updated_at
}
