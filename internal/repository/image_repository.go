package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/midnightbrew/cafe-api/internal/model"
)

// ImageRepo encapsulates queries on the `images` table.  Only image
// metadata lives here; the binary upload pipeline is external.
type ImageRepo struct{ DB *sql.DB }

func NewImageRepo(db *sql.DB) *ImageRepo { return &ImageRepo{DB: db} }

const imageCols = "id,filename,original_name,mime_type,size_bytes,url,category,alt,description,is_active,created_at,updated_at"

// Create inserts an image record.  Filenames are unique.
func (r *ImageRepo) Create(ctx context.Context, m *model.Image) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO images (filename, original_name, mime_type, size_bytes, url, category, alt, description, is_active) VALUES (?,?,?,?,?,?,?,?,?)",
		m.Filename, m.OriginalName, m.MimeType, m.SizeBytes, m.URL, m.Category, m.Alt, m.Description, m.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID fetches one image record or ErrNotFound.
func (r *ImageRepo) GetByID(ctx context.Context, id uint64) (*model.Image, error) {
	var m model.Image
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+imageCols+" FROM images WHERE id=? LIMIT 1", id).
		Scan(&m.ID, &m.Filename, &m.OriginalName, &m.MimeType, &m.SizeBytes, &m.URL, &m.Category, &m.Alt, &m.Description, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns image records, optionally filtered by category, active
// ones first.
func (r *ImageRepo) List(ctx context.Context, category string) ([]model.Image, error) {
	q := "SELECT " + imageCols + " FROM images"
	var args []any
	if category != "" {
		q += " WHERE category=?"
		args = append(args, category)
	}
	q += " ORDER BY is_active DESC, created_at DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Image
	for rows.Next() {
		var m model.Image
		if err := rows.Scan(&m.ID, &m.Filename, &m.OriginalName, &m.MimeType, &m.SizeBytes, &m.URL, &m.Category, &m.Alt, &m.Description, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update replaces the editable metadata fields.  ErrNotFound when the
// record does not exist.
func (r *ImageRepo) Update(ctx context.Context, m *model.Image) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE images SET category=?, alt=?, description=?, is_active=? WHERE id=?",
		m.Category, m.Alt, m.Description, m.IsActive, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetByID(ctx, m.ID); gerr != nil {
			return gerr
		}
	}
	return nil
}

// Delete removes an image record.  ErrNotFound when absent.
func (r *ImageRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM images WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
