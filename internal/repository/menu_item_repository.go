package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/midnightbrew/cafe-api/internal/model"
)

// MenuItemRepo encapsulates queries on the `menu_items` table.
type MenuItemRepo struct{ DB *sql.DB }

func NewMenuItemRepo(db *sql.DB) *MenuItemRepo { return &MenuItemRepo{DB: db} }

const menuItemCols = "id,name,description,price_cents,category,image_url,available,created_at,updated_at"

// Create inserts a menu item and populates its ID.
func (r *MenuItemRepo) Create(ctx context.Context, m *model.MenuItem) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO menu_items (name, description, price_cents, category, image_url, available) VALUES (?,?,?,?,?,?)",
		m.Name, m.Description, m.PriceCents, m.Category, m.ImageURL, m.Available)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID fetches one item or ErrNotFound.
func (r *MenuItemRepo) GetByID(ctx context.Context, id uint64) (*model.MenuItem, error) {
	var m model.MenuItem
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+menuItemCols+" FROM menu_items WHERE id=? LIMIT 1", id).
		Scan(&m.ID, &m.Name, &m.Description, &m.PriceCents, &m.Category, &m.ImageURL, &m.Available, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns menu items, optionally filtered to one category and/or
// to available items only.  Ordered by category then name so the menu
// page renders grouped without extra sorting.
func (r *MenuItemRepo) List(ctx context.Context, category string, onlyAvailable bool) ([]model.MenuItem, error) {
	q := "SELECT " + menuItemCols + " FROM menu_items"
	var args []any
	var conds []string
	if category != "" {
		conds = append(conds, "category=?")
		args = append(args, category)
	}
	if onlyAvailable {
		conds = append(conds, "available=1")
	}
	for i, c := range conds {
		if i == 0 {
			q += " WHERE " + c
		} else {
			q += " AND " + c
		}
	}
	q += " ORDER BY category, name"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MenuItem
	for rows.Next() {
		var m model.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.PriceCents, &m.Category, &m.ImageURL, &m.Available, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update replaces all editable fields.  ErrNotFound when absent.
func (r *MenuItemRepo) Update(ctx context.Context, m *model.MenuItem) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE menu_items SET name=?, description=?, price_cents=?, category=?, image_url=?, available=? WHERE id=?",
		m.Name, m.Description, m.PriceCents, m.Category, m.ImageURL, m.Available, m.ID)
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

// Delete removes a menu item.  ErrNotFound when absent.
func (r *MenuItemRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM menu_items WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
