package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/midnightbrew/cafe-api/internal/model"
	"github.com/midnightbrew/cafe-api/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints: menu,
// categories and featured items.  Responses only ever include
// available items; hidden items exist solely for the admin dashboard.
type PublicHandler struct {
	Categories *repository.CategoryRepo
	Menu       *repository.MenuItemRepo
}

func NewPublicHandler(categories *repository.CategoryRepo, menu *repository.MenuItemRepo) *PublicHandler {
	return &PublicHandler{Categories: categories, Menu: menu}
}

type menuItemPart struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  uint32 `json:"price_cents"`
	ImageURL    string `json:"image_url,omitempty"`
}

type menuSection struct {
	Category string         `json:"category"`
	Items    []menuItemPart `json:"items"`
}

func toItemPart(m model.MenuItem) menuItemPart {
	return menuItemPart{ID: m.ID, Name: m.Name, Description: m.Description, PriceCents: m.PriceCents, ImageURL: m.ImageURL}
}

// GetMenu handles GET /api/menu and returns available items grouped by
// category, in the order the repository sorts them.
func (h *PublicHandler) GetMenu(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Menu.List(ctx, "", true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	sections := []menuSection{}
	for _, m := range items {
		if len(sections) == 0 || sections[len(sections)-1].Category != m.Category {
			sections = append(sections, menuSection{Category: m.Category})
		}
		last := &sections[len(sections)-1]
		last.Items = append(last.Items, toItemPart(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"menu": sections})
}

// GetMenuByCategory handles GET /api/menu/:category.
func (h *PublicHandler) GetMenuByCategory(c echo.Context) error {
	category := c.Param("category")
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Menu.List(ctx, category, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if len(items) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found or empty"})
	}
	parts := make([]menuItemPart, 0, len(items))
	for _, m := range items {
		parts = append(parts, toItemPart(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"category": category, "items": parts})
}

// GetCategories handles GET /api/categories.
func (h *PublicHandler) GetCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cats, err := h.Categories.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	type catPart struct {
		ID          uint64 `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	out := make([]catPart, 0, len(cats))
	for _, cat := range cats {
		out = append(out, catPart{ID: cat.ID, Name: cat.Name, Description: cat.Description})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": out})
}

// GetFeatured handles GET /api/featured: a shortlist for the landing
// page, available items with an image first.
func (h *PublicHandler) GetFeatured(c echo.Context) error {
	const featuredLimit = 6

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Menu.List(ctx, "", true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	featured := make([]menuItemPart, 0, featuredLimit)
	for _, m := range items {
		if m.ImageURL == "" {
			continue
		}
		featured = append(featured, toItemPart(m))
		if len(featured) == featuredLimit {
			break
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"featured": featured})
}
