package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/midnightbrew/cafe-api/internal/model"
	"github.com/midnightbrew/cafe-api/internal/repository"
)

// Image endpoints manage metadata records only; the binary upload
// pipeline (object storage, resizing) lives outside this service and
// registers its results here.

type imageReq struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	SizeBytes    uint64 `json:"size_bytes"`
	URL          string `json:"url"`
	Category     string `json:"category"`
	Alt          string `json:"alt"`
	Description  string `json:"description"`
	IsActive     *bool  `json:"is_active"`
}

// CreateImage handles POST /api/admin/images.
func (h *AdminHandler) CreateImage(c echo.Context) error {
	var req imageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Filename = strings.TrimSpace(req.Filename)
	if req.Filename == "" || req.URL == "" || req.MimeType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "filename, url and mime_type are required"})
	}
	if req.Category == "" {
		req.Category = "general"
	}
	if !model.ImageCategories[req.Category] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown image category"})
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := &model.Image{
		Filename:     req.Filename,
		OriginalName: req.OriginalName,
		MimeType:     req.MimeType,
		SizeBytes:    req.SizeBytes,
		URL:          req.URL,
		Category:     req.Category,
		Alt:          req.Alt,
		Description:  req.Description,
		IsActive:     active,
	}
	if err := h.Images.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "filename already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create image failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// ListImages handles GET /api/admin/images?category=...
func (h *AdminHandler) ListImages(c echo.Context) error {
	category := c.QueryParam("category")
	if category != "" && !model.ImageCategories[category] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown image category"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	images, err := h.Images.List(ctx, category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"images": images})
}

// UpdateImage handles PUT /api/admin/images/:id (metadata fields only).
func (h *AdminHandler) UpdateImage(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req imageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Images.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if req.Category != "" {
		if !model.ImageCategories[req.Category] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown image category"})
		}
		m.Category = req.Category
	}
	if req.Alt != "" {
		m.Alt = req.Alt
	}
	if req.Description != "" {
		m.Description = req.Description
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if err := h.Images.Update(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// DeleteImage handles DELETE /api/admin/images/:id.
func (h *AdminHandler) DeleteImage(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Images.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "image not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
