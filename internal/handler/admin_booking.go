package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/midnightbrew/cafe-api/internal/model"
	"github.com/midnightbrew/cafe-api/internal/repository"
)

// adminBookingPart is the customer view of a booking plus the fields
// only staff see.
type adminBookingPart struct {
	bookingPart
	UserID    uint64    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toAdminBookingPart(b model.Booking) adminBookingPart {
	return adminBookingPart{
		bookingPart: toBookingPart(b),
		UserID:      b.UserID,
		CreatedAt:   b.CreatedAt,
	}
}

// ListBookings handles GET /api/admin/bookings: every booking, newest
// first, for the dashboard's reservations view.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bs, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]adminBookingPart, 0, len(bs))
	for _, b := range bs {
		out = append(out, toAdminBookingPart(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// UpdateBookingStatus handles PUT /api/admin/bookings/:id/status.
// Staff use it to mark no-shows cancelled and finished visits
// completed.
func (h *AdminHandler) UpdateBookingStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch req.Status {
	case model.BookingConfirmed, model.BookingCancelled, model.BookingCompleted:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
