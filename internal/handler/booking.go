package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/midnightbrew/cafe-api/internal/middleware"
	"github.com/midnightbrew/cafe-api/internal/model"
	"github.com/midnightbrew/cafe-api/internal/queue"
	"github.com/midnightbrew/cafe-api/internal/repository"
	queue_publisher "github.com/midnightbrew/cafe-api/internal/service"
)

// bookingSlots are the sittings the café offers each evening.  The
// capacity is tables per slot, not covers.
var bookingSlots = []string{"17:00", "17:30", "18:00", "18:30", "19:00", "19:30", "20:00", "20:30", "21:00", "21:30"}

const slotCapacity = 8

// BookingHandler serves the table-booking endpoints.  Creating and
// listing bookings requires authentication; the timeslot overview is
// public so the wizard can render before login.
type BookingHandler struct {
	Bookings *repository.BookingRepo
}

func NewBookingHandler(bookings *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

type bookingReq struct {
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	PartySize       int      `json:"party_size"`
	Occasion        string   `json:"occasion"`
	Preferences     []string `json:"preferences"`
	SpecialRequests string   `json:"special_requests"`
}

type bookingPart struct {
	ID              uint64   `json:"id"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	PartySize       uint8    `json:"party_size"`
	Occasion        string   `json:"occasion,omitempty"`
	Preferences     []string `json:"preferences,omitempty"`
	SpecialRequests string   `json:"special_requests,omitempty"`
	Status          string   `json:"status"`
}

func toBookingPart(b model.Booking) bookingPart {
	var prefs []string
	if b.Preferences != "" {
		prefs = strings.Split(b.Preferences, ",")
	}
	return bookingPart{
		ID:              b.ID,
		Date:            b.BookingDate,
		Time:            b.BookingTime,
		PartySize:       b.PartySize,
		Occasion:        b.Occasion,
		Preferences:     prefs,
		SpecialRequests: b.SpecialRequests,
		Status:          b.Status,
	}
}

func validSlot(t string) bool {
	for _, s := range bookingSlots {
		if s == t {
			return true
		}
	}
	return false
}

// Create handles POST /api/booking.  The wizard has already validated
// inputs client-side, but nothing from a browser is trusted here.
func (h *BookingHandler) Create(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	if date.Before(time.Now().Truncate(24 * time.Hour)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is in the past"})
	}
	if !validSlot(req.Time) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time slot"})
	}
	if req.PartySize < 1 || req.PartySize > 20 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party size must be between 1 and 20"})
	}
	if !model.BookingOccasions[req.Occasion] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown occasion"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	taken, err := h.Bookings.CountForSlot(ctx, req.Date, req.Time)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if taken >= slotCapacity {
		return c.JSON(http.StatusConflict, echo.Map{"error": "time slot is fully booked"})
	}

	b := &model.Booking{
		UserID:          claims.UserID,
		BookingDate:     req.Date,
		BookingTime:     req.Time,
		PartySize:       uint8(req.PartySize),
		Occasion:        req.Occasion,
		Preferences:     strings.Join(req.Preferences, ","),
		SpecialRequests: req.SpecialRequests,
		Status:          model.BookingConfirmed,
	}
	if err := h.Bookings.Create(ctx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	// Fire the confirmation event off the request path; losing it only
	// loses a log line for front-of-house.
	ev := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		UserID:      claims.UserID,
		GuestName:   strings.TrimSpace(claims.FirstName + " " + claims.LastName),
		GuestEmail:  claims.Email,
		BookingDate: b.BookingDate,
		BookingTime: b.BookingTime,
		PartySize:   b.PartySize,
		Occasion:    b.Occasion,
		Preferences: req.Preferences,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pcancel()
		if err := queue_publisher.PublishBookingConfirmed(pctx, ev); err != nil {
			log.Printf("booking: confirmation event not published for booking %d", b.ID)
		}
	}()

	return c.JSON(http.StatusCreated, toBookingPart(*b))
}

// List handles GET /api/booking and returns the caller's bookings.
func (h *BookingHandler) List(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bs, err := h.Bookings.ListByUser(ctx, claims.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]bookingPart, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingPart(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Cancel handles DELETE /api/booking/:id.  Users can only cancel their
// own bookings, and only ones still confirmed.
func (h *BookingHandler) Cancel(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if b.UserID != claims.UserID {
		// Hide other users' bookings entirely.
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if b.Status != model.BookingConfirmed {
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not cancellable"})
	}
	if err := h.Bookings.UpdateStatus(ctx, id, model.BookingCancelled); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Timeslots handles GET /api/booking/timeslots?date=YYYY-MM-DD and
// reports per-slot availability for the wizard's second step.
func (h *BookingHandler) Timeslots(c echo.Context) error {
	date := c.QueryParam("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	type slotPart struct {
		Time      string `json:"time"`
		Available bool   `json:"available"`
	}
	slots := make([]slotPart, 0, len(bookingSlots))
	for _, s := range bookingSlots {
		taken, err := h.Bookings.CountForSlot(ctx, date, s)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		slots = append(slots, slotPart{Time: s, Available: taken < slotCapacity})
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "slots": slots})
}
