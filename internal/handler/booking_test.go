package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midnightbrew/cafe-api/internal/auth"
	"github.com/midnightbrew/cafe-api/internal/middleware"
	"github.com/midnightbrew/cafe-api/internal/model"
)

func postJSON(body string, claims *auth.Claims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(middleware.ClaimsKey, claims)
	}
	return c, rec
}

func TestBookingCreateRequiresAuth(t *testing.T) {
	h := NewBookingHandler(nil)
	c, rec := postJSON(`{}`, nil)
	_ = h.Create(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingCreateValidation(t *testing.T) {
	// Each case fails before the handler ever touches storage.
	h := NewBookingHandler(nil)
	claims := &auth.Claims{UserID: 1}

	cases := map[string]string{
		"bad date":       `{"date":"01-03-2026","time":"18:00","party_size":2}`,
		"past date":      `{"date":"2020-01-01","time":"18:00","party_size":2}`,
		"off-grid slot":  `{"date":"2030-06-01","time":"03:15","party_size":2}`,
		"zero party":     `{"date":"2030-06-01","time":"18:00","party_size":0}`,
		"oversize party": `{"date":"2030-06-01","time":"18:00","party_size":21}`,
		"bad occasion":   `{"date":"2030-06-01","time":"18:00","party_size":2,"occasion":"heist"}`,
	}
	for name, body := range cases {
		c, rec := postJSON(body, claims)
		_ = h.Create(c)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestValidSlot(t *testing.T) {
	assert.True(t, validSlot("17:00"))
	assert.True(t, validSlot("21:30"))
	assert.False(t, validSlot("16:30"))
	assert.False(t, validSlot("22:00"))
	assert.False(t, validSlot(""))
}

func TestToBookingPart(t *testing.T) {
	b := model.Booking{
		ID:          3,
		BookingDate: "2030-06-01",
		BookingTime: "19:00",
		PartySize:   4,
		Occasion:    "birthday",
		Preferences: "window,quiet",
		Status:      model.BookingConfirmed,
	}
	p := toBookingPart(b)
	assert.Equal(t, []string{"window", "quiet"}, p.Preferences)
	assert.Equal(t, model.BookingConfirmed, p.Status)

	b.Preferences = ""
	assert.Nil(t, toBookingPart(b).Preferences)
}

func TestAdminBookingPartJSONKeys(t *testing.T) {
	// Admin responses follow the same snake_case convention as every
	// other endpoint; raw model structs must not leak through.
	b := model.Booking{
		ID:          3,
		UserID:      7,
		BookingDate: "2030-06-01",
		BookingTime: "19:00",
		PartySize:   4,
		Status:      model.BookingConfirmed,
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	raw, err := json.Marshal(toAdminBookingPart(b))
	require.NoError(t, err)

	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))
	for _, k := range []string{"id", "user_id", "date", "time", "party_size", "status", "created_at"} {
		assert.Contains(t, keys, k)
	}
	assert.NotContains(t, keys, "BookingDate")
	assert.NotContains(t, keys, "UserID")
}
