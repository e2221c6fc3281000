package model

import "time"

// Booking statuses stored in `bookings.status`.  A booking is created
// confirmed; cancellation and completion are one-way transitions.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Occasions accepted on a booking.  The empty string means none given.
var BookingOccasions = map[string]bool{
	"":            true,
	"birthday":    true,
	"anniversary": true,
	"date":        true,
	"business":    true,
	"friends":     true,
	"other":       true,
}

// Booking represents a table booking row (`bookings` table).  Date and
// time are kept as the wizard submits them (YYYY-MM-DD and HH:MM) since
// the café works in local wall-clock time.  Preferences is a
// comma-joined list of seating feature tags.
type Booking struct {
	ID              uint64    // bookings.id
	UserID          uint64    // bookings.user_id
	BookingDate     string    // bookings.booking_date
	BookingTime     string    // bookings.booking_time
	PartySize       uint8     // bookings.party_size (1..20)
	Occasion        string    // bookings.occasion
	Preferences     string    // bookings.preferences
	SpecialRequests string    // bookings.special_requests
	Status          string    // bookings.status
	CreatedAt       time.Time // bookings.created_at
	UpdatedAt       time.Time // bookings.updated_at
}
