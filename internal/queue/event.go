// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// BookingConfirmedEvent is published when a table booking is created.
// It carries enough for downstream consumers to log or notify staff
// without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID   uint64   `json:"booking_id"`
	UserID      uint64   `json:"user_id"`
	GuestName   string   `json:"guest_name"`
	GuestEmail  string   `json:"guest_email"`
	BookingDate string   `json:"booking_date"`
	BookingTime string   `json:"booking_time"`
	PartySize   uint8    `json:"party_size"`
	Occasion    string   `json:"occasion"`
	Preferences []string `json:"preferences"`
	ConfirmedAt string   `json:"confirmed_at"`
}
