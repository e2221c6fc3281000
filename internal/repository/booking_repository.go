package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/midnightbrew/cafe-api/internal/model"
)

// BookingRepo encapsulates queries on the `bookings` table.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingCols = "id,user_id,booking_date,booking_time,party_size,occasion,preferences,special_requests,status,created_at,updated_at"

// Create inserts a booking and populates its ID.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO bookings (user_id, booking_date, booking_time, party_size, occasion, preferences, special_requests, status) VALUES (?,?,?,?,?,?,?,?)",
		b.UserID, b.BookingDate, b.BookingTime, b.PartySize, b.Occasion, b.Preferences, b.SpecialRequests, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID fetches one booking or ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=? LIMIT 1", id).
		Scan(&b.ID, &b.UserID, &b.BookingDate, &b.BookingTime, &b.PartySize, &b.Occasion, &b.Preferences, &b.SpecialRequests, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingCols+" FROM bookings WHERE user_id=? ORDER BY booking_date DESC, booking_time DESC", userID)
}

// ListAll returns every booking, newest first.  Admin dashboard only.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingCols+" FROM bookings ORDER BY booking_date DESC, booking_time DESC")
}

// CountForSlot counts non-cancelled bookings holding a date/time slot.
// Used by the timeslot endpoint to mark slots as full.
func (r *BookingRepo) CountForSlot(ctx context.Context, date, timeSlot string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE booking_date=? AND booking_time=? AND status<>?",
		date, timeSlot, model.BookingCancelled).Scan(&n)
	return n, err
}

// UpdateStatus moves a booking to a new status.  ErrNotFound when the
// booking does not exist.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE bookings SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetByID(ctx, id); gerr != nil {
			return gerr
		}
	}
	return nil
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.BookingDate, &b.BookingTime, &b.PartySize, &b.Occasion, &b.Preferences, &b.SpecialRequests, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
