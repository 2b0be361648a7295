package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/pandit-seva/internal/model"
)

const bookingColumns = "b.id,b.user_id,b.pandit_id,b.puja_type,b.preferred_date,b.preferred_time,b.address,b.special_requirements,b.status,b.total_amount,b.created_at"

// BookingRepo provides persistence for bookings.  Bookings are never
// deleted; cancellation is a status change.
type BookingRepo struct {
	DB      *sql.DB
	Timeout time.Duration
}

func NewBookingRepo(db *sql.DB, timeout time.Duration) *BookingRepo {
	return &BookingRepo{DB: db, Timeout: timeout}
}

// Create inserts b and reads back the server-assigned created_at.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO bookings (id,user_id,pandit_id,puja_type,preferred_date,preferred_time,address,special_requirements,status,total_amount)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		b.ID, b.UserID, b.PanditID, b.PujaType, b.PreferredDate, b.PreferredTime,
		b.Address, b.SpecialRequirements, b.Status, b.TotalAmount)
	if err != nil {
		return translate(err)
	}
	err = r.DB.QueryRowContext(ctx, "SELECT created_at FROM bookings WHERE id=?", b.ID).Scan(&b.CreatedAt)
	return translate(err)
}

// GetForUser returns the booking if it belongs to userID, with the
// provider's display fields attached.
func (r *BookingRepo) GetForUser(ctx context.Context, id, userID string) (*model.BookingDetail, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+bookingColumns+`, p.full_name, p.phone, p.address, p.specialization
		   FROM bookings b JOIN profiles p ON p.id = b.pandit_id
		  WHERE b.id=? AND b.user_id=? LIMIT 1`, id, userID)
	d, err := scanBookingDetail(row)
	if err != nil {
		return nil, err
	}
	d.Pandit = &d.counterpart
	return &d.BookingDetail, nil
}

// ListByUser returns a requester's bookings, newest first, with provider
// display fields.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]model.BookingDetail, error) {
	return r.list(ctx,
		`SELECT `+bookingColumns+`, p.full_name, p.phone, p.address, p.specialization
		   FROM bookings b JOIN profiles p ON p.id = b.pandit_id
		  WHERE b.user_id=? ORDER BY b.created_at DESC, b.id`,
		userID, func(d *bookingRow) { d.Pandit = &d.counterpart })
}

// ListByProvider returns the bookings addressed to a provider, newest
// first, with requester display fields.
func (r *BookingRepo) ListByProvider(ctx context.Context, panditID string) ([]model.BookingDetail, error) {
	return r.list(ctx,
		`SELECT `+bookingColumns+`, p.full_name, p.phone, p.address, p.specialization
		   FROM bookings b JOIN profiles p ON p.id = b.user_id
		  WHERE b.pandit_id=? ORDER BY b.created_at DESC, b.id`,
		panditID, func(d *bookingRow) { d.Requester = &d.counterpart })
}

func (r *BookingRepo) list(ctx context.Context, q, owner string, attach func(*bookingRow)) ([]model.BookingDetail, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	rows, err := r.DB.QueryContext(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BookingDetail{}
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		attach(&d)
		out = append(out, d.BookingDetail)
	}
	return out, rows.Err()
}

// TransitionStatus moves the booking from -> to only if it belongs to
// userID and is currently in from.  It reports whether a row changed.
func (r *BookingRepo) TransitionStatus(ctx context.Context, id, userID string, from, to model.BookingStatus) (bool, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE id=? AND user_id=? AND status=?",
		to, id, userID, from)
	if err != nil {
		return false, translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// StatusForUser returns the current status of a booking owned by userID.
func (r *BookingRepo) StatusForUser(ctx context.Context, id, userID string) (model.BookingStatus, error) {
	ctx, cancel := bounded(ctx, r.Timeout)
	defer cancel()
	var s model.BookingStatus
	err := r.DB.QueryRowContext(ctx,
		"SELECT status FROM bookings WHERE id=? AND user_id=? LIMIT 1", id, userID).Scan(&s)
	return s, translate(err)
}

type bookingRow struct {
	model.BookingDetail
	counterpart model.ProfileSummary
}

func scanBookingDetail(s rowScanner) (bookingRow, error) {
	var d bookingRow
	b := &d.Booking
	err := s.Scan(&b.ID, &b.UserID, &b.PanditID, &b.PujaType, &b.PreferredDate, &b.PreferredTime,
		&b.Address, &b.SpecialRequirements, &b.Status, &b.TotalAmount, &b.CreatedAt,
		&d.counterpart.FullName, &d.counterpart.Phone, &d.counterpart.Address, &d.counterpart.Specialization)
	if err != nil {
		return bookingRow{}, translate(err)
	}
	return d, nil
}
