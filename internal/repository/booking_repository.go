package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/stage-slot-booking/internal/booking"
    "github.com/iliyamo/stage-slot-booking/internal/model"
)

// BookingRepo encapsulates database operations for bookings.
type BookingRepo struct{ DB *sql.DB }

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingColumns = `id, slot_id, band_id, status, message, reason, initiated_by, created_at, expires_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (model.Booking, error) {
    var (
        b      model.Booking
        reason sql.NullString
    )
    err := row.Scan(&b.ID, &b.SlotID, &b.BandID, &b.Status, &b.Message, &reason, &b.InitiatedBy, &b.CreatedAt, &b.ExpiresAt)
    if err != nil {
        return model.Booking{}, err
    }
    if reason.Valid {
        b.Reason = &reason.String
    }
    return b, nil
}

// ActiveExistsForSlotTx reports whether the slot already carries a
// PENDING or ACCEPTED booking.  Runs under the caller's slot lock.
func (r *BookingRepo) ActiveExistsForSlotTx(ctx context.Context, tx *sql.Tx, slotID uint64) (bool, error) {
    var one int
    err := tx.QueryRowContext(ctx,
        `SELECT 1 FROM bookings WHERE slot_id = ? AND status IN ('PENDING','ACCEPTED') LIMIT 1`,
        slotID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// CreateTx inserts a booking row within an existing transaction.  On
// success the booking's ID is populated.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings (slot_id, band_id, status, message, initiated_by, created_at, expires_at)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, b.SlotID, b.BandID, b.Status, b.Message, b.InitiatedBy, b.CreatedAt, b.ExpiresAt)
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

// GetForUpdateTx fetches a booking and locks its row so concurrent
// transitions serialize.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
    b, err := scanBooking(tx.QueryRowContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Booking{}, booking.ErrBookingNotFound
    }
    if err != nil {
        return model.Booking{}, err
    }
    return b, nil
}

// UpdateStatusTx moves a booking to a new state, storing the reason
// for rejected, cancelled and expired transitions.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.BookingStatus, reason *string) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE bookings SET status = ?, reason = ? WHERE id = ?`, status, reason, id)
    return err
}

// GetWithSlotEndTx returns a booking together with its slot's end
// time in one query, for review eligibility checks.
func (r *BookingRepo) GetWithSlotEndTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, time.Time, error) {
    var (
        b       model.Booking
        reason  sql.NullString
        slotEnd time.Time
    )
    err := tx.QueryRowContext(ctx,
        `SELECT b.id, b.slot_id, b.band_id, b.status, b.message, b.reason, b.initiated_by, b.created_at, b.expires_at, s.ends_at
         FROM bookings b
         JOIN slots s ON s.id = b.slot_id
         WHERE b.id = ? LIMIT 1`, id).
        Scan(&b.ID, &b.SlotID, &b.BandID, &b.Status, &b.Message, &reason, &b.InitiatedBy, &b.CreatedAt, &b.ExpiresAt, &slotEnd)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Booking{}, time.Time{}, booking.ErrBookingNotFound
    }
    if err != nil {
        return model.Booking{}, time.Time{}, err
    }
    if reason.Valid {
        b.Reason = &reason.String
    }
    return b, slotEnd, nil
}

// ListStalePending returns all PENDING bookings created at or before
// the cutoff, oldest first.  Runs outside a transaction; the sweeper
// re-checks each row under a lock before expiring it.
func (r *BookingRepo) ListStalePending(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings
         WHERE status = 'PENDING' AND created_at <= ?
         ORDER BY id`, cutoff)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Booking
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// GetByID fetches a booking outside any transaction.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
    b, err := scanBooking(r.DB.QueryRowContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings WHERE id = ? LIMIT 1`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Booking{}, booking.ErrBookingNotFound
    }
    if err != nil {
        return model.Booking{}, err
    }
    return b, nil
}

// ListForPerson returns bookings the person can see: requests from
// bands they play in plus requests against venues they direct, newest
// first.
func (r *BookingRepo) ListForPerson(ctx context.Context, personID uint64) ([]model.Booking, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT DISTINCT b.id, b.slot_id, b.band_id, b.status, b.message, b.reason, b.initiated_by, b.created_at, b.expires_at
         FROM bookings b
         JOIN slots s ON s.id = b.slot_id
         JOIN calendars c ON c.id = s.calendar_id
         JOIN venues v ON v.id = c.venue_id
         LEFT JOIN band_members m ON m.band_id = b.band_id
         WHERE m.person_id = ? OR v.director_id = ?
         ORDER BY b.id DESC`, personID, personID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Booking
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// IsParticipant reports whether the person is on either side of the
// booking: a member of the requesting band or the managing director.
func (r *BookingRepo) IsParticipant(ctx context.Context, bookingID, personID uint64) (bool, error) {
    var one int
    err := r.DB.QueryRowContext(ctx,
        `SELECT 1
         FROM bookings b
         JOIN slots s ON s.id = b.slot_id
         JOIN calendars c ON c.id = s.calendar_id
         JOIN venues v ON v.id = c.venue_id
         LEFT JOIN band_members m ON m.band_id = b.band_id AND m.person_id = ?
         WHERE b.id = ? AND (m.person_id IS NOT NULL OR v.director_id = ?)
         LIMIT 1`, personID, bookingID, personID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}
