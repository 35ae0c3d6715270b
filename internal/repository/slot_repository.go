package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/stage-slot-booking/internal/booking"
    "github.com/iliyamo/stage-slot-booking/internal/model"
)

// SlotRepo encapsulates database operations for slots.  The Tx methods
// implement the engine's SlotStore; GetForUpdateTx takes the row lock
// that serializes concurrent admissions on a slot.
type SlotRepo struct{ DB *sql.DB }

// NewSlotRepo constructs a SlotRepo with the given DB handle.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{DB: db} }

// GetForUpdateTx fetches a slot and locks its row for the remainder of
// the transaction.
func (r *SlotRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, slotID uint64) (model.Slot, error) {
    var s model.Slot
    err := tx.QueryRowContext(ctx,
        `SELECT id, calendar_id, starts_at, ends_at, status
         FROM slots WHERE id = ? FOR UPDATE`, slotID).
        Scan(&s.ID, &s.CalendarID, &s.StartsAt, &s.EndsAt, &s.Status)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Slot{}, booking.ErrSlotNotFound
    }
    if err != nil {
        return model.Slot{}, err
    }
    return s, nil
}

// UpdateStatusTx sets a slot's occupancy status.
func (r *SlotRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, slotID uint64, status model.SlotStatus) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE slots SET status = ? WHERE id = ?`, status, slotID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return booking.ErrSlotNotFound
    }
    return nil
}

// DirectorForSlotTx resolves the person managing the slot's venue by
// walking slot -> calendar -> venue.
func (r *SlotRepo) DirectorForSlotTx(ctx context.Context, tx *sql.Tx, slotID uint64) (uint64, error) {
    var directorID uint64
    err := tx.QueryRowContext(ctx,
        `SELECT v.director_id
         FROM slots s
         JOIN calendars c ON c.id = s.calendar_id
         JOIN venues v ON v.id = c.venue_id
         WHERE s.id = ? LIMIT 1`, slotID).
        Scan(&directorID)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, booking.ErrSlotNotFound
    }
    if err != nil {
        return 0, err
    }
    return directorID, nil
}

// GetByID fetches a slot outside any transaction, for read endpoints.
func (r *SlotRepo) GetByID(ctx context.Context, slotID uint64) (model.Slot, error) {
    var s model.Slot
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, calendar_id, starts_at, ends_at, status
         FROM slots WHERE id = ? LIMIT 1`, slotID).
        Scan(&s.ID, &s.CalendarID, &s.StartsAt, &s.EndsAt, &s.Status)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Slot{}, booking.ErrSlotNotFound
    }
    if err != nil {
        return model.Slot{}, err
    }
    return s, nil
}
