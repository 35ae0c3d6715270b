package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/stage-slot-booking/internal/model"
)

// CalendarRepo encapsulates database operations for calendars and the
// slots generated under them.
type CalendarRepo struct{ DB *sql.DB }

// NewCalendarRepo constructs a CalendarRepo with the given DB handle.
func NewCalendarRepo(db *sql.DB) *CalendarRepo { return &CalendarRepo{DB: db} }

// CreateTx inserts a calendar row within an existing transaction.  On
// success the calendar's ID is populated.
func (r *CalendarRepo) CreateTx(ctx context.Context, tx *sql.Tx, cal *model.Calendar) error {
    const q = `INSERT INTO calendars (venue_id, date, opens_at, closes_at, slot_count)
               VALUES (?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, cal.VenueID, cal.Date, cal.OpensAt, cal.ClosesAt, cal.SlotCount)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    cal.ID = uint64(id)
    return nil
}

// CreateSlotsBulkTx inserts all slots of a calendar in a single
// statement.  Slot IDs are populated from the first insert id; this is
// safe under innodb_autoinc_lock_mode <= 1 where bulk inserts receive
// consecutive ids.
func (r *CalendarRepo) CreateSlotsBulkTx(ctx context.Context, tx *sql.Tx, slots []model.Slot) error {
    if len(slots) == 0 {
        return nil
    }
    query := `INSERT INTO slots (calendar_id, starts_at, ends_at, status) VALUES `
    args := make([]interface{}, 0, len(slots)*4)
    for i, s := range slots {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, s.CalendarID, s.StartsAt, s.EndsAt, s.Status)
    }
    res, err := tx.ExecContext(ctx, query, args...)
    if err != nil {
        return err
    }
    first, err := res.LastInsertId()
    if err != nil {
        return err
    }
    for i := range slots {
        slots[i].ID = uint64(first) + uint64(i)
    }
    return nil
}

// GetByID returns a calendar with all its slots ordered by start time.
func (r *CalendarRepo) GetByID(ctx context.Context, id uint64) (model.Calendar, error) {
    var cal model.Calendar
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, venue_id, date, opens_at, closes_at, slot_count, created_at
         FROM calendars WHERE id = ? LIMIT 1`, id).
        Scan(&cal.ID, &cal.VenueID, &cal.Date, &cal.OpensAt, &cal.ClosesAt, &cal.SlotCount, &cal.CreatedAt)
    if err != nil {
        return model.Calendar{}, err
    }
    slots, err := r.ListSlots(ctx, cal.ID)
    if err != nil {
        return model.Calendar{}, err
    }
    cal.Slots = slots
    return cal, nil
}

// ListByVenue returns all calendars of a venue ordered by date, without
// their slots.
func (r *CalendarRepo) ListByVenue(ctx context.Context, venueID uint64) ([]model.Calendar, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, venue_id, date, opens_at, closes_at, slot_count, created_at
         FROM calendars WHERE venue_id = ? ORDER BY date`, venueID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Calendar
    for rows.Next() {
        var cal model.Calendar
        if err := rows.Scan(&cal.ID, &cal.VenueID, &cal.Date, &cal.OpensAt, &cal.ClosesAt, &cal.SlotCount, &cal.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, cal)
    }
    return out, rows.Err()
}

// ListSlots returns the slots of a calendar ordered by start time.
func (r *CalendarRepo) ListSlots(ctx context.Context, calendarID uint64) ([]model.Slot, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, calendar_id, starts_at, ends_at, status
         FROM slots WHERE calendar_id = ? ORDER BY starts_at`, calendarID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Slot
    for rows.Next() {
        var s model.Slot
        if err := rows.Scan(&s.ID, &s.CalendarID, &s.StartsAt, &s.EndsAt, &s.Status); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}
