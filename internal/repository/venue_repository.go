package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/stage-slot-booking/internal/model"
)

// ErrVenueNotFound is returned when a venue lookup yields no rows.
var ErrVenueNotFound = errors.New("venue not found")

// VenueRepo encapsulates database operations for venues.
type VenueRepo struct{ DB *sql.DB }

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{DB: db} }

// Create inserts a venue. On success the venue's ID is populated.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO venues (name, email, phone, hall_type, capacity, director_id)
         VALUES (?, ?, ?, ?, ?, ?)`,
        v.Name, v.Email, v.Phone, v.HallType, v.Capacity, v.DirectorID)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    v.ID = uint64(id)
    return nil
}

// GetByID fetches a venue by id.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (model.Venue, error) {
    var v model.Venue
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, name, email, phone, hall_type, capacity, director_id
         FROM venues WHERE id = ? LIMIT 1`, id).
        Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.HallType, &v.Capacity, &v.DirectorID)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Venue{}, ErrVenueNotFound
    }
    if err != nil {
        return model.Venue{}, err
    }
    return v, nil
}

// IsDirector reports whether the person directs the venue.
func (r *VenueRepo) IsDirector(ctx context.Context, venueID, personID uint64) (bool, error) {
    var one int
    err := r.DB.QueryRowContext(ctx,
        `SELECT 1 FROM venues WHERE id = ? AND director_id = ? LIMIT 1`,
        venueID, personID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// List returns all venues ordered by name.
func (r *VenueRepo) List(ctx context.Context) ([]model.Venue, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, name, email, phone, hall_type, capacity, director_id
         FROM venues ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Venue
    for rows.Next() {
        var v model.Venue
        if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.HallType, &v.Capacity, &v.DirectorID); err != nil {
            return nil, err
        }
        out = append(out, v)
    }
    return out, rows.Err()
}
