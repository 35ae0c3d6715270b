package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/stage-slot-booking/internal/booking"
    "github.com/iliyamo/stage-slot-booking/internal/model"
)

// ErrBandNotFound is returned when a band lookup yields no rows.
var ErrBandNotFound = errors.New("band not found")

// BandRepo encapsulates database operations for bands and their
// member rosters.
type BandRepo struct{ DB *sql.DB }

// NewBandRepo constructs a BandRepo with the given DB handle.
func NewBandRepo(db *sql.DB) *BandRepo { return &BandRepo{DB: db} }

// Create inserts a band and its initial member roster in one
// transaction.  On success the band's ID is populated.
func (r *BandRepo) Create(ctx context.Context, b *model.Band, memberIDs []uint64) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    res, err := tx.ExecContext(ctx,
        `INSERT INTO bands (name, fee_cents, negotiable, category) VALUES (?, ?, ?, ?)`,
        b.Name, b.FeeCents, b.Negotiable, b.Category)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)

    if len(memberIDs) > 0 {
        query := `INSERT INTO band_members (band_id, person_id) VALUES `
        args := make([]interface{}, 0, len(memberIDs)*2)
        for i, pid := range memberIDs {
            if i > 0 {
                query += ","
            }
            query += "(?, ?)"
            args = append(args, b.ID, pid)
        }
        if _, err := tx.ExecContext(ctx, query, args...); err != nil {
            return err
        }
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// GetByID fetches a band by id.
func (r *BandRepo) GetByID(ctx context.Context, id uint64) (model.Band, error) {
    var b model.Band
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, name, fee_cents, negotiable, category FROM bands WHERE id = ? LIMIT 1`, id).
        Scan(&b.ID, &b.Name, &b.FeeCents, &b.Negotiable, &b.Category)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Band{}, ErrBandNotFound
    }
    if err != nil {
        return model.Band{}, err
    }
    return b, nil
}

// FirstMemberTx returns the band member with the lowest person ID.
func (r *BandRepo) FirstMemberTx(ctx context.Context, tx *sql.Tx, bandID uint64) (uint64, error) {
    var personID uint64
    err := tx.QueryRowContext(ctx,
        `SELECT person_id FROM band_members WHERE band_id = ? ORDER BY person_id LIMIT 1`,
        bandID).Scan(&personID)
    if errors.Is(err, sql.ErrNoRows) {
        return 0, booking.ErrPersonNotFound
    }
    if err != nil {
        return 0, err
    }
    return personID, nil
}

// IsMemberTx reports whether the person plays in the band.
func (r *BandRepo) IsMemberTx(ctx context.Context, tx *sql.Tx, bandID, personID uint64) (bool, error) {
    var one int
    err := tx.QueryRowContext(ctx,
        `SELECT 1 FROM band_members WHERE band_id = ? AND person_id = ? LIMIT 1`,
        bandID, personID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// IsMember is the out-of-transaction variant used by read endpoints.
func (r *BandRepo) IsMember(ctx context.Context, bandID, personID uint64) (bool, error) {
    var one int
    err := r.DB.QueryRowContext(ctx,
        `SELECT 1 FROM band_members WHERE band_id = ? AND person_id = ? LIMIT 1`,
        bandID, personID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// ListForPerson returns the bands the person plays in.
func (r *BandRepo) ListForPerson(ctx context.Context, personID uint64) ([]model.Band, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT b.id, b.name, b.fee_cents, b.negotiable, b.category
         FROM bands b
         JOIN band_members m ON m.band_id = b.id
         WHERE m.person_id = ?
         ORDER BY b.id`, personID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Band
    for rows.Next() {
        var b model.Band
        if err := rows.Scan(&b.ID, &b.Name, &b.FeeCents, &b.Negotiable, &b.Category); err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}
