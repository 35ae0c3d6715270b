package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/stage-slot-booking/internal/booking"
    "github.com/iliyamo/stage-slot-booking/internal/model"
)

// Default thresholds applied to the sanction row created at
// registration time.
const (
    DefaultWarnThreshold = 3
    DefaultBanThreshold  = 5
)

// SanctionRepo encapsulates database operations for strike counters
// and the account status history.
type SanctionRepo struct{ DB *sql.DB }

// NewSanctionRepo constructs a SanctionRepo with the given DB handle.
func NewSanctionRepo(db *sql.DB) *SanctionRepo { return &SanctionRepo{DB: db} }

// InitTx seeds the sanction row and the initial `active` status for a
// freshly registered person.
func (r *SanctionRepo) InitTx(ctx context.Context, tx *sql.Tx, personID uint64, at time.Time) error {
    _, err := tx.ExecContext(ctx,
        `INSERT INTO sanctions (person_id, strike_count, warn_threshold, ban_threshold)
         VALUES (?, 0, ?, ?)`,
        personID, DefaultWarnThreshold, DefaultBanThreshold)
    if err != nil {
        return err
    }
    return r.AddAccountStatusTx(ctx, tx, personID, model.AccountActive, at)
}

// GetForUpdateTx fetches the person's sanction row and locks it, so
// concurrent strikes serialize on the counter.
func (r *SanctionRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, personID uint64) (model.Sanction, error) {
    var (
        sa    model.Sanction
        baned sql.NullTime
    )
    err := tx.QueryRowContext(ctx,
        `SELECT id, person_id, strike_count, warn_threshold, ban_threshold, last_ban_at
         FROM sanctions WHERE person_id = ? FOR UPDATE`, personID).
        Scan(&sa.ID, &sa.PersonID, &sa.StrikeCount, &sa.WarnThreshold, &sa.BanThreshold, &baned)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Sanction{}, booking.ErrPersonNotFound
    }
    if err != nil {
        return model.Sanction{}, err
    }
    if baned.Valid {
        sa.LastBanAt = &baned.Time
    }
    return sa, nil
}

// SetStrikeCountTx stores the new strike count.
func (r *SanctionRepo) SetStrikeCountTx(ctx context.Context, tx *sql.Tx, sanctionID uint64, count int) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE sanctions SET strike_count = ? WHERE id = ?`, count, sanctionID)
    return err
}

// MarkBannedTx stamps the sanction with the freeze time.
func (r *SanctionRepo) MarkBannedTx(ctx context.Context, tx *sql.Tx, sanctionID uint64, at time.Time) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE sanctions SET last_ban_at = ? WHERE id = ?`, at, sanctionID)
    return err
}

// ClearPersonRoleTx strips the person's role as part of a freeze.
func (r *SanctionRepo) ClearPersonRoleTx(ctx context.Context, tx *sql.Tx, personID uint64) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE persons SET role = NULL WHERE id = ?`, personID)
    return err
}

// AddAccountStatusTx appends an entry to the account status history.
func (r *SanctionRepo) AddAccountStatusTx(ctx context.Context, tx *sql.Tx, personID uint64, state model.AccountState, at time.Time) error {
    _, err := tx.ExecContext(ctx,
        `INSERT INTO account_statuses (person_id, state, recorded_at) VALUES (?, ?, ?)`,
        personID, state, at)
    return err
}

// LatestStatus returns the person's most recent account state.
func (r *SanctionRepo) LatestStatus(ctx context.Context, personID uint64) (model.AccountStatus, error) {
    var st model.AccountStatus
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, person_id, state, recorded_at
         FROM account_statuses WHERE person_id = ?
         ORDER BY id DESC LIMIT 1`, personID).
        Scan(&st.ID, &st.PersonID, &st.State, &st.RecordedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.AccountStatus{}, booking.ErrPersonNotFound
    }
    if err != nil {
        return model.AccountStatus{}, err
    }
    return st, nil
}
