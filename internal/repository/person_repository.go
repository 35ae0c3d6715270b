package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/stage-slot-booking/internal/booking"
    "github.com/iliyamo/stage-slot-booking/internal/model"
    "github.com/iliyamo/stage-slot-booking/internal/utils"
)

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// PersonRepo encapsulates database operations for persons.
type PersonRepo struct{ DB *sql.DB }

// NewPersonRepo constructs a PersonRepo with the given DB handle.
func NewPersonRepo(db *sql.DB) *PersonRepo { return &PersonRepo{DB: db} }

// CreateTx inserts a person within an existing transaction, so the
// caller can seed the sanction row and initial account status in the
// same commit.  The password is hashed here with the given bcrypt
// cost.  On success the person's ID is populated.
func (r *PersonRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Person, password string, cost int) error {
    p.Email = strings.ToLower(strings.TrimSpace(p.Email))
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return err
    }
    p.PasswordHash = hash
    res, err := tx.ExecContext(ctx,
        `INSERT INTO persons (first_name, last_name, email, phone, password_hash, role)
         VALUES (?, ?, ?, ?, ?, ?)`,
        p.FirstName, p.LastName, p.Email, p.Phone, p.PasswordHash, p.Role)
    if err != nil {
        // 1062 is the MySQL duplicate-key error.
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrEmailExists
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    return nil
}

func scanPerson(row interface{ Scan(...interface{}) error }) (model.Person, error) {
    var (
        p    model.Person
        role sql.NullString
    )
    err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.PasswordHash,
        &role, &p.Reputation, &p.CreatedAt, &p.UpdatedAt)
    if err != nil {
        return model.Person{}, err
    }
    if role.Valid {
        rl := model.Role(role.String)
        p.Role = &rl
    }
    return p, nil
}

const personColumns = `id, first_name, last_name, email, phone, password_hash, role, reputation, created_at, updated_at`

// GetByEmail fetches a person by normalized email.
func (r *PersonRepo) GetByEmail(ctx context.Context, email string) (model.Person, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    p, err := scanPerson(r.DB.QueryRowContext(ctx,
        `SELECT `+personColumns+` FROM persons WHERE email = ? LIMIT 1`, email))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Person{}, booking.ErrPersonNotFound
    }
    if err != nil {
        return model.Person{}, err
    }
    return p, nil
}

// GetByID fetches a person by id.
func (r *PersonRepo) GetByID(ctx context.Context, id uint64) (model.Person, error) {
    p, err := scanPerson(r.DB.QueryRowContext(ctx,
        `SELECT `+personColumns+` FROM persons WHERE id = ? LIMIT 1`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Person{}, booking.ErrPersonNotFound
    }
    if err != nil {
        return model.Person{}, err
    }
    return p, nil
}

// TokenRepo persists and validates refresh tokens by hash.
type TokenRepo struct{ DB *sql.DB }

// NewTokenRepo constructs a TokenRepo with the given DB handle.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, personID uint64, tokenHash string, exp time.Time) error {
    _, err := r.DB.ExecContext(ctx,
        `INSERT INTO refresh_tokens (person_id, token_hash, expires_at) VALUES (?, ?, ?)`,
        personID, tokenHash, exp)
    return err
}

// ValidateRefresh returns the owning person ID if a non-revoked,
// non-expired token with this hash exists.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
    var (
        personID  uint64
        expiresAt time.Time
        revokedAt sql.NullTime
    )
    err := r.DB.QueryRowContext(ctx,
        `SELECT person_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ? LIMIT 1`,
        tokenHash).Scan(&personID, &expiresAt, &revokedAt)
    if err != nil {
        return 0, err
    }
    if revokedAt.Valid {
        return 0, sql.ErrNoRows
    }
    if time.Now().UTC().After(expiresAt) {
        return 0, sql.ErrNoRows
    }
    return personID, nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE refresh_tokens SET revoked_at = NOW() WHERE token_hash = ? AND revoked_at IS NULL`,
        tokenHash)
    return err
}

// RevokeAllForPerson revokes every active token of a person.
func (r *TokenRepo) RevokeAllForPerson(ctx context.Context, personID uint64) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE refresh_tokens SET revoked_at = NOW() WHERE person_id = ? AND revoked_at IS NULL`,
        personID)
    return err
}
