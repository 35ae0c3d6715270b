package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/stage-slot-booking/internal/model"
)

// ReviewRepo encapsulates database operations for reviews, their
// scores and the derived reputation on persons.
type ReviewRepo struct{ DB *sql.DB }

// NewReviewRepo constructs a ReviewRepo with the given DB handle.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{DB: db} }

// ExistsForBookingAndAuthorTx reports whether the author already
// reviewed the booking.
func (r *ReviewRepo) ExistsForBookingAndAuthorTx(ctx context.Context, tx *sql.Tx, bookingID, authorID uint64) (bool, error) {
    var one int
    err := tx.QueryRowContext(ctx,
        `SELECT 1 FROM reviews WHERE booking_id = ? AND author_id = ? LIMIT 1`,
        bookingID, authorID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// CreateTx inserts a review and its score within one transaction.  On
// success the review's ID is populated.
func (r *ReviewRepo) CreateTx(ctx context.Context, tx *sql.Tx, review *model.Review, score int) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO reviews (booking_id, author_id, recipient_id, description, created_at)
         VALUES (?, ?, ?, ?, ?)`,
        review.BookingID, review.AuthorID, review.RecipientID, review.Description, review.CreatedAt)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    review.ID = uint64(id)
    _, err = tx.ExecContext(ctx,
        `INSERT INTO scores (review_id, value, created_at) VALUES (?, ?, ?)`,
        review.ID, score, review.CreatedAt)
    return err
}

// AverageScoreForRecipientTx computes the mean score across all
// reviews addressed to the person.  Returns 0 when none exist.
func (r *ReviewRepo) AverageScoreForRecipientTx(ctx context.Context, tx *sql.Tx, personID uint64) (float64, error) {
    var avg sql.NullFloat64
    err := tx.QueryRowContext(ctx,
        `SELECT AVG(sc.value)
         FROM scores sc
         JOIN reviews rv ON rv.id = sc.review_id
         WHERE rv.recipient_id = ?`, personID).Scan(&avg)
    if err != nil {
        return 0, err
    }
    if !avg.Valid {
        return 0, nil
    }
    return avg.Float64, nil
}

// SetReputationTx stores the recomputed reputation on the person row.
func (r *ReviewRepo) SetReputationTx(ctx context.Context, tx *sql.Tx, personID uint64, reputation float64) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE persons SET reputation = ? WHERE id = ?`, reputation, personID)
    return err
}

// ListForRecipient returns reviews addressed to a person with their
// score values, newest first.
func (r *ReviewRepo) ListForRecipient(ctx context.Context, personID uint64) ([]model.Review, []int, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT rv.id, rv.booking_id, rv.author_id, rv.recipient_id, rv.description, rv.created_at, sc.value
         FROM reviews rv
         JOIN scores sc ON sc.review_id = rv.id
         WHERE rv.recipient_id = ?
         ORDER BY rv.id DESC`, personID)
    if err != nil {
        return nil, nil, err
    }
    defer rows.Close()
    var (
        reviews []model.Review
        scores  []int
    )
    for rows.Next() {
        var (
            rv    model.Review
            value int
        )
        if err := rows.Scan(&rv.ID, &rv.BookingID, &rv.AuthorID, &rv.RecipientID, &rv.Description, &rv.CreatedAt, &value); err != nil {
            return nil, nil, err
        }
        reviews = append(reviews, rv)
        scores = append(scores, value)
    }
    return reviews, scores, rows.Err()
}
