package booking

import (
    "context"
    "database/sql"

    "github.com/iliyamo/stage-slot-booking/internal/clock"
    "github.com/iliyamo/stage-slot-booking/internal/model"
)

// ReviewService records post-booking reviews and keeps each person's
// reputation equal to the mean of the scores addressed to them.
//
// Fields:
//  tx       – transaction runner; review, score and reputation update
//             commit together.
//  reviews  – review persistence and reputation maintenance.
//  bookings – booking store, for eligibility checks.
//  clock    – time source, injected for tests.
type ReviewService struct {
    tx       TxRunner
    reviews  ReviewStore
    bookings BookingStore
    clock    clock.Clock
}

// NewReviewService wires a ReviewService with its dependencies.
func NewReviewService(tx TxRunner, reviews ReviewStore, bookings BookingStore, clk clock.Clock) *ReviewService {
    return &ReviewService{tx: tx, reviews: reviews, bookings: bookings, clock: clk}
}

// RecordReviewInput carries the parameters for RecordReview.
type RecordReviewInput struct {
    BookingID   uint64
    AuthorID    uint64
    RecipientID uint64
    Description string
    Score       int
}

// RecordReview files a review with its score against a finished
// booking and recomputes the recipient's reputation in the same
// transaction.  A booking becomes reviewable once it is CANCELLED, or
// once it is ACCEPTED and its slot has ended.  Each author may review
// a booking once; self-review is refused; scores range 0 to 5.
func (s *ReviewService) RecordReview(ctx context.Context, in RecordReviewInput) (model.Review, error) {
    if in.AuthorID == in.RecipientID {
        return model.Review{}, ErrSelfReview
    }
    if in.Score < 0 || in.Score > 5 {
        return model.Review{}, ErrScoreOutOfRange
    }

    now := s.clock.Now().UTC()
    r := model.Review{
        BookingID:   in.BookingID,
        AuthorID:    in.AuthorID,
        RecipientID: in.RecipientID,
        Description: in.Description,
        CreatedAt:   now,
    }

    err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
        b, slotEnd, err := s.bookings.GetWithSlotEndTx(ctx, tx, in.BookingID)
        if err != nil {
            return err
        }
        eligible := b.Status == model.BookingCancelled ||
            (b.Status == model.BookingAccepted && !now.Before(slotEnd))
        if !eligible {
            return ErrNotEligible
        }
        dup, err := s.reviews.ExistsForBookingAndAuthorTx(ctx, tx, in.BookingID, in.AuthorID)
        if err != nil {
            return err
        }
        if dup {
            return ErrDuplicateReview
        }
        if err := s.reviews.CreateTx(ctx, tx, &r, in.Score); err != nil {
            return err
        }
        avg, err := s.reviews.AverageScoreForRecipientTx(ctx, tx, in.RecipientID)
        if err != nil {
            return err
        }
        return s.reviews.SetReputationTx(ctx, tx, in.RecipientID, avg)
    })
    if err != nil {
        return model.Review{}, err
    }
    return r, nil
}
