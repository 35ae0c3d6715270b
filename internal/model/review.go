package model

import "time"

// Review is feedback left by one party of a concluded booking about
// the other.  A review may only be written once the booking is
// CANCELLED, or ACCEPTED with the slot's end time in the past.  One
// review exists per (booking, author) pair and the author can never be
// the recipient.  Corresponds to a row in the `reviews` table.
//
// Fields:
//  ID          – primary key identifier.
//  BookingID   – booking being reviewed.
//  AuthorID    – person writing the review.
//  RecipientID – person the review is addressed to.
//  Description – review text.
//  CreatedAt   – creation timestamp.
type Review struct {
    ID          uint64    // reviews.id
    BookingID   uint64    // reviews.booking_id
    AuthorID    uint64    // reviews.author_id
    RecipientID uint64    // reviews.recipient_id
    Description string    // reviews.description
    CreatedAt   time.Time // reviews.created_at
}

// Score is the numeric vote attached to a review, between 0 and 5
// inclusive.  The arithmetic mean of all scores addressed to a person
// is that person's reputation, recomputed whenever a score changes.
// Corresponds to a row in the `scores` table.
type Score struct {
    ID        uint64    // scores.id
    ReviewID  uint64    // scores.review_id
    Value     int       // scores.value, 0..5
    CreatedAt time.Time // scores.created_at
}
