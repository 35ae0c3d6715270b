// Package booking implements the slot/booking lifecycle engine: slot
// generation, booking admission and state transitions, review and
// reputation recording, strike sanctions and the periodic expiry
// sweep.  All state lives in the persistent store; every mutation runs
// inside a transaction obtained from a TxRunner and the engine is safe
// to call from concurrent request handlers.
package booking

import "errors"

// Sentinel errors returned by the engine.  Handlers translate these
// into HTTP responses; repositories translate driver errors into them
// so that storage details never leak to callers.
var (
    // ErrInvalidRange reports a calendar window whose closing time is
    // not after its opening time, or a non-positive slot count.
    ErrInvalidRange = errors.New("invalid calendar range")

    // ErrSlotNotFound reports a request against an unknown slot.
    ErrSlotNotFound = errors.New("slot not found")

    // ErrSlotTaken reports that the slot already carries a pending or
    // accepted booking and cannot receive a new request.
    ErrSlotTaken = errors.New("slot already has an active booking")

    // ErrBookingNotFound reports a transition against an unknown booking.
    ErrBookingNotFound = errors.New("booking not found")

    // ErrNotDirector reports that the caller does not manage the venue
    // owning the booking's slot.
    ErrNotDirector = errors.New("caller is not the venue director")

    // ErrNotBandMember reports that the caller does not belong to the
    // band that opened the booking.
    ErrNotBandMember = errors.New("caller is not a member of the band")

    // ErrAlreadyHandled reports a transition on a booking that is no
    // longer pending.
    ErrAlreadyHandled = errors.New("booking already handled")

    // ErrReasonRequired reports a reject or cancel without a non-blank
    // reason.
    ErrReasonRequired = errors.New("a reason is required")

    // ErrInvalidInitiator reports a booking request whose initiator
    // role is neither ARTIST nor PROMOTER.
    ErrInvalidInitiator = errors.New("initiator must be an artist or a promoter")

    // ErrSelfReview reports a review whose author and recipient are the
    // same person.
    ErrSelfReview = errors.New("author cannot review themselves")

    // ErrDuplicateReview reports a second review by the same author for
    // the same booking.
    ErrDuplicateReview = errors.New("review already exists for this booking")

    // ErrNotEligible reports a review against a booking that is neither
    // cancelled nor accepted-and-concluded.
    ErrNotEligible = errors.New("booking is not eligible for review")

    // ErrScoreOutOfRange reports a score outside 0..5.
    ErrScoreOutOfRange = errors.New("score must be between 0 and 5")

    // ErrPersonNotFound reports a strike against a person with no
    // sanction row.
    ErrPersonNotFound = errors.New("person not found")
)
