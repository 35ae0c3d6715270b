package model

import "time"

// BookingStatus is the lifecycle state of a booking.  PENDING is the
// only state that allows further transitions; the other four are
// terminal for the state machine.  REJECTED, CANCELLED and EXPIRED
// require a reason to be recorded.
type BookingStatus string

const (
    BookingPending   BookingStatus = "PENDING"
    BookingAccepted  BookingStatus = "ACCEPTED"
    BookingRejected  BookingStatus = "REJECTED"
    BookingExpired   BookingStatus = "EXPIRED"
    BookingCancelled BookingStatus = "CANCELLED"
)

// Active reports whether s still blocks the booked slot.  Only PENDING
// and ACCEPTED bookings occupy a slot; rejected, cancelled and expired
// ones free it for new requests.
func (s BookingStatus) Active() bool {
    return s == BookingPending || s == BookingAccepted
}

// Booking is a request by a band to perform in a slot, subject to the
// venue director's approval.  Corresponds to a row in the `bookings`
// table.  Invariant: at most one booking in an active state exists per
// slot at any time.  Bookings are never deleted; they only change
// state through the lifecycle engine.
//
// Fields:
//  ID          – primary key identifier.
//  SlotID      – slot being requested.
//  BandID      – band that would perform.
//  Status      – PENDING, ACCEPTED, REJECTED, EXPIRED or CANCELLED.
//  Message     – request text shown to the venue director.
//  Reason      – mandatory explanation for REJECTED, CANCELLED and EXPIRED.
//  InitiatedBy – role that opened the request: ARTIST or PROMOTER.
//  CreatedAt   – creation timestamp.
//  ExpiresAt   – CreatedAt plus five days; enforced by the sweeper.
type Booking struct {
    ID          uint64        // bookings.id
    SlotID      uint64        // bookings.slot_id
    BandID      uint64        // bookings.band_id
    Status      BookingStatus // bookings.status
    Message     string        // bookings.message
    Reason      *string       // bookings.reason (nullable)
    InitiatedBy Role          // bookings.initiated_by
    CreatedAt   time.Time     // bookings.created_at
    ExpiresAt   time.Time     // bookings.expires_at
}
