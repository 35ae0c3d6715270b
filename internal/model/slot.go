package model

import "time"

// SlotStatus is the occupancy state of a slot.  A slot starts out
// AVAILABLE, moves to NEGOTIATING while a booking request is pending
// and to OCCUPIED once a booking is accepted.  Rejecting, cancelling
// or expiring the booking frees the slot again.
type SlotStatus string

const (
    SlotAvailable   SlotStatus = "AVAILABLE"
    SlotNegotiating SlotStatus = "NEGOTIATING"
    SlotOccupied    SlotStatus = "OCCUPIED"
)

// Slot is a fixed time window within a calendar that can hold at most
// one active booking.  Slots are generated contiguously when their
// calendar is created and are never deleted while a booking references
// them.  Corresponds to a row in the `slots` table.
//
// Fields:
//  ID         – primary key identifier.
//  CalendarID – calendar this slot belongs to.
//  StartsAt   – slot start (date and time, UTC).
//  EndsAt     – slot end; equals the next slot's start within a calendar.
//  Status     – AVAILABLE, NEGOTIATING or OCCUPIED.
type Slot struct {
    ID         uint64     // slots.id
    CalendarID uint64     // slots.calendar_id
    StartsAt   time.Time  // slots.starts_at
    EndsAt     time.Time  // slots.ends_at
    Status     SlotStatus // slots.status
}
