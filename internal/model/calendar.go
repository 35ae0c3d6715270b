package model

import "time"

// Calendar represents a venue's bookable day: an opening window on a
// given date, decomposed into a fixed number of equal slots when the
// calendar is created.  Corresponds to a row in the `calendars` table.
// Invariant: ClosesAt is strictly after OpensAt and SlotCount is at
// least one.
//
// Fields:
//  ID        – primary key identifier.
//  VenueID   – venue this calendar belongs to.
//  Date      – calendar date (midnight UTC).
//  OpensAt   – start of the bookable window on Date.
//  ClosesAt  – end of the bookable window on Date.
//  SlotCount – number of slots the window was partitioned into.
//  CreatedAt – timestamp when the calendar was created.
type Calendar struct {
    ID        uint64    // calendars.id
    VenueID   uint64    // calendars.venue_id
    Date      time.Time // calendars.event_date
    OpensAt   time.Time // calendars.opens_at
    ClosesAt  time.Time // calendars.closes_at
    SlotCount int       // calendars.slot_count
    CreatedAt time.Time // calendars.created_at

    // Slots carries the generated slots when the calendar is returned
    // from creation; it is not populated by every query.
    Slots []Slot
}
