package model

// Venue represents a place that hosts live performances.  Each venue is
// managed by exactly one artistic director, who is the only person
// allowed to accept or reject bookings for the venue's slots.  This
// struct corresponds to a row in the `venues` table.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – venue name.
//  Email      – unique contact email.
//  Phone      – unique contact number.
//  HallType   – layout of the room, e.g. "standing", "seated", "tables", "mixed".
//  Capacity   – maximum audience size.
//  DirectorID – person ID of the managing artistic director.
type Venue struct {
    ID         uint64 // venues.id
    Name       string // venues.name
    Email      string // venues.email
    Phone      string // venues.phone
    HallType   string // venues.hall_type
    Capacity   uint32 // venues.capacity
    DirectorID uint64 // venues.director_id
}
