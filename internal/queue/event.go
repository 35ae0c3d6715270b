package queue

import "time"

// Durable queue names for booking lifecycle events.  The server
// publishes to these via the default exchange; the notification
// consumer drains both.
const (
    QueueBookingRequested = "booking.requested"
    QueueChatOpened       = "booking.chat_opened"
)

// BookingRequestedEvent is emitted after a booking request commits.
// Consumers use it to notify the venue director that a band is waiting
// for an answer before ExpiresAt.
type BookingRequestedEvent struct {
    BookingID   uint64    `json:"booking_id"`
    SlotID      uint64    `json:"slot_id"`
    BandID      uint64    `json:"band_id"`
    InitiatedBy string    `json:"initiated_by"`
    ExpiresAt   time.Time `json:"expires_at"`
}

// ChatOpenedEvent is emitted when accepting a booking opens its chat.
// Consumers use it to notify the band that the director is reachable.
type ChatOpenedEvent struct {
    ChatID    uint64    `json:"chat_id"`
    BookingID uint64    `json:"booking_id"`
    BandID    uint64    `json:"band_id"`
    OpenedAt  time.Time `json:"opened_at"`
}
