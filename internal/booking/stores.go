package booking

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/stage-slot-booking/internal/model"
    "github.com/iliyamo/stage-slot-booking/internal/queue"
)

// TxRunner starts a database transaction and runs fn inside it,
// committing on nil and rolling back on error.  The engine performs
// every mutation through a runner so that check-then-write sequences
// (slot admission, strike increments, reputation recomputes) are
// serialized by row locks taken within the transaction.
type TxRunner interface {
    InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// CalendarStore persists calendars and their generated slots.
type CalendarStore interface {
    CreateTx(ctx context.Context, tx *sql.Tx, cal *model.Calendar) error
    CreateSlotsBulkTx(ctx context.Context, tx *sql.Tx, slots []model.Slot) error
}

// SlotStore reads and mutates slot occupancy state.  GetForUpdateTx
// must lock the slot row for the remainder of the transaction; this is
// what serializes concurrent booking requests on the same slot.
// DirectorForSlotTx resolves the managing director by joining the slot
// to its calendar, venue and director.
type SlotStore interface {
    GetForUpdateTx(ctx context.Context, tx *sql.Tx, slotID uint64) (model.Slot, error)
    UpdateStatusTx(ctx context.Context, tx *sql.Tx, slotID uint64, status model.SlotStatus) error
    DirectorForSlotTx(ctx context.Context, tx *sql.Tx, slotID uint64) (uint64, error)
}

// BookingStore persists bookings and their state transitions.
type BookingStore interface {
    // ActiveExistsForSlotTx reports whether a PENDING or ACCEPTED
    // booking references the slot.
    ActiveExistsForSlotTx(ctx context.Context, tx *sql.Tx, slotID uint64) (bool, error)
    CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
    // GetForUpdateTx locks the booking row so that concurrent accept,
    // reject and sweep calls observe each other's transitions.
    GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error)
    UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.BookingStatus, reason *string) error
    // GetWithSlotEndTx returns the booking together with its slot's end
    // time, used for review eligibility.
    GetWithSlotEndTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, time.Time, error)
    // ListStalePending returns all PENDING bookings created before the
    // cutoff, ordered by id.
    ListStalePending(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
}

// ChatStore persists the chats opened by accepted bookings.
type ChatStore interface {
    ExistsForBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (bool, error)
    CreateTx(ctx context.Context, tx *sql.Tx, chat *model.Chat) error
}

// ReviewStore persists reviews with their scores and maintains the
// recipient's reputation.
type ReviewStore interface {
    ExistsForBookingAndAuthorTx(ctx context.Context, tx *sql.Tx, bookingID, authorID uint64) (bool, error)
    CreateTx(ctx context.Context, tx *sql.Tx, review *model.Review, score int) error
    // AverageScoreForRecipientTx returns the mean of all scores across
    // reviews addressed to the person, 0 when none exist.  Reading it
    // in the same transaction that inserted the triggering score keeps
    // the recompute consistent under concurrency.
    AverageScoreForRecipientTx(ctx context.Context, tx *sql.Tx, personID uint64) (float64, error)
    SetReputationTx(ctx context.Context, tx *sql.Tx, personID uint64, reputation float64) error
}

// SanctionStore persists strike counters and account status history.
// GetForUpdateTx must lock the sanction row so that increment and
// threshold check act as one unit.
type SanctionStore interface {
    GetForUpdateTx(ctx context.Context, tx *sql.Tx, personID uint64) (model.Sanction, error)
    SetStrikeCountTx(ctx context.Context, tx *sql.Tx, sanctionID uint64, count int) error
    MarkBannedTx(ctx context.Context, tx *sql.Tx, sanctionID uint64, at time.Time) error
    ClearPersonRoleTx(ctx context.Context, tx *sql.Tx, personID uint64) error
    AddAccountStatusTx(ctx context.Context, tx *sql.Tx, personID uint64, state model.AccountState, at time.Time) error
}

// BandStore answers membership questions about bands.
type BandStore interface {
    // FirstMemberTx returns the member with the lowest person ID, used
    // as the responsible party for promoter-initiated expiries.
    FirstMemberTx(ctx context.Context, tx *sql.Tx, bandID uint64) (uint64, error)
    IsMemberTx(ctx context.Context, tx *sql.Tx, bandID, personID uint64) (bool, error)
}

// EventPublisher hands domain events to the notification layer.  The
// engine publishes after commit and ignores failures: notifications
// are fire-and-forget and must never roll back a booking.
type EventPublisher interface {
    PublishBookingRequested(ctx context.Context, ev queue.BookingRequestedEvent) error
    PublishChatOpened(ctx context.Context, ev queue.ChatOpenedEvent) error
}
