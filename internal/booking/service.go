package booking

import (
    "context"
    "database/sql"
    "log"
    "strings"
    "time"

    "github.com/iliyamo/stage-slot-booking/internal/clock"
    "github.com/iliyamo/stage-slot-booking/internal/model"
    "github.com/iliyamo/stage-slot-booking/internal/queue"
)

// PendingTTL is how long a booking may stay PENDING before the sweeper
// expires it and assigns responsibility for the stall.
const PendingTTL = 5 * 24 * time.Hour

// DefaultRequestMessage is attached to a booking request when the
// caller does not provide one.
const DefaultRequestMessage = "Hi, we would like to perform at your venue."

// BookingService drives the booking lifecycle: request, accept,
// reject and cancel.  Every transition runs inside one transaction
// that locks the slot row first, so concurrent requests for the same
// slot serialize and exactly one can win.
//
// Fields:
//  tx       – transaction runner.
//  slots    – slot occupancy store.
//  bookings – booking store.
//  chats    – chat store, for the automatic chat on accept.
//  bands    – band membership store, for cancel authorization.
//  events   – post-commit event publisher (may be nil).
//  clock    – time source, injected for tests.
type BookingService struct {
    tx       TxRunner
    slots    SlotStore
    bookings BookingStore
    chats    ChatStore
    bands    BandStore
    events   EventPublisher
    clock    clock.Clock
}

// NewBookingService wires a BookingService with its dependencies.
func NewBookingService(tx TxRunner, slots SlotStore, bookings BookingStore, chats ChatStore, bands BandStore, events EventPublisher, clk clock.Clock) *BookingService {
    return &BookingService{
        tx:       tx,
        slots:    slots,
        bookings: bookings,
        chats:    chats,
        bands:    bands,
        events:   events,
        clock:    clk,
    }
}

// RequestBookingInput carries the parameters for RequestBooking.
type RequestBookingInput struct {
    SlotID      uint64
    BandID      uint64
    InitiatedBy model.Role
    Message     string
}

// RequestBooking files a PENDING booking for a slot on behalf of a
// band.  The slot row is locked before the admission check, so when
// several requests race on one slot only the first passes; the rest
// fail with ErrSlotTaken.  Winning moves the slot to NEGOTIATING and
// records who initiated the request, which later decides who is
// responsible if the booking times out.
func (s *BookingService) RequestBooking(ctx context.Context, in RequestBookingInput) (model.Booking, error) {
    if in.InitiatedBy != model.RoleArtist && in.InitiatedBy != model.RolePromoter {
        return model.Booking{}, ErrInvalidInitiator
    }
    msg := strings.TrimSpace(in.Message)
    if msg == "" {
        msg = DefaultRequestMessage
    }

    now := s.clock.Now().UTC()
    b := model.Booking{
        SlotID:      in.SlotID,
        BandID:      in.BandID,
        Status:      model.BookingPending,
        Message:     msg,
        InitiatedBy: in.InitiatedBy,
        CreatedAt:   now,
        ExpiresAt:   now.Add(PendingTTL),
    }

    err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
        slot, err := s.slots.GetForUpdateTx(ctx, tx, in.SlotID)
        if err != nil {
            return err
        }
        if slot.Status == model.SlotOccupied {
            return ErrSlotTaken
        }
        taken, err := s.bookings.ActiveExistsForSlotTx(ctx, tx, in.SlotID)
        if err != nil {
            return err
        }
        if taken {
            return ErrSlotTaken
        }
        if err := s.bookings.CreateTx(ctx, tx, &b); err != nil {
            return err
        }
        return s.slots.UpdateStatusTx(ctx, tx, in.SlotID, model.SlotNegotiating)
    })
    if err != nil {
        return model.Booking{}, err
    }

    if s.events != nil {
        ev := queue.BookingRequestedEvent{
            BookingID:   b.ID,
            SlotID:      b.SlotID,
            BandID:      b.BandID,
            InitiatedBy: string(b.InitiatedBy),
            ExpiresAt:   b.ExpiresAt,
        }
        if err := s.events.PublishBookingRequested(ctx, ev); err != nil {
            log.Printf("booking: publish booking.requested for %d: %v", b.ID, err)
        }
    }
    return b, nil
}

// Accept confirms a pending booking as the director managing the
// slot's venue.  Checks run in a fixed order so callers get stable
// errors: existence first, then authorization, then state.  On success
// the booking turns ACCEPTED, the slot turns OCCUPIED and a chat
// between the two parties is opened exactly once.
func (s *BookingService) Accept(ctx context.Context, bookingID, directorID uint64) (model.Booking, error) {
    var b model.Booking
    var chat model.Chat
    openedChat := false

    err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
        var err error
        b, err = s.bookings.GetForUpdateTx(ctx, tx, bookingID)
        if err != nil {
            return err
        }
        owner, err := s.slots.DirectorForSlotTx(ctx, tx, b.SlotID)
        if err != nil {
            return err
        }
        if owner != directorID {
            return ErrNotDirector
        }
        if b.Status != model.BookingPending {
            return ErrAlreadyHandled
        }
        if err := s.bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingAccepted, nil); err != nil {
            return err
        }
        if err := s.slots.UpdateStatusTx(ctx, tx, b.SlotID, model.SlotOccupied); err != nil {
            return err
        }
        exists, err := s.chats.ExistsForBookingTx(ctx, tx, b.ID)
        if err != nil {
            return err
        }
        if !exists {
            chat = model.Chat{BookingID: b.ID, OpenedAt: s.clock.Now().UTC()}
            if err := s.chats.CreateTx(ctx, tx, &chat); err != nil {
                return err
            }
            openedChat = true
        }
        b.Status = model.BookingAccepted
        return nil
    })
    if err != nil {
        return model.Booking{}, err
    }

    if openedChat && s.events != nil {
        ev := queue.ChatOpenedEvent{
            ChatID:    chat.ID,
            BookingID: b.ID,
            BandID:    b.BandID,
            OpenedAt:  chat.OpenedAt,
        }
        if err := s.events.PublishChatOpened(ctx, ev); err != nil {
            log.Printf("booking: publish chat.opened for %d: %v", b.ID, err)
        }
    }
    return b, nil
}

// Reject declines a pending booking as the managing director.  A
// non-blank reason is mandatory.  The slot returns to AVAILABLE so
// other bands can request it again.
func (s *BookingService) Reject(ctx context.Context, bookingID, directorID uint64, reason string) (model.Booking, error) {
    reason = strings.TrimSpace(reason)
    if reason == "" {
        return model.Booking{}, ErrReasonRequired
    }

    var b model.Booking
    err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
        var err error
        b, err = s.bookings.GetForUpdateTx(ctx, tx, bookingID)
        if err != nil {
            return err
        }
        owner, err := s.slots.DirectorForSlotTx(ctx, tx, b.SlotID)
        if err != nil {
            return err
        }
        if owner != directorID {
            return ErrNotDirector
        }
        if b.Status != model.BookingPending {
            return ErrAlreadyHandled
        }
        if err := s.bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingRejected, &reason); err != nil {
            return err
        }
        if err := s.slots.UpdateStatusTx(ctx, tx, b.SlotID, model.SlotAvailable); err != nil {
            return err
        }
        b.Status = model.BookingRejected
        b.Reason = &reason
        return nil
    })
    if err != nil {
        return model.Booking{}, err
    }
    return b, nil
}

// Cancel withdraws a pending booking as a member of the requesting
// band.  Like Reject it demands a reason and frees the slot.  Accepted
// bookings cannot be cancelled through this path.
func (s *BookingService) Cancel(ctx context.Context, bookingID, personID uint64, reason string) (model.Booking, error) {
    reason = strings.TrimSpace(reason)
    if reason == "" {
        return model.Booking{}, ErrReasonRequired
    }

    var b model.Booking
    err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
        var err error
        b, err = s.bookings.GetForUpdateTx(ctx, tx, bookingID)
        if err != nil {
            return err
        }
        member, err := s.bands.IsMemberTx(ctx, tx, b.BandID, personID)
        if err != nil {
            return err
        }
        if !member {
            return ErrNotBandMember
        }
        if b.Status != model.BookingPending {
            return ErrAlreadyHandled
        }
        if err := s.bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingCancelled, &reason); err != nil {
            return err
        }
        if err := s.slots.UpdateStatusTx(ctx, tx, b.SlotID, model.SlotAvailable); err != nil {
            return err
        }
        b.Status = model.BookingCancelled
        b.Reason = &reason
        return nil
    })
    if err != nil {
        return model.Booking{}, err
    }
    return b, nil
}
