package booking

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/iliyamo/stage-slot-booking/internal/clock"
    "github.com/iliyamo/stage-slot-booking/internal/model"
)

const (
    testDirectorID = uint64(501)
    testArtistID   = uint64(601)
)

func newBookingFixture(now time.Time) (*BookingService, *memStore, *fakePublisher) {
    store := newMemStore()
    pub := &fakePublisher{}
    svc := NewBookingService(store, store, store.bookingStore(), store.chatStore(), store.bandStore(), pub, clock.NewFixed(now))
    return svc, store, pub
}

func TestBookingService_RequestBooking(t *testing.T) {
    t.Parallel()

    now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

    t.Run("creates a pending booking and marks the slot negotiating", func(t *testing.T) {
        svc, store, pub := newBookingFixture(now)
        calID := store.addCalendar(testDirectorID)
        slotID := store.addSlot(calID, model.SlotAvailable)
        bandID := store.addBand(testArtistID)

        b, err := svc.RequestBooking(context.Background(), RequestBookingInput{
            SlotID:      slotID,
            BandID:      bandID,
            InitiatedBy: model.RoleArtist,
            Message:     "We play post-rock, 90 minute set.",
        })
        if err != nil {
            t.Fatalf("expected no error, got %v", err)
        }
        if b.Status != model.BookingPending {
            t.Fatalf("expected PENDING, got %s", b.Status)
        }
        if !b.ExpiresAt.Equal(now.Add(PendingTTL)) {
            t.Fatalf("expected expiry %v, got %v", now.Add(PendingTTL), b.ExpiresAt)
        }
        if got := store.getSlot(slotID).Status; got != model.SlotNegotiating {
            t.Fatalf("expected slot NEGOTIATING, got %s", got)
        }
        if len(pub.requested) != 1 || pub.requested[0].BookingID != b.ID {
            t.Fatalf("expected one booking.requested event for %d, got %+v", b.ID, pub.requested)
        }
    })

    t.Run("defaults a blank message", func(t *testing.T) {
        svc, store, _ := newBookingFixture(now)
        calID := store.addCalendar(testDirectorID)
        slotID := store.addSlot(calID, model.SlotAvailable)
        bandID := store.addBand(testArtistID)

        b, err := svc.RequestBooking(context.Background(), RequestBookingInput{
            SlotID: slotID, BandID: bandID, InitiatedBy: model.RolePromoter, Message: "   ",
        })
        if err != nil {
            t.Fatalf("expected no error, got %v", err)
        }
        if b.Message != DefaultRequestMessage {
            t.Fatalf("expected default message, got %q", b.Message)
        }
    })

    t.Run("refuses a slot with an active booking", func(t *testing.T) {
        svc, store, _ := newBookingFixture(now)
        calID := store.addCalendar(testDirectorID)
        slotID := store.addSlot(calID, model.SlotNegotiating)
        bandID := store.addBand(testArtistID)
        store.addBooking(model.Booking{SlotID: slotID, BandID: bandID, Status: model.BookingPending})

        _, err := svc.RequestBooking(context.Background(), RequestBookingInput{
            SlotID: slotID, BandID: bandID, InitiatedBy: model.RoleArtist,
        })
        if !errors.Is(err, ErrSlotTaken) {
            t.Fatalf("expected ErrSlotTaken, got %v", err)
        }
    })

    t.Run("allows a new request after a terminal booking", func(t *testing.T) {
        svc, store, _ := newBookingFixture(now)
        calID := store.addCalendar(testDirectorID)
        slotID := store.addSlot(calID, model.SlotAvailable)
        bandID := store.addBand(testArtistID)
        reason := "other plans"
        store.addBooking(model.Booking{SlotID: slotID, BandID: bandID, Status: model.BookingCancelled, Reason: &reason})

        if _, err := svc.RequestBooking(context.Background(), RequestBookingInput{
            SlotID: slotID, BandID: bandID, InitiatedBy: model.RoleArtist,
        }); err != nil {
            t.Fatalf("expected no error, got %v", err)
        }
    })

    t.Run("rejects director-initiated requests", func(t *testing.T) {
        svc, store, _ := newBookingFixture(now)
        calID := store.addCalendar(testDirectorID)
        slotID := store.addSlot(calID, model.SlotAvailable)

        _, err := svc.RequestBooking(context.Background(), RequestBookingInput{
            SlotID: slotID, BandID: 1, InitiatedBy: model.RoleDirector,
        })
        if !errors.Is(err, ErrInvalidInitiator) {
            t.Fatalf("expected ErrInvalidInitiator, got %v", err)
        }
    })

    t.Run("unknown slot", func(t *testing.T) {
        svc, _, _ := newBookingFixture(now)
        _, err := svc.RequestBooking(context.Background(), RequestBookingInput{
            SlotID: 999, BandID: 1, InitiatedBy: model.RoleArtist,
        })
        if !errors.Is(err, ErrSlotNotFound) {
            t.Fatalf("expected ErrSlotNotFound, got %v", err)
        }
    })
}

func TestBookingService_RequestBooking_SingleWinner(t *testing.T) {
    t.Parallel()

    now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
    svc, store, _ := newBookingFixture(now)
    calID := store.addCalendar(testDirectorID)
    slotID := store.addSlot(calID, model.SlotAvailable)

    const n = 16
    bandIDs := make([]uint64, n)
    for i := range bandIDs {
        bandIDs[i] = store.addBand(uint64(700 + i))
    }

    var wg sync.WaitGroup
    errs := make([]error, n)
    for i := 0; i < n; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, errs[i] = svc.RequestBooking(context.Background(), RequestBookingInput{
                SlotID: slotID, BandID: bandIDs[i], InitiatedBy: model.RoleArtist,
            })
        }(i)
    }
    wg.Wait()

    winners := 0
    for i, err := range errs {
        switch {
        case err == nil:
            winners++
        case errors.Is(err, ErrSlotTaken):
        default:
            t.Fatalf("request %d: unexpected error %v", i, err)
        }
    }
    if winners != 1 {
        t.Fatalf("expected exactly one winner, got %d", winners)
    }
    if got := store.getSlot(slotID).Status; got != model.SlotNegotiating {
        t.Fatalf("expected slot NEGOTIATING, got %s", got)
    }
}

func TestBookingService_Accept(t *testing.T) {
    t.Parallel()

    now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

    seedPending := func(store *memStore) (bookingID, slotID uint64) {
        calID := store.addCalendar(testDirectorID)
        slotID = store.addSlot(calID, model.SlotNegotiating)
        bandID := store.addBand(testArtistID)
        bookingID = store.addBooking(model.Booking{
            SlotID: slotID, BandID: bandID, Status: model.BookingPending,
            InitiatedBy: model.RoleArtist, CreatedAt: now,
        })
        return bookingID, slotID
    }

    t.Run("accepts, occupies the slot and opens a chat once", func(t *testing.T) {
        svc, store, pub := newBookingFixture(now)
        bookingID, slotID := seedPending(store)

        b, err := svc.Accept(context.Background(), bookingID, testDirectorID)
        if err != nil {
            t.Fatalf("expected no error, got %v", err)
        }
        if b.Status != model.BookingAccepted {
            t.Fatalf("expected ACCEPTED, got %s", b.Status)
        }
        if got := store.getSlot(slotID).Status; got != model.SlotOccupied {
            t.Fatalf("expected slot OCCUPIED, got %s", got)
        }
        if len(store.chats) != 1 {
            t.Fatalf("expected one chat, got %d", len(store.chats))
        }
        if len(pub.chats) != 1 || pub.chats[0].BookingID != bookingID {
            t.Fatalf("expected one chat.opened event for %d, got %+v", bookingID, pub.chats)
        }
    })

    t.Run("checks existence before authorization before state", func(t *testing.T) {
        svc, store, _ := newBookingFixture(now)
        bookingID, _ := seedPending(store)

        if _, err := svc.Accept(context.Background(), 999, testDirectorID); !errors.Is(err, ErrBookingNotFound) {
            t.Fatalf("expected ErrBookingNotFound, got %v", err)
        }
        if _, err := svc.Accept(context.Background(), bookingID, testDirectorID+1); !errors.Is(err, ErrNotDirector) {
            t.Fatalf("expected ErrNotDirector, got %v", err)
        }
        if _, err := svc.Accept(context.Background(), bookingID, testDirectorID); err != nil {
            t.Fatalf("expected first accept to succeed, got %v", err)
        }
        if _, err := svc.Accept(context.Background(), bookingID, testDirectorID); !errors.Is(err, ErrAlreadyHandled) {
            t.Fatalf("expected ErrAlreadyHandled, got %v", err)
        }
    })

    t.Run("second accept does not open a second chat", func(t *testing.T) {
        svc, store, _ := newBookingFixture(now)
        bookingID, _ := seedPending(store)

        if _, err := svc.Accept(context.Background(), bookingID, testDirectorID); err != nil {
            t.Fatalf("accept: %v", err)
        }
        _, _ = svc.Accept(context.Background(), bookingID, testDirectorID)
        if len(store.chats) != 1 {
            t.Fatalf("expected one chat, got %d", len(store.chats))
        }
    })
}

func TestBookingService_Reject(t *testing.T) {
    t.Parallel()

    now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
    svc, store, _ := newBookingFixture(now)
    calID := store.addCalendar(testDirectorID)
    slotID := store.addSlot(calID, model.SlotNegotiating)
    bandID := store.addBand(testArtistID)
    bookingID := store.addBooking(model.Booking{
        SlotID: slotID, BandID: bandID, Status: model.BookingPending,
        InitiatedBy: model.RoleArtist, CreatedAt: now,
    })

    if _, err := svc.Reject(context.Background(), bookingID, testDirectorID, "  "); !errors.Is(err, ErrReasonRequired) {
        t.Fatalf("expected ErrReasonRequired, got %v", err)
    }
    if _, err := svc.Reject(context.Background(), bookingID, testDirectorID+1, "double booked"); !errors.Is(err, ErrNotDirector) {
        t.Fatalf("expected ErrNotDirector, got %v", err)
    }

    b, err := svc.Reject(context.Background(), bookingID, testDirectorID, "double booked")
    if err != nil {
        t.Fatalf("expected no error, got %v", err)
    }
    if b.Status != model.BookingRejected {
        t.Fatalf("expected REJECTED, got %s", b.Status)
    }
    if b.Reason == nil || *b.Reason != "double booked" {
        t.Fatalf("expected reason recorded, got %v", b.Reason)
    }
    if got := store.getSlot(slotID).Status; got != model.SlotAvailable {
        t.Fatalf("expected slot AVAILABLE, got %s", got)
    }

    if _, err := svc.Reject(context.Background(), bookingID, testDirectorID, "again"); !errors.Is(err, ErrAlreadyHandled) {
        t.Fatalf("expected ErrAlreadyHandled, got %v", err)
    }
}

func TestBookingService_Cancel(t *testing.T) {
    t.Parallel()

    now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

    seed := func(status model.BookingStatus) (*BookingService, *memStore, uint64, uint64) {
        svc, store, _ := newBookingFixture(now)
        calID := store.addCalendar(testDirectorID)
        slotID := store.addSlot(calID, model.SlotNegotiating)
        bandID := store.addBand(testArtistID)
        bookingID := store.addBooking(model.Booking{
            SlotID: slotID, BandID: bandID, Status: status,
            InitiatedBy: model.RoleArtist, CreatedAt: now,
        })
        return svc, store, bookingID, slotID
    }

    t.Run("cancels with a reason and frees the slot", func(t *testing.T) {
        svc, store, bookingID, slotID := seed(model.BookingPending)

        b, err := svc.Cancel(context.Background(), bookingID, testArtistID, "tour postponed")
        if err != nil {
            t.Fatalf("expected no error, got %v", err)
        }
        if b.Status != model.BookingCancelled {
            t.Fatalf("expected CANCELLED, got %s", b.Status)
        }
        if got := store.getSlot(slotID).Status; got != model.SlotAvailable {
            t.Fatalf("expected slot AVAILABLE, got %s", got)
        }
    })

    t.Run("requires band membership", func(t *testing.T) {
        svc, _, bookingID, _ := seed(model.BookingPending)
        if _, err := svc.Cancel(context.Background(), bookingID, 9999, "whatever"); !errors.Is(err, ErrNotBandMember) {
            t.Fatalf("expected ErrNotBandMember, got %v", err)
        }
    })

    t.Run("requires a reason", func(t *testing.T) {
        svc, _, bookingID, _ := seed(model.BookingPending)
        if _, err := svc.Cancel(context.Background(), bookingID, testArtistID, ""); !errors.Is(err, ErrReasonRequired) {
            t.Fatalf("expected ErrReasonRequired, got %v", err)
        }
    })

    t.Run("accepted bookings cannot be cancelled", func(t *testing.T) {
        svc, _, bookingID, _ := seed(model.BookingAccepted)
        if _, err := svc.Cancel(context.Background(), bookingID, testArtistID, "changed our mind"); !errors.Is(err, ErrAlreadyHandled) {
            t.Fatalf("expected ErrAlreadyHandled, got %v", err)
        }
    })
}
