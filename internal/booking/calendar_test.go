package booking

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/iliyamo/stage-slot-booking/internal/clock"
    "github.com/iliyamo/stage-slot-booking/internal/model"
)

func TestCalendarService_CreateCalendar(t *testing.T) {
    t.Parallel()

    now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
    day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
    opens := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
    closes := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)

    makeSvc := func() (*CalendarService, *memStore) {
        store := newMemStore()
        svc := NewCalendarService(store, store, clock.NewFixed(now))
        return svc, store
    }

    t.Run("partitions the window into equal contiguous slots", func(t *testing.T) {
        svc, store := makeSvc()

        cal, err := svc.CreateCalendar(context.Background(), CreateCalendarInput{
            VenueID:   7,
            Date:      day,
            OpensAt:   opens,
            ClosesAt:  closes,
            SlotCount: 5,
        })
        if err != nil {
            t.Fatalf("expected no error, got %v", err)
        }
        if cal.ID == 0 {
            t.Fatalf("expected calendar ID to be set")
        }
        if len(cal.Slots) != 5 {
            t.Fatalf("expected 5 slots, got %d", len(cal.Slots))
        }
        if !cal.Slots[0].StartsAt.Equal(opens) {
            t.Fatalf("expected first slot to start at %v, got %v", opens, cal.Slots[0].StartsAt)
        }
        if !cal.Slots[4].EndsAt.Equal(closes) {
            t.Fatalf("expected last slot to end at %v, got %v", closes, cal.Slots[4].EndsAt)
        }
        want := time.Hour
        for i, s := range cal.Slots {
            if s.EndsAt.Sub(s.StartsAt) != want {
                t.Fatalf("slot %d: expected duration %v, got %v", i, want, s.EndsAt.Sub(s.StartsAt))
            }
            if i > 0 && !s.StartsAt.Equal(cal.Slots[i-1].EndsAt) {
                t.Fatalf("slot %d: expected to start where slot %d ends", i, i-1)
            }
            if s.Status != model.SlotAvailable {
                t.Fatalf("slot %d: expected AVAILABLE, got %s", i, s.Status)
            }
        }
        if len(store.slots) != 5 {
            t.Fatalf("expected 5 slots persisted, got %d", len(store.slots))
        }
    })

    t.Run("single slot covers the whole window", func(t *testing.T) {
        svc, _ := makeSvc()

        cal, err := svc.CreateCalendar(context.Background(), CreateCalendarInput{
            VenueID:   7,
            Date:      day,
            OpensAt:   opens,
            ClosesAt:  closes,
            SlotCount: 1,
        })
        if err != nil {
            t.Fatalf("expected no error, got %v", err)
        }
        if !cal.Slots[0].StartsAt.Equal(opens) || !cal.Slots[0].EndsAt.Equal(closes) {
            t.Fatalf("expected the slot to span the whole window, got %v-%v", cal.Slots[0].StartsAt, cal.Slots[0].EndsAt)
        }
    })

    t.Run("last slot absorbs rounding remainder", func(t *testing.T) {
        svc, _ := makeSvc()

        // 5 hours over 7 slots does not divide evenly.
        cal, err := svc.CreateCalendar(context.Background(), CreateCalendarInput{
            VenueID:   7,
            Date:      day,
            OpensAt:   opens,
            ClosesAt:  closes,
            SlotCount: 7,
        })
        if err != nil {
            t.Fatalf("expected no error, got %v", err)
        }
        if !cal.Slots[6].EndsAt.Equal(closes) {
            t.Fatalf("expected last slot to end at %v, got %v", closes, cal.Slots[6].EndsAt)
        }
        for i := 1; i < len(cal.Slots); i++ {
            if !cal.Slots[i].StartsAt.Equal(cal.Slots[i-1].EndsAt) {
                t.Fatalf("slot %d: gap after rounding", i)
            }
        }
    })

    t.Run("rejects empty or inverted windows", func(t *testing.T) {
        svc, _ := makeSvc()

        cases := []CreateCalendarInput{
            {VenueID: 7, Date: day, OpensAt: opens, ClosesAt: opens, SlotCount: 3},
            {VenueID: 7, Date: day, OpensAt: closes, ClosesAt: opens, SlotCount: 3},
            {VenueID: 7, Date: day, OpensAt: opens, ClosesAt: closes, SlotCount: 0},
            {VenueID: 7, Date: day, OpensAt: opens, ClosesAt: closes, SlotCount: -2},
        }
        for i, in := range cases {
            if _, err := svc.CreateCalendar(context.Background(), in); !errors.Is(err, ErrInvalidRange) {
                t.Fatalf("case %d: expected ErrInvalidRange, got %v", i, err)
            }
        }
    })
}
