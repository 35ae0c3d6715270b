package booking

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/require"

    "github.com/iliyamo/stage-slot-booking/internal/clock"
    "github.com/iliyamo/stage-slot-booking/internal/model"
)

func TestSweeper_SweepExpiredBookings(t *testing.T) {
    t.Parallel()

    now := time.Date(2026, 4, 10, 3, 0, 0, 0, time.UTC)
    stale := now.Add(-PendingTTL - time.Hour)
    fresh := now.Add(-time.Hour)

    makeSweeper := func() (*Sweeper, *memStore) {
        store := newMemStore()
        sanctions := NewSanctionService(store, store.sanctionStore(), clock.NewFixed(now))
        sw := NewSweeper(store, store.bookingStore(), store, store.bandStore(), sanctions, clock.NewFixed(now))
        return sw, store
    }

    t.Run("expires stale pending bookings and frees their slots", func(t *testing.T) {
        sw, store := makeSweeper()
        calID := store.addCalendar(testDirectorID)
        slotID := store.addSlot(calID, model.SlotNegotiating)
        bandID := store.addBand(testArtistID)
        store.addSanction(testDirectorID, 0, 3, 5)
        bookingID := store.addBooking(model.Booking{
            SlotID: slotID, BandID: bandID, Status: model.BookingPending,
            InitiatedBy: model.RoleArtist, CreatedAt: stale,
        })

        report, err := sw.SweepExpiredBookings(context.Background())
        require.NoError(t, err)
        require.Equal(t, []uint64{bookingID}, report.Expired)
        require.Empty(t, report.StrikeFailures)

        b := store.getBooking(bookingID)
        require.Equal(t, model.BookingExpired, b.Status)
        require.NotNil(t, b.Reason)
        require.Equal(t, ExpiryReason, *b.Reason)
        require.Equal(t, model.SlotAvailable, store.getSlot(slotID).Status)
    })

    t.Run("artist-initiated expiry strikes the venue director", func(t *testing.T) {
        sw, store := makeSweeper()
        calID := store.addCalendar(testDirectorID)
        slotID := store.addSlot(calID, model.SlotNegotiating)
        bandID := store.addBand(testArtistID)
        store.addSanction(testDirectorID, 0, 3, 5)
        store.addBooking(model.Booking{
            SlotID: slotID, BandID: bandID, Status: model.BookingPending,
            InitiatedBy: model.RoleArtist, CreatedAt: stale,
        })

        report, err := sw.SweepExpiredBookings(context.Background())
        require.NoError(t, err)
        require.Len(t, report.Strikes, 1)
        require.Equal(t, testDirectorID, report.Strikes[0].PersonID)
        require.Equal(t, 1, report.Strikes[0].StrikeCount)
    })

    t.Run("promoter-initiated expiry strikes the lowest-id band member", func(t *testing.T) {
        sw, store := makeSweeper()
        calID := store.addCalendar(testDirectorID)
        slotID := store.addSlot(calID, model.SlotNegotiating)
        bandID := store.addBand(880, 603, 750)
        store.addSanction(603, 0, 3, 5)
        store.addBooking(model.Booking{
            SlotID: slotID, BandID: bandID, Status: model.BookingPending,
            InitiatedBy: model.RolePromoter, CreatedAt: stale,
        })

        report, err := sw.SweepExpiredBookings(context.Background())
        require.NoError(t, err)
        require.Len(t, report.Strikes, 1)
        require.Equal(t, uint64(603), report.Strikes[0].PersonID)
    })

    t.Run("fresh pending bookings survive the sweep", func(t *testing.T) {
        sw, store := makeSweeper()
        calID := store.addCalendar(testDirectorID)
        slotID := store.addSlot(calID, model.SlotNegotiating)
        bandID := store.addBand(testArtistID)
        bookingID := store.addBooking(model.Booking{
            SlotID: slotID, BandID: bandID, Status: model.BookingPending,
            InitiatedBy: model.RoleArtist, CreatedAt: fresh,
        })

        report, err := sw.SweepExpiredBookings(context.Background())
        require.NoError(t, err)
        require.Empty(t, report.Expired)
        require.Equal(t, model.BookingPending, store.getBooking(bookingID).Status)
        require.Equal(t, model.SlotNegotiating, store.getSlot(slotID).Status)
    })

    t.Run("terminal bookings are left alone", func(t *testing.T) {
        sw, store := makeSweeper()
        calID := store.addCalendar(testDirectorID)
        bandID := store.addBand(testArtistID)
        reason := "no fit"
        for _, status := range []model.BookingStatus{model.BookingAccepted, model.BookingRejected, model.BookingCancelled} {
            slotID := store.addSlot(calID, model.SlotOccupied)
            store.addBooking(model.Booking{
                SlotID: slotID, BandID: bandID, Status: status, Reason: &reason,
                InitiatedBy: model.RoleArtist, CreatedAt: stale,
            })
        }

        report, err := sw.SweepExpiredBookings(context.Background())
        require.NoError(t, err)
        require.Empty(t, report.Expired)
    })

    t.Run("a failed strike still leaves the expiry committed", func(t *testing.T) {
        // No sanction row seeded for the director, so the strike fails.
        sw, store := makeSweeper()
        calID := store.addCalendar(testDirectorID)
        slotID := store.addSlot(calID, model.SlotNegotiating)
        bandID := store.addBand(testArtistID)
        bookingID := store.addBooking(model.Booking{
            SlotID: slotID, BandID: bandID, Status: model.BookingPending,
            InitiatedBy: model.RoleArtist, CreatedAt: stale,
        })

        report, err := sw.SweepExpiredBookings(context.Background())
        require.NoError(t, err)
        require.Equal(t, []uint64{bookingID}, report.Expired)
        require.Len(t, report.StrikeFailures, 1)
        require.Equal(t, model.BookingExpired, store.getBooking(bookingID).Status)
    })

    t.Run("an unresolvable responsible party skips the strike but expires", func(t *testing.T) {
        sw, store := makeSweeper()
        calID := store.addCalendar(testDirectorID)
        slotID := store.addSlot(calID, model.SlotNegotiating)
        bandID := store.addBand() // empty roster, nobody to charge
        bookingID := store.addBooking(model.Booking{
            SlotID: slotID, BandID: bandID, Status: model.BookingPending,
            InitiatedBy: model.RolePromoter, CreatedAt: stale,
        })

        report, err := sw.SweepExpiredBookings(context.Background())
        require.NoError(t, err)
        require.Equal(t, []uint64{bookingID}, report.Expired)
        require.Empty(t, report.Strikes)
        require.Len(t, report.StrikeFailures, 1)
        require.Equal(t, model.BookingExpired, store.getBooking(bookingID).Status)
        require.Equal(t, model.SlotAvailable, store.getSlot(slotID).Status)
    })

    t.Run("one pass handles many bookings independently", func(t *testing.T) {
        sw, store := makeSweeper()
        calID := store.addCalendar(testDirectorID)
        store.addSanction(testDirectorID, 0, 3, 5)
        bandID := store.addBand(testArtistID)
        var ids []uint64
        for i := 0; i < 4; i++ {
            slotID := store.addSlot(calID, model.SlotNegotiating)
            ids = append(ids, store.addBooking(model.Booking{
                SlotID: slotID, BandID: bandID, Status: model.BookingPending,
                InitiatedBy: model.RoleArtist, CreatedAt: stale,
            }))
        }

        report, err := sw.SweepExpiredBookings(context.Background())
        require.NoError(t, err)
        require.ElementsMatch(t, ids, report.Expired)
        // Four expiries against the same director accumulate strikes
        // and trip the warning threshold on the third.
        warned := 0
        for _, out := range report.Strikes {
            if out.Warned {
                warned++
            }
        }
        require.Equal(t, 1, warned)
    })
}
