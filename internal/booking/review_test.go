package booking

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/require"

    "github.com/iliyamo/stage-slot-booking/internal/clock"
    "github.com/iliyamo/stage-slot-booking/internal/model"
)

func TestReviewService_RecordReview(t *testing.T) {
    t.Parallel()

    now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

    // seed returns a store holding one booking whose slot ended an hour
    // before now, so an ACCEPTED booking is already reviewable.
    seed := func(status model.BookingStatus) (*ReviewService, *memStore, uint64) {
        store := newMemStore()
        calID := store.addCalendar(testDirectorID)
        slotID := store.addSlot(calID, model.SlotOccupied)
        s := store.slots[slotID]
        s.EndsAt = now.Add(-time.Hour)
        store.slots[slotID] = s
        bandID := store.addBand(testArtistID)
        bookingID := store.addBooking(model.Booking{
            SlotID: slotID, BandID: bandID, Status: status, InitiatedBy: model.RoleArtist,
        })
        svc := NewReviewService(store, store.reviewStore(), store.bookingStore(), clock.NewFixed(now))
        return svc, store, bookingID
    }

    t.Run("records review and updates recipient reputation", func(t *testing.T) {
        svc, store, bookingID := seed(model.BookingAccepted)

        r, err := svc.RecordReview(context.Background(), RecordReviewInput{
            BookingID:   bookingID,
            AuthorID:    testArtistID,
            RecipientID: testDirectorID,
            Description: "great stage, fair deal",
            Score:       4,
        })
        require.NoError(t, err)
        require.NotZero(t, r.ID)
        require.Equal(t, 4.0, store.reps[testDirectorID])
    })

    t.Run("reputation is the mean of all scores for the recipient", func(t *testing.T) {
        svc, store, bookingID := seed(model.BookingAccepted)

        _, err := svc.RecordReview(context.Background(), RecordReviewInput{
            BookingID: bookingID, AuthorID: testArtistID, RecipientID: testDirectorID, Score: 5,
        })
        require.NoError(t, err)

        _, err = svc.RecordReview(context.Background(), RecordReviewInput{
            BookingID: bookingID, AuthorID: testArtistID + 1, RecipientID: testDirectorID, Score: 2,
        })
        require.NoError(t, err)
        require.Equal(t, 3.5, store.reps[testDirectorID])
    })

    t.Run("cancelled bookings are reviewable immediately", func(t *testing.T) {
        svc, _, bookingID := seed(model.BookingCancelled)

        _, err := svc.RecordReview(context.Background(), RecordReviewInput{
            BookingID: bookingID, AuthorID: testDirectorID, RecipientID: testArtistID, Score: 1,
        })
        require.NoError(t, err)
    })

    t.Run("accepted booking before slot end is not eligible", func(t *testing.T) {
        svc, store, bookingID := seed(model.BookingAccepted)
        b := store.bookings[bookingID]
        s := store.slots[b.SlotID]
        s.EndsAt = now.Add(time.Hour)
        store.slots[b.SlotID] = s

        _, err := svc.RecordReview(context.Background(), RecordReviewInput{
            BookingID: bookingID, AuthorID: testArtistID, RecipientID: testDirectorID, Score: 3,
        })
        require.ErrorIs(t, err, ErrNotEligible)
    })

    t.Run("pending and rejected bookings are not eligible", func(t *testing.T) {
        for _, status := range []model.BookingStatus{model.BookingPending, model.BookingRejected} {
            svc, _, bookingID := seed(status)
            _, err := svc.RecordReview(context.Background(), RecordReviewInput{
                BookingID: bookingID, AuthorID: testArtistID, RecipientID: testDirectorID, Score: 3,
            })
            require.ErrorIs(t, err, ErrNotEligible, "status %s", status)
        }
    })

    t.Run("one review per author per booking", func(t *testing.T) {
        svc, _, bookingID := seed(model.BookingAccepted)
        in := RecordReviewInput{BookingID: bookingID, AuthorID: testArtistID, RecipientID: testDirectorID, Score: 4}

        _, err := svc.RecordReview(context.Background(), in)
        require.NoError(t, err)
        _, err = svc.RecordReview(context.Background(), in)
        require.ErrorIs(t, err, ErrDuplicateReview)
    })

    t.Run("self review is refused", func(t *testing.T) {
        svc, _, bookingID := seed(model.BookingAccepted)
        _, err := svc.RecordReview(context.Background(), RecordReviewInput{
            BookingID: bookingID, AuthorID: testArtistID, RecipientID: testArtistID, Score: 5,
        })
        require.ErrorIs(t, err, ErrSelfReview)
    })

    t.Run("score must stay within 0 to 5", func(t *testing.T) {
        svc, _, bookingID := seed(model.BookingAccepted)
        for _, score := range []int{-1, 6, 100} {
            _, err := svc.RecordReview(context.Background(), RecordReviewInput{
                BookingID: bookingID, AuthorID: testArtistID, RecipientID: testDirectorID, Score: score,
            })
            require.ErrorIs(t, err, ErrScoreOutOfRange, "score %d", score)
        }
    })

    t.Run("unknown booking", func(t *testing.T) {
        svc, _, _ := seed(model.BookingAccepted)
        _, err := svc.RecordReview(context.Background(), RecordReviewInput{
            BookingID: 9999, AuthorID: testArtistID, RecipientID: testDirectorID, Score: 3,
        })
        require.ErrorIs(t, err, ErrBookingNotFound)
    })
}
