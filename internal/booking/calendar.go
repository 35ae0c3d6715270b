package booking

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/stage-slot-booking/internal/clock"
    "github.com/iliyamo/stage-slot-booking/internal/model"
)

// CalendarService generates calendars and their slot grids.
//
// Fields:
//  tx    – transaction runner; calendar plus slots commit atomically.
//  cals  – calendar persistence.
//  clock – time source, injected for tests.
type CalendarService struct {
    tx    TxRunner
    cals  CalendarStore
    clock clock.Clock
}

// NewCalendarService wires a CalendarService with its dependencies.
func NewCalendarService(tx TxRunner, cals CalendarStore, clk clock.Clock) *CalendarService {
    return &CalendarService{tx: tx, cals: cals, clock: clk}
}

// CreateCalendarInput carries the parameters for CreateCalendar.
type CreateCalendarInput struct {
    VenueID   uint64
    Date      time.Time
    OpensAt   time.Time
    ClosesAt  time.Time
    SlotCount int
}

// CreateCalendar creates a calendar for a venue day and partitions its
// opening window into SlotCount contiguous slots of equal duration.
// The first slot starts at OpensAt, each slot starts where the
// previous one ends, and the last slot ends exactly at ClosesAt.  All
// slots begin AVAILABLE.  Returns ErrInvalidRange when ClosesAt is not
// after OpensAt or SlotCount is below one.
func (s *CalendarService) CreateCalendar(ctx context.Context, in CreateCalendarInput) (model.Calendar, error) {
    if !in.ClosesAt.After(in.OpensAt) || in.SlotCount < 1 {
        return model.Calendar{}, ErrInvalidRange
    }

    cal := model.Calendar{
        VenueID:   in.VenueID,
        Date:      in.Date,
        OpensAt:   in.OpensAt,
        ClosesAt:  in.ClosesAt,
        SlotCount: in.SlotCount,
        CreatedAt: s.clock.Now().UTC(),
    }

    // Integer division keeps every slot the same length; the last slot
    // is pinned to ClosesAt so rounding never leaves a gap at the end
    // of the window.
    dur := in.ClosesAt.Sub(in.OpensAt) / time.Duration(in.SlotCount)

    err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
        if err := s.cals.CreateTx(ctx, tx, &cal); err != nil {
            return err
        }
        slots := make([]model.Slot, 0, in.SlotCount)
        start := in.OpensAt
        for i := 0; i < in.SlotCount; i++ {
            end := start.Add(dur)
            if i == in.SlotCount-1 {
                end = in.ClosesAt
            }
            slots = append(slots, model.Slot{
                CalendarID: cal.ID,
                StartsAt:   start,
                EndsAt:     end,
                Status:     model.SlotAvailable,
            })
            start = end
        }
        if err := s.cals.CreateSlotsBulkTx(ctx, tx, slots); err != nil {
            return err
        }
        cal.Slots = slots
        return nil
    })
    if err != nil {
        return model.Calendar{}, err
    }
    return cal, nil
}
