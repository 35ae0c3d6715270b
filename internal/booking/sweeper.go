package booking

import (
    "context"
    "database/sql"
    "fmt"
    "log"

    "github.com/iliyamo/stage-slot-booking/internal/clock"
    "github.com/iliyamo/stage-slot-booking/internal/model"
)

// ExpiryReason is recorded on every booking the sweeper expires.
const ExpiryReason = "timeout after 5 days"

// SweepReport summarizes one sweeper pass.
//
// Fields:
//  Expired        – bookings moved to EXPIRED during the pass.
//  Strikes        – strike outcomes recorded against responsible
//                   parties.
//  StrikeFailures – per-booking errors from strike recording; the
//                   expiry itself already committed for these.
type SweepReport struct {
    Expired        []uint64
    Strikes        []StrikeOutcome
    StrikeFailures []error
}

// Sweeper expires bookings that stayed PENDING past their deadline and
// charges a strike to whoever stalled the negotiation: the venue
// director for artist-initiated requests, the band member with the
// lowest person ID for promoter-initiated ones.
//
// Fields:
//  tx        – transaction runner; each expiry is its own transaction.
//  bookings  – booking store.
//  slots     – slot store, to free expired slots.
//  bands     – band membership store, for responsibility resolution.
//  sanctions – strike recording.
//  clock     – time source, injected for tests.
type Sweeper struct {
    tx        TxRunner
    bookings  BookingStore
    slots     SlotStore
    bands     BandStore
    sanctions *SanctionService
    clock     clock.Clock
}

// NewSweeper wires a Sweeper with its dependencies.
func NewSweeper(tx TxRunner, bookings BookingStore, slots SlotStore, bands BandStore, sanctions *SanctionService, clk clock.Clock) *Sweeper {
    return &Sweeper{
        tx:        tx,
        bookings:  bookings,
        slots:     slots,
        bands:     bands,
        sanctions: sanctions,
        clock:     clk,
    }
}

// SweepExpiredBookings expires every booking that has been PENDING for
// longer than PendingTTL.  Each booking is handled in its own
// transaction with the row locked and the state re-checked, so a sweep
// racing an accept or cancel skips the booking instead of clobbering
// it.  One stuck booking never blocks the rest of the pass: errors are
// logged and the sweep moves on.  Strikes are recorded after the
// expiry commits; a failed strike leaves the expiry in place and is
// reported in StrikeFailures.
func (s *Sweeper) SweepExpiredBookings(ctx context.Context) (SweepReport, error) {
    cutoff := s.clock.Now().UTC().Add(-PendingTTL)
    stale, err := s.bookings.ListStalePending(ctx, cutoff)
    if err != nil {
        return SweepReport{}, err
    }

    var report SweepReport
    for _, cand := range stale {
        var responsible uint64
        var resolveErr error
        expired := false

        err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
            b, err := s.bookings.GetForUpdateTx(ctx, tx, cand.ID)
            if err != nil {
                return err
            }
            // Someone may have handled the booking between the listing
            // and this lock.
            if b.Status != model.BookingPending || b.CreatedAt.After(cutoff) {
                return nil
            }
            reason := ExpiryReason
            if err := s.bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingExpired, &reason); err != nil {
                return err
            }
            if err := s.slots.UpdateStatusTx(ctx, tx, b.SlotID, model.SlotAvailable); err != nil {
                return err
            }
            // An unresolvable responsible party skips the strike but
            // never blocks the expiry itself.
            switch b.InitiatedBy {
            case model.RoleArtist:
                responsible, resolveErr = s.slots.DirectorForSlotTx(ctx, tx, b.SlotID)
            case model.RolePromoter:
                responsible, resolveErr = s.bands.FirstMemberTx(ctx, tx, b.BandID)
            default:
                resolveErr = ErrInvalidInitiator
            }
            expired = true
            return nil
        })
        if err != nil {
            log.Printf("sweeper: expire booking %d: %v", cand.ID, err)
            continue
        }
        if !expired {
            continue
        }
        report.Expired = append(report.Expired, cand.ID)

        if resolveErr != nil {
            log.Printf("sweeper: resolve responsible for booking %d: %v", cand.ID, resolveErr)
            report.StrikeFailures = append(report.StrikeFailures, fmt.Errorf("booking %d: resolve responsible: %w", cand.ID, resolveErr))
            continue
        }
        out, err := s.sanctions.RecordStrike(ctx, responsible)
        if err != nil {
            log.Printf("sweeper: strike person %d for booking %d: %v", responsible, cand.ID, err)
            report.StrikeFailures = append(report.StrikeFailures, fmt.Errorf("booking %d: strike person %d: %w", cand.ID, responsible, err))
            continue
        }
        report.Strikes = append(report.Strikes, out)
    }
    return report, nil
}
