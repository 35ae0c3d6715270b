package booking

import (
    "context"
    "database/sql"

    "github.com/iliyamo/stage-slot-booking/internal/clock"
    "github.com/iliyamo/stage-slot-booking/internal/model"
)

// StrikeOutcome reports what a recorded strike did to the account.
type StrikeOutcome struct {
    PersonID    uint64
    StrikeCount int
    Warned      bool // crossed the warning threshold with this strike
    Frozen      bool // crossed the ban threshold with this strike
}

// SanctionService increments strike counters and applies the warning
// and freeze consequences when thresholds are crossed.
//
// Fields:
//  tx        – transaction runner; increment and consequences commit
//              together.
//  sanctions – sanction and account status persistence.
//  clock     – time source, injected for tests.
type SanctionService struct {
    tx        TxRunner
    sanctions SanctionStore
    clock     clock.Clock
}

// NewSanctionService wires a SanctionService with its dependencies.
func NewSanctionService(tx TxRunner, sanctions SanctionStore, clk clock.Clock) *SanctionService {
    return &SanctionService{tx: tx, sanctions: sanctions, clock: clk}
}

// RecordStrike adds one strike to the person's counter and applies the
// consequences of any threshold crossed by this increment.  The
// sanction row is locked first, so concurrent strikes serialize and
// each threshold fires on exactly one of them:
//
//  - reaching the warning threshold (while still below the ban one)
//    appends a `warning` status entry;
//  - crossing the ban threshold freezes the account: the person's role
//    is cleared, a `frozen` status entry is appended and the sanction
//    is stamped with the ban time.  Strikes past the ban threshold
//    keep counting but never freeze again.
func (s *SanctionService) RecordStrike(ctx context.Context, personID uint64) (StrikeOutcome, error) {
    var out StrikeOutcome
    err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
        sa, err := s.sanctions.GetForUpdateTx(ctx, tx, personID)
        if err != nil {
            return err
        }
        old := sa.StrikeCount
        next := old + 1
        if err := s.sanctions.SetStrikeCountTx(ctx, tx, sa.ID, next); err != nil {
            return err
        }
        now := s.clock.Now().UTC()

        if old < sa.WarnThreshold && sa.WarnThreshold <= next && next < sa.BanThreshold {
            if err := s.sanctions.AddAccountStatusTx(ctx, tx, personID, model.AccountWarning, now); err != nil {
                return err
            }
            out.Warned = true
        }
        if old < sa.BanThreshold && sa.BanThreshold <= next {
            if err := s.sanctions.ClearPersonRoleTx(ctx, tx, personID); err != nil {
                return err
            }
            if err := s.sanctions.AddAccountStatusTx(ctx, tx, personID, model.AccountFrozen, now); err != nil {
                return err
            }
            if err := s.sanctions.MarkBannedTx(ctx, tx, sa.ID, now); err != nil {
                return err
            }
            out.Frozen = true
        }
        out.PersonID = personID
        out.StrikeCount = next
        return nil
    })
    if err != nil {
        return StrikeOutcome{}, err
    }
    return out, nil
}
