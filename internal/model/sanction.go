package model

import "time"

// AccountState is one entry in a person's account status history.
type AccountState string

const (
    AccountActive  AccountState = "active"
    AccountWarning AccountState = "warning"
    AccountFrozen  AccountState = "frozen"
)

// AccountStatus records a change of a person's account state.  The
// history is append-only: registration writes the initial `active`
// entry, the sanctions engine appends `warning` and `frozen` entries
// when strike thresholds are crossed.  Corresponds to a row in the
// `account_statuses` table.
type AccountStatus struct {
    ID         uint64       // account_statuses.id
    PersonID   uint64       // account_statuses.person_id
    State      AccountState // account_statuses.state
    RecordedAt time.Time    // account_statuses.recorded_at
}

// Sanction tracks the strike counter for one person, created together
// with the account.  Crossing WarnThreshold records a warning status;
// crossing BanThreshold freezes the account exactly once and stamps
// LastBanAt.  Corresponds to a row in the `sanctions` table.
//
// Fields:
//  ID            – primary key identifier.
//  PersonID      – person this sanction row belongs to (unique).
//  StrikeCount   – penalties accrued so far.
//  WarnThreshold – strikes at which a warning is recorded (default 3).
//  BanThreshold  – strikes at which the account is frozen (default 5).
//  LastBanAt     – when the account was last frozen, if ever.
type Sanction struct {
    ID            uint64     // sanctions.id
    PersonID      uint64     // sanctions.person_id
    StrikeCount   int        // sanctions.strike_count
    WarnThreshold int        // sanctions.warn_threshold
    BanThreshold  int        // sanctions.ban_threshold
    LastBanAt     *time.Time // sanctions.last_ban_at (nullable)
}
