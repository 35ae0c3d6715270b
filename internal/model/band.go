package model

// Band represents an artist group that requests slots.  Membership is
// stored in the `band_members` join table; a band must always keep at
// least one member.  This struct corresponds to a row in the `bands`
// table.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – band name.
//  FeeCents   – asking fee for a performance, in cents.
//  Negotiable – whether the fee is open to negotiation.
//  Category   – free-form category such as "original", "cover" or "tribute".
type Band struct {
    ID         uint64 // bands.id
    Name       string // bands.name
    FeeCents   uint32 // bands.fee_cents
    Negotiable bool   // bands.negotiable
    Category   string // bands.category
}
