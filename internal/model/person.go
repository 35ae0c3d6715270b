package model

import "time"

// Role enumerates the kinds of people using the marketplace.  The role
// controls which side of a booking a person may act on: artists and
// promoters request slots, artistic directors manage venues and decide
// on requests.  A frozen account has no role at all.
type Role string

const (
    RoleArtist   Role = "ARTIST"   // performs and requests slots for their band
    RolePromoter Role = "PROMOTER" // books slots on behalf of a band
    RoleDirector Role = "DIRECTOR" // artistic director managing one or more venues
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
    return r == RoleArtist || r == RolePromoter || r == RoleDirector
}

// Person represents an account in the marketplace.  This struct
// corresponds to a row in the `persons` table.
//
// Fields:
//  ID           – primary key identifier.
//  FirstName    – given name.
//  LastName     – family name.
//  Email        – unique login email.
//  Phone        – unique contact number.
//  PasswordHash – bcrypt hashed password.
//  Role         – ARTIST, PROMOTER or DIRECTOR; nil once the account is frozen.
//  Reputation   – running average of all review scores addressed to this person.
//  CreatedAt    – timestamp when the account was created.
//  UpdatedAt    – timestamp of last update.
type Person struct {
    ID           uint64    // persons.id
    FirstName    string    // persons.first_name
    LastName     string    // persons.last_name
    Email        string    // persons.email
    Phone        string    // persons.phone
    PasswordHash string    // persons.password_hash
    Role         *Role     // persons.role (nullable, cleared on freeze)
    Reputation   float64   // persons.reputation DECIMAL(3,2)
    CreatedAt    time.Time // persons.created_at
    UpdatedAt    time.Time // persons.updated_at
}
