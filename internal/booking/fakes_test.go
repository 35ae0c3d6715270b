package booking

import (
    "context"
    "database/sql"
    "sync"
    "time"

    "github.com/iliyamo/stage-slot-booking/internal/model"
    "github.com/iliyamo/stage-slot-booking/internal/queue"
)

// memStore is an in-memory implementation of every engine store plus
// the transaction runner.  InTx holds a mutex for the duration of the
// callback, which mirrors the row-lock serialization the real stores
// get from SELECT ... FOR UPDATE and lets the concurrency tests race
// goroutines against it.
type memStore struct {
    mu sync.Mutex

    nextID uint64

    calendars map[uint64]model.Calendar
    slots     map[uint64]model.Slot
    bookings  map[uint64]model.Booking
    chats     map[uint64]model.Chat
    reviews   map[uint64]model.Review
    scores    map[uint64]int // review id -> score value
    sanctions map[uint64]model.Sanction
    statuses  []model.AccountStatus
    roles     map[uint64]*model.Role       // person id -> role
    reps      map[uint64]float64           // person id -> reputation
    members   map[uint64][]uint64          // band id -> person ids
    directors map[uint64]uint64            // calendar id -> director person id
}

func newMemStore() *memStore {
    return &memStore{
        calendars: map[uint64]model.Calendar{},
        slots:     map[uint64]model.Slot{},
        bookings:  map[uint64]model.Booking{},
        chats:     map[uint64]model.Chat{},
        reviews:   map[uint64]model.Review{},
        scores:    map[uint64]int{},
        sanctions: map[uint64]model.Sanction{},
        roles:     map[uint64]*model.Role{},
        reps:      map[uint64]float64{},
        members:   map[uint64][]uint64{},
        directors: map[uint64]uint64{},
    }
}

func (m *memStore) id() uint64 {
    m.nextID++
    return m.nextID
}

func (m *memStore) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    return fn(nil)
}

// Seeding helpers.  They lock so tests can seed while services run.

func (m *memStore) addSlot(calendarID uint64, status model.SlotStatus) uint64 {
    m.mu.Lock()
    defer m.mu.Unlock()
    id := m.id()
    m.slots[id] = model.Slot{ID: id, CalendarID: calendarID, Status: status}
    return id
}

func (m *memStore) addCalendar(directorID uint64) uint64 {
    m.mu.Lock()
    defer m.mu.Unlock()
    id := m.id()
    m.calendars[id] = model.Calendar{ID: id}
    m.directors[id] = directorID
    return id
}

func (m *memStore) addBooking(b model.Booking) uint64 {
    m.mu.Lock()
    defer m.mu.Unlock()
    b.ID = m.id()
    m.bookings[b.ID] = b
    return b.ID
}

func (m *memStore) addBand(memberIDs ...uint64) uint64 {
    m.mu.Lock()
    defer m.mu.Unlock()
    id := m.id()
    m.members[id] = memberIDs
    return id
}

func (m *memStore) addSanction(personID uint64, strikes, warn, ban int) {
    m.mu.Lock()
    defer m.mu.Unlock()
    id := m.id()
    m.sanctions[id] = model.Sanction{
        ID:            id,
        PersonID:      personID,
        StrikeCount:   strikes,
        WarnThreshold: warn,
        BanThreshold:  ban,
    }
    role := model.RoleArtist
    m.roles[personID] = &role
}

func (m *memStore) getBooking(id uint64) model.Booking {
    m.mu.Lock()
    defer m.mu.Unlock()
    return m.bookings[id]
}

func (m *memStore) getSlot(id uint64) model.Slot {
    m.mu.Lock()
    defer m.mu.Unlock()
    return m.slots[id]
}

// CalendarStore

func (m *memStore) CreateTx(ctx context.Context, tx *sql.Tx, cal *model.Calendar) error {
    cal.ID = m.id()
    m.calendars[cal.ID] = *cal
    return nil
}

func (m *memStore) CreateSlotsBulkTx(ctx context.Context, tx *sql.Tx, slots []model.Slot) error {
    for i := range slots {
        slots[i].ID = m.id()
        m.slots[slots[i].ID] = slots[i]
    }
    return nil
}

// SlotStore

func (m *memStore) GetForUpdateTx(ctx context.Context, tx *sql.Tx, slotID uint64) (model.Slot, error) {
    s, ok := m.slots[slotID]
    if !ok {
        return model.Slot{}, ErrSlotNotFound
    }
    return s, nil
}

func (m *memStore) UpdateStatusTx(ctx context.Context, tx *sql.Tx, slotID uint64, status model.SlotStatus) error {
    s, ok := m.slots[slotID]
    if !ok {
        return ErrSlotNotFound
    }
    s.Status = status
    m.slots[slotID] = s
    return nil
}

func (m *memStore) DirectorForSlotTx(ctx context.Context, tx *sql.Tx, slotID uint64) (uint64, error) {
    s, ok := m.slots[slotID]
    if !ok {
        return 0, ErrSlotNotFound
    }
    return m.directors[s.CalendarID], nil
}

// BookingStore.  The slot and booking stores share UpdateStatusTx-like
// names, so the booking side gets distinct wrappers below via a thin
// view type.

type bookingView struct{ m *memStore }

func (m *memStore) bookingStore() *bookingView { return &bookingView{m: m} }

func (v *bookingView) ActiveExistsForSlotTx(ctx context.Context, tx *sql.Tx, slotID uint64) (bool, error) {
    for _, b := range v.m.bookings {
        if b.SlotID == slotID && b.Status.Active() {
            return true, nil
        }
    }
    return false, nil
}

func (v *bookingView) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    b.ID = v.m.id()
    v.m.bookings[b.ID] = *b
    return nil
}

func (v *bookingView) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
    b, ok := v.m.bookings[id]
    if !ok {
        return model.Booking{}, ErrBookingNotFound
    }
    return b, nil
}

func (v *bookingView) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.BookingStatus, reason *string) error {
    b, ok := v.m.bookings[id]
    if !ok {
        return ErrBookingNotFound
    }
    b.Status = status
    b.Reason = reason
    v.m.bookings[id] = b
    return nil
}

func (v *bookingView) GetWithSlotEndTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, time.Time, error) {
    b, ok := v.m.bookings[id]
    if !ok {
        return model.Booking{}, time.Time{}, ErrBookingNotFound
    }
    return b, v.m.slots[b.SlotID].EndsAt, nil
}

func (v *bookingView) ListStalePending(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
    v.m.mu.Lock()
    defer v.m.mu.Unlock()
    var out []model.Booking
    for _, b := range v.m.bookings {
        if b.Status == model.BookingPending && !b.CreatedAt.After(cutoff) {
            out = append(out, b)
        }
    }
    return out, nil
}

// ChatStore

type chatView struct{ m *memStore }

func (m *memStore) chatStore() *chatView { return &chatView{m: m} }

func (v *chatView) ExistsForBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (bool, error) {
    for _, c := range v.m.chats {
        if c.BookingID == bookingID {
            return true, nil
        }
    }
    return false, nil
}

func (v *chatView) CreateTx(ctx context.Context, tx *sql.Tx, chat *model.Chat) error {
    chat.ID = v.m.id()
    v.m.chats[chat.ID] = *chat
    return nil
}

// ReviewStore

type reviewView struct{ m *memStore }

func (m *memStore) reviewStore() *reviewView { return &reviewView{m: m} }

func (v *reviewView) ExistsForBookingAndAuthorTx(ctx context.Context, tx *sql.Tx, bookingID, authorID uint64) (bool, error) {
    for _, r := range v.m.reviews {
        if r.BookingID == bookingID && r.AuthorID == authorID {
            return true, nil
        }
    }
    return false, nil
}

func (v *reviewView) CreateTx(ctx context.Context, tx *sql.Tx, review *model.Review, score int) error {
    review.ID = v.m.id()
    v.m.reviews[review.ID] = *review
    v.m.scores[review.ID] = score
    return nil
}

func (v *reviewView) AverageScoreForRecipientTx(ctx context.Context, tx *sql.Tx, personID uint64) (float64, error) {
    sum, n := 0, 0
    for id, r := range v.m.reviews {
        if r.RecipientID == personID {
            sum += v.m.scores[id]
            n++
        }
    }
    if n == 0 {
        return 0, nil
    }
    return float64(sum) / float64(n), nil
}

func (v *reviewView) SetReputationTx(ctx context.Context, tx *sql.Tx, personID uint64, reputation float64) error {
    v.m.reps[personID] = reputation
    return nil
}

// SanctionStore

type sanctionView struct{ m *memStore }

func (m *memStore) sanctionStore() *sanctionView { return &sanctionView{m: m} }

func (v *sanctionView) GetForUpdateTx(ctx context.Context, tx *sql.Tx, personID uint64) (model.Sanction, error) {
    for _, sa := range v.m.sanctions {
        if sa.PersonID == personID {
            return sa, nil
        }
    }
    return model.Sanction{}, ErrPersonNotFound
}

func (v *sanctionView) SetStrikeCountTx(ctx context.Context, tx *sql.Tx, sanctionID uint64, count int) error {
    sa := v.m.sanctions[sanctionID]
    sa.StrikeCount = count
    v.m.sanctions[sanctionID] = sa
    return nil
}

func (v *sanctionView) MarkBannedTx(ctx context.Context, tx *sql.Tx, sanctionID uint64, at time.Time) error {
    sa := v.m.sanctions[sanctionID]
    sa.LastBanAt = &at
    v.m.sanctions[sanctionID] = sa
    return nil
}

func (v *sanctionView) ClearPersonRoleTx(ctx context.Context, tx *sql.Tx, personID uint64) error {
    v.m.roles[personID] = nil
    return nil
}

func (v *sanctionView) AddAccountStatusTx(ctx context.Context, tx *sql.Tx, personID uint64, state model.AccountState, at time.Time) error {
    v.m.statuses = append(v.m.statuses, model.AccountStatus{
        ID:         v.m.id(),
        PersonID:   personID,
        State:      state,
        RecordedAt: at,
    })
    return nil
}

// BandStore

type bandView struct{ m *memStore }

func (m *memStore) bandStore() *bandView { return &bandView{m: m} }

func (v *bandView) FirstMemberTx(ctx context.Context, tx *sql.Tx, bandID uint64) (uint64, error) {
    ids := v.m.members[bandID]
    if len(ids) == 0 {
        return 0, ErrPersonNotFound
    }
    min := ids[0]
    for _, id := range ids[1:] {
        if id < min {
            min = id
        }
    }
    return min, nil
}

func (v *bandView) IsMemberTx(ctx context.Context, tx *sql.Tx, bandID, personID uint64) (bool, error) {
    for _, id := range v.m.members[bandID] {
        if id == personID {
            return true, nil
        }
    }
    return false, nil
}

// fakePublisher records published events for assertions.

type fakePublisher struct {
    mu        sync.Mutex
    requested []queue.BookingRequestedEvent
    chats     []queue.ChatOpenedEvent
}

func (f *fakePublisher) PublishBookingRequested(ctx context.Context, ev queue.BookingRequestedEvent) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.requested = append(f.requested, ev)
    return nil
}

func (f *fakePublisher) PublishChatOpened(ctx context.Context, ev queue.ChatOpenedEvent) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.chats = append(f.chats, ev)
    return nil
}
