package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/stage-slot-booking/internal/model"
)

// ErrChatNotFound is returned when a chat lookup yields no rows.
var ErrChatNotFound = errors.New("chat not found")

// ChatRepo encapsulates database operations for chats and their
// messages.  A chat is created by the engine when a booking is
// accepted; messages flow through the HTTP layer afterwards.
type ChatRepo struct{ DB *sql.DB }

// NewChatRepo constructs a ChatRepo with the given DB handle.
func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{DB: db} }

// ExistsForBookingTx reports whether the booking already has a chat.
func (r *ChatRepo) ExistsForBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (bool, error) {
    var one int
    err := tx.QueryRowContext(ctx,
        `SELECT 1 FROM chats WHERE booking_id = ? LIMIT 1`, bookingID).Scan(&one)
    if errors.Is(err, sql.ErrNoRows) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// CreateTx inserts a chat row within an existing transaction.  On
// success the chat's ID is populated.
func (r *ChatRepo) CreateTx(ctx context.Context, tx *sql.Tx, chat *model.Chat) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO chats (booking_id, opened_at) VALUES (?, ?)`,
        chat.BookingID, chat.OpenedAt)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    chat.ID = uint64(id)
    return nil
}

// GetByBooking returns the chat attached to a booking.
func (r *ChatRepo) GetByBooking(ctx context.Context, bookingID uint64) (model.Chat, error) {
    var (
        c    model.Chat
        last sql.NullTime
    )
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, booking_id, opened_at, last_message_at FROM chats WHERE booking_id = ? LIMIT 1`,
        bookingID).Scan(&c.ID, &c.BookingID, &c.OpenedAt, &last)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Chat{}, ErrChatNotFound
    }
    if err != nil {
        return model.Chat{}, err
    }
    if last.Valid {
        c.LastMessageAt = &last.Time
    }
    return c, nil
}

// AddMessage appends a message to a chat and bumps last_message_at.
func (r *ChatRepo) AddMessage(ctx context.Context, m *model.Message) error {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO messages (chat_id, sender_id, body, sent_at) VALUES (?, ?, ?, ?)`,
        m.ChatID, m.SenderID, m.Body, m.SentAt)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    m.ID = uint64(id)
    _, err = r.DB.ExecContext(ctx,
        `UPDATE chats SET last_message_at = ? WHERE id = ?`, m.SentAt, m.ChatID)
    return err
}

// ListMessages returns a chat's messages oldest first.
func (r *ChatRepo) ListMessages(ctx context.Context, chatID uint64) ([]model.Message, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, chat_id, sender_id, body, is_read, sent_at
         FROM messages WHERE chat_id = ? ORDER BY id`, chatID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Message
    for rows.Next() {
        var m model.Message
        if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Body, &m.Read, &m.SentAt); err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    return out, rows.Err()
}

// MarkRead flags every message in the chat not sent by the reader.
func (r *ChatRepo) MarkRead(ctx context.Context, chatID, readerID uint64) error {
    _, err := r.DB.ExecContext(ctx,
        `UPDATE messages SET is_read = TRUE WHERE chat_id = ? AND sender_id <> ? AND is_read = FALSE`,
        chatID, readerID)
    return err
}
