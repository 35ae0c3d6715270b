package model

import "time"

// Chat is the conversation opened between a band and a venue director
// when their booking is accepted.  Exactly one chat exists per
// accepted booking; it is created automatically by the accept
// transition.  Corresponds to a row in the `chats` table.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – booking this chat belongs to (unique).
//  OpenedAt      – when the chat was created.
//  LastMessageAt – timestamp of the most recent message, if any.
type Chat struct {
    ID            uint64     // chats.id
    BookingID     uint64     // chats.booking_id
    OpenedAt      time.Time  // chats.opened_at
    LastMessageAt *time.Time // chats.last_message_at (nullable)
}

// Message is a single entry in a chat.  Corresponds to a row in the
// `messages` table.
//
// Fields:
//  ID       – primary key identifier.
//  ChatID   – chat the message belongs to.
//  SenderID – person who sent the message.
//  Body     – message text.
//  Read     – whether the recipient has read the message.
//  SentAt   – send timestamp.
type Message struct {
    ID       uint64    // messages.id
    ChatID   uint64    // messages.chat_id
    SenderID uint64    // messages.sender_id
    Body     string    // messages.body
    Read     bool      // messages.is_read
    SentAt   time.Time // messages.sent_at
}
