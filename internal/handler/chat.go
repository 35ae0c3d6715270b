package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stage-slot-booking/internal/model"
    "github.com/iliyamo/stage-slot-booking/internal/repository"
)

// ChatHandler exposes the chat opened for each accepted booking.  Only
// the two parties of the booking can read or write it.
type ChatHandler struct {
    Chats    *repository.ChatRepo
    Bookings *repository.BookingRepo
}

func NewChatHandler(chats *repository.ChatRepo, bookings *repository.BookingRepo) *ChatHandler {
    return &ChatHandler{Chats: chats, Bookings: bookings}
}

// guard loads the chat for the booking in the path and verifies the
// caller is a participant.  Failures come back as *echo.HTTPError so
// handlers can return them directly.
func (h *ChatHandler) guard(ctx context.Context, c echo.Context) (model.Chat, uint64, error) {
    personID, err := getPersonID(c)
    if err != nil {
        return model.Chat{}, 0, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
    }
    bookingID, ok := pathID(c, "id")
    if !ok {
        return model.Chat{}, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
    }
    part, err := h.Bookings.IsParticipant(ctx, bookingID, personID)
    if err != nil {
        return model.Chat{}, 0, echo.NewHTTPError(http.StatusInternalServerError, "query failed")
    }
    if !part {
        return model.Chat{}, 0, echo.NewHTTPError(http.StatusForbidden, "not a participant")
    }
    chat, err := h.Chats.GetByBooking(ctx, bookingID)
    if err != nil {
        if errors.Is(err, repository.ErrChatNotFound) {
            return model.Chat{}, 0, echo.NewHTTPError(http.StatusNotFound, "chat not found")
        }
        return model.Chat{}, 0, echo.NewHTTPError(http.StatusInternalServerError, "query failed")
    }
    return chat, personID, nil
}

// Get returns the chat for a booking.
func (h *ChatHandler) Get(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    chat, _, err := h.guard(ctx, c)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, chat)
}

type postMessageReq struct {
    Body string `json:"body"`
}

// PostMessage appends a message to the booking's chat.
func (h *ChatHandler) PostMessage(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    chat, personID, err := h.guard(ctx, c)
    if err != nil {
        return err
    }
    var req postMessageReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Body = strings.TrimSpace(req.Body)
    if req.Body == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "message body required"})
    }

    m := model.Message{
        ChatID:   chat.ID,
        SenderID: personID,
        Body:     req.Body,
        SentAt:   time.Now().UTC(),
    }
    if err := h.Chats.AddMessage(ctx, &m); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
    }
    return c.JSON(http.StatusCreated, m)
}

// ListMessages returns the chat's messages oldest first and marks the
// other side's messages as read.
func (h *ChatHandler) ListMessages(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    chat, personID, err := h.guard(ctx, c)
    if err != nil {
        return err
    }
    msgs, err := h.Chats.ListMessages(ctx, chat.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    _ = h.Chats.MarkRead(ctx, chat.ID, personID)
    return c.JSON(http.StatusOK, echo.Map{"chat_id": chat.ID, "messages": msgs})
}
