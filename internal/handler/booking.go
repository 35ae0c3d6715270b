package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stage-slot-booking/internal/booking"
    "github.com/iliyamo/stage-slot-booking/internal/model"
    "github.com/iliyamo/stage-slot-booking/internal/repository"
)

// BookingHandler exposes the booking lifecycle: bands request slots,
// directors answer, either side can look at their own bookings.
type BookingHandler struct {
    Bookings *booking.BookingService
    Repo     *repository.BookingRepo
    Bands    *repository.BandRepo
}

func NewBookingHandler(svc *booking.BookingService, repo *repository.BookingRepo, bands *repository.BandRepo) *BookingHandler {
    return &BookingHandler{Bookings: svc, Repo: repo, Bands: bands}
}

type requestBookingReq struct {
    BandID  uint64 `json:"band_id"`
    Message string `json:"message"`
}

type reasonReq struct {
    Reason string `json:"reason"`
}

// Request files a booking for the slot in the path on behalf of one of
// the caller's bands.  The caller's role decides who is responsible if
// the request later times out.
func (h *BookingHandler) Request(c echo.Context) error {
    personID, err := getPersonID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    slotID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
    }
    var req requestBookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    role, _ := c.Get("role").(string)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    member, err := h.Bands.IsMember(ctx, req.BandID, personID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !member {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not a member of this band"})
    }

    b, err := h.Bookings.RequestBooking(ctx, booking.RequestBookingInput{
        SlotID:      slotID,
        BandID:      req.BandID,
        InitiatedBy: model.Role(role),
        Message:     req.Message,
    })
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusCreated, b)
}

// Accept confirms a pending booking as the managing director.
func (h *BookingHandler) Accept(c echo.Context) error {
    personID, err := getPersonID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    bookingID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    b, err := h.Bookings.Accept(ctx, bookingID, personID)
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, b)
}

// Reject declines a pending booking as the managing director.  The
// body must carry a reason.
func (h *BookingHandler) Reject(c echo.Context) error {
    personID, err := getPersonID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    bookingID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var req reasonReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    b, err := h.Bookings.Reject(ctx, bookingID, personID, req.Reason)
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, b)
}

// Cancel withdraws a pending booking as a member of the requesting
// band.  The body must carry a reason.
func (h *BookingHandler) Cancel(c echo.Context) error {
    personID, err := getPersonID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    bookingID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var req reasonReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    b, err := h.Bookings.Cancel(ctx, bookingID, personID, req.Reason)
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, b)
}

// ListMine returns bookings visible to the caller: requests from their
// bands plus requests against venues they direct.
func (h *BookingHandler) ListMine(c echo.Context) error {
    personID, err := getPersonID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    out, err := h.Repo.ListForPerson(ctx, personID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Get returns a single booking to one of its participants.
func (h *BookingHandler) Get(c echo.Context) error {
    personID, err := getPersonID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    bookingID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    b, err := h.Repo.GetByID(ctx, bookingID)
    if err != nil {
        return engineError(c, err)
    }
    part, err := h.Repo.IsParticipant(ctx, bookingID, personID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !part {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
    }
    return c.JSON(http.StatusOK, b)
}
