// This file defines handlers for the public browsing API.  These
// routes let unauthenticated visitors browse venues, their calendars
// and slot availability.  Sensitive fields (director IDs, contact
// emails) are filtered from responses.

package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stage-slot-booking/internal/model"
    "github.com/iliyamo/stage-slot-booking/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing.  It produces sanitized responses suitable for public
// consumption.
type PublicHandler struct {
    Venues    *repository.VenueRepo    // provides access to venue data
    Calendars *repository.CalendarRepo // provides access to calendar and slot data
}

func NewPublicHandler(venues *repository.VenueRepo, calendars *repository.CalendarRepo) *PublicHandler {
    return &PublicHandler{Venues: venues, Calendars: calendars}
}

// PublicVenue represents a venue exposed via the public API.  It
// contains only safe fields.
type PublicVenue struct {
    ID       uint64 `json:"id"`
    Name     string `json:"name"`
    HallType string `json:"hall_type"`
    Capacity uint32 `json:"capacity"`
}

// PublicSlot represents a slot in list responses.
type PublicSlot struct {
    ID       uint64           `json:"id"`
    StartsAt time.Time        `json:"starts_at"`
    EndsAt   time.Time        `json:"ends_at"`
    Status   model.SlotStatus `json:"status"`
}

// ListVenues returns all venues.
func (h *PublicHandler) ListVenues(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    venues, err := h.Venues.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]PublicVenue, 0, len(venues))
    for _, v := range venues {
        out = append(out, PublicVenue{ID: v.ID, Name: v.Name, HallType: v.HallType, Capacity: v.Capacity})
    }
    return c.JSON(http.StatusOK, echo.Map{"venues": out})
}

// ListCalendars returns the calendars of a venue.
func (h *PublicHandler) ListCalendars(c echo.Context) error {
    venueID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Venues.GetByID(ctx, venueID); err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
    }
    cals, err := h.Calendars.ListByVenue(ctx, venueID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"calendars": cals})
}

// ListSlots returns the slots of a calendar with their occupancy.
// Occupancy shown here may lag behind admission by the cache TTL; the
// booking request path checks the live row.
func (h *PublicHandler) ListSlots(c echo.Context) error {
    calendarID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid calendar id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    slots, err := h.Calendars.ListSlots(ctx, calendarID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]PublicSlot, 0, len(slots))
    for _, s := range slots {
        out = append(out, PublicSlot{ID: s.ID, StartsAt: s.StartsAt, EndsAt: s.EndsAt, Status: s.Status})
    }
    return c.JSON(http.StatusOK, echo.Map{"slots": out})
}
