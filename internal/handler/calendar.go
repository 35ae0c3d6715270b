package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stage-slot-booking/internal/booking"
    "github.com/iliyamo/stage-slot-booking/internal/model"
    "github.com/iliyamo/stage-slot-booking/internal/repository"
)

// CalendarHandler exposes venue and calendar management for directors.
type CalendarHandler struct {
    Calendars *booking.CalendarService
    CalRepo   *repository.CalendarRepo
    Venues    *repository.VenueRepo
}

func NewCalendarHandler(svc *booking.CalendarService, calRepo *repository.CalendarRepo, venues *repository.VenueRepo) *CalendarHandler {
    return &CalendarHandler{Calendars: svc, CalRepo: calRepo, Venues: venues}
}

type createVenueReq struct {
    Name     string `json:"name"`
    Email    string `json:"email"`
    Phone    string `json:"phone"`
    HallType string `json:"hall_type"`
    Capacity uint32 `json:"capacity"`
}

// CreateVenue registers a venue under the authenticated director.
func (h *CalendarHandler) CreateVenue(c echo.Context) error {
    directorID, err := getPersonID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    var req createVenueReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    v := model.Venue{
        Name:       req.Name,
        Email:      strings.TrimSpace(req.Email),
        Phone:      strings.TrimSpace(req.Phone),
        HallType:   strings.TrimSpace(req.HallType),
        Capacity:   req.Capacity,
        DirectorID: directorID,
    }
    if err := h.Venues.Create(ctx, &v); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create venue failed"})
    }
    return c.JSON(http.StatusCreated, v)
}

type createCalendarReq struct {
    VenueID   uint64    `json:"venue_id"`
    Date      time.Time `json:"date"`
    OpensAt   time.Time `json:"opens_at"`
    ClosesAt  time.Time `json:"closes_at"`
    SlotCount int       `json:"slot_count"`
}

// CreateCalendar creates a calendar day for one of the director's
// venues and generates its slot grid.
func (h *CalendarHandler) CreateCalendar(c echo.Context) error {
    directorID, err := getPersonID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    var req createCalendarReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    owns, err := h.Venues.IsDirector(ctx, req.VenueID, directorID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !owns {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not the venue director"})
    }

    cal, err := h.Calendars.CreateCalendar(ctx, booking.CreateCalendarInput{
        VenueID:   req.VenueID,
        Date:      req.Date,
        OpensAt:   req.OpensAt,
        ClosesAt:  req.ClosesAt,
        SlotCount: req.SlotCount,
    })
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusCreated, cal)
}

// GetCalendar returns a calendar with its slots.
func (h *CalendarHandler) GetCalendar(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid calendar id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cal, err := h.CalRepo.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "calendar not found"})
    }
    return c.JSON(http.StatusOK, cal)
}
