package handler // handler defines http handlers

import (
    "errors"   // errors provides sentinel matching for status mapping
    "net/http" // net/http provides status codes
    "strconv"  // strconv converts strings to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types

    "github.com/iliyamo/stage-slot-booking/internal/booking" // booking holds the lifecycle engine and its sentinels
)

// getPersonID extracts the person_id claim from echo.Context and
// converts it to uint64.  JWTAuth stores it as whatever type the JWT
// library decoded, usually float64.
func getPersonID(c echo.Context) (uint64, error) {
    v := c.Get("person_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid person_id in context")
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
    n, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || n == 0 {
        return 0, false
    }
    return n, true
}

// engineError maps the engine's sentinel errors onto HTTP responses:
// missing resources give 404, admission, state and duplicate conflicts 409,
// authorization failures 403 and everything invalid about the request
// itself 400.  Unknown errors fall through as 500 without leaking the
// internal message.
func engineError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, booking.ErrSlotNotFound),
        errors.Is(err, booking.ErrBookingNotFound),
        errors.Is(err, booking.ErrPersonNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrSlotTaken),
        errors.Is(err, booking.ErrAlreadyHandled),
        errors.Is(err, booking.ErrDuplicateReview):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrNotDirector),
        errors.Is(err, booking.ErrNotBandMember):
        return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrNotEligible),
        errors.Is(err, booking.ErrInvalidRange),
        errors.Is(err, booking.ErrReasonRequired),
        errors.Is(err, booking.ErrInvalidInitiator),
        errors.Is(err, booking.ErrScoreOutOfRange),
        errors.Is(err, booking.ErrSelfReview):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
