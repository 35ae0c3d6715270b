package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stage-slot-booking/internal/model"
    "github.com/iliyamo/stage-slot-booking/internal/repository"
)

// BandHandler exposes band creation and roster reads for artists and
// promoters.
type BandHandler struct {
    Bands *repository.BandRepo
}

func NewBandHandler(bands *repository.BandRepo) *BandHandler {
    return &BandHandler{Bands: bands}
}

type createBandReq struct {
    Name       string   `json:"name"`
    FeeCents   uint32   `json:"fee_cents"`
    Negotiable bool     `json:"negotiable"`
    Category   string   `json:"category"`
    MemberIDs  []uint64 `json:"member_ids"`
}

// Create registers a band.  The caller is always part of the roster,
// whether or not they listed themselves.
func (h *BandHandler) Create(c echo.Context) error {
    personID, err := getPersonID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    var req createBandReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }

    members := req.MemberIDs
    found := false
    for _, id := range members {
        if id == personID {
            found = true
            break
        }
    }
    if !found {
        members = append(members, personID)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    b := model.Band{
        Name:       req.Name,
        FeeCents:   req.FeeCents,
        Negotiable: req.Negotiable,
        Category:   strings.TrimSpace(req.Category),
    }
    if err := h.Bands.Create(ctx, &b, members); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create band failed"})
    }
    return c.JSON(http.StatusCreated, b)
}

// ListMine returns the bands the caller plays in.
func (h *BandHandler) ListMine(c echo.Context) error {
    personID, err := getPersonID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    out, err := h.Bands.ListForPerson(ctx, personID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bands": out})
}
