package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stage-slot-booking/internal/booking"
    "github.com/iliyamo/stage-slot-booking/internal/repository"
)

// ReviewHandler exposes post-booking reviews and reputation reads.
type ReviewHandler struct {
    Reviews *booking.ReviewService
    Repo    *repository.ReviewRepo
    Persons *repository.PersonRepo
}

func NewReviewHandler(svc *booking.ReviewService, repo *repository.ReviewRepo, persons *repository.PersonRepo) *ReviewHandler {
    return &ReviewHandler{Reviews: svc, Repo: repo, Persons: persons}
}

type createReviewReq struct {
    RecipientID uint64 `json:"recipient_id"`
    Description string `json:"description"`
    Score       int    `json:"score"`
}

// Create files a review with a score against the booking in the path.
func (h *ReviewHandler) Create(c echo.Context) error {
    personID, err := getPersonID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }
    bookingID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var req createReviewReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    r, err := h.Reviews.RecordReview(ctx, booking.RecordReviewInput{
        BookingID:   bookingID,
        AuthorID:    personID,
        RecipientID: req.RecipientID,
        Description: req.Description,
        Score:       req.Score,
    })
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusCreated, r)
}

type reviewPart struct {
    ID          uint64    `json:"id"`
    BookingID   uint64    `json:"booking_id"`
    AuthorID    uint64    `json:"author_id"`
    Description string    `json:"description"`
    Score       int       `json:"score"`
    CreatedAt   time.Time `json:"created_at"`
}

// ListForPerson returns the reviews addressed to a person together
// with their current reputation.
func (h *ReviewHandler) ListForPerson(c echo.Context) error {
    personID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid person id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p, err := h.Persons.GetByID(ctx, personID)
    if err != nil {
        return engineError(c, err)
    }
    reviews, scores, err := h.Repo.ListForRecipient(ctx, personID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]reviewPart, 0, len(reviews))
    for i, r := range reviews {
        out = append(out, reviewPart{
            ID:          r.ID,
            BookingID:   r.BookingID,
            AuthorID:    r.AuthorID,
            Description: r.Description,
            Score:       scores[i],
            CreatedAt:   r.CreatedAt,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "person_id":  p.ID,
        "reputation": p.Reputation,
        "reviews":    out,
    })
}
