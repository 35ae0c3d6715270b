package handler

import (
    "context"      // context with cancellation for DB calls
    "database/sql" // SQL transaction type
    "errors"       // sentinel matching
    "net/http"     // HTTP status codes
    "strings"      // string manipulation utilities
    "time"         // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/stage-slot-booking/internal/booking"
    "github.com/iliyamo/stage-slot-booking/internal/config"
    "github.com/iliyamo/stage-slot-booking/internal/model"
    "github.com/iliyamo/stage-slot-booking/internal/repository"
    "github.com/iliyamo/stage-slot-booking/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.  Registration
// seeds the person's sanction counter and initial account status in
// the same transaction as the person row.
type AuthHandler struct {
    Cfg       config.Config
    Runner    *repository.Runner
    Persons   *repository.PersonRepo
    Sanctions *repository.SanctionRepo
    Tokens    *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, runner *repository.Runner, p *repository.PersonRepo, s *repository.SanctionRepo, t *repository.TokenRepo) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Runner: runner, Persons: p, Sanctions: s, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
    Email     string `json:"email"`
    Phone     string `json:"phone"`
    Password  string `json:"password"`
    Role      string `json:"role"` // ARTIST | PROMOTER | DIRECTOR
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type personPart struct {
    ID         uint64  `json:"id"`
    Email      string  `json:"email"`
    Role       string  `json:"role"`
    Reputation float64 `json:"reputation"`
}
type authResp struct {
    Person  personPart `json:"person"`
    Access  tokenPart  `json:"access"`
    Refresh tokenPart  `json:"refresh"`
}

func claimRole(p model.Person) string {
    if p.Role == nil {
        return "" // frozen accounts carry no role claim
    }
    return string(*p.Role)
}

// Register creates a person with their sanction counter and `active`
// status, then returns a token pair immediately.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }
    role := model.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
    if !role.Valid() {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be ARTIST, PROMOTER or DIRECTOR"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p := model.Person{
        FirstName: strings.TrimSpace(req.FirstName),
        LastName:  strings.TrimSpace(req.LastName),
        Email:     req.Email,
        Phone:     strings.TrimSpace(req.Phone),
        Role:      &role,
    }
    err := h.Runner.InTx(ctx, func(tx *sql.Tx) error {
        if err := h.Persons.CreateTx(ctx, tx, &p, req.Password, h.Cfg.BcryptCost); err != nil {
            return err
        }
        return h.Sanctions.InitTx(ctx, tx, p.ID, time.Now().UTC())
    })
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create person failed"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, p.ID, string(role), h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
    }
    if err := h.Tokens.StoreRefresh(ctx, p.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
    }

    return c.JSON(http.StatusCreated, authResp{
        Person:  personPart{ID: p.ID, Email: p.Email, Role: string(role)},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
    })
}

// Login verifies credentials and returns a new token pair.  A frozen
// account can still log in, but its token carries no role, so every
// role-gated route refuses it.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p, err := h.Persons.GetByEmail(ctx, req.Email)
    if err != nil {
        if errors.Is(err, booking.ErrPersonNotFound) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !utils.VerifyPassword(p.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, p.ID, claimRole(p), h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
    }
    if err := h.Tokens.StoreRefresh(ctx, p.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
    }

    return c.JSON(http.StatusOK, authResp{
        Person:  personPart{ID: p.ID, Email: p.Email, Role: claimRole(p), Reputation: p.Reputation},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
    })
}

// Refresh validates a refresh token by hash, revokes it and issues a
// fresh pair.  The role claim is re-read from the database, so a
// freeze applied since login takes effect at the next rotation.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    personID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
    }
    _ = h.Tokens.RevokeByHash(ctx, hash)

    p, err := h.Persons.GetByID(ctx, personID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load person failed"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, personID, claimRole(p), h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }
    newRef, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
    }
    if err := h.Tokens.StoreRefresh(ctx, personID, utils.HashRefreshRaw(newRef.Raw), newRef.Exp); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
    }

    return c.JSON(http.StatusOK, authResp{
        Person:  personPart{ID: personID, Email: p.Email, Role: claimRole(p), Reputation: p.Reputation},
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: newRef.Raw, Expires: newRef.Exp},
    })
}

// Me returns the authenticated person's profile.
func (h *AuthHandler) Me(c echo.Context) error {
    personID, err := getPersonID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p, err := h.Persons.GetByID(ctx, personID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load person failed"})
    }
    return c.JSON(http.StatusOK, personPart{ID: p.ID, Email: p.Email, Role: claimRole(p), Reputation: p.Reputation})
}

// Logout revokes all refresh tokens of the authenticated person.
func (h *AuthHandler) Logout(c echo.Context) error {
    personID, err := getPersonID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Tokens.RevokeAllForPerson(ctx, personID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
