package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/config"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/repository"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Cfg    config.Config
    Users  *repository.UserRepo
    Tokens *repository.TokenRepo
    Carts  *repository.CartRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, carts *repository.CartRepo) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Carts: carts}
}

// ----- DTOs -----

type registerReq struct {
    Name     string `json:"name"`
    Email    string `json:"email"`
    Password string `json:"password"`
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
    // SessionID carries an anonymous browsing session so its cart can be
    // merged into the account on login.
    SessionID string `json:"session_id"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}
type logoutReq struct {
    RefreshToken string `json:"refresh_token"`
    // All revokes every refresh token the account holds, logging the
    // member out of all devices.
    All bool `json:"all"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type userPart struct {
    ID        uint64  `json:"id"`
    Name      string  `json:"name"`
    Email     string  `json:"email"`
    Role      string  `json:"role"`
    AvatarURL *string `json:"avatar_url,omitempty"`
}
type authResp struct {
    User    userPart  `json:"user"`
    Access  tokenPart `json:"access"`
    Refresh tokenPart `json:"refresh"`
}

func roleOf(u model.User) string {
    if u.IsAdmin {
        return "admin"
    }
    return "user"
}

func toUserPart(u model.User) userPart {
    return userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: roleOf(u), AvatarURL: u.AvatarURL}
}

// issueTokens mints the access/refresh pair for a user and persists the
// refresh token hash.
func (h *AuthHandler) issueTokens(c echo.Context, u model.User) (authResp, error) {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, roleOf(u), h.Cfg.AccessTTLMin)
    if err != nil {
        return authResp{}, err
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return authResp{}, err
    }
    if err := h.Tokens.StoreRefresh(c.Request().Context(), u.ID,
        utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return authResp{}, err
    }
    return authResp{
        User:    toUserPart(u),
        Access:  tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
    }, nil
}

// Register handles POST /api/auth/register.  New accounts are always
// regular members; admins are seeded out of band.
func (h *AuthHandler) Register(c echo.Context) error {
    var body registerReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    body.Name = strings.TrimSpace(body.Name)
    body.Email = strings.TrimSpace(body.Email)
    if body.Name == "" || body.Email == "" || len(body.Password) < 8 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and a password of at least 8 characters are required"})
    }
    ctx := c.Request().Context()
    id, err := h.Users.Create(ctx, body.Name, body.Email, body.Password, h.Cfg.BcryptCost)
    if err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
    }
    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }
    resp, err := h.issueTokens(c, u)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
    }
    return c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.  A guest session id in the body gets
// its cart merged into the account.
func (h *AuthHandler) Login(c echo.Context) error {
    var body loginReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if body.Email == "" || body.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }
    ctx := c.Request().Context()
    u, err := h.Users.GetByEmail(ctx, body.Email)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !utils.VerifyPassword(u.PasswordHash, body.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }
    if body.SessionID != "" {
        // Merge failure should not block login.
        if err := h.Carts.Merge(ctx, body.SessionID, u.ID); err != nil {
            c.Logger().Warnf("cart merge failed for user %d: %v", u.ID, err)
        }
    }
    resp, err := h.issueTokens(c, u)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
    }
    return c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /api/auth/refresh.  The presented refresh token is
// rotated: validated, revoked, and replaced alongside a fresh access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var body refreshReq
    if err := c.Bind(&body); err != nil || body.RefreshToken == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }
    ctx := c.Request().Context()
    hash := utils.HashRefreshRaw(body.RefreshToken)
    userID, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
    }
    if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
    }
    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }
    resp, err := h.issueTokens(c, u)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
    }
    return c.JSON(http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout.  It revokes the presented refresh
// token; the short-lived access token simply expires.
func (h *AuthHandler) Logout(c echo.Context) error {
    var body logoutReq
    if err := c.Bind(&body); err != nil || body.RefreshToken == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
    }
    ctx := c.Request().Context()
    hash := utils.HashRefreshRaw(body.RefreshToken)
    if body.All {
        // The presented token must still be valid to revoke the rest.
        userID, err := h.Tokens.ValidateRefresh(ctx, hash)
        if err != nil {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
        }
        if err := h.Tokens.RevokeAllForUser(ctx, userID); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
        }
        return c.JSON(http.StatusOK, echo.Map{"message": "logged out everywhere"})
    }
    if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me handles GET /api/auth/me for the authenticated member.
func (h *AuthHandler) Me(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    u, err := h.Users.GetByID(c.Request().Context(), userID)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}
