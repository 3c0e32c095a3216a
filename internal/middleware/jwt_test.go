package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/utils"
)

const testSecret = "unit-test-secret"

func request(t *testing.T, mw echo.MiddlewareFunc, token string) (*httptest.ResponseRecorder, echo.Context) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    if token != "" {
        req.Header.Set("Authorization", "Bearer "+token)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    var inner echo.Context
    err := mw(func(c echo.Context) error {
        inner = c
        return c.NoContent(http.StatusOK)
    })(c)
    require.NoError(t, err)
    return rec, inner
}

func TestJWTAuth(t *testing.T) {
    at, err := utils.NewAccessToken(testSecret, 7, "user", 5)
    require.NoError(t, err)

    rec, c := request(t, JWTAuth(testSecret), at.Token)
    require.Equal(t, http.StatusOK, rec.Code)
    id, ok := UserID(c)
    assert.True(t, ok)
    assert.Equal(t, uint64(7), id)
    assert.Equal(t, "user", Role(c))
    assert.False(t, IsAdmin(c))
}

func TestJWTAuthRejects(t *testing.T) {
    rec, _ := request(t, JWTAuth(testSecret), "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    rec, _ = request(t, JWTAuth(testSecret), "not-a-jwt")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    // Token signed with a different secret.
    at, err := utils.NewAccessToken("other-secret", 7, "user", 5)
    require.NoError(t, err)
    rec, _ = request(t, JWTAuth(testSecret), at.Token)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    // Expired token.
    at, err = utils.NewAccessToken(testSecret, 7, "user", -5)
    require.NoError(t, err)
    rec, _ = request(t, JWTAuth(testSecret), at.Token)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuth(t *testing.T) {
    // Guests pass straight through without an identity.
    rec, c := request(t, OptionalAuth(testSecret), "")
    require.Equal(t, http.StatusOK, rec.Code)
    _, ok := UserID(c)
    assert.False(t, ok)
    assert.Equal(t, "guest", rateIdentity(c))

    // A valid token still attaches the caller.
    at, err := utils.NewAccessToken(testSecret, 9, "admin", 5)
    require.NoError(t, err)
    rec, c = request(t, OptionalAuth(testSecret), at.Token)
    require.Equal(t, http.StatusOK, rec.Code)
    id, ok := UserID(c)
    assert.True(t, ok)
    assert.Equal(t, uint64(9), id)
    assert.Equal(t, "9", rateIdentity(c))
}

func TestRequireAdmin(t *testing.T) {
    admin, err := utils.NewAccessToken(testSecret, 1, "admin", 5)
    require.NoError(t, err)
    member, err := utils.NewAccessToken(testSecret, 2, "user", 5)
    require.NoError(t, err)

    chain := func(next echo.HandlerFunc) echo.HandlerFunc {
        return JWTAuth(testSecret)(RequireAdmin()(next))
    }

    rec, _ := request(t, chain, admin.Token)
    assert.Equal(t, http.StatusOK, rec.Code)

    rec, _ = request(t, chain, member.Token)
    assert.Equal(t, http.StatusForbidden, rec.Code)
}
