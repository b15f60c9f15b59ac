package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeshark-lucifer/pos-system/data/repository"
	"github.com/codeshark-lucifer/pos-system/logging/logger"
	securityjwt "github.com/codeshark-lucifer/pos-system/security/jwt"
	"github.com/codeshark-lucifer/pos-system/service"
	"github.com/codeshark-lucifer/pos-system/structs"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	auth   *service.AuthService
	router *gin.Engine
	token  string
	admin  string
}

// newAuthFixture builds a router with a protected and an admin-only route
// backed by a real auth service over the in-memory store, plus one logged-in
// regular user and one logged-in admin.
func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	ctx := context.Background()

	users := repository.NewMemoryUserRepository()
	tokens := securityjwt.NewTokenManager("test-secret", time.Hour)
	auth := service.NewAuthService(users, tokens, logger.StdLogger())

	_, err := auth.Register(ctx, "User", "user@x.com", "password1")
	require.NoError(t, err)
	userLogin, err := auth.Login(ctx, "user@x.com", "password1")
	require.NoError(t, err)

	admin, err := auth.Register(ctx, "Admin", "admin@x.com", "password1")
	require.NoError(t, err)
	role := structs.RoleAdmin
	_, err = users.Update(ctx, admin.ID.Hex(), repository.UserUpdate{Role: &role})
	require.NoError(t, err)
	adminLogin, err := auth.Login(ctx, "admin@x.com", "password1")
	require.NoError(t, err)

	r := gin.New()
	authn := Authenticate(auth, logger.StdLogger())
	r.GET("/protected", authn, func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		require.True(t, ok)
		token, ok := GetToken(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": principal.Email, "token": token})
	})
	r.GET("/admin", authn, RequireRole(structs.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/unguarded-admin", RequireRole(structs.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return &authFixture{auth: auth, router: r, token: userLogin.Token, admin: adminLogin.Token}
}

func (f *authFixture) get(path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestAuthenticate_ValidToken(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	w := f.get("/protected", "Bearer "+f.token)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Email string `json:"email"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user@x.com", body.Email)
	assert.Equal(t, f.token, body.Token, "the exact token is exposed to handlers")
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	w := f.get("/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "missing authorization header", decodeMessage(t, w))
}

func TestAuthenticate_RejectedTokens(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	// A token signed with a different key.
	foreign, err := securityjwt.NewTokenManager("other-secret").Issue("000000000000000000000000", "x@x.com", "user")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong signing key", "Bearer " + foreign},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.get("/protected", tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			// One generic message for every token failure.
			assert.Equal(t, "invalid or expired token", decodeMessage(t, w))
		})
	}
}

func TestAuthenticate_RevokedToken(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	ctx := context.Background()

	user, token, err := f.auth.Authenticate(ctx, "Bearer "+f.token)
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, user, token))

	w := f.get("/protected", "Bearer "+f.token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid or expired token", decodeMessage(t, w))
}

func TestRequireRole(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	w := f.get("/admin", "Bearer "+f.admin)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.get("/admin", "Bearer "+f.token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "insufficient permissions", decodeMessage(t, w))
}

func TestRequireRole_NoPrincipal(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	// RequireRole without Authenticate in front answers 401, not 403.
	w := f.get("/unguarded-admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "not authenticated", decodeMessage(t, w))
}

func TestGetPrincipal_Unset(t *testing.T) {
	t.Parallel()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetPrincipal(c)
	assert.False(t, ok)
	_, ok = GetToken(c)
	assert.False(t, ok)
}
