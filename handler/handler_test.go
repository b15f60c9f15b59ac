package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/codeshark-lucifer/pos-system/data/repository"
	"github.com/codeshark-lucifer/pos-system/logging/logger"
	"github.com/codeshark-lucifer/pos-system/middleware"
	securityjwt "github.com/codeshark-lucifer/pos-system/security/jwt"
	"github.com/codeshark-lucifer/pos-system/service"
	"github.com/codeshark-lucifer/pos-system/structs"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testApp runs the full HTTP surface against in-memory repositories, so the
// tests exercise routing, middleware, handlers and services together.
type testApp struct {
	router   *gin.Engine
	auth     *service.AuthService
	users    repository.UserRepository
	products repository.ProductRepository
}

func newTestApp(t *testing.T, loginLimiter ...gin.HandlerFunc) *testApp {
	t.Helper()

	log := logger.StdLogger()
	users := repository.NewMemoryUserRepository()
	products := repository.NewMemoryProductRepository()
	tokens := securityjwt.NewTokenManager("test-secret", time.Hour)

	svc := &service.Service{
		Auth:    service.NewAuthService(users, tokens, log),
		User:    service.NewUserService(users, log),
		Product: service.NewProductService(products, log),
	}

	r := gin.New()
	h := NewHandler(svc, log)
	h.RegisterRoutes(r, middleware.Authenticate(svc.Auth, log), loginLimiter...)

	return &testApp{router: r, auth: svc.Auth, users: users, products: products}
}

// registerAndLogin creates an account with the given role and returns a
// live bearer token plus the stored user.
func (a *testApp) registerAndLogin(t *testing.T, email string, role structs.Role) (string, *structs.User) {
	t.Helper()
	ctx := context.Background()

	user, err := a.auth.Register(ctx, "Test", email, "password1")
	require.NoError(t, err)
	if role != structs.RoleUser {
		_, err = a.users.Update(ctx, user.ID.Hex(), repository.UserUpdate{Role: &role})
		require.NoError(t, err)
	}

	result, err := a.auth.Login(ctx, email, "password1")
	require.NoError(t, err)
	return result.Token, result.User
}

func (a *testApp) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) map[string]any {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
	return decodeBody(t, w)
}
