package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/catalog/internal/db"
	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/hash"
	middleware "github.com/Skotchmaster/catalog/internal/middleware/auth"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/revocation"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/tokens"
)

type testEnv struct {
	E       *echo.Echo
	Auth    *AuthHTTP
	Catalog *CatalogHTTP
	Tokens  *tokens.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.NewGormRepo(gdb)
	ts := tokens.NewService([]byte("http-test-secret"), time.Hour, revocation.NewMemoryStore())

	env := &testEnv{
		E: echo.New(),
		Auth: &AuthHTTP{Svc: &service.AuthService{
			Repo:   r,
			Hasher: hash.NewHasher(bcrypt.MinCost),
			Tokens: ts,
			Events: events.NopPublisher{},
		}},
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: events.NopPublisher{}}},
		Tokens:  ts,
	}

	Register(env.E, &Deps{
		AuthHandler:    env.Auth,
		CatalogHandler: env.Catalog,
		AuthMW:         middleware.NewAuthMiddleware(ts),
		Ready:          func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})
	return env
}

// do sends a request through the full router.
func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) registerAndLogin(t *testing.T, username string) (uint, string) {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/register", map[string]string{
		"username": username,
		"email":    username + "@x.com",
		"password": "pw-" + username,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var reg struct {
		UserID uint `json:"user_id"`
	}
	decode(t, rec, &reg)

	rec = env.do(t, http.MethodPost, "/login", map[string]string{
		"username": username,
		"password": "pw-" + username,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, rec, &login)
	require.NotEmpty(t, login.AccessToken)

	return reg.UserID, login.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Message string `json:"message"`
	}
	decode(t, rec, &body)
	return body.Message
}

type productBody struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	UserID      uint      `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
