package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-service/internal/utils"
)

const testSecret = "middleware-test-secret"

func runProtected(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen echo.Context
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		seen = c
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, seen
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "alice", 7, "user", 20)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec, seen := runProtected(t, "Bearer "+tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen == nil {
		t.Fatal("next handler not invoked")
	}
	if got := seen.Get("user_id"); got != uint64(7) {
		t.Errorf("user_id = %v, want 7", got)
	}
	if got := seen.Get("username"); got != "alice" {
		t.Errorf("username = %v, want alice", got)
	}
	if got := seen.Get("role"); got != "user" {
		t.Errorf("role = %v, want user", got)
	}
}

func TestJWTAuthRejects(t *testing.T) {
	expired, err := utils.NewAccessToken(testSecret, "alice", 7, "user", -1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	foreign, err := utils.NewAccessToken("another-secret", "alice", 7, "user", 20)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage":        "Bearer not-a-token",
		"expired":        "Bearer " + expired.Token,
		"wrong secret":   "Bearer " + foreign.Token,
	}
	for name, header := range cases {
		rec, seen := runProtected(t, header)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
		if seen != nil {
			t.Errorf("%s: next handler must not run", name)
		}
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	gate := RequireRole("admin")

	run := func(role interface{}) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		h := gate(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		if err := h(c); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		return rec
	}

	if rec := run("admin"); rec.Code != http.StatusOK {
		t.Errorf("admin: status = %d, want 200", rec.Code)
	}
	if rec := run("user"); rec.Code != http.StatusForbidden {
		t.Errorf("user: status = %d, want 403", rec.Code)
	}
	if rec := run(nil); rec.Code != http.StatusForbidden {
		t.Errorf("no role: status = %d, want 403", rec.Code)
	}
	if rec := run(42); rec.Code != http.StatusForbidden {
		t.Errorf("non-string role: status = %d, want 403", rec.Code)
	}
}
