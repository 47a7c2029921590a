package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aislescan/aislescan/internal/core/token"
)

const testSecret = "test-secret"

func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	err := Auth(testSecret)(next)(c)
	return rec, err
}

func TestAuth_ValidToken(t *testing.T) {
	tok, err := token.Generate(7, []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID int64
	next := func(c echo.Context) error {
		gotUserID, _ = c.Get("user_id").(int64)
		return c.String(http.StatusOK, "ok")
	}
	if err := Auth(testSecret)(next)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if gotUserID != 7 {
		t.Fatalf("expected user id 7 in context, got %d", gotUserID)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, err := runAuth(t, "")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	for _, header := range []string{"Basic abc123", "Bearer", "just-a-token"} {
		_, err := runAuth(t, header)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %v", header, err)
		}
	}
}

func TestAuth_WrongSecret(t *testing.T) {
	tok, err := token.Generate(7, []byte("other-secret"), time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	_, mwErr := runAuth(t, "Bearer "+tok)
	he, ok := mwErr.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %v", mwErr)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	tok, err := token.Generate(7, []byte(testSecret), -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	_, mwErr := runAuth(t, "Bearer "+tok)
	he, ok := mwErr.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %v", mwErr)
	}
}

func TestAuth_CaseInsensitiveScheme(t *testing.T) {
	tok, err := token.Generate(3, []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	rec, mwErr := runAuth(t, "bearer "+tok)
	if mwErr != nil {
		t.Fatalf("lowercase scheme should be accepted: %v", mwErr)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
