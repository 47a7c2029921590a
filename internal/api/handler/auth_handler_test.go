package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/aislescan/aislescan/internal/core/domain"
)

type stubAuthService struct {
	signupFn func(ctx context.Context, email, password, name string) (string, *domain.User, error)
	loginFn  func(ctx context.Context, email, password string) (string, *domain.User, error)
	verifyFn func(ctx context.Context, userID int64) (*domain.User, error)
}

func (s *stubAuthService) Signup(ctx context.Context, email, password, name string) (string, *domain.User, error) {
	return s.signupFn(ctx, email, password, name)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) VerifyUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.verifyFn(ctx, userID)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, email, password, name string) (string, *domain.User, error) {
			if email != "alice@example.com" || name != "Alice" {
				t.Fatalf("unexpected args: %s %s", email, name)
			}
			return "tok123", &domain.User{ID: 1, Email: email, Name: name}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/signup",
		`{"email":"alice@example.com","password":"secret1","name":"Alice"}`)

	if err := handler.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success=true: %+v", resp)
	}
	if resp["token"] != "tok123" {
		t.Fatalf("expected token in response: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must never appear in responses")
	}
}

func TestAuthHandler_Signup_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, email, password, name string) (string, *domain.User, error) {
			return "", nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/signup",
		`{"email":"bob@example.com","password":"secret1","name":"Bob"}`)

	_ = handler.Signup(c)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Signup_Validation(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		signupFn: func(ctx context.Context, email, password, name string) (string, *domain.User, error) {
			t.Fatalf("service must not be called on invalid input")
			return "", nil, nil
		},
	})

	cases := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"not-an-email","password":"secret1","name":"Bob"}`},
		{"short password", `{"email":"bob@example.com","password":"12345","name":"Bob"}`},
		{"missing name", `{"email":"bob@example.com","password":"secret1"}`},
	}
	for _, tc := range cases {
		c, rec := newJSONContext(e, http.MethodPost, "/api/auth/signup", tc.body)
		_ = handler.Signup(c)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "tok456", &domain.User{ID: 2, Email: email}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(e, http.MethodPost, "/api/auth/login",
		`{"email":"carol@example.com","password":"s3cret"}`)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "tok456") {
		t.Fatalf("expected token in body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_FailureIsUniform(t *testing.T) {
	e := newTestEcho()

	// Wrong password and unknown account must be indistinguishable.
	for _, svcErr := range []error{domain.ErrInvalidCredentials, domain.ErrUserNotFound} {
		errCopy := svcErr
		handler := NewAuthHandler(&stubAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
				return "", nil, errCopy
			},
		})

		c, rec := newJSONContext(e, http.MethodPost, "/api/auth/login",
			`{"email":"x@example.com","password":"whatever"}`)
		_ = handler.Login(c)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%v: expected 401, got %d", svcErr, rec.Code)
		}
		var resp map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp["error"] != "invalid credentials" {
			t.Fatalf("%v: body must not reveal account existence: %+v", svcErr, resp)
		}
	}
}

func TestAuthHandler_Verify_Success(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		verifyFn: func(ctx context.Context, userID int64) (*domain.User, error) {
			if userID != 7 {
				t.Fatalf("unexpected user id: %d", userID)
			}
			return &domain.User{ID: 7, Email: "erin@example.com"}, nil
		},
	})

	c, rec := newJSONContext(e, http.MethodGet, "/api/auth/verify", "")
	c.Set("user_id", int64(7))

	if err := handler.Verify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Verify_DeletedUser(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{
		verifyFn: func(ctx context.Context, userID int64) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	})

	c, rec := newJSONContext(e, http.MethodGet, "/api/auth/verify", "")
	c.Set("user_id", int64(9))

	_ = handler.Verify(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
