package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aislescan/aislescan/internal/core/domain"
)

// memCreds is an in-memory CredentialStore for tests.
type memCreds struct {
	mu    sync.Mutex
	token string
	user  *UserSummary
}

func (m *memCreds) Token(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memCreds) SetSession(_ context.Context, token string, user UserSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.user = &user
	return nil
}

func (m *memCreds) User(context.Context) (*UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user, nil
}

func (m *memCreds) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *memCreds) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	creds := &memCreds{}
	return New(srv.URL, creds), creds
}

func TestLogin_PersistsSession(t *testing.T) {
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice@example.com", body["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"token":   "tok123",
			"user":    map[string]any{"id": 1, "email": "alice@example.com", "name": "Alice"},
		})
	})

	user, err := client.Login(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	token, err := creds.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok123", token)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	})

	_, err := client.Login(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	token, _ := creds.Token(context.Background())
	assert.Empty(t, token, "failed login must not persist anything")
}

func TestLogin_ClientSideValidation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be made")
	})

	_, err := client.Login(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestSignup_ShortPasswordRejectedLocally(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be made")
	})

	_, err := client.Signup(context.Background(), "bob@example.com", "12345", "Bob")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "user already exists"})
	})

	_, err := client.Signup(context.Background(), "bob@example.com", "secret1", "Bob")
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestAuthedCall_FailsFastWithoutToken(t *testing.T) {
	requested := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requested = true
	})

	_, err := client.GetProfile(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthenticated(err))
	assert.False(t, requested, "unauthenticated calls must never reach the network")
}

func TestGetProfile_Success(t *testing.T) {
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"profile": map[string]any{
				"allergies":            []string{"peanuts"},
				"goals":                "losing_weight",
				"dietary_restrictions": []string{},
			},
		})
	})
	require.NoError(t, creds.SetSession(context.Background(), "tok123", UserSummary{ID: 1}))

	profile, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"peanuts"}, profile.Allergies)
	assert.Equal(t, domain.GoalLosingWeight, profile.Goal)
	assert.NotNil(t, profile.DietaryRestrictions)
}

func TestUpdateProfile_SendsCamelCaseKeys(t *testing.T) {
	var rawBody map[string]json.RawMessage
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rawBody))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"profile": map[string]any{
				"allergies":            []string{},
				"goals":                "maintaining",
				"dietary_restrictions": []string{"vegan"},
			},
		})
	})
	require.NoError(t, creds.SetSession(context.Background(), "tok123", UserSummary{ID: 1}))

	got, err := client.UpdateProfile(context.Background(), domain.Profile{
		Goal:                domain.GoalMaintaining,
		DietaryRestrictions: []string{"vegan"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.GoalMaintaining, got.Goal)

	// The request uses the mobile client's camelCase key.
	assert.Contains(t, rawBody, "dietaryRestrictions")
	assert.NotContains(t, rawBody, "dietary_restrictions")
	// Lists are always present, never null.
	assert.Equal(t, "[]", string(rawBody["allergies"]))
}

func TestVerifyToken_FailClosed(t *testing.T) {
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	// No token stored: false without a request.
	assert.False(t, client.VerifyToken(context.Background()))

	// Rejected token: still false.
	require.NoError(t, creds.SetSession(context.Background(), "expired", UserSummary{ID: 1}))
	assert.False(t, client.VerifyToken(context.Background()))
}

func TestVerifyToken_Valid(t *testing.T) {
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "user": map[string]any{"id": 1}})
	})
	require.NoError(t, creds.SetSession(context.Background(), "tok123", UserSummary{ID: 1}))

	assert.True(t, client.VerifyToken(context.Background()))
}

func TestLogout_ClearsSession(t *testing.T) {
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	require.NoError(t, creds.SetSession(context.Background(), "tok123", UserSummary{ID: 1, Email: "a@b.c"}))

	require.NoError(t, client.Logout(context.Background()))

	token, _ := creds.Token(context.Background())
	assert.Empty(t, token)
	user, _ := creds.User(context.Background())
	assert.Nil(t, user)
}

func TestStatusErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusNotFound, KindNotFound},
		{http.StatusConflict, KindConflict},
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadGateway, KindServer},
	}
	client := New("http://unused", &memCreds{})
	for _, tc := range cases {
		err := client.statusError(tc.status, []byte(`{"error":"boom"}`))
		assert.Equal(t, tc.kind, err.Kind, "status %d", tc.status)
		assert.Equal(t, "boom", err.Message)
	}
}

func TestStatusError_DetailFieldFallback(t *testing.T) {
	client := New("http://unused", &memCreds{})

	err := client.statusError(http.StatusBadRequest, []byte(`{"detail":"field missing"}`))
	assert.Equal(t, "field missing", err.Message)

	err = client.statusError(http.StatusBadRequest, []byte(`not json`))
	assert.Equal(t, "invalid request", err.Message)
}

func TestNetworkErrorKind(t *testing.T) {
	// A server that is not listening.
	client := New("http://127.0.0.1:1", &memCreds{})

	_, err := client.Login(context.Background(), "a@b.c", "secret1")
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}
