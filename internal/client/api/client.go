// Package api implements the HTTP client for the Aisle Scan backend:
// authentication, profile synchronization, and scan persistence. Every
// operation returns either its value or a single *Error classifying the
// failure; nothing in this package retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aislescan/aislescan/internal/core/domain"
)

// UserSummary is the minimal identity the backend returns with a token.
type UserSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CredentialStore holds the opaque bearer token and the user summary
// between runs. The client never inspects token internals.
type CredentialStore interface {
	Token(ctx context.Context) (string, error)
	SetSession(ctx context.Context, token string, user UserSummary) error
	User(ctx context.Context) (*UserSummary, error)
	Clear(ctx context.Context) error
}

// Client talks to the Aisle Scan backend over REST.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialStore
}

// New creates a Client for the backend at baseURL, reading tokens from creds.
func New(baseURL string, creds CredentialStore) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		creds:   creds,
	}
}

// errorBody is the conventional error envelope. The backend uses "error";
// older deployments used "detail" — check both.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func (b errorBody) message(fallback string) string {
	if b.Error != "" {
		return b.Error
	}
	if b.Detail != "" {
		return b.Detail
	}
	return fallback
}

// do issues a request and decodes a successful JSON response into out.
// Non-2xx responses are normalized into *Error with the body's message.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	return c.doWithHeaders(ctx, method, path, token, nil, body, out)
}

func (c *Client) doWithHeaders(ctx context.Context, method, path, token string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return WrapError(KindValidation, err, "encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return WrapError(KindNetwork, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return WrapError(KindNetwork, err, "request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return WrapError(KindNetwork, err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return WrapError(KindServer, err, "malformed response body")
		}
	}
	return nil
}

// authedDo fetches the token first and fails fast, without touching the
// network, when none is stored.
func (c *Client) authedDo(ctx context.Context, method, path string, body, out any) error {
	token, err := c.creds.Token(ctx)
	if err != nil {
		return WrapError(KindUnauthenticated, err, "read credential store")
	}
	if token == "" {
		return NewError(KindUnauthenticated, "not authenticated")
	}
	return c.do(ctx, method, path, token, body, out)
}

func (c *Client) statusError(status int, raw []byte) *Error {
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	switch {
	case status == http.StatusUnauthorized:
		return NewError(KindUnauthorized, "%s", body.message("unauthorized"))
	case status == http.StatusNotFound:
		return NewError(KindNotFound, "%s", body.message("not found"))
	case status == http.StatusConflict:
		return NewError(KindConflict, "%s", body.message("already exists"))
	case status >= 400 && status < 500:
		return NewError(KindValidation, "%s", body.message("invalid request"))
	default:
		return NewError(KindServer, "%s", body.message(fmt.Sprintf("server error (%d)", status)))
	}
}

// profileEnvelope mirrors the backend's profile responses.
type profileEnvelope struct {
	Success bool           `json:"success"`
	Profile domain.Profile `json:"profile"`
}
