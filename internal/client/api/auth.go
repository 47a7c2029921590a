package api

import (
	"context"
	"net/http"
)

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type authEnvelope struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

const minPasswordLength = 6

// Login exchanges credentials for a bearer token and persists the session
// into the credential store.
func (c *Client) Login(ctx context.Context, email, password string) (*UserSummary, error) {
	if email == "" || password == "" {
		return nil, NewError(KindValidation, "email and password are required")
	}

	var resp authEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", authRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, NewError(KindServer, "login response carried no token")
	}

	if err := c.creds.SetSession(ctx, resp.Token, resp.User); err != nil {
		return nil, WrapError(KindConfiguration, err, "persist session")
	}
	return &resp.User, nil
}

// Signup registers a new account and persists the returned session.
// Validation mirrors the backend's rules so obviously bad input never
// leaves the device.
func (c *Client) Signup(ctx context.Context, email, password, name string) (*UserSummary, error) {
	if email == "" || password == "" || name == "" {
		return nil, NewError(KindValidation, "all fields are required")
	}
	if len(password) < minPasswordLength {
		return nil, NewError(KindValidation, "password must be at least %d characters", minPasswordLength)
	}

	var resp authEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", "", authRequest{Email: email, Password: password, Name: name}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, NewError(KindServer, "signup response carried no token")
	}

	if err := c.creds.SetSession(ctx, resp.Token, resp.User); err != nil {
		return nil, WrapError(KindConfiguration, err, "persist session")
	}
	return &resp.User, nil
}

// VerifyToken reports whether the stored token is still accepted by the
// backend. It never returns an error: any failure, local or remote, reads
// as "not authenticated" (fail closed).
func (c *Client) VerifyToken(ctx context.Context) bool {
	var resp authEnvelope
	if err := c.authedDo(ctx, http.MethodGet, "/api/auth/verify", nil, &resp); err != nil {
		return false
	}
	return resp.Success
}

// Logout discards the locally held session. The token itself is stateless;
// nothing is revoked server-side.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.creds.Clear(ctx); err != nil {
		return WrapError(KindConfiguration, err, "clear session")
	}
	return nil
}

// CurrentUser returns the locally stored user summary, or nil when logged out.
func (c *Client) CurrentUser(ctx context.Context) (*UserSummary, error) {
	user, err := c.creds.User(ctx)
	if err != nil {
		return nil, WrapError(KindConfiguration, err, "read credential store")
	}
	return user, nil
}
