package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aislescan/aislescan/internal/api/metrics"
	"github.com/aislescan/aislescan/internal/core/domain"
	"github.com/aislescan/aislescan/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	Success bool          `json:"success"`
	Token   string        `json:"token,omitempty"`
	User    *userResponse `json:"user,omitempty"`
}

func toUserResponse(u *domain.User) *userResponse {
	return &userResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

// Signup creates a new user account and issues a bearer token.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "rejected").Inc()
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	tok, user, err := h.authService.Signup(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			metrics.AuthAttemptsTotal.WithLabelValues("signup", "rejected").Inc()
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.AuthAttemptsTotal.WithLabelValues("signup", "rejected").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "error").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("signup", "ok").Inc()
	return c.JSON(http.StatusOK, authResponse{Success: true, Token: tok, User: toUserResponse(user)})
}

// Login authenticates a user and issues a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	tok, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// An unknown email and a wrong password render identically so the
		// response never reveals which accounts exist.
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	return c.JSON(http.StatusOK, authResponse{Success: true, Token: tok, User: toUserResponse(user)})
}

// Verify confirms the bearer token and returns the account it belongs to.
//
// @Summary      Verify the bearer token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.VerifyUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Success: true, User: toUserResponse(user)})
}
