package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aislescan/aislescan/internal/api/metrics"
	"github.com/aislescan/aislescan/internal/core/domain"
	"github.com/aislescan/aislescan/internal/core/ports"
)

// ProfileHandler handles reads and updates of the authenticated user's
// dietary profile.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// updateProfileRequest uses pointer fields so an absent key can be told
// apart from an explicit empty value: only keys present in the request
// body overwrite the stored profile. The request keys are camelCase, the
// shape the mobile client has always sent.
type updateProfileRequest struct {
	Allergies           *[]string `json:"allergies"`
	Goals               *string   `json:"goals"`
	DietaryRestrictions *[]string `json:"dietaryRestrictions"`
}

// profileResponse renders the profile with snake_case keys.
type profileResponse struct {
	Allergies           []string `json:"allergies"`
	Goals               string   `json:"goals"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
}

type profileEnvelope struct {
	Success bool            `json:"success"`
	Profile profileResponse `json:"profile"`
}

func toProfileResponse(p domain.Profile) profileResponse {
	return profileResponse{
		Allergies:           p.Allergies,
		Goals:               string(p.Goal),
		DietaryRestrictions: p.DietaryRestrictions,
	}
}

// Get returns the stored profile, or the empty default when none exists.
//
// @Summary      Get the dietary profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileEnvelope
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.service.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileEnvelope{Success: true, Profile: toProfileResponse(profile)})
}

// Update applies a partial profile update and returns the canonical stored
// profile.
//
// @Summary      Update the dietary profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to replace"
// @Success      200   {object}  profileEnvelope
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	update := ports.ProfileUpdate{
		Allergies:           req.Allergies,
		DietaryRestrictions: req.DietaryRestrictions,
	}
	if req.Goals != nil {
		goal := domain.Goal(*req.Goals)
		update.Goal = &goal
	}

	profile, err := h.service.Update(c.Request().Context(), userID, update)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidGoal) {
			metrics.ProfileUpdatesTotal.WithLabelValues("error").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		metrics.ProfileUpdatesTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.ProfileUpdatesTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, profileEnvelope{Success: true, Profile: toProfileResponse(profile)})
}
