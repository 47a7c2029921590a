package api

import (
	"context"
	"net/http"

	"github.com/aislescan/aislescan/internal/core/domain"
)

// updateProfileBody is the PUT wire shape. The request keys are camelCase
// (the shape the original mobile client sends); responses come back
// snake_case.
type updateProfileBody struct {
	Allergies           []string `json:"allergies"`
	Goals               string   `json:"goals"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
}

// GetProfile fetches the authenticated user's dietary profile.
func (c *Client) GetProfile(ctx context.Context) (domain.Profile, error) {
	var resp profileEnvelope
	if err := c.authedDo(ctx, http.MethodGet, "/api/profile", nil, &resp); err != nil {
		return domain.Profile{}, err
	}
	return resp.Profile.Normalize(), nil
}

// UpdateProfile replaces the stored profile with the full document given
// and returns the canonical profile the backend stored.
func (c *Client) UpdateProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	profile = profile.Normalize()
	body := updateProfileBody{
		Allergies:           profile.Allergies,
		Goals:               string(profile.Goal),
		DietaryRestrictions: profile.DietaryRestrictions,
	}

	var resp profileEnvelope
	if err := c.authedDo(ctx, http.MethodPut, "/api/profile", body, &resp); err != nil {
		return domain.Profile{}, err
	}
	return resp.Profile.Normalize(), nil
}
