package domain

import "errors"

// Goal is the user's single dietary goal. The empty string means no goal set.
type Goal string

const (
	GoalLosingWeight  Goal = "losing_weight"
	GoalGainingWeight Goal = "gaining_weight"
	GoalBuildingBody  Goal = "building_body"
	GoalMaintaining   Goal = "maintaining"
)

var ErrInvalidGoal = errors.New("invalid goal")

// Valid reports whether g is one of the known goals or unset.
func (g Goal) Valid() bool {
	switch g {
	case "", GoalLosingWeight, GoalGainingWeight, GoalBuildingBody, GoalMaintaining:
		return true
	}
	return false
}

// Label returns a human-readable rendering of the goal for prompt building.
func (g Goal) Label() string {
	switch g {
	case GoalLosingWeight:
		return "losing weight"
	case GoalGainingWeight:
		return "gaining weight"
	case GoalBuildingBody:
		return "building body/muscle"
	case GoalMaintaining:
		return "maintaining current weight"
	}
	return string(g)
}

// Profile is the dietary profile attached one-to-one to a user. At most one
// row exists per user; a user with no row is equivalent to DefaultProfile().
type Profile struct {
	Allergies           []string `json:"allergies"`
	Goal                Goal     `json:"goals"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
}

// DefaultProfile is the empty profile: no allergies, no goal, no restrictions.
// Slices are non-nil so the JSON rendering is [] rather than null.
func DefaultProfile() Profile {
	return Profile{
		Allergies:           []string{},
		DietaryRestrictions: []string{},
	}
}

// Normalize replaces nil slices with empty ones. Repositories and services
// call it before returning a profile so callers never see null lists.
func (p Profile) Normalize() Profile {
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	if p.DietaryRestrictions == nil {
		p.DietaryRestrictions = []string{}
	}
	return p
}
