package ports

import (
	"context"

	"github.com/aislescan/aislescan/internal/core/domain"
)

// ProfileUpdate carries a partial profile change. A nil field is left
// untouched; a non-nil field replaces the stored value wholesale (list
// fields are full replacements, never deltas).
type ProfileUpdate struct {
	Allergies           *[]string
	Goal                *domain.Goal
	DietaryRestrictions *[]string
}

// ProfileService defines use-case operations over the per-user profile.
type ProfileService interface {
	// Get returns the stored profile, or the empty default when no row exists.
	Get(ctx context.Context, userID int64) (domain.Profile, error)
	// Update applies a partial update and returns the canonical stored profile.
	// The profile row is created lazily on first update.
	Update(ctx context.Context, userID int64, update ProfileUpdate) (domain.Profile, error)
}

// ProfileRepository defines persistence for profiles.
type ProfileRepository interface {
	// Find returns the stored profile. There is no not-found sentinel:
	// the second return reports whether a row existed.
	Find(ctx context.Context, userID int64) (domain.Profile, bool, error)
	// Upsert stores the full profile, creating the row when absent, and
	// returns the stored value.
	Upsert(ctx context.Context, userID int64, profile domain.Profile) (domain.Profile, error)
}
