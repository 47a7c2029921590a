package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/aislescan/aislescan/internal/core/domain"
	"github.com/aislescan/aislescan/internal/core/ports"
)

// ProfileService implements reads and partial updates of the per-user
// dietary profile. Exactly zero or one profile row exists per user; the
// row is created lazily on first update.
type ProfileService struct {
	repo   ports.ProfileRepository
	logger zerolog.Logger
}

func NewProfileService(repo ports.ProfileRepository, logger zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, logger: logger}
}

// Get returns the stored profile, or the empty default when no row exists.
func (s *ProfileService) Get(ctx context.Context, userID int64) (domain.Profile, error) {
	profile, found, err := s.repo.Find(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	if !found {
		return domain.DefaultProfile(), nil
	}
	return profile.Normalize(), nil
}

// Update merges a partial update into the stored profile. Nil fields are
// left untouched; non-nil list fields replace the stored list wholesale.
// Returns the canonical stored profile after the write.
func (s *ProfileService) Update(ctx context.Context, userID int64, update ports.ProfileUpdate) (domain.Profile, error) {
	current, found, err := s.repo.Find(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	if !found {
		current = domain.DefaultProfile()
	}

	if update.Allergies != nil {
		current.Allergies = *update.Allergies
	}
	if update.Goal != nil {
		current.Goal = *update.Goal
	}
	if update.DietaryRestrictions != nil {
		current.DietaryRestrictions = *update.DietaryRestrictions
	}

	if !current.Goal.Valid() {
		return domain.Profile{}, domain.ErrInvalidGoal
	}

	stored, err := s.repo.Upsert(ctx, userID, current.Normalize())
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to update profile")
		return domain.Profile{}, err
	}

	s.logger.Info().Int64("user_id", userID).Msg("profile updated")
	return stored.Normalize(), nil
}
