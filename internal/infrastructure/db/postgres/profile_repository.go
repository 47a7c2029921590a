package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aislescan/aislescan/internal/core/domain"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Find(ctx context.Context, userID int64) (domain.Profile, bool, error) {
	query := `SELECT allergies, COALESCE(goals, ''), dietary_restrictions
	          FROM user_profiles WHERE user_id = $1`

	var p domain.Profile
	err := r.pool.QueryRow(ctx, query, userID).
		Scan(&p.Allergies, &p.Goal, &p.DietaryRestrictions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, false, nil
		}
		return domain.Profile{}, false, fmt.Errorf("find profile: %w", err)
	}
	return p, true, nil
}

// Upsert stores the full profile, lazily creating the row. The UNIQUE
// constraint on user_id keeps the zero-or-one invariant.
func (r *ProfileRepository) Upsert(ctx context.Context, userID int64, profile domain.Profile) (domain.Profile, error) {
	query := `INSERT INTO user_profiles (user_id, allergies, goals, dietary_restrictions)
	          VALUES ($1, $2, NULLIF($3, ''), $4)
	          ON CONFLICT (user_id) DO UPDATE SET
	              allergies            = EXCLUDED.allergies,
	              goals                = EXCLUDED.goals,
	              dietary_restrictions = EXCLUDED.dietary_restrictions,
	              updated_at           = now()
	          RETURNING allergies, COALESCE(goals, ''), dietary_restrictions`

	var stored domain.Profile
	err := r.pool.QueryRow(ctx, query,
		userID, profile.Allergies, string(profile.Goal), profile.DietaryRestrictions).
		Scan(&stored.Allergies, &stored.Goal, &stored.DietaryRestrictions)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return stored, nil
}
