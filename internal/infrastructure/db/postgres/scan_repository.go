package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aislescan/aislescan/internal/core/domain"
)

type ScanRepository struct {
	pool *pgxpool.Pool
}

func NewScanRepository(pool *pgxpool.Pool) *ScanRepository {
	return &ScanRepository{pool: pool}
}

func (r *ScanRepository) Create(ctx context.Context, scan *domain.Scan) (*domain.Scan, error) {
	query := `INSERT INTO food_scans (user_id, product_name, image_uri, analysis_data, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		scan.UserID, scan.ProductName, scan.ImageURI, scan.Analysis, scan.CreatedAt).
		Scan(&scan.ID, &scan.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert scan: %w", err)
	}
	return scan, nil
}

func (r *ScanRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Scan, error) {
	query := `SELECT id, user_id, COALESCE(product_name, ''), COALESCE(image_uri, ''), analysis_data, created_at
	          FROM food_scans WHERE user_id = $1
	          ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	scans := []*domain.Scan{}
	for rows.Next() {
		s := &domain.Scan{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.ProductName, &s.ImageURI, &s.Analysis, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		scans = append(scans, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	return scans, nil
}

// FindByID is ownership-scoped: a scan belonging to another user is
// indistinguishable from a missing one.
func (r *ScanRepository) FindByID(ctx context.Context, userID, scanID int64) (*domain.Scan, error) {
	query := `SELECT id, user_id, COALESCE(product_name, ''), COALESCE(image_uri, ''), analysis_data, created_at
	          FROM food_scans WHERE id = $1 AND user_id = $2`

	s := &domain.Scan{}
	err := r.pool.QueryRow(ctx, query, scanID, userID).
		Scan(&s.ID, &s.UserID, &s.ProductName, &s.ImageURI, &s.Analysis, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScanNotFound
		}
		return nil, fmt.Errorf("find scan: %w", err)
	}
	return s, nil
}
