package ports

import (
	"context"
	"encoding/json"

	"github.com/aislescan/aislescan/internal/core/domain"
)

// SaveScanInput carries all data needed to persist a new scan.
type SaveScanInput struct {
	ProductName string
	ImageURI    string
	Analysis    json.RawMessage
	// IdempotencyKey, when non-empty, deduplicates repeated saves of the
	// same analysis (client retries, double taps).
	IdempotencyKey string
}

// ScanService defines use-case operations for saved scans. Every operation
// is scoped to the owning user; scans are never visible across accounts.
type ScanService interface {
	Save(ctx context.Context, userID int64, input SaveScanInput) (*domain.Scan, error)
	List(ctx context.Context, userID int64) ([]*domain.Scan, error)
	Get(ctx context.Context, userID, scanID int64) (*domain.Scan, error)
}

// ScanRepository defines persistence for scans.
type ScanRepository interface {
	Create(ctx context.Context, scan *domain.Scan) (*domain.Scan, error)
	// ListByUser returns the user's scans newest-first.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Scan, error)
	// FindByID returns ErrScanNotFound when the scan is absent or belongs
	// to a different user.
	FindByID(ctx context.Context, userID, scanID int64) (*domain.Scan, error)
}
