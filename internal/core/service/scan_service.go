package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aislescan/aislescan/internal/api/metrics"
	"github.com/aislescan/aislescan/internal/core/domain"
	"github.com/aislescan/aislescan/internal/core/ports"
)

// IdempotencyStore abstracts the scan-save dedup store (Redis).
type IdempotencyStore interface {
	// Seen returns the scan id previously recorded under (userID, key).
	Seen(ctx context.Context, userID int64, key string) (int64, bool, error)
	Mark(ctx context.Context, userID int64, key string, scanID int64) error
}

// ScanService implements saving and retrieving food-label scans. Every
// operation is scoped by owner; a scan id from another account behaves
// exactly like a missing one.
type ScanService struct {
	repo  ports.ScanRepository
	idem  IdempotencyStore
	log   zerolog.Logger
	nowFn func() time.Time
}

func NewScanService(repo ports.ScanRepository, idem IdempotencyStore, log zerolog.Logger) *ScanService {
	return &ScanService{repo: repo, idem: idem, log: log, nowFn: time.Now}
}

// Save persists a scan. When an idempotency key is provided and already
// seen, the previously created scan is returned without a second insert.
func (s *ScanService) Save(ctx context.Context, userID int64, input ports.SaveScanInput) (*domain.Scan, error) {
	if input.IdempotencyKey != "" && s.idem != nil {
		scanID, seen, err := s.idem.Seen(ctx, userID, input.IdempotencyKey)
		if err != nil {
			s.log.Warn().Err(err).Int64("user_id", userID).Msg("idempotency check failed, saving anyway")
		} else if seen {
			metrics.ScanDedupTotal.WithLabelValues("hit").Inc()
			s.log.Info().Int64("user_id", userID).Int64("scan_id", scanID).Msg("idempotent scan replay")
			return s.repo.FindByID(ctx, userID, scanID)
		} else {
			metrics.ScanDedupTotal.WithLabelValues("miss").Inc()
		}
	}

	scan := &domain.Scan{
		UserID:      userID,
		ProductName: input.ProductName,
		ImageURI:    input.ImageURI,
		Analysis:    input.Analysis,
		CreatedAt:   s.nowFn().UTC(),
	}

	created, err := s.repo.Create(ctx, scan)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("failed to save scan")
		return nil, err
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Mark(ctx, userID, input.IdempotencyKey, created.ID); err != nil {
			s.log.Warn().Err(err).Int64("scan_id", created.ID).Msg("failed to set idempotency key")
		}
	}

	metrics.ScansSavedTotal.Inc()
	s.log.Info().Int64("user_id", userID).Int64("scan_id", created.ID).Str("product", created.ProductName).Msg("scan saved")
	return created, nil
}

// List returns the user's scans newest-first.
func (s *ScanService) List(ctx context.Context, userID int64) ([]*domain.Scan, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns a single scan owned by userID. Ownership is enforced by the
// repository: a scan belonging to another user yields ErrScanNotFound.
func (s *ScanService) Get(ctx context.Context, userID, scanID int64) (*domain.Scan, error) {
	return s.repo.FindByID(ctx, userID, scanID)
}
