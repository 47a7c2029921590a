package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aislescan/aislescan/internal/core/domain"
	"github.com/aislescan/aislescan/internal/core/ports"
)

type stubScanRepo struct {
	scans   map[int64]*domain.Scan
	nextID  int64
	creates int
}

func newStubScanRepo() *stubScanRepo {
	return &stubScanRepo{scans: make(map[int64]*domain.Scan)}
}

func cloneScan(s *domain.Scan) *domain.Scan {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

func (r *stubScanRepo) Create(_ context.Context, scan *domain.Scan) (*domain.Scan, error) {
	r.creates++
	copy := cloneScan(scan)
	r.nextID++
	copy.ID = r.nextID
	r.scans[copy.ID] = cloneScan(copy)
	return cloneScan(copy), nil
}

func (r *stubScanRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Scan, error) {
	var out []*domain.Scan
	for id := r.nextID; id >= 1; id-- {
		if s, ok := r.scans[id]; ok && s.UserID == userID {
			out = append(out, cloneScan(s))
		}
	}
	return out, nil
}

func (r *stubScanRepo) FindByID(_ context.Context, userID, scanID int64) (*domain.Scan, error) {
	s, ok := r.scans[scanID]
	if !ok || s.UserID != userID {
		return nil, domain.ErrScanNotFound
	}
	return cloneScan(s), nil
}

type stubIdemStore struct {
	seen    map[string]int64
	seenErr error
}

func newStubIdemStore() *stubIdemStore {
	return &stubIdemStore{seen: make(map[string]int64)}
}

func idemKey(userID int64, key string) string {
	return fmt.Sprintf("%d:%s", userID, key)
}

func (s *stubIdemStore) Seen(_ context.Context, userID int64, key string) (int64, bool, error) {
	if s.seenErr != nil {
		return 0, false, s.seenErr
	}
	id, ok := s.seen[idemKey(userID, key)]
	return id, ok, nil
}

func (s *stubIdemStore) Mark(_ context.Context, userID int64, key string, scanID int64) error {
	s.seen[idemKey(userID, key)] = scanID
	return nil
}

func analysisJSON(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(domain.Analysis{
		ProductName: "Oat Bar",
		Summary:     "an oat bar",
		Pros:        []string{"fiber"},
		Cons:        []string{"sugar"},
		Scores:      domain.Scores{Health: 6, Fulfilling: 7, Taste: 8},
	})
	if err != nil {
		t.Fatalf("marshal analysis: %v", err)
	}
	return raw
}

func TestScanService_Save_Success(t *testing.T) {
	repo := newStubScanRepo()
	svc := NewScanService(repo, newStubIdemStore(), zerolog.Nop())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.nowFn = func() time.Time { return now }

	scan, err := svc.Save(context.Background(), 1, ports.SaveScanInput{
		ProductName: "Oat Bar",
		ImageURI:    "file:///tmp/label.jpg",
		Analysis:    analysisJSON(t),
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if scan.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if scan.UserID != 1 {
		t.Fatalf("unexpected owner: %d", scan.UserID)
	}
	if !scan.CreatedAt.Equal(now) {
		t.Fatalf("unexpected created_at: %v", scan.CreatedAt)
	}
}

func TestScanService_Save_IdempotentReplay(t *testing.T) {
	repo := newStubScanRepo()
	idem := newStubIdemStore()
	svc := NewScanService(repo, idem, zerolog.Nop())

	input := ports.SaveScanInput{
		ProductName:    "Oat Bar",
		ImageURI:       "file:///tmp/label.jpg",
		Analysis:       analysisJSON(t),
		IdempotencyKey: "4f5e1c1a",
	}

	first, err := svc.Save(context.Background(), 1, input)
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	second, err := svc.Save(context.Background(), 1, input)
	if err != nil {
		t.Fatalf("replayed save failed: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("replay created a new scan: %d != %d", second.ID, first.ID)
	}
	if repo.creates != 1 {
		t.Fatalf("expected one insert, got %d", repo.creates)
	}
}

func TestScanService_Save_KeyScopedPerUser(t *testing.T) {
	repo := newStubScanRepo()
	svc := NewScanService(repo, newStubIdemStore(), zerolog.Nop())

	input := ports.SaveScanInput{
		ProductName:    "Oat Bar",
		ImageURI:       "file:///tmp/label.jpg",
		Analysis:       analysisJSON(t),
		IdempotencyKey: "shared-key",
	}

	a, err := svc.Save(context.Background(), 1, input)
	if err != nil {
		t.Fatalf("save for user 1 failed: %v", err)
	}
	b, err := svc.Save(context.Background(), 2, input)
	if err != nil {
		t.Fatalf("save for user 2 failed: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("same key for different users must not dedup")
	}
}

func TestScanService_Save_IdemStoreFailureStillSaves(t *testing.T) {
	repo := newStubScanRepo()
	idem := newStubIdemStore()
	idem.seenErr = errors.New("redis down")
	svc := NewScanService(repo, idem, zerolog.Nop())

	_, err := svc.Save(context.Background(), 1, ports.SaveScanInput{
		ProductName:    "Oat Bar",
		ImageURI:       "file:///tmp/label.jpg",
		Analysis:       analysisJSON(t),
		IdempotencyKey: "key",
	})
	if err != nil {
		t.Fatalf("save should survive a dedup-store failure: %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected insert despite dedup failure")
	}
}

func TestScanService_List_NewestFirstAndScoped(t *testing.T) {
	repo := newStubScanRepo()
	svc := NewScanService(repo, nil, zerolog.Nop())

	for i, name := range []string{"first", "second", "third"} {
		owner := int64(1)
		if i == 1 {
			owner = 2
		}
		if _, err := svc.Save(context.Background(), owner, ports.SaveScanInput{
			ProductName: name,
			ImageURI:    "file:///tmp/x.jpg",
			Analysis:    analysisJSON(t),
		}); err != nil {
			t.Fatalf("save %q failed: %v", name, err)
		}
	}

	scans, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("expected 2 scans, got %d", len(scans))
	}
	if scans[0].ProductName != "third" || scans[1].ProductName != "first" {
		t.Fatalf("expected newest-first ordering, got %q then %q", scans[0].ProductName, scans[1].ProductName)
	}
}

func TestScanService_Get_OwnershipEnforced(t *testing.T) {
	repo := newStubScanRepo()
	svc := NewScanService(repo, nil, zerolog.Nop())

	created, err := svc.Save(context.Background(), 1, ports.SaveScanInput{
		ProductName: "Oat Bar",
		ImageURI:    "file:///tmp/label.jpg",
		Analysis:    analysisJSON(t),
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := svc.Get(context.Background(), 1, created.ID); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), 2, created.ID); !errors.Is(err, domain.ErrScanNotFound) {
		t.Fatalf("foreign scan must look missing, got %v", err)
	}
	if _, err := svc.Get(context.Background(), 1, 9999); !errors.Is(err, domain.ErrScanNotFound) {
		t.Fatalf("expected ErrScanNotFound, got %v", err)
	}
}
