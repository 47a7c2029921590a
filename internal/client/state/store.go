// Package state holds the process-wide reactive profile state for the
// client. The Store owns the in-memory Profile; UI consumers read through
// Get or Subscribe and mutate only through Update. There is no ambient
// global — consumers receive a *Store handle.
package state

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aislescan/aislescan/internal/core/domain"
	"github.com/aislescan/aislescan/internal/core/ports"
)

// ProfileAPI is the slice of the backend client the store depends on.
type ProfileAPI interface {
	GetProfile(ctx context.Context) (domain.Profile, error)
	UpdateProfile(ctx context.Context, profile domain.Profile) (domain.Profile, error)
}

// Listener observes profile changes. Listeners run after the store's lock
// is released; they may call back into the store.
type Listener func(domain.Profile)

// Store is the profile state container. Updates are optimistic: the merged
// profile is visible to readers immediately, before the backend round-trip
// resolves. Each update carries a monotonic sequence number and only the
// response to the most-recently-issued update may win; stale responses are
// discarded, which closes the last-response-wins race a naive
// implementation would have.
type Store struct {
	api ProfileAPI
	log zerolog.Logger

	mu           sync.Mutex
	profile      domain.Profile
	seq          uint64
	listeners    map[int]Listener
	nextListener int
}

// New creates a Store starting from the empty default profile.
func New(api ProfileAPI, log zerolog.Logger) *Store {
	return &Store{
		api:       api,
		log:       log,
		profile:   domain.DefaultProfile(),
		listeners: make(map[int]Listener),
	}
}

// Get returns a snapshot of the current profile.
func (s *Store) Get() domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProfile(s.profile)
}

// Subscribe registers a listener for profile changes and returns an
// unsubscribe function.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SetAuthenticated transitions the store between sessions. Entering the
// authenticated state loads the profile from the backend; leaving it
// unconditionally resets to the default profile without any backend call.
func (s *Store) SetAuthenticated(ctx context.Context, authenticated bool) error {
	if !authenticated {
		s.mu.Lock()
		s.seq++ // stale in-flight responses must not resurrect the old profile
		s.profile = domain.DefaultProfile()
		listeners, snapshot := s.snapshotLocked()
		s.mu.Unlock()
		notify(listeners, snapshot)
		return nil
	}
	return s.Reload(ctx)
}

// Reload replaces the in-memory profile with the backend's authoritative
// state.
func (s *Store) Reload(ctx context.Context) error {
	profile, err := s.api.GetProfile(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.seq++
	s.profile = profile
	listeners, snapshot := s.snapshotLocked()
	s.mu.Unlock()
	notify(listeners, snapshot)
	return nil
}

// Update merges the partial update into the current profile, shows the
// merged value immediately, then pushes the full resulting profile to the
// backend. On a winning success the backend's canonical profile replaces
// the optimistic one (the server may normalize). On a winning failure the
// optimistic value is discarded by reloading authoritative state, and the
// error is both logged and returned. A response that lost the sequence
// race changes nothing.
func (s *Store) Update(ctx context.Context, update ports.ProfileUpdate) error {
	s.mu.Lock()
	merged := applyUpdate(s.profile, update)
	s.seq++
	mySeq := s.seq
	s.profile = cloneProfile(merged)
	listeners, snapshot := s.snapshotLocked()
	s.mu.Unlock()
	notify(listeners, snapshot)

	canonical, err := s.api.UpdateProfile(ctx, merged)

	s.mu.Lock()
	if s.seq != mySeq {
		// A newer update (or reset) was issued while this one was in
		// flight; its outcome supersedes ours.
		s.mu.Unlock()
		return err
	}

	if err == nil {
		s.profile = cloneProfile(canonical)
		listeners, snapshot = s.snapshotLocked()
		s.mu.Unlock()
		notify(listeners, snapshot)
		return nil
	}
	s.mu.Unlock()

	s.log.Error().Err(err).Msg("profile update failed, reloading authoritative state")
	if reloadErr := s.Reload(ctx); reloadErr != nil {
		s.log.Error().Err(reloadErr).Msg("profile reload after failed update also failed")
	}
	return err
}

func (s *Store) snapshotLocked() ([]Listener, domain.Profile) {
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	return listeners, cloneProfile(s.profile)
}

func notify(listeners []Listener, profile domain.Profile) {
	for _, fn := range listeners {
		fn(cloneProfile(profile))
	}
}

// applyUpdate merges per-field: a nil field leaves the current value, a
// non-nil list field replaces the list wholesale.
func applyUpdate(current domain.Profile, update ports.ProfileUpdate) domain.Profile {
	merged := cloneProfile(current)
	if update.Allergies != nil {
		merged.Allergies = append([]string(nil), (*update.Allergies)...)
	}
	if update.Goal != nil {
		merged.Goal = *update.Goal
	}
	if update.DietaryRestrictions != nil {
		merged.DietaryRestrictions = append([]string(nil), (*update.DietaryRestrictions)...)
	}
	return merged.Normalize()
}

func cloneProfile(p domain.Profile) domain.Profile {
	return domain.Profile{
		Allergies:           append([]string(nil), p.Allergies...),
		Goal:                p.Goal,
		DietaryRestrictions: append([]string(nil), p.DietaryRestrictions...),
	}.Normalize()
}
