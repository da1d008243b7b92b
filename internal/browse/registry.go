package browse

import (
	"context"
	"sync"
	"time"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/pkg/logger"
	"campus-sublets/pkg/metrics"

	"github.com/google/uuid"
)

const DefaultSessionTTL = 30 * time.Minute

// Registry holds live browse sessions and evicts idle ones.
type Registry struct {
	source    ListingSource
	suggester Suggester
	cfg       Config
	ttl       time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(source ListingSource, suggester Suggester, cfg Config, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		source:    source,
		suggester: suggester,
		cfg:       cfg,
		ttl:       ttl,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Create opens a session and loads its first listing set.
func (r *Registry) Create(ctx context.Context) (*Session, error) {
	s := NewSession(uuid.NewString(), r.source, r.suggester, r.cfg)
	s.touch(r.now())
	if err := s.Refresh(ctx); err != nil {
		s.Close()
		return nil, err
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	metrics.BrowseSessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()
	return s, nil
}

// Get returns the session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	s.touch(r.now())
	return s, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	metrics.BrowseSessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	s.Close()
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle closes sessions unused for longer than the TTL and returns how
// many were removed.
func (r *Registry) EvictIdle() int {
	now := r.now()
	var idle []*Session

	r.mu.Lock()
	for id, s := range r.sessions {
		if s.idleSince(now) > r.ttl {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	metrics.BrowseSessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		logger.GlobalLogger.Debugf("evicted idle browse sessions: count=%d", len(idle))
	}
	return len(idle)
}

// Cleanup runs EvictIdle every interval until ctx is done.
func (r *Registry) Cleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictIdle()
		}
	}
}

// Close closes every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	metrics.BrowseSessionsActive.Set(0)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
