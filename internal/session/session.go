package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	models "github.com/CodeAndHammer/typeproof/internal/models"
	util "github.com/CodeAndHammer/typeproof/internal/util"
)

// Store owns every issued-but-unsubmitted session. All access goes through
// one mutex so that consuming a session is a single atomic step.
type Store struct {
	mu       sync.Mutex
	sessions map[string]models.Session
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore returns an empty store. A ttl or capacity <= 0 disables that bound.
func NewStore(ttl time.Duration, capacity int, opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]models.Session),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) Create(ctx context.Context, targetText string) (models.Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return models.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	sess := models.Session{
		ID:         id.String(),
		IssuedAt:   s.now(),
		TargetText: targetText,
	}

	s.mu.Lock()
	if s.capacity > 0 && len(s.sessions) >= s.capacity {
		s.evictOldestLocked(ctx)
	}
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	util.LogInfoCtx(ctx, "Created new session: %s", sess.ID)
	return sess, nil
}

// Consume removes and returns the session. It reports false for unknown,
// already consumed and expired ids; expired entries are dropped as well.
func (s *Store) Consume(ctx context.Context, id string) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return models.Session{}, false
	}
	delete(s.sessions, id)

	if s.expired(sess, s.now()) {
		util.LogWarnCtx(ctx, "Session %s expired after %v", id, s.now().Sub(sess.IssuedAt))
		return models.Session{}, false
	}
	return sess, true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) CleanupExpiredSessions() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	expiredCount := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		util.LogInfo("Cleaned up %d expired sessions", expiredCount)
	}
	return expiredCount
}

// StartSessionCleanup sweeps expired sessions every interval until ctx is
// cancelled.
func (s *Store) StartSessionCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.ttl <= 0 {
		util.LogWarn("Session cleanup disabled (interval=%v, ttl=%v)", interval, s.ttl)
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpiredSessions()
			}
		}
	}()
	util.LogInfo("Started session cleanup goroutine (every %v, ttl %v)", interval, s.ttl)
}

func (s *Store) expired(sess models.Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.IssuedAt) > s.ttl
}

func (s *Store) evictOldestLocked(ctx context.Context) {
	oldest := lo.MinBy(lo.Values(s.sessions), func(a, b models.Session) bool {
		return a.IssuedAt.Before(b.IssuedAt)
	})
	delete(s.sessions, oldest.ID)
	util.LogWarnCtx(ctx, "Session store at capacity (%d), evicted oldest session %s", s.capacity, oldest.ID)
}
