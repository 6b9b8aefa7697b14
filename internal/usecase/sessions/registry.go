// Package sessions tracks live terminal sessions and their resend history.
package sessions

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/circulation-toolkit/sip2gateway/internal/entity"
	"github.com/circulation-toolkit/sip2gateway/pkg/logger"
)

// Registry is the process-wide table of live sessions. Each session is
// mutated only by its own connection goroutine; the registry guards the
// table and the last access time it reports.
type Registry struct {
	sessions      map[string]*entity.Session
	mu            sync.RWMutex
	maxIdle       time.Duration
	cleanupTicker *time.Ticker
	done          chan struct{}
	stopOnce      sync.Once
	log           logger.Interface
	now           func() time.Time
}

// NewRegistry creates a registry. When cleanupInterval and maxIdle are both
// positive a background loop drops sessions idle for longer than maxIdle.
func NewRegistry(cleanupInterval, maxIdle time.Duration, log logger.Interface) *Registry {
	r := &Registry{
		sessions: make(map[string]*entity.Session),
		maxIdle:  maxIdle,
		done:     make(chan struct{}),
		log:      log,
		now:      time.Now,
	}

	if cleanupInterval > 0 && maxIdle > 0 {
		r.cleanupTicker = time.NewTicker(cleanupInterval)

		go r.cleanupLoop()
	}

	return r
}

func (r *Registry) cleanupLoop() {
	for {
		select {
		case <-r.cleanupTicker.C:
			if n := r.DeleteIdle(r.maxIdle); n > 0 {
				r.log.Info("removed %d idle sessions", n)
			}
		case <-r.done:
			return
		}
	}
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		if r.cleanupTicker != nil {
			r.cleanupTicker.Stop()
		}

		close(r.done)
	})
}

// Create registers a new session with protocol defaults for the terminal at remoteAddr.
func (r *Registry) Create(remoteAddr, tenantID string) *entity.Session {
	s := entity.NewSession(uuid.NewString(), remoteAddr, tenantID)

	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()

	sessionsActive.Set(float64(n))

	return s
}

// Get retrieves a session by ID.
func (r *Registry) Get(id string) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return s, nil
}

// Touch marks the session as used now.
func (r *Registry) Touch(s *entity.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.LastAccessTime = r.now()
}

// Delete removes a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()

	if _, ok := r.sessions[id]; !ok {
		r.mu.Unlock()

		return ErrSessionNotFound
	}

	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	sessionsActive.Set(float64(n))

	return nil
}

// List returns a snapshot of every registered session, oldest first.
func (r *Registry) List() []entity.SessionInfo {
	r.mu.RLock()

	list := make([]entity.SessionInfo, 0, len(r.sessions))

	for _, s := range r.sessions {
		list = append(list, entity.SessionInfo{
			ID:             s.ID,
			RemoteAddr:     s.RemoteAddr,
			TenantID:       s.TenantID,
			CreatedTime:    s.CreatedTime,
			LastAccessTime: s.LastAccessTime,
		})
	}

	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedTime.Before(list[j].CreatedTime)
	})

	return list
}

// Count -.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// DeleteIdle removes every session idle for longer than maxIdle and returns how many were removed.
func (r *Registry) DeleteIdle(maxIdle time.Duration) int {
	now := r.now()

	r.mu.Lock()

	count := 0

	for id, s := range r.sessions {
		if s.IdleFor(now) > maxIdle {
			delete(r.sessions, id)

			count++
		}
	}

	n := len(r.sessions)
	r.mu.Unlock()

	sessionsActive.Set(float64(n))
	sessionsExpired.Add(float64(count))

	return count
}
