package selection

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultIdleTTL is how long an untouched session survives.
const DefaultIdleTTL = 12 * time.Hour

// Registry maps session IDs to their selection state. Sessions live only
// in memory and are dropped once idle for longer than the TTL.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
	onEvict  func(id string)
}

type entry struct {
	state    *State
	lastSeen time.Time
}

type RegistryOption func(*Registry)

// WithIdleTTL sets the idle lifetime; zero or negative disables eviction.
func WithIdleTTL(ttl time.Duration) RegistryOption {
	return func(r *Registry) { r.ttl = ttl }
}

func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// WithEvictHook is called, outside the lock, for every expired session.
func WithEvictHook(fn func(id string)) RegistryOption {
	return func(r *Registry) { r.onEvict = fn }
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[string]*entry),
		ttl:      DefaultIdleTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetIdleTTL changes the idle lifetime for later sweeps.
func (r *Registry) SetIdleTTL(ttl time.Duration) {
	r.mu.Lock()
	r.ttl = ttl
	r.mu.Unlock()
}

// Create starts a new session with a random ID. Expired sessions are swept
// first.
func (r *Registry) Create() *State {
	st := New(uuid.NewString())
	r.mu.Lock()
	now := r.now()
	evicted := r.sweepLocked(now)
	r.sessions[st.ID()] = &entry{state: st, lastSeen: now}
	r.mu.Unlock()
	r.evicted(evicted)
	return st
}

// Get returns a live session and marks it as used. An expired session is
// removed and reported missing.
func (r *Registry) Get(id string) (*State, bool) {
	r.mu.Lock()
	en, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return nil, false
	}
	now := r.now()
	if r.expired(en, now) {
		delete(r.sessions, id)
		r.mu.Unlock()
		r.evicted([]string{id})
		return nil, false
	}
	en.lastSeen = now
	r.mu.Unlock()
	return en.state, true
}

// GetOrCreate returns the session for id, or a new session when id is
// empty, unknown or expired.
func (r *Registry) GetOrCreate(id string) (*State, bool) {
	if id != "" {
		if st, ok := r.Get(id); ok {
			return st, false
		}
	}
	return r.Create(), true
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len counts stored sessions, including expired ones not yet swept.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) expired(en *entry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(en.lastSeen) > r.ttl
}

func (r *Registry) sweepLocked(now time.Time) []string {
	var out []string
	for id, en := range r.sessions {
		if r.expired(en, now) {
			delete(r.sessions, id)
			out = append(out, id)
		}
	}
	return out
}

func (r *Registry) evicted(ids []string) {
	if r.onEvict == nil {
		return
	}
	for _, id := range ids {
		r.onEvict(id)
	}
}
