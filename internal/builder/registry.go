package builder

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/auth"
	"github.com/Mutter0815/PageBuilder/pkg/logx"
)

type entry struct {
	s       *Session
	touched time.Time
}

// Registry owns the live sessions. Sessions idle for longer than the TTL are
// dropped on the next Open or Get.
type Registry struct {
	campaigns Campaigns
	ttl       time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewRegistry(cs Campaigns, idleTTL time.Duration) *Registry {
	return &Registry{
		campaigns: cs,
		ttl:       idleTTL,
		now:       time.Now,
		sessions:  map[string]*entry{},
	}
}

// Open starts an empty create-mode session for owner.
func (r *Registry) Open(owner auth.Principal) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweep(now)

	s := newSession(uuid.NewString(), owner, r.campaigns)
	r.sessions[s.ID] = &entry{s: s, touched: now}
	logx.L().Debugw("editor_session_opened", "session", s.ID, "owner", owner.ID)
	return s
}

// Get returns the session id if it belongs to owner and has not expired.
func (r *Registry) Get(id string, owner auth.Principal) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweep(now)

	e, ok := r.sessions[id]
	if !ok || e.s.Owner != owner.ID {
		return nil, apperr.NotFound(apperr.CodeSessionNotFound, "editor session %q not found", id)
	}
	e.touched = now
	return e.s, nil
}

// Close drops the session.
func (r *Registry) Close(id string, owner auth.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || e.s.Owner != owner.ID {
		return apperr.NotFound(apperr.CodeSessionNotFound, "editor session %q not found", id)
	}
	delete(r.sessions, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweep(now time.Time) {
	if r.ttl <= 0 {
		return
	}
	for id, e := range r.sessions {
		if now.Sub(e.touched) > r.ttl {
			delete(r.sessions, id)
			logx.L().Debugw("editor_session_expired", "session", id)
		}
	}
}
