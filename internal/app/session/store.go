package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Store keeps live sessions in an expiring in-memory cache. Sessions are
// anonymous and ephemeral; nothing here survives a restart, which matches the
// product's no-account model.
type Store struct {
	sessions *cache.Cache
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: cache.New(ttl, 10*time.Minute),
		ttl:      ttl,
	}
}

// Create starts a fresh session and registers it.
func (st *Store) Create() *Session {
	s := newSession()
	st.sessions.Set(s.ID.String(), s, st.ttl)
	return s
}

// Get returns the session for id, refreshing its expiry on touch.
func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	v, ok := st.sessions.Get(id.String())
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	st.sessions.Set(s.ID.String(), s, st.ttl)
	return s, true
}
