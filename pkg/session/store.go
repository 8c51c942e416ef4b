package session

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store keeps sessions alive for the duration of a browsing visit. Entries
// expire after the configured TTL; nothing is ever written to disk.
type Store interface {
	Get(id string) (*Session, bool)
	New() *Session
	Touch(sess *Session)
}

type StoreImpl struct {
	cache *gocache.Cache
	ttl   time.Duration
}

func NewStore(ttl time.Duration) *StoreImpl {
	return &StoreImpl{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (s *StoreImpl) Get(id string) (*Session, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

func (s *StoreImpl) New() *Session {
	sess := New()
	s.cache.Set(sess.ID, sess, s.ttl)
	return sess
}

// Touch extends the session's lifetime on activity.
func (s *StoreImpl) Touch(sess *Session) {
	s.cache.Set(sess.ID, sess, s.ttl)
}
