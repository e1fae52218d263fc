package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/goliatone/go-formwizard/pkg/account"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// SessionCookie names the cookie carrying the visitor id.
const SessionCookie = "fw_session"

// visitor holds everything one browser is filling in. mu serializes
// requests of the same visitor.
type visitor struct {
	mu       sync.Mutex
	wizards  map[string]*wizard.Session
	register *account.Form
	profile  *account.Form
}

// sessionStore keeps visitors in memory, expiring them after ttl of
// inactivity.
type sessionStore struct {
	cache  *gocache.Cache
	ttl    time.Duration
	secure bool
	// guards creation so two first requests share a visitor
	mu sync.Mutex
}

func newSessionStore(ttl time.Duration, secure bool) *sessionStore {
	return &sessionStore{
		cache:  gocache.New(ttl, ttl/2),
		ttl:    ttl,
		secure: secure,
	}
}

// acquire returns the visitor of r, creating one and setting the cookie when
// the request carries no live session. The visitor's TTL is refreshed.
func (s *sessionStore) acquire(w http.ResponseWriter, r *http.Request) *visitor {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if item, ok := s.cache.Get(cookie.Value); ok {
			v := item.(*visitor)
			s.cache.Set(cookie.Value, v, s.ttl)
			return v
		}
	}

	id := uuid.NewString()
	v := &visitor{wizards: make(map[string]*wizard.Session)}
	s.cache.Set(id, v, s.ttl)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return v
}

// Len reports how many visitors are alive.
func (s *sessionStore) Len() int {
	return s.cache.ItemCount()
}
