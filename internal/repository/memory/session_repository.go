package memory

import (
	"sync"
	"time"

	"bayan-ai-be/internal/pkg/logger"
	"bayan-ai-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionConfig holds the session defaults and eviction policy
type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	PageSize        int
	ScoreThreshold  float64
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		TTL:             time.Hour,
		CleanupInterval: 10 * time.Minute,
		PageSize:        store.DefaultPageSize,
		ScoreThreshold:  store.DefaultScoreThreshold,
	}
}

type sessionEntry struct {
	mu    sync.Mutex
	state *store.SessionState

	// guarded by SessionRepository.mu
	holders int
	deleted bool
}

// SessionRepository keeps per-session retrieval state in process memory.
// Each session has its own lock; the cache evicts idle sessions after TTL.
// Sessions with a turn in flight are also tracked in active so an expiry
// mid-turn cannot hand out a second entry for the same id.
type SessionRepository struct {
	cache  *cache.Cache
	mu     sync.Mutex
	active map[string]*sessionEntry
	config SessionConfig
	logger logger.ILogger
}

func NewSessionRepository(cfg SessionConfig, log logger.ILogger) *SessionRepository {
	def := DefaultSessionConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = def.ScoreThreshold
	}

	c := cache.New(cfg.TTL, cfg.CleanupInterval)
	c.OnEvicted(func(id string, _ interface{}) {
		log.Debug("SessionStore", "Session evicted", map[string]interface{}{"session_id": id})
	})

	return &SessionRepository{
		cache:  c,
		active: make(map[string]*sessionEntry),
		config: cfg,
		logger: log,
	}
}

// Acquire returns the session state locked for exclusive use, creating it with
// defaults when missing. The caller must invoke release; extra calls are
// no-ops. Release refreshes the TTL unless the session was deleted meanwhile.
func (r *SessionRepository) Acquire(sessionID string) (*store.SessionState, func()) {
	e := r.entry(sessionID, true)
	e.mu.Lock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			e.holders--
			if e.holders == 0 && r.active[sessionID] == e {
				delete(r.active, sessionID)
			}
			if !e.deleted {
				r.cache.Set(sessionID, e, cache.DefaultExpiration)
			}
			r.mu.Unlock()
			e.mu.Unlock()
		})
	}
	return e.state, release
}

// Get returns a copy of the current state, creating it with defaults when missing
func (r *SessionRepository) Get(sessionID string) store.SessionState {
	e := r.entry(sessionID, false)
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.state
}

// Reset puts the session back to its defaults. History is dropped too.
func (r *SessionRepository) Reset(sessionID string) {
	e := r.entry(sessionID, false)
	e.mu.Lock()
	defer e.mu.Unlock()
	*e.state = *r.fresh(sessionID)
}

// Delete drops the session. A turn still in flight finishes on the old state,
// which is then discarded.
func (r *SessionRepository) Delete(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.active[sessionID]; ok {
		e.deleted = true
		delete(r.active, sessionID)
	}
	if x, found := r.cache.Get(sessionID); found {
		x.(*sessionEntry).deleted = true
	}
	r.cache.Delete(sessionID)
}

// Count is the number of live sessions
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

func (r *SessionRepository) entry(sessionID string, hold bool) *sessionEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.active[sessionID]
	if ok {
		// expired while a turn was running; keep the live entry
		if _, found := r.cache.Get(sessionID); !found {
			r.cache.Set(sessionID, e, cache.DefaultExpiration)
		}
	} else if x, found := r.cache.Get(sessionID); found {
		e = x.(*sessionEntry)
	} else {
		e = &sessionEntry{state: r.fresh(sessionID)}
		r.cache.Set(sessionID, e, cache.DefaultExpiration)
		r.logger.Debug("SessionStore", "Session created", map[string]interface{}{"session_id": sessionID})
	}

	if hold {
		e.holders++
		r.active[sessionID] = e
	}
	return e
}

func (r *SessionRepository) fresh(sessionID string) *store.SessionState {
	st := store.NewSessionState(sessionID)
	st.PageSize = r.config.PageSize
	st.ScoreThreshold = r.config.ScoreThreshold
	return st
}
