package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// StoreFactory builds the durable store for a gateway session ID.
type StoreFactory func(sessionID string) Store

// Registry maps gateway session IDs (the bdp_sid cookie) to their Managers.
// Each browser session gets one Manager and therefore one refresh timer.
// Managers idle past idleTTL are evicted by a background sweep; their durable
// store survives, so the next request rebuilds the session via Bootstrap.
type Registry struct {
	api         AuthAPI
	stores      StoreFactory
	callbackURL string
	idleTTL     time.Duration
	log         zerolog.Logger
	opts        []Option

	mu       sync.Mutex
	managers map[string]*managerEntry

	done      chan struct{}
	closeOnce sync.Once
}

type managerEntry struct {
	m        *Manager
	lastSeen time.Time
}

func NewRegistry(api AuthAPI, stores StoreFactory, callbackURL string, idleTTL time.Duration, log zerolog.Logger, opts ...Option) *Registry {
	r := &Registry{
		api:         api,
		stores:      stores,
		callbackURL: callbackURL,
		idleTTL:     idleTTL,
		log:         log,
		opts:        opts,
		managers:    make(map[string]*managerEntry),
		done:        make(chan struct{}),
	}
	if idleTTL > 0 {
		go r.sweep()
	}
	return r
}

// Get returns the Manager for the session ID, creating it on first use so
// that sessions persisted in redis survive gateway restarts.
func (r *Registry) Get(sessionID string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.managers[sessionID]; ok {
		e.lastSeen = time.Now()
		return e.m
	}

	m := NewManager(r.api, r.stores(sessionID), r.callbackURL, r.log.With().Str("sid", sessionID).Logger(), r.opts...)
	r.managers[sessionID] = &managerEntry{m: m, lastSeen: time.Now()}
	return m
}

// Remove closes and forgets the session's Manager.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	e, ok := r.managers[sessionID]
	if ok {
		delete(r.managers, sessionID)
	}
	r.mu.Unlock()

	if ok {
		e.m.Close()
	}
}

func (r *Registry) sweep() {
	interval := r.idleTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.evictIdle(time.Now().Add(-r.idleTTL))
		}
	}
}

// evictIdle closes every Manager not touched since the cutoff and reports how
// many were dropped. Eviction loses nothing durable: tokens live in the
// store, and the refresh timer is rebuilt on the next Bootstrap.
func (r *Registry) evictIdle(cutoff time.Time) int {
	r.mu.Lock()
	var victims []*Manager
	for sid, e := range r.managers {
		if e.lastSeen.Before(cutoff) {
			victims = append(victims, e.m)
			delete(r.managers, sid)
		}
	}
	r.mu.Unlock()

	for _, m := range victims {
		m.Close()
	}
	if len(victims) > 0 {
		r.log.Debug().Int("count", len(victims)).Msg("evicted idle sessions")
	}
	return len(victims)
}

// Close tears down every Manager and stops the sweeper; used on shutdown.
func (r *Registry) Close() {
	r.closeOnce.Do(func() { close(r.done) })

	r.mu.Lock()
	managers := make([]*Manager, 0, len(r.managers))
	for _, e := range r.managers {
		managers = append(managers, e.m)
	}
	r.managers = make(map[string]*managerEntry)
	r.mu.Unlock()

	for _, m := range managers {
		m.Close()
	}
}
