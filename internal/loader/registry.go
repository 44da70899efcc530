package loader

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/mentorhours/internal/source"
)

const (
	defaultIdleTTL          = 30 * time.Minute
	registryCleanupInterval = 5 * time.Minute
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type registryEntry struct {
	loader   *Loader
	lastUsed time.Time
}

// Registry keeps one Loader per viewer so each viewer's stale responses are
// tracked independently. Idle loaders are evicted.
type Registry struct {
	src     source.Source
	idleTTL time.Duration
	clock   Clock

	mu      sync.Mutex
	loaders map[string]*registryEntry

	cleanupCtx    context.Context
	cleanupCancel context.CancelFunc
	cleanupOnce   sync.Once
	cleanupWg     sync.WaitGroup
}

func NewRegistry(src source.Source, idleTTL time.Duration, clock Clock) *Registry {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	if clock == nil {
		clock = realClock{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		src:           src,
		idleTTL:       idleTTL,
		clock:         clock,
		loaders:       make(map[string]*registryEntry),
		cleanupCtx:    ctx,
		cleanupCancel: cancel,
	}
}

// Get returns the Loader for viewerID, creating it on first use.
func (r *Registry) Get(viewerID string) *Loader {
	r.startCleanup()
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.loaders[viewerID]
	if !ok {
		entry = &registryEntry{loader: New(r.src)}
		r.loaders[viewerID] = entry
	}
	entry.lastUsed = now
	return entry.loader
}

// Len reports how many viewers currently hold a loader.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.loaders)
}

// Close stops the cleanup goroutine.
func (r *Registry) Close() {
	r.cleanupCancel()
	r.cleanupWg.Wait()
}

func (r *Registry) startCleanup() {
	r.cleanupOnce.Do(func() {
		r.cleanupWg.Add(1)
		go func() {
			defer r.cleanupWg.Done()
			ticker := time.NewTicker(registryCleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-r.cleanupCtx.Done():
					return
				case <-ticker.C:
					r.evictIdle()
				}
			}
		}()
	})
}

func (r *Registry) evictIdle() {
	now := r.clock.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, entry := range r.loaders {
		if now.Sub(entry.lastUsed) > r.idleTTL {
			delete(r.loaders, id)
			evicted++
		}
	}
	if evicted > 0 {
		log.Debug().Int("evicted", evicted).Int("remaining", len(r.loaders)).Msg("Evicted idle availability loaders")
	}
}
