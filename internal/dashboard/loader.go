// Package dashboard serves the listing collection to the views through a short-lived cache.
package dashboard

import (
	"sync"
	"time"

	"go-job-trend-analyzer/internal/logger"
	"go-job-trend-analyzer/internal/models"
)

// DefaultTTL is how long a loaded collection is reused.
const DefaultTTL = 5 * time.Minute

// Source loads the full collection from persistent storage.
type Source interface {
	Load() (models.Collection, error)
}

// Snapshot is the collection as of LoadedAt. Err is set when the load failed,
// in which case Collection is empty.
type Snapshot struct {
	Collection models.Collection
	LoadedAt   time.Time
	Err        error
}

// Loader caches the result of Source.Load for a fixed TTL.
type Loader struct {
	source Source
	ttl    time.Duration
	log    logger.Logger
	now    func() time.Time

	mu     sync.Mutex
	cached *Snapshot
}

func NewLoader(source Source, ttl time.Duration, log logger.Logger) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Loader{
		source: source,
		ttl:    ttl,
		log:    log,
		now:    time.Now,
	}
}

// Snapshot returns the cached snapshot while it is younger than the TTL, otherwise reloads.
// Load errors are captured in the snapshot, never returned.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.cached != nil && now.Sub(l.cached.LoadedAt) < l.ttl {
		return *l.cached
	}

	c, err := l.source.Load()
	if err != nil {
		l.log.Error("Error loading data", logger.Error(err))
		c = models.NewCollection()
	}
	l.cached = &Snapshot{Collection: c, LoadedAt: now, Err: err}
	return *l.cached
}

// Invalidate drops the cached snapshot so the next Snapshot reloads.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.cached = nil
	l.mu.Unlock()
}
