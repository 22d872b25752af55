// Package cache keeps the front page post listing in memory between requests.
package cache

import (
	"sync"
	"time"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

// cachedPosts holds one snapshot of the post listing
type cachedPosts struct {
	Posts     []*models.BlogPost
	CreatedAt time.Time
}

// PostCache caches the full post listing shown on the home page. Writers
// invalidate it after create, edit and delete, so a stale entry can only
// outlive a post mutation by the maxAge window on other processes, which
// we do not run.
type PostCache struct {
	mutex       sync.RWMutex
	entry       *cachedPosts
	maxAge      time.Duration
	hits        int64
	misses      int64
	countermux  sync.RWMutex
	stopCleanup chan bool
}

// NewPostCache creates a post cache with the given entry lifetime
func NewPostCache(maxAge time.Duration) *PostCache {
	pc := &PostCache{
		maxAge:      maxAge,
		stopCleanup: make(chan bool),
	}

	go pc.cleanup()

	return pc
}

// Get returns the cached listing, or nil when empty or expired
func (pc *PostCache) Get() []*models.BlogPost {
	pc.mutex.RLock()
	entry := pc.entry
	pc.mutex.RUnlock()

	if entry == nil || time.Since(entry.CreatedAt) > pc.maxAge {
		pc.countermux.Lock()
		pc.misses++
		pc.countermux.Unlock()
		return nil
	}

	pc.countermux.Lock()
	pc.hits++
	pc.countermux.Unlock()
	return entry.Posts
}

// Set replaces the cached listing
func (pc *PostCache) Set(posts []*models.BlogPost) {
	pc.mutex.Lock()
	pc.entry = &cachedPosts{
		Posts:     posts,
		CreatedAt: time.Now(),
	}
	pc.mutex.Unlock()
}

// Invalidate drops the cached listing. Called after any post mutation.
func (pc *PostCache) Invalidate() {
	pc.mutex.Lock()
	pc.entry = nil
	pc.mutex.Unlock()
}

// Stats returns cache hit and miss counters
func (pc *PostCache) Stats() (hits, misses int64) {
	pc.countermux.RLock()
	defer pc.countermux.RUnlock()
	return pc.hits, pc.misses
}

// Stop shuts down the cleanup goroutine
func (pc *PostCache) Stop() {
	close(pc.stopCleanup)
}

// cleanup drops expired entries so a quiet site does not pin stale rows
func (pc *PostCache) cleanup() {
	ticker := time.NewTicker(pc.maxAge)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pc.mutex.Lock()
			if pc.entry != nil && time.Since(pc.entry.CreatedAt) > pc.maxAge {
				pc.entry = nil
			}
			pc.mutex.Unlock()
		case <-pc.stopCleanup:
			return
		}
	}
}
