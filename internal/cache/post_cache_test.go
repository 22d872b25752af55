package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

func TestPostCacheRoundTrip(t *testing.T) {
	pc := NewPostCache(time.Minute)
	defer pc.Stop()

	assert.Nil(t, pc.Get())

	posts := []*models.BlogPost{{ID: 1, Title: "T"}}
	pc.Set(posts)
	assert.Equal(t, posts, pc.Get())

	hits, misses := pc.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestPostCacheInvalidate(t *testing.T) {
	pc := NewPostCache(time.Minute)
	defer pc.Stop()

	pc.Set([]*models.BlogPost{{ID: 1, Title: "T"}})
	pc.Invalidate()
	assert.Nil(t, pc.Get())
}

func TestPostCacheExpiry(t *testing.T) {
	pc := NewPostCache(10 * time.Millisecond)
	defer pc.Stop()

	pc.Set([]*models.BlogPost{{ID: 1, Title: "T"}})
	time.Sleep(25 * time.Millisecond)
	assert.Nil(t, pc.Get())
}
