package script

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache remembers extraction results keyed by a hash of the input text.
// Identical submissions arriving concurrently share one upstream call.
type Cache struct {
	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]Utterances
	max     int
}

func NewCache(max int) *Cache {
	if max <= 0 {
		max = 128
	}
	return &Cache{
		entries: make(map[string]Utterances, max),
		max:     max,
	}
}

// Get returns the cached utterances for text, computing them with fn
// at most once per key across concurrent callers. Failed computations
// are not cached.
func (c *Cache) Get(ctx context.Context, text string, fn func(context.Context) (Utterances, error)) (Utterances, error) {
	key := Key(text)

	c.mu.Lock()
	if cached, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// The flight serves every deduplicated caller, so it must not
		// die with whichever one happened to lead it. fn carries its
		// own per-call timeout to keep the work bounded.
		utterances, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(key, utterances)
		return utterances, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(Utterances), nil
}

func (c *Cache) store(key string, utterances Utterances) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		// Evict one arbitrary entry to stay bounded.
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[key] = utterances
}

// Key hashes input text into a stable cache key.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
