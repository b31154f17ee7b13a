package script

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheComputesOncePerKey(t *testing.T) {
	cache := NewCache(8)
	var calls int64

	fn := func(context.Context) (Utterances, error) {
		atomic.AddInt64(&calls, 1)
		return NarratorFallback("hello"), nil
	}

	first, err := cache.Get(context.Background(), "hello", fn)
	require.NoError(t, err)
	second, err := cache.Get(context.Background(), "hello", fn)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestCacheConcurrentCallersShareOneCall(t *testing.T) {
	cache := NewCache(8)
	var calls int64
	release := make(chan struct{})

	fn := func(context.Context) (Utterances, error) {
		atomic.AddInt64(&calls, 1)
		<-release
		return NarratorFallback("hello"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Get(context.Background(), "same input", fn)
			assert.NoError(t, err)
		}()
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestCacheDoesNotCacheFailures(t *testing.T) {
	cache := NewCache(8)
	var calls int64
	boom := errors.New("upstream down")

	fn := func(context.Context) (Utterances, error) {
		if atomic.AddInt64(&calls, 1) == 1 {
			return nil, boom
		}
		return NarratorFallback("recovered"), nil
	}

	_, err := cache.Get(context.Background(), "text", fn)
	require.ErrorIs(t, err, boom)

	got, err := cache.Get(context.Background(), "text", fn)
	require.NoError(t, err)
	assert.Equal(t, "recovered", got[0].Text)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))
}

func TestCacheComputationDetachedFromCallerCancel(t *testing.T) {
	cache := NewCache(8)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled caller must not poison the shared flight for the
	// other submitters deduplicated onto it.
	got, err := cache.Get(ctx, "text", func(fnCtx context.Context) (Utterances, error) {
		if fnCtx.Err() != nil {
			return nil, fnCtx.Err()
		}
		return NarratorFallback("survived"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "survived", got[0].Text)
}

func TestCacheStaysBounded(t *testing.T) {
	cache := NewCache(2)

	for _, text := range []string{"a", "b", "c", "d"} {
		text := text
		_, err := cache.Get(context.Background(), text, func(context.Context) (Utterances, error) {
			return NarratorFallback(text), nil
		})
		require.NoError(t, err)
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()
	assert.LessOrEqual(t, len(cache.entries), 2)
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key("same"), Key("same"))
	assert.NotEqual(t, Key("same"), Key("different"))
}
