package csrf

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStore_Lifecycle(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour)

	pair, err := store.Generate()
	require.NoError(t, err)
	require.NotEmpty(t, pair.Token)
	require.NotEmpty(t, pair.CookieKey)

	require.True(t, store.Validate(pair.CookieKey, pair.Token))
	require.True(t, store.Validate(pair.CookieKey, pair.Token), "validation is repeatable while live")

	store.Invalidate(pair.CookieKey)
	require.False(t, store.Validate(pair.CookieKey, pair.Token))

	// idempotent
	store.Invalidate(pair.CookieKey)
}

func TestStore_CrossPairRejected(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour)

	first, err := store.Generate()
	require.NoError(t, err)
	second, err := store.Generate()
	require.NoError(t, err)

	require.False(t, store.Validate(first.CookieKey, second.Token))
	require.False(t, store.Validate(second.CookieKey, first.Token))
	require.True(t, store.Validate(first.CookieKey, first.Token))
	require.True(t, store.Validate(second.CookieKey, second.Token))
}

func TestStore_MissingInputsFailClosed(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour)
	pair, err := store.Generate()
	require.NoError(t, err)

	require.False(t, store.Validate("", pair.Token))
	require.False(t, store.Validate(pair.CookieKey, ""))
	require.False(t, store.Validate("unknown-key", pair.Token))
}

func TestStore_ExpiryEvictsOnValidate(t *testing.T) {
	t.Parallel()

	store := NewStore(-time.Second)

	pair, err := store.Generate()
	require.NoError(t, err)

	require.False(t, store.Validate(pair.CookieKey, pair.Token))
	require.Zero(t, store.Len(), "expired entry should be evicted by the failed validate")
}

func TestStore_GenerateSweepsExpired(t *testing.T) {
	t.Parallel()

	store := NewStore(-time.Second)

	_, err := store.Generate()
	require.NoError(t, err)
	_, err = store.Generate()
	require.NoError(t, err)

	// the second call swept the first, already expired entry
	require.Equal(t, 1, store.Len())
}

func TestStore_PeriodicSweep(t *testing.T) {
	t.Parallel()

	store := NewStore(-time.Second)
	_, err := store.Generate()
	require.NoError(t, err)

	store.sweep(time.Now())
	require.Zero(t, store.Len())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pair, err := store.Generate()
			if err != nil {
				t.Error(err)
				return
			}
			if !store.Validate(pair.CookieKey, pair.Token) {
				t.Error("own pair should validate")
			}
			store.Invalidate(pair.CookieKey)
		}()
	}
	wg.Wait()

	require.Zero(t, store.Len())
}
