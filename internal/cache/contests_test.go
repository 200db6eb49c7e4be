package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/testutil"
)

func TestContestsCachesWithinWindow(t *testing.T) {
	base := testutil.FixedTime()
	fetcher := &testutil.StubFetcher{Result: []domain.Contest{
		testutil.Contest("codeforces-1", "Codeforces", time.Hour, 7200, base),
	}}
	c := NewContestCache(fetcher, NewMemoryStore(), time.Minute, nil, nil)

	first, err := c.Contests(context.Background())
	require.NoError(t, err)
	second, err := c.Contests(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, fetcher.Calls.Load(), "second read should hit the cache")
}

func TestContestsRefetchesAfterExpiry(t *testing.T) {
	base := testutil.FixedTime()
	fetcher := &testutil.StubFetcher{Result: []domain.Contest{
		testutil.Contest("codeforces-1", "Codeforces", time.Hour, 7200, base),
	}}

	store := NewMemoryStore()
	now := base
	store.now = func() time.Time { return now }
	c := NewContestCache(fetcher, store, time.Minute, nil, nil)

	_, err := c.Contests(context.Background())
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.Contests(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, fetcher.Calls.Load(), "expired entry should trigger one refetch")
}

func TestContestsRecomputesStatusOnRead(t *testing.T) {
	base := testutil.FixedTime()
	contest := testutil.Contest("codeforces-1", "Codeforces", time.Hour, 7200, base)
	require.Equal(t, domain.StatusUpcoming, contest.Status)

	fetcher := &testutil.StubFetcher{Result: []domain.Contest{contest}}
	c := NewContestCache(fetcher, NewMemoryStore(), time.Hour, nil, nil)

	c.now = testutil.Clock(base)
	first, err := c.Contests(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StatusUpcoming, first[0].Status)

	// Same cached bytes, later clock: the contest has started by now.
	c.now = testutil.Clock(base.Add(90 * time.Minute))
	second, err := c.Contests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOngoing, second[0].Status)
	assert.EqualValues(t, 1, fetcher.Calls.Load())
}

func TestContestsClearForcesRefetch(t *testing.T) {
	fetcher := &testutil.StubFetcher{Result: []domain.Contest{}}
	c := NewContestCache(fetcher, NewMemoryStore(), time.Hour, nil, nil)

	_, err := c.Contests(context.Background())
	require.NoError(t, err)
	c.Clear()
	_, err = c.Contests(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, fetcher.Calls.Load())
}

func TestContestsFetchErrorPropagates(t *testing.T) {
	fetchErr := errors.New("upstream exploded")
	fetcher := &testutil.StubFetcher{Err: fetchErr}
	c := NewContestCache(fetcher, NewMemoryStore(), time.Minute, nil, nil)

	_, err := c.Contests(context.Background())
	assert.ErrorIs(t, err, fetchErr)
}

func TestContestsCorruptEntryRefetches(t *testing.T) {
	base := testutil.FixedTime()
	fetcher := &testutil.StubFetcher{Result: []domain.Contest{
		testutil.Contest("codeforces-1", "Codeforces", time.Hour, 7200, base),
	}}
	store := NewMemoryStore()
	c := NewContestCache(fetcher, store, time.Minute, nil, nil)

	require.NoError(t, store.Set("contests:all", []byte("{not json"), time.Minute))

	contests, err := c.Contests(context.Background())
	require.NoError(t, err)
	assert.Len(t, contests, 1)
	assert.EqualValues(t, 1, fetcher.Calls.Load())
}

// largeAggregate builds a contest list the size of a busy multi-source
// cycle, with realistic name and URL lengths.
func largeAggregate(n int) []domain.Contest {
	base := testutil.FixedTime()
	contests := make([]domain.Contest, 0, n)
	for i := 0; i < n; i++ {
		c := testutil.Contest(fmt.Sprintf("clist-%d", 50000+i), "Codeforces", time.Duration(i)*time.Hour, 7200, base)
		c.Name = fmt.Sprintf("Codeforces Round %d (Div. 2, based on Educational Round %d)", 900+i, 160+i)
		c.URL = fmt.Sprintf("https://codeforces.com/contestRegistration/%d?locale=en", 1800+i)
		contests = append(contests, c)
	}
	return contests
}

func TestContestsProductionStoreHoldsFullAggregate(t *testing.T) {
	fetcher := &testutil.StubFetcher{Result: largeAggregate(200)}
	c := NewContestCache(fetcher, NewFreecacheStore(DefaultStoreSize), 5*time.Minute, nil, nil)

	first, err := c.Contests(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 200)
	_, err = c.Contests(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, fetcher.Calls.Load(), "full aggregate should fit in the production store")
}

func TestFreecacheStoreSurfacesOversizedEntry(t *testing.T) {
	// The smallest store caps entries at 512 bytes (1/1024 of capacity).
	store := NewFreecacheStore(minFreecacheSize)

	err := store.Set("contests:all", make([]byte, 10*1024), time.Minute)
	require.Error(t, err, "oversized entry must not be dropped silently")

	_, ok := store.Get("contests:all")
	assert.False(t, ok)
}

func TestContestsConcurrentMissesShareOneFetch(t *testing.T) {
	base := testutil.FixedTime()
	fetcher := &testutil.StubFetcher{Result: []domain.Contest{
		testutil.Contest("codeforces-1", "Codeforces", time.Hour, 7200, base),
	}}
	c := NewContestCache(fetcher, NewMemoryStore(), time.Minute, nil, nil)

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, _ = c.Contests(context.Background())
		}()
	}
	close(start)
	wg.Wait()

	assert.LessOrEqual(t, fetcher.Calls.Load(), int32(2), "concurrent misses should coalesce")
}
