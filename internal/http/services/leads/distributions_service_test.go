package leads

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/leadflow/internal/cache"
	"github.com/dropDatabas3/leadflow/internal/domain/repository"
)

func TestList_EmptyStore(t *testing.T) {
	f := newFixture(t, 5)
	resp, err := f.svcs.Distributions.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, resp.Distributions)
	require.Empty(t, resp.Distributions)
}

func TestList_ReflectsUploadDespiteCache(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	_, err := f.svcs.Upload.Upload(ctx, UploadInput{FileName: "a.csv", Body: strings.NewReader(csvOf(5))})
	require.NoError(t, err)

	first, err := f.svcs.Distributions.List(ctx)
	require.NoError(t, err)
	require.Len(t, first.Distributions, 5)
	require.Equal(t, 1, first.Distributions[0].LeadsCount)
	require.NotNil(t, first.Distributions[0].DistributionDate)
	require.Equal(t, "Agent 0", first.Distributions[0].Agent.Name)

	// Segundo upload invalida el listado cacheado.
	_, err = f.svcs.Upload.Upload(ctx, UploadInput{FileName: "b.csv", Body: strings.NewReader(csvOf(10))})
	require.NoError(t, err)

	second, err := f.svcs.Distributions.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, second.Distributions[0].LeadsCount)
}

// countingRepo cuenta lecturas y puede bloquearlas hasta release.
type countingRepo struct {
	repository.DistributionRepository
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (r *countingRepo) ListAll(ctx context.Context) ([]repository.Distribution, error) {
	r.calls.Add(1)
	if r.release != nil {
		<-r.release
	}
	if r.err != nil {
		return nil, r.err
	}
	return []repository.Distribution{{
		Agent:     repository.AgentRef{ID: "a", Name: "A", Email: "a@example.com"},
		Leads:     []repository.Lead{{FirstName: "Ana", Phone: "1"}},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}, nil
}

func TestList_CachesBetweenCalls(t *testing.T) {
	repo := &countingRepo{}
	svc := NewDistributionsService(Deps{Distributions: repo, Cache: cache.NewMemory(""), ListingTTL: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		resp, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, resp.Distributions, 1)
	}
	require.EqualValues(t, 1, repo.calls.Load())

	require.NoError(t, svc.Invalidate(ctx))
	_, err := svc.List(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, repo.calls.Load())
}

func TestList_ConcurrentMissesShareOneLoad(t *testing.T) {
	repo := &countingRepo{release: make(chan struct{})}
	svc := NewDistributionsService(Deps{Distributions: repo, Cache: cache.NewMemory(""), ListingTTL: time.Minute})
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.List(ctx)
			errs <- err
		}()
	}

	time.Sleep(100 * time.Millisecond)
	close(repo.release)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, repo.calls.Load())
}

func TestList_WithoutCache(t *testing.T) {
	repo := &countingRepo{}
	svc := NewDistributionsService(Deps{Distributions: repo})
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, repo.calls.Load())
	require.NoError(t, svc.Invalidate(ctx))
}

func TestList_StoreError(t *testing.T) {
	repo := &countingRepo{err: errors.New("db down")}
	svc := NewDistributionsService(Deps{Distributions: repo, Cache: cache.NewMemory("")})

	_, err := svc.List(context.Background())
	require.Error(t, err)
}

// racingCache dispara un Invalidate concurrente dentro de Set y le da tiempo
// a terminar antes de escribir.
type racingCache struct {
	cache.Client
	invalidate func()
	done       chan struct{}
	once       sync.Once
}

func (c *racingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.once.Do(func() {
		go func() {
			c.invalidate()
			close(c.done)
		}()
		select {
		case <-c.done:
		case <-time.After(50 * time.Millisecond):
		}
	})
	return c.Client.Set(ctx, key, value, ttl)
}

func TestList_InvalidateDuringFillLeavesNoStaleEntry(t *testing.T) {
	repo := &countingRepo{}
	mem := cache.NewMemory("")
	rc := &racingCache{Client: mem, done: make(chan struct{})}
	svc := NewDistributionsService(Deps{Distributions: repo, Cache: rc, ListingTTL: time.Minute})
	ctx := context.Background()
	rc.invalidate = func() { _ = svc.Invalidate(ctx) }

	_, err := svc.List(ctx)
	require.NoError(t, err)

	select {
	case <-rc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("invalidate never finished")
	}

	_, err = mem.Get(ctx, listingCacheKey)
	require.True(t, cache.IsNotFound(err), "stale listing left in cache: %v", err)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, repo.calls.Load())
}
