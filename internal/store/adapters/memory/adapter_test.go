package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/leadflow/internal/domain/repository"
	"github.com/dropDatabas3/leadflow/internal/store"
)

func seeded(t *testing.T, n int) *Conn {
	t.Helper()
	c := New()
	agents := make([]repository.AgentRef, n)
	for i := range agents {
		agents[i] = repository.AgentRef{Name: fmt.Sprintf("Agent %d", i), Email: fmt.Sprintf("a%d@example.com", i)}
	}
	require.NoError(t, c.SeedAgents(context.Background(), agents))
	return c
}

func batchOf(id string, agents []repository.AgentRef, perAgent int) repository.Batch {
	b := repository.Batch{ID: id, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	for i, a := range agents {
		leads := make([]repository.Lead, perAgent)
		for j := range leads {
			leads[j] = repository.Lead{FirstName: fmt.Sprintf("%s-%d-%d", id, i, j), Phone: "1"}
		}
		b.Distributions = append(b.Distributions, repository.Distribution{Agent: a, Position: i, Leads: leads})
	}
	return b
}

func TestRegistered(t *testing.T) {
	conn, err := store.OpenAdapter(context.Background(), store.AdapterConfig{Name: "memory"})
	require.NoError(t, err)
	require.Equal(t, "memory", conn.Name())
	require.NoError(t, conn.Ping(context.Background()))
}

func TestAgents_ListLimitAndIDs(t *testing.T) {
	c := seeded(t, 7)
	ctx := context.Background()

	all, err := c.Agents().List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 7)
	for _, a := range all {
		require.NotEmpty(t, a.ID)
	}

	five, err := c.Agents().List(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, all[:5], five)

	// El slice retornado es una copia.
	five[0].Name = "mutated"
	again, err := c.Agents().List(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Agent 0", again[0].Name)
}

func TestReplaceAll_SupersedesPriorBatch(t *testing.T) {
	c := seeded(t, 3)
	ctx := context.Background()
	agents, _ := c.Agents().List(ctx, 0)

	require.NoError(t, c.Distributions().ReplaceAll(ctx, batchOf("first", agents, 2)))
	require.NoError(t, c.Distributions().ReplaceAll(ctx, batchOf("second", agents[:2], 1)))

	got, err := c.Distributions().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i, d := range got {
		require.Equal(t, "second", d.BatchID)
		require.Equal(t, i, d.Position)
		require.Equal(t, agents[i], d.Agent)
		require.NotEmpty(t, d.ID)
	}
}

func TestReplaceAll_FailureKeepsPriorBatch(t *testing.T) {
	c := seeded(t, 2)
	ctx := context.Background()
	agents, _ := c.Agents().List(ctx, 0)

	require.NoError(t, c.Distributions().ReplaceAll(ctx, batchOf("keep", agents, 1)))
	c.FailNextReplace.Store(true)
	err := c.Distributions().ReplaceAll(ctx, batchOf("lost", agents, 1))
	require.ErrorIs(t, err, repository.ErrPersistence)

	got, err := c.Distributions().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "keep", got[0].BatchID)
}

func TestReplaceAll_EmptyDistributionPersisted(t *testing.T) {
	c := seeded(t, 2)
	ctx := context.Background()
	agents, _ := c.Agents().List(ctx, 0)

	require.NoError(t, c.Distributions().ReplaceAll(ctx, batchOf("empty", agents, 0)))
	got, err := c.Distributions().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[1].Leads)
	require.Empty(t, got[1].Leads)
}

func TestReplaceAll_ConcurrentReadersNeverSeeMixedBatches(t *testing.T) {
	c := seeded(t, 5)
	ctx := context.Background()
	agents, _ := c.Agents().List(ctx, 0)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = c.Distributions().ReplaceAll(ctx, batchOf(fmt.Sprintf("w%d-%d", w, i), agents, 3))
			}
		}(w)
	}

	readerErr := make(chan error, 1)
	go func() {
		for {
			select {
			case <-stop:
				close(readerErr)
				return
			default:
			}
			got, err := c.Distributions().ListAll(ctx)
			if err != nil {
				readerErr <- err
				return
			}
			for _, d := range got {
				if d.BatchID != got[0].BatchID {
					readerErr <- fmt.Errorf("mixed batches %s and %s", got[0].BatchID, d.BatchID)
					return
				}
			}
		}
	}()

	wg.Wait()
	close(stop)
	for err := range readerErr {
		require.NoError(t, err)
	}
}

func TestClosed(t *testing.T) {
	c := seeded(t, 1)
	require.NoError(t, c.Close())
	require.Error(t, c.Ping(context.Background()))
	_, err := c.Agents().List(context.Background(), 0)
	require.Error(t, err)
	err = c.Distributions().ReplaceAll(context.Background(), repository.Batch{})
	require.ErrorIs(t, err, repository.ErrPersistence)
}
