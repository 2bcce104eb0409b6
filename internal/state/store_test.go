package state

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jwrobel/budzetnik/internal/expense"
)

func setupStore(t *testing.T) (*Store, string, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	path := filepath.Join(t.TempDir(), "state.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path, ctx
}

func sampleBatch(id string, createdAt time.Time) PendingBatch {
	return PendingBatch{
		ID:          id,
		RequesterID: 7,
		Records: []expense.Record{{
			Amount:      decimal.RequireFromString("50"),
			Date:        "2026-09-01",
			Category:    "Jedzenie",
			Subcategory: "Jedzenie dom",
			Description: "biedronka",
		}},
		OriginalText: "biedronka 50",
		CreatedAt:    createdAt,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	t.Parallel()
	s, _, ctx := setupStore(t)

	require.NoError(t, s.Put(ctx, sampleBatch("b1", time.Now())))

	got, err := s.Get(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, int64(7), got.RequesterID)
	require.Equal(t, "biedronka 50", got.OriginalText)
	require.Len(t, got.Records, 1)
	require.True(t, decimal.RequireFromString("50").Equal(got.Records[0].Amount))

	missing, err := s.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestPopExactlyOneWinner(t *testing.T) {
	t.Parallel()
	s, _, ctx := setupStore(t)
	require.NoError(t, s.Put(ctx, sampleBatch("b1", time.Now())))

	const callers = 16
	var wg sync.WaitGroup
	wins := make(chan *PendingBatch, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := s.Pop(ctx, "b1")
			if err != nil {
				t.Error(err)
				return
			}
			if b != nil {
				wins <- b
			}
		}()
	}
	wg.Wait()
	close(wins)

	var winners int
	for range wins {
		winners++
	}
	require.Equal(t, 1, winners)
}

func TestPopAbsentReturnsNil(t *testing.T) {
	t.Parallel()
	s, _, ctx := setupStore(t)
	b, err := s.Pop(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, b)
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	t.Parallel()
	s, _, ctx := setupStore(t)

	require.NoError(t, s.Put(ctx, sampleBatch("old", time.Now().Add(-2*time.Hour))))
	require.NoError(t, s.Put(ctx, sampleBatch("fresh", time.Now().Add(-10*time.Minute))))

	n, err := s.Sweep(ctx, time.Hour)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	old, err := s.Get(ctx, "old")
	require.NoError(t, err)
	require.Nil(t, old)

	fresh, err := s.Get(ctx, "fresh")
	require.NoError(t, err)
	require.NotNil(t, fresh)
}

func TestPendingSurvivesReopen(t *testing.T) {
	t.Parallel()
	s, path, ctx := setupStore(t)
	require.NoError(t, s.Put(ctx, sampleBatch("b1", time.Now())))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Get(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "biedronka 50", got.OriginalText)
}

func TestListPendingByRequester(t *testing.T) {
	t.Parallel()
	s, _, ctx := setupStore(t)

	mine := sampleBatch("mine", time.Now())
	other := sampleBatch("other", time.Now())
	other.RequesterID = 99
	require.NoError(t, s.Put(ctx, mine))
	require.NoError(t, s.Put(ctx, other))

	got, err := s.ListPending(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "mine", got[0].ID)
}

func TestUndoSlotOverwriteAndClear(t *testing.T) {
	t.Parallel()
	s, _, ctx := setupStore(t)

	require.NoError(t, s.SaveUndo(ctx, UndoEntry{
		RequesterID: 7, PrimaryIDs: []int64{1}, MirrorRows: []int64{10},
	}))
	require.NoError(t, s.SaveUndo(ctx, UndoEntry{
		RequesterID: 7, PrimaryIDs: []int64{2, 3}, MirrorRows: []int64{11, 12},
	}))

	got, err := s.GetUndo(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, []int64{2, 3}, got.PrimaryIDs)
	require.Equal(t, []int64{11, 12}, got.MirrorRows)

	require.NoError(t, s.DeleteUndo(ctx, 7))
	got, err = s.GetUndo(ctx, 7)
	require.NoError(t, err)
	require.Nil(t, got)
}
