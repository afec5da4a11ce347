package listview_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/eregister/console/pagination"
	"github.com/eregister/console/server/listview"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID int
}

// fakeBackend counts fetches and can hold them open until released.
type fakeBackend struct {
	mu      sync.Mutex
	fetches int32
	queries []pagination.Query
	block   chan struct{} // non-nil: fetches wait here or on ctx
	data    []record
	total   int
}

func (b *fakeBackend) fetch(ctx context.Context, q pagination.Query) (pagination.Page[record], error) {
	atomic.AddInt32(&b.fetches, 1)
	b.mu.Lock()
	b.queries = append(b.queries, q)
	block := b.block
	b.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return pagination.Page[record]{}, ctx.Err()
		}
	}
	return pagination.Page[record]{
		Search: q.Search, Page: q.Page, PageSize: q.PageSize,
		Total: b.total, Data: b.data,
	}, nil
}

func TestDebouncedSearchIssuesOneFetchAfterQuietPeriod(t *testing.T) {
	backend := &fakeBackend{total: 1, data: []record{{ID: 1}}}
	ctl := listview.New(backend.fetch, listview.WithDebounce(30*time.Millisecond))
	defer ctl.Close()

	// One "keystroke" per character; only the settled value may fetch.
	var last <-chan error
	for _, q := range []string{"i", "in", "int", "intr", "intro"} {
		last = ctl.SetSearch(q)
		time.Sleep(5 * time.Millisecond)
	}

	require.NoError(t, <-last)
	require.Equal(t, int32(1), atomic.LoadInt32(&backend.fetches))

	st := ctl.Snapshot()
	require.Equal(t, "intro", st.Query.Search)
	require.Equal(t, 1, st.Query.Page)
	require.Equal(t, pagination.DefaultPageSize, st.Query.PageSize)
	require.Equal(t, 1, st.Total)
}

func TestDisplacedSearchCallersSeeSuperseded(t *testing.T) {
	backend := &fakeBackend{}
	ctl := listview.New(backend.fetch, listview.WithDebounce(50*time.Millisecond))
	defer ctl.Close()

	first := ctl.SetSearch("in")
	second := ctl.SetSearch("intro")

	require.ErrorIs(t, <-first, listview.ErrSuperseded)
	require.NoError(t, <-second)
}

func TestNewerTriggerWinsOverInFlightFetch(t *testing.T) {
	backend := &fakeBackend{block: make(chan struct{}), total: 99}
	ctl := listview.New(backend.fetch, listview.WithDebounce(time.Millisecond))
	defer ctl.Close()

	// First trigger: fetch blocks on the backend.
	firstDone := make(chan error, 1)
	go func() { firstDone <- ctl.SetPage(context.Background(), 2) }()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&backend.fetches) == 1
	}, time.Second, time.Millisecond)

	// Second trigger cancels the first and completes.
	backend.mu.Lock()
	backend.block = nil
	backend.mu.Unlock()
	require.NoError(t, ctl.SetPage(context.Background(), 3))

	// The superseded fetch is swallowed, never applied.
	require.ErrorIs(t, <-firstDone, listview.ErrSuperseded)
	st := ctl.Snapshot()
	require.Equal(t, 3, st.Query.Page)
	require.Equal(t, 99, st.Total)
	require.NoError(t, st.Err)
}

func TestOnlyNewestResultIsApplied(t *testing.T) {
	backend := &fakeBackend{total: 7}
	ctl := listview.New(backend.fetch, listview.WithDebounce(time.Millisecond))
	defer ctl.Close()

	require.NoError(t, ctl.SetPage(context.Background(), 2))
	require.NoError(t, ctl.SetPageSize(context.Background(), 25))
	done := ctl.SetSearch("algebra")
	require.NoError(t, <-done)

	st := ctl.Snapshot()
	require.Equal(t, pagination.Query{Page: 2, PageSize: 25, Search: "algebra"}, st.Query)
	require.Equal(t, 7, st.Total)

	backend.mu.Lock()
	lastQuery := backend.queries[len(backend.queries)-1]
	backend.mu.Unlock()
	require.Equal(t, "algebra", lastQuery.Search)
}

func TestApplyReplacesQueryWholesale(t *testing.T) {
	backend := &fakeBackend{total: 3, data: []record{{1}, {2}, {3}}}
	ctl := listview.New(backend.fetch)
	defer ctl.Close()

	q := pagination.Query{Page: 4, PageSize: 10, Search: "go"}
	require.NoError(t, ctl.Apply(context.Background(), q))

	st := ctl.Snapshot()
	require.Equal(t, q, st.Query)
	require.Len(t, st.Records, 3)
}

func TestFetchErrorIsSurfacedOnceAndClearedOnSuccess(t *testing.T) {
	fail := true
	fetch := func(ctx context.Context, q pagination.Query) (pagination.Page[record], error) {
		if fail {
			return pagination.Page[record]{}, context.DeadlineExceeded
		}
		return pagination.Page[record]{Total: 1}, nil
	}
	ctl := listview.New(fetch)
	defer ctl.Close()

	require.Error(t, ctl.Refresh(context.Background()))
	require.Error(t, ctl.Snapshot().Err)

	fail = false
	require.NoError(t, ctl.Refresh(context.Background()))
	require.NoError(t, ctl.Snapshot().Err)
}

func TestCloseCancelsPendingAndRefusesTriggers(t *testing.T) {
	backend := &fakeBackend{}
	ctl := listview.New(backend.fetch, listview.WithDebounce(time.Hour))

	pending := ctl.SetSearch("never")
	ctl.Close()

	require.ErrorIs(t, <-pending, listview.ErrClosed)
	require.ErrorIs(t, ctl.Refresh(context.Background()), listview.ErrClosed)
	require.ErrorIs(t, ctl.SetPage(context.Background(), 2), listview.ErrClosed)
	require.Equal(t, int32(0), atomic.LoadInt32(&backend.fetches))

	// Closing twice is harmless.
	ctl.Close()
}

func TestSnapshotReportsWhetherAnythingLoaded(t *testing.T) {
	backend := &fakeBackend{}
	ctl := listview.New(backend.fetch)
	defer ctl.Close()

	require.False(t, ctl.Snapshot().Loaded)
	require.NoError(t, ctl.Refresh(context.Background()))
	require.True(t, ctl.Snapshot().Loaded)
}
