// Package listview drives a paginated, searchable table over a remote
// list endpoint. A controller belongs to exactly one view: it owns the
// view's query state, debounces search input, and guarantees that at
// most one fetch's result is ever applied: the one belonging to the
// most recently issued, non-cancelled request.
package listview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/eregister/console/pagination"
)

// DefaultDebounce is the quiet period applied to search input.
const DefaultDebounce = 500 * time.Millisecond

var (
	// ErrSuperseded marks a fetch whose result was discarded because a
	// newer trigger replaced it. Callers treat it as silence, not failure.
	ErrSuperseded = errors.New("list fetch superseded")

	// ErrClosed is returned once the owning view has been torn down.
	ErrClosed = errors.New("list view closed")
)

// Fetch loads one page of records for the query.
type Fetch[T any] func(ctx context.Context, q pagination.Query) (pagination.Page[T], error)

// State is a consistent snapshot of the view for rendering.
type State[T any] struct {
	Query   pagination.Query
	Total   int
	Records []T
	Err     error
	Loaded  bool // at least one fetch has completed
}

// Controller coordinates the three triggers of a list view: page
// change, page-size change, and debounced search-text change. Every
// trigger cancels the view's in-flight fetch before issuing its own.
type Controller[T any] struct {
	fetch    Fetch[T]
	debounce time.Duration

	mu      sync.Mutex
	query   pagination.Query
	total   int
	records []T
	lastErr error
	loaded  bool

	gen    int                // newest issued request
	cancel context.CancelFunc // cancels the in-flight fetch
	timer  *time.Timer        // pending debounced search
	waiter chan error         // caller of the pending debounced search
	closed bool

	baseCtx    context.Context // parent of debounced fetches
	baseCancel context.CancelFunc
}

// Option configures a Controller.
type Option func(*controllerConfig)

type controllerConfig struct {
	debounce time.Duration
	query    pagination.Query
}

// WithDebounce overrides the search quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *controllerConfig) { c.debounce = d }
}

// WithQuery sets the initial query state.
func WithQuery(q pagination.Query) Option {
	return func(c *controllerConfig) { c.query = q }
}

// New creates a controller for one view.
func New[T any](fetch Fetch[T], opts ...Option) *Controller[T] {
	cfg := controllerConfig{debounce: DefaultDebounce, query: pagination.DefaultQuery()}
	for _, opt := range opts {
		opt(&cfg)
	}

	baseCtx, baseCancel := context.WithCancel(context.Background())
	return &Controller[T]{
		fetch:      fetch,
		debounce:   cfg.debounce,
		query:      cfg.query,
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
	}
}

// Snapshot returns the current view state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[T]{Query: c.query, Total: c.total, Records: c.records, Err: c.lastErr, Loaded: c.loaded}
}

// Apply replaces the whole query and refetches. Used when a view is
// (re)opened from a URL carrying full state.
func (c *Controller[T]) Apply(ctx context.Context, q pagination.Query) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.query = q
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetPage moves to another page and refetches.
func (c *Controller[T]) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.query.Page = page
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetPageSize changes the page length and refetches.
func (c *Controller[T]) SetPageSize(ctx context.Context, size int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.query.PageSize = size
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetSearch schedules a refetch for the new search text after the quiet
// period. Typing again before the period elapses replaces the pending
// fetch; the displaced caller receives ErrSuperseded. The returned
// channel yields the eventual fetch result exactly once.
func (c *Controller[T]) SetSearch(search string) <-chan error {
	done := make(chan error, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		done <- ErrClosed
		return done
	}

	if c.timer != nil {
		c.timer.Stop()
	}
	if c.waiter != nil {
		c.waiter <- ErrSuperseded
	}
	c.waiter = done

	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		if c.closed || c.waiter != done {
			c.mu.Unlock()
			return
		}
		// The quiet period elapsed: the typed value becomes the query.
		c.query.Search = search
		c.waiter = nil
		c.mu.Unlock()

		done <- c.Refresh(c.baseCtx)
	})

	return done
}

// Refresh issues a fetch for the current query, cancelling whatever was
// in flight for this view. The result is applied only if no newer
// trigger fired in the meantime; cancelled fetches are swallowed as
// ErrSuperseded rather than reported.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.cancel != nil {
		c.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.gen++
	gen := c.gen
	q := c.query
	c.mu.Unlock()

	page, err := c.fetch(fctx, q)
	cancelled := fctx.Err() != nil || errors.Is(err, context.Canceled)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		return ErrSuperseded
	}
	c.cancel = nil

	if err != nil {
		if cancelled {
			return ErrSuperseded
		}
		c.lastErr = err
		c.loaded = true
		return err
	}

	c.records = page.Data
	c.total = page.Total
	c.lastErr = nil
	c.loaded = true
	return nil
}

// Close tears the view down: pending and in-flight fetches are
// cancelled and the controller refuses further triggers.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.waiter != nil {
		c.waiter <- ErrClosed
		c.waiter = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.baseCancel()
}
