// Package listing owns filter/pagination/query state for every paged view:
// the course catalogue, a course's questions, the dashboard, and the admin
// queue.
//
// Each issued query is tagged with a monotonically increasing sequence
// number; a response whose sequence is not the latest issued is discarded, so
// a slow superseded request can never overwrite newer state.
package listing

import (
	"context"
	"sync"

	"github.com/shafayetkh/qbank/internal/client/models"
)

// Page is the result of one listing query.
type Page[T any] struct {
	Items      []T
	Pagination models.Pagination
}

// FetchFunc issues one query for the given filters and page number.
type FetchFunc[T any] func(ctx context.Context, filters map[string]string, page int) (Page[T], error)

// Controller is the shared state machine behind a paged, filterable view:
// {filters, page, items, pagination, loading}.
type Controller[T any] struct {
	fetch FetchFunc[T]

	mu         sync.Mutex
	filters    map[string]string
	page       int
	items      []T
	pagination models.Pagination
	loading    bool
	seq        uint64
}

// NewController returns a controller positioned at page 1 with no filters.
// No query is issued until Refresh (or a state change) is called.
func NewController[T any](fetch FetchFunc[T]) *Controller[T] {
	return &Controller[T]{fetch: fetch, filters: map[string]string{}, page: 1}
}

// SetFilter updates one filter field, resets the page to 1, and re-issues
// the query. An empty value clears the filter.
func (c *Controller[T]) SetFilter(ctx context.Context, name, value string) error {
	c.mu.Lock()
	if value == "" {
		delete(c.filters, name)
	} else {
		c.filters[name] = value
	}
	c.page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Search is a filter change on the free-text field: page resets to 1.
func (c *Controller[T]) Search(ctx context.Context, q string) error {
	return c.SetFilter(ctx, "q", q)
}

// NextPage advances one page (clamped to the last) and re-issues the query
// without touching filters.
func (c *Controller[T]) NextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.pagination.Pages > 0 && c.page >= c.pagination.Pages {
		c.mu.Unlock()
		return nil
	}
	c.page++
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// PrevPage goes back one page (clamped to 1) and re-issues the query without
// touching filters.
func (c *Controller[T]) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	if c.page <= 1 {
		c.mu.Unlock()
		return nil
	}
	c.page--
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh issues the query for the current filters and page. If a newer
// query is issued while this one is in flight, this one's result is
// discarded on arrival.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loading = true
	filters := make(map[string]string, len(c.filters))
	for k, v := range c.filters {
		filters[k] = v
	}
	page := c.page
	c.mu.Unlock()

	result, err := c.fetch(ctx, filters, page)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		// Superseded while in flight; a newer query owns the state now.
		return nil
	}
	c.loading = false
	if err != nil {
		return err
	}
	c.items = result.Items
	c.pagination = result.Pagination
	return nil
}

// Items returns the currently displayed items. An empty (non-nil) slice
// after a completed query is the explicit "no results" state.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

// Empty reports whether the last completed query returned no items.
func (c *Controller[T]) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.loading && len(c.items) == 0
}

// Page returns the current 1-based page number.
func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Pagination returns the envelope from the last completed query.
func (c *Controller[T]) Pagination() models.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

// Loading reports whether a query is in flight.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ShowPagination reports whether pagination controls should render at all:
// only when more than one page exists.
func (c *Controller[T]) ShowPagination() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination.Pages > 1
}

// CanPrev reports whether Previous is enabled (disabled at page 1).
func (c *Controller[T]) CanPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page > 1
}

// CanNext reports whether Next is enabled (disabled at the last page).
func (c *Controller[T]) CanNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page < c.pagination.Pages
}

// Filter returns the current value of one filter field.
func (c *Controller[T]) Filter(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters[name]
}
