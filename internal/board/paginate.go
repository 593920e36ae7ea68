package board

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

const DefaultPageSize = 10

// Paginate returns the first page*pageSize items and whether more remain.
func Paginate[T any](items []T, page, pageSize int) ([]T, bool) {
	if page < 1 {
		page = 1
	}
	n := page * pageSize
	if n >= len(items) {
		return items, false
	}
	return items[:n], true
}

// PageState is a point-in-time copy of the paginator.
type PageState struct {
	CurrentPage int  `json:"currentPage"`
	PageSize    int  `json:"pageSize"`
	Total       int  `json:"total"`
	HasMore     bool `json:"hasMore"`
	Loading     bool `json:"loading"`
}

// Paginator keeps an incrementally growing window over a list of total
// items. LoadMore calls made while one is in flight join it instead of
// starting another.
type Paginator struct {
	mu          sync.Mutex
	pageSize    int
	currentPage int
	total       int
	loading     bool
	epoch       uint64
	flight      singleflight.Group
}

func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{pageSize: pageSize, currentPage: 1}
}

// Reset moves back to the first page for a new list. Any load still in
// flight is abandoned: it will neither advance the page nor clear the
// loading flag of a newer load.
func (p *Paginator) Reset(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epoch++
	p.currentPage = 1
	p.total = total
	p.loading = false
}

// SetTotal updates the list size while keeping the current page.
func (p *Paginator) SetTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

func (p *Paginator) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PageState{
		CurrentPage: p.currentPage,
		PageSize:    p.pageSize,
		Total:       p.total,
		HasMore:     p.hasMore(),
		Loading:     p.loading,
	}
}

func (p *Paginator) CurrentPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentPage
}

func (p *Paginator) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore()
}

func (p *Paginator) hasMore() bool {
	return p.currentPage*p.pageSize < p.total
}

// LoadMore runs extend and advances one page when it succeeds. It reports
// whether the page advanced. Without more items it does nothing. A failed
// extend leaves the page where it was and returns the error.
func (p *Paginator) LoadMore(ctx context.Context, extend func(ctx context.Context) error) (bool, error) {
	p.mu.Lock()
	epoch := p.epoch
	if !p.loading && !p.hasMore() {
		p.mu.Unlock()
		return false, nil
	}
	p.mu.Unlock()

	v, err, _ := p.flight.Do(strconv.FormatUint(epoch, 10), func() (interface{}, error) {
		return p.advance(ctx, epoch, extend)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func (p *Paginator) advance(ctx context.Context, epoch uint64, extend func(ctx context.Context) error) (bool, error) {
	p.mu.Lock()
	if p.epoch != epoch || !p.hasMore() {
		p.mu.Unlock()
		return false, nil
	}
	p.loading = true
	p.mu.Unlock()

	var err error
	if extend != nil {
		err = extend(ctx)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.epoch != epoch {
		return false, nil
	}
	p.loading = false
	if err != nil {
		return false, err
	}
	p.currentPage++
	return true, nil
}
