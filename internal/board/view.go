package board

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/maheshrc27/postboard/internal/models"
)

// ErrStale is returned when a load finished for a selection that has since
// been replaced. Its result is dropped.
var ErrStale = errors.New("board: result belongs to a superseded selection")

// ErrDegraded marks a load whose dataset is usable although some sources
// failed. LoadMore applies such a dataset and advances.
var ErrDegraded = errors.New("board: dataset is missing failed sources")

// Dataset is what a loader returns: the flat post records and the clients
// used to denormalize them.
type Dataset struct {
	Posts   []models.Post
	Clients []models.Client
}

// LoadFunc fetches the dataset for a selection. It may return partial data
// together with an error; an error wrapping ErrDegraded means the partial
// data is good enough to page through.
type LoadFunc func(ctx context.Context, sel Selection) (Dataset, error)

// Page is the visible window of a view.
type Page struct {
	Items []models.GroupedPost `json:"items"`
	PageState
}

// View composes filter, group and paginate over the latest dataset for one
// selection. Every load carries the generation it was issued under; results
// of an older generation are discarded.
type View struct {
	mu         sync.RWMutex
	load       LoadFunc
	selection  Selection
	generation uint64
	data       Dataset
	groups     []models.GroupedPost
	pager      *Paginator
}

func NewView(load LoadFunc, pageSize int, sel Selection) *View {
	return &View{
		load:      load,
		selection: sel,
		pager:     NewPaginator(pageSize),
	}
}

// Select switches the view to sel. The page resets to 1 and the window is
// recomputed from the data already held; a Refresh brings in data for
// clients that were not loaded before.
func (v *View) Select(sel Selection) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selection = sel
	v.generation++
	v.rebuild()
	v.pager.Reset(len(v.groups))
}

func (v *View) Selection() Selection {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selection
}

// Refresh reloads the dataset for the current selection. On a load error
// whatever came back (possibly nothing) is still applied and the error is
// returned for logging. A result overtaken by Select returns ErrStale.
func (v *View) Refresh(ctx context.Context) error {
	gen, sel := v.issue()
	data, err := v.load(ctx, sel)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		slog.Info("dropping stale dashboard load", "generation", gen, "current", v.generation)
		return ErrStale
	}
	v.data = data
	v.rebuild()
	v.pager.SetTotal(len(v.groups))
	return err
}

// LoadMore reloads the dataset and widens the window by one page. A failed
// load leaves the window as it was; a degraded one is applied.
func (v *View) LoadMore(ctx context.Context) (bool, error) {
	return v.pager.LoadMore(ctx, func(ctx context.Context) error {
		gen, sel := v.issue()
		data, err := v.load(ctx, sel)
		if err != nil {
			if !errors.Is(err, ErrDegraded) {
				return err
			}
			slog.Warn("paging through a degraded dataset", "error", err)
		}

		v.mu.Lock()
		defer v.mu.Unlock()
		if gen != v.generation {
			return ErrStale
		}
		v.data = data
		v.rebuild()
		v.pager.SetTotal(len(v.groups))
		return nil
	})
}

func (v *View) Page() Page {
	v.mu.RLock()
	defer v.mu.RUnlock()
	state := v.pager.State()
	items, _ := Paginate(v.groups, state.CurrentPage, state.PageSize)
	return Page{Items: items, PageState: state}
}

// Groups returns the whole filtered and sorted grouped set.
func (v *View) Groups() []models.GroupedPost {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.groups
}

func (v *View) issue() (uint64, Selection) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.generation, v.selection
}

func (v *View) rebuild() {
	v.groups = Group(Filter(v.data.Posts, v.selection), v.data.Clients)
}
