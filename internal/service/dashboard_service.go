package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	config "github.com/maheshrc27/postboard/configs"
	"github.com/maheshrc27/postboard/internal/board"
	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/internal/repository"
	"golang.org/x/sync/errgroup"
)

// DashboardService owns one board.View per user and the loader feeding it
// from the post store and the social feed.
type DashboardService interface {
	Snapshot(ctx context.Context, userID string) (board.Page, error)
	LoadMore(ctx context.Context, userID string) (board.Page, error)
	Refresh(ctx context.Context, userID string) (board.Page, error)
	Calendar(ctx context.Context, userID string, from, to time.Time) ([]models.GroupedPost, error)
	Select(ctx context.Context, userID string, sel board.Selection)
	Invalidate(userID string)
}

type dashboardService struct {
	cfg  config.Config
	pr   repository.PostRepository
	cr   repository.ClientRepository
	sr   repository.SelectionRepository
	feed FeedService

	mu    sync.Mutex
	views map[string]*board.View
	dirty map[string]bool
}

// NewDashboardService accepts a nil feed, in which case only stored posts
// are shown.
func NewDashboardService(
	cfg config.Config,
	pr repository.PostRepository,
	cr repository.ClientRepository,
	sr repository.SelectionRepository,
	feed FeedService) DashboardService {
	return &dashboardService{
		cfg:   cfg,
		pr:    pr,
		cr:    cr,
		sr:    sr,
		feed:  feed,
		views: make(map[string]*board.View),
		dirty: make(map[string]bool),
	}
}

// view returns the user's view, creating and loading it on first use, and
// reloading it when posts changed since the last load.
func (s *dashboardService) view(ctx context.Context, userID string) (*board.View, error) {
	s.mu.Lock()
	v, ok := s.views[userID]
	stale := s.dirty[userID]
	delete(s.dirty, userID)
	s.mu.Unlock()

	if !ok {
		sel, err := s.sr.GetSelection(ctx, userID)
		if err != nil {
			return nil, err
		}

		created := board.NewView(s.loader(userID), s.cfg.PageSize, board.SelectionFrom(sel))
		s.mu.Lock()
		if v, ok = s.views[userID]; !ok {
			v = created
			s.views[userID] = v
			stale = true
		}
		s.mu.Unlock()
	}

	if stale {
		s.refresh(ctx, userID, v)
	}
	return v, nil
}

func (s *dashboardService) refresh(ctx context.Context, userID string, v *board.View) {
	if err := v.Refresh(ctx); err != nil && !errors.Is(err, board.ErrStale) {
		slog.Warn("dashboard loaded with errors", "user_id", userID, "error", err)
	}
}

func (s *dashboardService) Snapshot(ctx context.Context, userID string) (board.Page, error) {
	v, err := s.view(ctx, userID)
	if err != nil {
		return board.Page{}, err
	}
	return v.Page(), nil
}

// LoadMore never fails the request for a failed fetch: the page stays as it
// was and the error is logged.
func (s *dashboardService) LoadMore(ctx context.Context, userID string) (board.Page, error) {
	v, err := s.view(ctx, userID)
	if err != nil {
		return board.Page{}, err
	}
	if _, err := v.LoadMore(ctx); err != nil {
		slog.Warn("load more failed", "user_id", userID, "error", err)
		return v.Page(), fmt.Errorf("load more: %w", err)
	}
	return v.Page(), nil
}

func (s *dashboardService) Refresh(ctx context.Context, userID string) (board.Page, error) {
	v, err := s.view(ctx, userID)
	if err != nil {
		return board.Page{}, err
	}
	s.refresh(ctx, userID, v)
	return v.Page(), nil
}

// Calendar returns the groups of the active selection scheduled in
// [from, to), newest first.
func (s *dashboardService) Calendar(ctx context.Context, userID string, from, to time.Time) ([]models.GroupedPost, error) {
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, fmt.Errorf("calendar range %s..%s: %w", from, to, ErrInvalidInput)
	}
	v, err := s.view(ctx, userID)
	if err != nil {
		return nil, err
	}
	return board.InRange(v.Groups(), from, to), nil
}

// Select resets the user's view to page 1 under sel and reloads it. Loads
// still running for the previous selection are discarded when they land.
func (s *dashboardService) Select(ctx context.Context, userID string, sel board.Selection) {
	s.mu.Lock()
	v, ok := s.views[userID]
	s.mu.Unlock()
	if !ok {
		return
	}
	v.Select(sel)
	s.refresh(ctx, userID, v)
}

func (s *dashboardService) Invalidate(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.views[userID]; ok {
		s.dirty[userID] = true
	}
}

// loader reads the stored posts and the feed records of every client in
// scope. Failing sources degrade to empty sets; the error is returned next to
// the partial dataset.
func (s *dashboardService) loader(userID string) board.LoadFunc {
	return func(ctx context.Context, sel board.Selection) (board.Dataset, error) {
		clients, err := s.cr.ListByUserID(ctx, userID)
		if err != nil {
			return board.Dataset{}, fmt.Errorf("clients: %w: %v", ErrSourceUnavailable, err)
		}

		known := make([]string, 0, len(clients))
		byID := make(map[string]*models.Client, len(clients))
		data := board.Dataset{Clients: make([]models.Client, 0, len(clients))}
		for _, c := range clients {
			known = append(known, c.ID)
			byID[c.ID] = c
			data.Clients = append(data.Clients, *c)
		}

		ids, all := sel.Scope(known)
		filter := models.PostFilter{UserID: userID}
		if !all {
			if len(ids) == 0 {
				return data, nil
			}
			filter.ClientIDs = ids
		}

		var storeErr error
		stored, err := s.pr.List(ctx, filter)
		if err != nil {
			slog.Warn("post store unavailable", "user_id", userID, "error", err)
			storeErr = fmt.Errorf("post store: %w: %v", ErrSourceUnavailable, err)
		}
		data.Posts = append(data.Posts, stored...)

		if s.feed == nil {
			return data, storeErr
		}

		// slots keep the merged order independent of completion order
		feeds := make([][]models.Post, len(ids))
		feedErrs := make([]error, len(ids))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for i, id := range ids {
			c := byID[id]
			if c == nil || !c.IsActive {
				continue
			}
			g.Go(func() error {
				feeds[i], feedErrs[i] = s.feed.ClientPosts(gctx, c)
				return nil
			})
		}
		_ = g.Wait()

		for i := range ids {
			data.Posts = append(data.Posts, feeds[i]...)
		}
		return data, loadError(storeErr, errors.Join(feedErrs...))
	}
}

// loadError keeps a store failure fatal for paging. Feed failures alone only
// degrade the dataset.
func loadError(storeErr, feedErr error) error {
	switch {
	case storeErr != nil:
		return errors.Join(storeErr, feedErr)
	case feedErr != nil:
		return fmt.Errorf("%w: %w", board.ErrDegraded, feedErr)
	}
	return nil
}
