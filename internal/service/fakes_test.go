package service

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"sort"
	"sync"
	"time"

	config "github.com/maheshrc27/postboard/configs"
	"github.com/maheshrc27/postboard/internal/board"
	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/internal/repository"
	"github.com/maheshrc27/postboard/pkg/utils"
)

var testKey = "0123456789abcdef0123456789abcdef"

func testConfig() config.Config {
	return config.Config{
		SecretKey:          testKey,
		FrontendURL:        "https://app.example.com",
		PageSize:           10,
		FeedLimit:          25,
		ApprovalTokenTTL:   time.Hour,
		PublishConcurrency: 4,
		GraphAPIVersion:    "v23.0",
	}
}

func sealed(token string) string {
	s, err := utils.Encrypt([]byte(token), []byte(testKey))
	if err != nil {
		panic(err)
	}
	return s
}

type fakePostRepo struct {
	mu      sync.Mutex
	posts   map[string]models.Post
	updates int
	listErr error
}

func newFakePostRepo(posts ...models.Post) *fakePostRepo {
	r := &fakePostRepo{posts: make(map[string]models.Post)}
	for _, p := range posts {
		r.posts[p.ID] = p
	}
	return r
}

func (r *fakePostRepo) Insert(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; ok {
		return errors.New("duplicate id")
	}
	r.posts[post.ID] = *post
	return nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePostRepo) Update(ctx context.Context, id string, u repository.PostUpdate) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNoRecord
	}
	r.updates++
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.ApprovalLink != nil {
		p.ApprovalLink = *u.ApprovalLink
	}
	r.posts[id] = p
	return &p, nil
}

func (r *fakePostRepo) List(ctx context.Context, f models.PostFilter) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.Post
	for _, p := range r.posts {
		if f.UserID != "" && p.UserID != f.UserID {
			continue
		}
		if len(f.ClientIDs) > 0 && !slices.Contains(f.ClientIDs, p.ClientID) {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, p.Status) {
			continue
		}
		if !f.DueBefore.IsZero() && p.ScheduledDate.After(f.DueBefore) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledDate.Equal(out[j].ScheduledDate) {
			return out[i].ScheduledDate.After(out[j].ScheduledDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakePostRepo) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repository.ErrNoRecord
	}
	delete(r.posts, id)
	return nil
}

type fakeClientRepo struct {
	mu      sync.Mutex
	clients []*models.Client
}

func (r *fakeClientRepo) UpsertPage(ctx context.Context, tx *sql.Tx, c *models.Client) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, prev := range r.clients {
		if prev.UserID == c.UserID && prev.FacebookPageID == c.FacebookPageID {
			prev.Name, prev.InstagramAccountID, prev.Avatar, prev.AccessToken = c.Name, c.InstagramAccountID, c.Avatar, c.AccessToken
			cp := *prev
			return &cp, nil
		}
	}
	cp := *c
	r.clients = append(r.clients, &cp)
	out := cp
	return &out, nil
}

func (r *fakeClientRepo) Count(ctx context.Context, userID string) (int, error) {
	list, _ := r.ListByUserID(ctx, userID)
	return len(list), nil
}

func (r *fakeClientRepo) GetByID(ctx context.Context, userID, id string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.UserID == userID && c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeClientRepo) ListByUserID(ctx context.Context, userID string) ([]*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Client
	for _, c := range r.clients {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeClientRepo) UpdateDisplayName(ctx context.Context, userID, id, name string) error {
	return r.set(userID, id, func(c *models.Client) { c.DisplayName = name })
}

func (r *fakeClientRepo) UpdateColor(ctx context.Context, userID, id, color string) error {
	return r.set(userID, id, func(c *models.Client) { c.Color = color })
}

func (r *fakeClientRepo) set(userID, id string, f func(*models.Client)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.UserID == userID && c.ID == id {
			f(c)
			return nil
		}
	}
	return repository.ErrNoRecord
}

type fakeSelectionRepo struct {
	mu   sync.Mutex
	sels map[string]models.ClientSelection
}

func newFakeSelectionRepo() *fakeSelectionRepo {
	return &fakeSelectionRepo{sels: make(map[string]models.ClientSelection)}
}

func (r *fakeSelectionRepo) GetSelection(ctx context.Context, userID string) (*models.ClientSelection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sel := r.sels[userID]
	sel.UserID = userID
	sel.ClientIDs = slices.Clone(sel.ClientIDs)
	return &sel, nil
}

func (r *fakeSelectionRepo) SetSelection(ctx context.Context, sel *models.ClientSelection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sel
	cp.ClientIDs = slices.Clone(sel.ClientIDs)
	r.sels[sel.UserID] = cp
	return nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []*models.PublishHistory
}

func (r *fakeHistoryRepo) Create(ctx context.Context, ph *models.PublishHistory) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ph
	cp.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, &cp)
	return cp.ID, nil
}

func (r *fakeHistoryRepo) ListByPostID(ctx context.Context, postID string) ([]*models.PublishHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PublishHistory
	for _, e := range r.entries {
		if e.PostID == postID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakePublisher fails the channels listed in fail.
type fakePublisher struct {
	mu    sync.Mutex
	calls []models.Channel
	fail  map[models.Channel]error
}

func (p *fakePublisher) Publish(ctx context.Context, channel models.Channel, client *models.Client, post *models.Post) (string, error) {
	p.mu.Lock()
	p.calls = append(p.calls, channel)
	p.mu.Unlock()
	if err := p.fail[channel]; err != nil {
		return "", err
	}
	return string(channel) + "-remote-" + post.ID, nil
}

type fakeScheduler struct {
	mu  sync.Mutex
	ids []string
	at  []time.Time
}

func (s *fakeScheduler) Schedule(ctx context.Context, postID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, postID)
	s.at = append(s.at, at)
	return nil
}

type fakeListener struct {
	mu          sync.Mutex
	selects     []board.Selection
	invalidated []string
}

func (l *fakeListener) Select(ctx context.Context, userID string, sel board.Selection) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selects = append(l.selects, sel)
}

func (l *fakeListener) Invalidate(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.invalidated = append(l.invalidated, userID)
}

type fakeFeed struct {
	posts map[string][]models.Post
	errs  map[string]error
}

func (f *fakeFeed) ClientPosts(ctx context.Context, client *models.Client) ([]models.Post, error) {
	return f.posts[client.ID], f.errs[client.ID]
}
