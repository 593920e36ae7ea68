package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/maheshrc27/postboard/internal/board"
	"github.com/maheshrc27/postboard/internal/models"
)

func dashboardPosts(clientID string, n int, start time.Time) []models.Post {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, models.Post{
			ID:            fmt.Sprintf("%s-%02d", clientID, i),
			UserID:        "u1",
			ClientID:      clientID,
			Content:       fmt.Sprintf("post %d", i),
			Format:        models.FormatSingle,
			Channels:      []models.Channel{models.ChannelFacebook},
			ScheduledDate: start.Add(time.Duration(i) * time.Hour),
			Status:        models.PostStatusScheduled,
		})
	}
	return posts
}

type dashboardFixture struct {
	svc   *dashboardService
	posts *fakePostRepo
	feed  *fakeFeed
}

func newDashboardFixture(posts ...models.Post) dashboardFixture {
	f := dashboardFixture{
		posts: newFakePostRepo(posts...),
		feed:  &fakeFeed{posts: map[string][]models.Post{}, errs: map[string]error{}},
	}
	clients := &fakeClientRepo{clients: []*models.Client{
		{ID: "c1", UserID: "u1", Name: "Bakery", Color: "#3B82F6", IsActive: true},
		{ID: "c2", UserID: "u1", Name: "Gym", Color: "#10B981", IsActive: true, Position: 1},
	}}
	f.svc = NewDashboardService(testConfig(), f.posts, clients, newFakeSelectionRepo(), f.feed).(*dashboardService)
	return f
}

func TestSnapshotAndLoadMore(t *testing.T) {
	f := newDashboardFixture(dashboardPosts("c1", 15, sched)...)
	ctx := context.Background()

	page, err := f.svc.Snapshot(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 10 || !page.HasMore || page.Total != 15 || page.CurrentPage != 1 {
		t.Fatalf("page = %d items, %+v", len(page.Items), page.PageState)
	}
	if page.Items[0].ID != "c1_c1-14" {
		t.Errorf("first item = %s, want newest", page.Items[0].ID)
	}
	if page.Items[0].ClientName != "Bakery" || page.Items[0].Color != "#3B82F6" {
		t.Errorf("client fields not denormalized: %+v", page.Items[0])
	}

	page, err = f.svc.LoadMore(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 15 || page.HasMore || page.CurrentPage != 2 {
		t.Errorf("after load more: %d items, %+v", len(page.Items), page.PageState)
	}
}

func TestSelectResetsToFirstPage(t *testing.T) {
	posts := append(dashboardPosts("c1", 15, sched), dashboardPosts("c2", 3, sched.Add(-48*time.Hour))...)
	f := newDashboardFixture(posts...)
	ctx := context.Background()

	if _, err := f.svc.Snapshot(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.LoadMore(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	f.svc.Select(ctx, "u1", board.Selection{ClientIDs: []string{"c2"}})

	page, err := f.svc.Snapshot(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if page.CurrentPage != 1 || len(page.Items) != 3 || page.HasMore {
		t.Fatalf("page = %d items, %+v", len(page.Items), page.PageState)
	}
	for _, g := range page.Items {
		if g.ClientID != "c2" {
			t.Errorf("item of client %s leaked through the selection", g.ClientID)
		}
	}
}

func TestFeedFailureDegrades(t *testing.T) {
	f := newDashboardFixture(dashboardPosts("c1", 2, sched)...)
	f.feed.errs["c1"] = fmt.Errorf("facebook feed: %w", ErrSourceUnavailable)
	f.feed.posts["c2"] = []models.Post{{
		ID: "fb_9", UserID: "u1", ClientID: "c2", Content: "From the page",
		Channels: []models.Channel{models.ChannelFacebook}, Status: models.PostStatusPublished,
		ScheduledDate: sched.Add(time.Hour), FacebookPostID: "9", CombinedID: board.CombinedID("From the page", sched),
	}}

	page, err := f.svc.Snapshot(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 3 {
		t.Errorf("got %d items, want stored posts plus the healthy feed", len(page.Items))
	}
}

func TestStoreFailureStillShowsFeed(t *testing.T) {
	f := newDashboardFixture()
	f.posts.listErr = errors.New("connection refused")
	f.feed.posts["c1"] = []models.Post{{
		ID: "ig_1", UserID: "u1", ClientID: "c1", Channels: []models.Channel{models.ChannelInstagram},
		Status: models.PostStatusPublished, ScheduledDate: sched, InstagramPostID: "1",
	}}

	page, err := f.svc.Snapshot(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 {
		t.Errorf("got %d items", len(page.Items))
	}
}

func TestInvalidateReloadsOnNextAccess(t *testing.T) {
	f := newDashboardFixture(dashboardPosts("c1", 1, sched)...)
	ctx := context.Background()

	if _, err := f.svc.Snapshot(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	extra := dashboardPosts("c2", 1, sched.Add(time.Hour))[0]
	f.posts.posts[extra.ID] = extra

	page, _ := f.svc.Snapshot(ctx, "u1")
	if len(page.Items) != 1 {
		t.Fatalf("view reloaded without invalidation: %d items", len(page.Items))
	}

	f.svc.Invalidate("u1")
	page, _ = f.svc.Snapshot(ctx, "u1")
	if len(page.Items) != 2 {
		t.Errorf("got %d items after invalidation", len(page.Items))
	}
}

func TestCalendar(t *testing.T) {
	f := newDashboardFixture(dashboardPosts("c1", 5, sched)...)
	ctx := context.Background()

	groups, err := f.svc.Calendar(ctx, "u1", sched.Add(time.Hour), sched.Add(3*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Errorf("got %d groups in range", len(groups))
	}

	if _, err := f.svc.Calendar(ctx, "u1", sched, sched); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty range: err = %v", err)
	}
}

func TestLoadMoreWithFailingFeed(t *testing.T) {
	f := newDashboardFixture(dashboardPosts("c1", 15, sched)...)
	f.feed.errs["c2"] = fmt.Errorf("facebook feed of client c2: %w: token expired", ErrSourceUnavailable)
	ctx := context.Background()

	if _, err := f.svc.Snapshot(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	page, err := f.svc.LoadMore(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	if len(page.Items) != 15 || page.CurrentPage != 2 || page.HasMore {
		t.Errorf("page = %d items, %+v", len(page.Items), page.PageState)
	}
}

func TestLoadMoreWithFailingStore(t *testing.T) {
	f := newDashboardFixture(dashboardPosts("c1", 15, sched)...)
	ctx := context.Background()

	if _, err := f.svc.Snapshot(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	f.posts.listErr = errors.New("connection refused")

	page, err := f.svc.LoadMore(ctx, "u1")
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
	if len(page.Items) != 10 || page.CurrentPage != 1 {
		t.Errorf("page = %d items, %+v", len(page.Items), page.PageState)
	}
}
