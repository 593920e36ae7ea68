package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/internal/transfer"
)

func newWorkflowFixture() (*workflowService, postFixture, *fakeScheduler) {
	f := newPostFixture()
	s := &fakeScheduler{}
	a := NewApprovalService(testConfig(), f.svc, s)
	clients := &fakeClientRepo{clients: []*models.Client{{
		ID: "c1", UserID: "u1", Name: "Acme", FacebookPageID: "page1", AccessToken: sealed("t"),
	}}}
	w := NewWorkflowService(f.svc, a, s, clients).(*workflowService)
	return w, f, s
}

func creation(wf transfer.Workflow) *transfer.PostCreation {
	return &transfer.PostCreation{
		ClientID:      "c1",
		Content:       "Spring launch",
		Format:        models.FormatSingle,
		Channels:      []models.Channel{models.ChannelFacebook},
		ScheduledDate: sched,
		Workflow:      wf,
	}
}

func TestCreateForApproval(t *testing.T) {
	w, f, s := newWorkflowFixture()

	post, err := w.Create(context.Background(), "u1", creation(transfer.WorkflowApproval))
	if err != nil {
		t.Fatal(err)
	}
	if post.Status != models.PostStatusPendingApproval {
		t.Errorf("status = %s", post.Status)
	}
	if !strings.HasPrefix(post.ApprovalLink, "https://app.example.com/approve/") {
		t.Errorf("approval link = %q", post.ApprovalLink)
	}
	if f.posts.posts[post.ID].ApprovalLink != post.ApprovalLink {
		t.Error("approval link not stored")
	}
	if len(s.ids) != 0 {
		t.Errorf("approval post scheduled: %v", s.ids)
	}
}

func TestCreateScheduled(t *testing.T) {
	w, _, s := newWorkflowFixture()

	post, err := w.Create(context.Background(), "u1", creation(transfer.WorkflowSchedule))
	if err != nil {
		t.Fatal(err)
	}
	if post.Status != models.PostStatusScheduled {
		t.Errorf("status = %s", post.Status)
	}
	if len(s.ids) != 1 || s.ids[0] != post.ID || !s.at[0].Equal(sched) {
		t.Errorf("scheduled %v at %v", s.ids, s.at)
	}
}

func TestCreatePublishNow(t *testing.T) {
	w, f, _ := newWorkflowFixture()
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	post, err := w.Create(context.Background(), "u1", creation(transfer.WorkflowPublishNow))
	if err != nil {
		t.Fatal(err)
	}
	stored := f.posts.posts[post.ID]
	if stored.Status != models.PostStatusPublished {
		t.Errorf("status = %s", stored.Status)
	}
	if !stored.ScheduledDate.Equal(now) {
		t.Errorf("scheduledDate = %v, want %v", stored.ScheduledDate, now)
	}
}

func TestCreatePublishNowFailureKeepsPost(t *testing.T) {
	w, f, _ := newWorkflowFixture()
	f.publisher.fail = map[models.Channel]error{models.ChannelFacebook: errors.New("token expired")}

	post, err := w.Create(context.Background(), "u1", creation(transfer.WorkflowPublishNow))
	if !errors.Is(err, ErrPublishFailed) {
		t.Fatalf("err = %v", err)
	}
	if post == nil || f.posts.posts[post.ID].Status != models.PostStatusApproved {
		t.Errorf("post = %+v", post)
	}
}

func TestCreateForUnknownClient(t *testing.T) {
	w, f, _ := newWorkflowFixture()
	req := creation(transfer.WorkflowSchedule)
	req.ClientID = "other"

	if _, err := w.Create(context.Background(), "u1", req); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if len(f.posts.posts) != 0 {
		t.Error("post stored for unknown client")
	}
}
