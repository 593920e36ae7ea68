package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	config "github.com/maheshrc27/postboard/configs"
	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

// Invalidator is told when a user's posts changed so derived views are
// recomputed rather than patched.
type Invalidator interface {
	Invalidate(userID string)
}

type PostService interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
	AddPost(ctx context.Context, draft models.PostDraft) (*models.Post, error)
	UpdateStatus(ctx context.Context, id string, status models.PostStatus) (*models.Post, error)
	UpdateContent(ctx context.Context, id, content string) (*models.Post, error)
	SetApprovalLink(ctx context.Context, id, link string) (*models.Post, error)
	Publish(ctx context.Context, post *models.Post) ([]ChannelResult, error)
	PublishByID(ctx context.Context, id string) error
	ListDue(ctx context.Context, before time.Time) ([]models.Post, error)
	History(ctx context.Context, id string) ([]*models.PublishHistory, error)
}

type postService struct {
	cfg       config.Config
	pr        repository.PostRepository
	cr        repository.ClientRepository
	ph        repository.PublishHistoryRepository
	publisher Publisher
	inv       Invalidator
	now       func() time.Time
}

func NewPostService(
	cfg config.Config,
	pr repository.PostRepository,
	cr repository.ClientRepository,
	ph repository.PublishHistoryRepository,
	publisher Publisher,
	inv Invalidator) PostService {
	return &postService{
		cfg:       cfg,
		pr:        pr,
		cr:        cr,
		ph:        ph,
		publisher: publisher,
		inv:       inv,
		now:       time.Now,
	}
}

func (s *postService) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.pr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return post, nil
}

// AddPost assigns id and createdAt and stores the draft. Field validation
// is the caller's concern.
func (s *postService) AddPost(ctx context.Context, draft models.PostDraft) (*models.Post, error) {
	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	post := &models.Post{
		ID:            id,
		UserID:        draft.UserID,
		ClientID:      draft.ClientID,
		Content:       draft.Content,
		Media:         draft.Media,
		Format:        draft.Format,
		Channels:      draft.Channels,
		ScheduledDate: draft.ScheduledDate,
		Status:        draft.Status,
		CreatedAt:     s.now().UTC(),
		ApprovalLink:  draft.ApprovalLink,
		CombinedID:    draft.CombinedID,
	}
	if post.Media == nil {
		post.Media = []models.MediaFile{}
	}

	if err := s.pr.Insert(ctx, post); err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	s.invalidate(post.UserID)
	return post, nil
}

// UpdateStatus does not check transition legality.
func (s *postService) UpdateStatus(ctx context.Context, id string, status models.PostStatus) (*models.Post, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("status %q: %w", status, ErrInvalidInput)
	}
	return s.update(ctx, id, repository.PostUpdate{Status: &status})
}

func (s *postService) UpdateContent(ctx context.Context, id, content string) (*models.Post, error) {
	return s.update(ctx, id, repository.PostUpdate{Content: &content})
}

func (s *postService) SetApprovalLink(ctx context.Context, id, link string) (*models.Post, error) {
	return s.update(ctx, id, repository.PostUpdate{ApprovalLink: &link})
}

func (s *postService) update(ctx context.Context, id string, u repository.PostUpdate) (*models.Post, error) {
	post, err := s.pr.Update(ctx, id, u)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	s.invalidate(post.UserID)
	return post, nil
}

// Publish calls the publisher once per channel, concurrently, and waits for
// all of them. Channels that already succeeded for this post are not posted
// again; their earlier result is reused. If any channel fails the post is left
// untouched and a *PublishError with every channel's result is returned.
// Otherwise the post moves to published once.
func (s *postService) Publish(ctx context.Context, post *models.Post) ([]ChannelResult, error) {
	if len(post.Channels) == 0 {
		return nil, fmt.Errorf("post %s has no channels: %w", post.ID, ErrInvalidInput)
	}

	client, err := s.cr.GetByID(ctx, post.UserID, post.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("client %s: %w", post.ClientID, ErrNotFound)
	}

	done, err := s.published(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	results := make([]ChannelResult, len(post.Channels))

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.PublishConcurrency > 0 {
		g.SetLimit(s.cfg.PublishConcurrency)
	}
	for i, channel := range post.Channels {
		if remoteID, ok := done[channel]; ok {
			results[i] = ChannelResult{Channel: channel, RemoteID: remoteID}
			continue
		}
		g.Go(func() error {
			remoteID, err := s.publisher.Publish(gctx, channel, client, post)
			results[i] = ChannelResult{Channel: channel, RemoteID: remoteID, Err: err}
			s.record(ctx, post.ID, results[i])
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Err != nil {
			return results, &PublishError{PostID: post.ID, Results: results}
		}
	}

	if _, err := s.UpdateStatus(ctx, post.ID, models.PostStatusPublished); err != nil {
		return results, fmt.Errorf("mark post %s published: %w", post.ID, err)
	}
	post.Status = models.PostStatusPublished
	return results, nil
}

// published returns the remote id of every channel with a successful
// attempt on record.
func (s *postService) published(ctx context.Context, postID string) (map[models.Channel]string, error) {
	history, err := s.ph.ListByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("publish history of post %s: %w", postID, err)
	}
	done := make(map[models.Channel]string, len(history))
	for _, h := range history {
		if h.ErrorMessage == "" {
			done[h.Channel] = h.RemoteID
		}
	}
	return done, nil
}

func (s *postService) record(ctx context.Context, postID string, r ChannelResult) {
	ph := models.PublishHistory{
		PostID:   postID,
		Channel:  r.Channel,
		RemoteID: r.RemoteID,
	}
	if r.Err != nil {
		ph.ErrorMessage = r.Err.Error()
		slog.Error("publish failed", "post_id", postID, "channel", r.Channel, "error", r.Err)
	}
	if _, err := s.ph.Create(ctx, &ph); err != nil {
		slog.Error("error saving publish history", "post_id", postID, "error", err)
	}
}

// PublishByID publishes a scheduled or approved post. Posts in any other
// state are skipped.
func (s *postService) PublishByID(ctx context.Context, id string) error {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if post.Status != models.PostStatusScheduled && post.Status != models.PostStatusApproved {
		slog.Info("skipping publish", "post_id", id, "status", post.Status)
		return nil
	}

	_, err = s.Publish(ctx, post)
	return err
}

// ListDue lists scheduled and approved posts dated before the given time.
// Posts with a failed publish attempt are left out: they wait for a manual
// publish instead of being retried every sweep.
func (s *postService) ListDue(ctx context.Context, before time.Time) ([]models.Post, error) {
	posts, err := s.pr.List(ctx, models.PostFilter{
		Statuses:  []models.PostStatus{models.PostStatusScheduled, models.PostStatusApproved},
		DueBefore: before,
	})
	if err != nil {
		return nil, err
	}

	due := posts[:0]
	for _, p := range posts {
		history, err := s.ph.ListByPostID(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("publish history of post %s: %w", p.ID, err)
		}
		if failedAttempt(history) {
			continue
		}
		due = append(due, p)
	}
	return due, nil
}

func failedAttempt(history []*models.PublishHistory) bool {
	for _, h := range history {
		if h.ErrorMessage != "" {
			return true
		}
	}
	return false
}

func (s *postService) History(ctx context.Context, id string) ([]*models.PublishHistory, error) {
	return s.ph.ListByPostID(ctx, id)
}

func (s *postService) invalidate(userID string) {
	if s.inv != nil && userID != "" {
		s.inv.Invalidate(userID)
	}
}
