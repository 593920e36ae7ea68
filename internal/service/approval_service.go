package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	config "github.com/maheshrc27/postboard/configs"
	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/pkg/utils"
)

// Scheduler arranges for a post to be published at a given time.
type Scheduler interface {
	Schedule(ctx context.Context, postID string, at time.Time) error
}

// ApprovalService backs the external approval page. It only reads a post by
// id and calls UpdateStatus or UpdateContent.
type ApprovalService interface {
	Link(postID string) (string, error)
	Resolve(ctx context.Context, token string) (*models.Post, error)
	Approve(ctx context.Context, token string) (*models.Post, error)
	Reject(ctx context.Context, token string) (*models.Post, error)
	EditContent(ctx context.Context, token, content string) (*models.Post, error)
}

type approvalService struct {
	cfg       config.Config
	posts     PostService
	scheduler Scheduler
	now       func() time.Time
}

func NewApprovalService(cfg config.Config, posts PostService, scheduler Scheduler) ApprovalService {
	return &approvalService{
		cfg:       cfg,
		posts:     posts,
		scheduler: scheduler,
		now:       time.Now,
	}
}

// Link issues a signed, expiring approval URL for postID.
func (s *approvalService) Link(postID string) (string, error) {
	token, err := utils.GenerateApprovalToken(s.cfg.SecretKey, postID, uuid.NewString(), s.cfg.ApprovalTokenTTL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/approve/%s", strings.TrimRight(s.cfg.FrontendURL, "/"), token), nil
}

func (s *approvalService) Resolve(ctx context.Context, token string) (*models.Post, error) {
	claims, err := utils.ValidateApprovalToken(s.cfg.SecretKey, token)
	if err != nil {
		return nil, fmt.Errorf("approval token: %w", ErrUnauthorized)
	}
	return s.posts.GetByID(ctx, claims.PostID)
}

// Approve moves a pending post to approved and schedules it when its date
// is still ahead. Past-due approved posts are picked up by the due sweep.
func (s *approvalService) Approve(ctx context.Context, token string) (*models.Post, error) {
	post, err := s.pending(ctx, token)
	if err != nil {
		return nil, err
	}

	post, err = s.posts.UpdateStatus(ctx, post.ID, models.PostStatusApproved)
	if err != nil {
		return nil, err
	}

	if s.scheduler != nil && post.ScheduledDate.After(s.now()) {
		if err := s.scheduler.Schedule(ctx, post.ID, post.ScheduledDate); err != nil {
			slog.Error("error scheduling approved post", "post_id", post.ID, "error", err)
		}
	}
	return post, nil
}

func (s *approvalService) Reject(ctx context.Context, token string) (*models.Post, error) {
	post, err := s.pending(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.posts.UpdateStatus(ctx, post.ID, models.PostStatusRejected)
}

func (s *approvalService) EditContent(ctx context.Context, token, content string) (*models.Post, error) {
	post, err := s.pending(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.posts.UpdateContent(ctx, post.ID, content)
}

// pending resolves the token and refuses posts that already left the
// approval state.
func (s *approvalService) pending(ctx context.Context, token string) (*models.Post, error) {
	post, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPendingApproval {
		return nil, fmt.Errorf("post %s is %s: %w", post.ID, post.Status, ErrInvalidInput)
	}
	return post, nil
}
