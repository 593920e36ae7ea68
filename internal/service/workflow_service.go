package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/internal/repository"
	"github.com/maheshrc27/postboard/internal/transfer"
)

// WorkflowService creates posts through one of the dashboard workflows:
// approval, schedule or publish_now.
type WorkflowService interface {
	Create(ctx context.Context, userID string, req *transfer.PostCreation) (*models.Post, error)
}

type workflowService struct {
	posts     PostService
	approval  ApprovalService
	scheduler Scheduler
	cr        repository.ClientRepository
	now       func() time.Time
}

func NewWorkflowService(
	posts PostService,
	approval ApprovalService,
	scheduler Scheduler,
	cr repository.ClientRepository) WorkflowService {
	return &workflowService{
		posts:     posts,
		approval:  approval,
		scheduler: scheduler,
		cr:        cr,
		now:       time.Now,
	}
}

func (s *workflowService) Create(ctx context.Context, userID string, req *transfer.PostCreation) (*models.Post, error) {
	client, err := s.cr.GetByID(ctx, userID, req.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("client %s: %w", req.ClientID, ErrNotFound)
	}

	draft := models.PostDraft{
		UserID:        userID,
		ClientID:      req.ClientID,
		Content:       req.Content,
		Media:         req.Media,
		Format:        req.Format,
		Channels:      req.Channels,
		ScheduledDate: req.ScheduledDate.UTC(),
	}

	switch req.Workflow {
	case transfer.WorkflowApproval:
		draft.Status = models.PostStatusPendingApproval
		post, err := s.posts.AddPost(ctx, draft)
		if err != nil {
			return nil, err
		}
		link, err := s.approval.Link(post.ID)
		if err != nil {
			return nil, err
		}
		return s.posts.SetApprovalLink(ctx, post.ID, link)

	case transfer.WorkflowSchedule:
		if draft.ScheduledDate.IsZero() {
			return nil, fmt.Errorf("scheduled date is required: %w", ErrInvalidInput)
		}
		draft.Status = models.PostStatusScheduled
		post, err := s.posts.AddPost(ctx, draft)
		if err != nil {
			return nil, err
		}
		if err := s.scheduler.Schedule(ctx, post.ID, post.ScheduledDate); err != nil {
			// the due sweep retries posts whose task could not be enqueued
			slog.Error("error enqueuing post", "post_id", post.ID, "error", err)
		}
		return post, nil

	case transfer.WorkflowPublishNow:
		draft.Status = models.PostStatusApproved
		draft.ScheduledDate = s.now().UTC()
		post, err := s.posts.AddPost(ctx, draft)
		if err != nil {
			return nil, err
		}
		if _, err := s.posts.Publish(ctx, post); err != nil {
			return post, err
		}
		return post, nil
	}

	return nil, fmt.Errorf("workflow %q: %w", req.Workflow, ErrInvalidInput)
}
