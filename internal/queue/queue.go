package queue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
)

// TaskEnqueuer is the part of *asynq.Client the scheduler needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler enqueues publish tasks keyed by post id, so a post is queued at
// most once however often it is scheduled.
type Scheduler struct {
	client TaskEnqueuer
}

func NewScheduler(client TaskEnqueuer) *Scheduler {
	return &Scheduler{client: client}
}

func NewPublishTask(postID string) (*asynq.Task, error) {
	payload, err := json.Marshal(PublishPostPayload{PostID: postID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePublishPost, payload), nil
}

func (s *Scheduler) Schedule(ctx context.Context, postID string, at time.Time) error {
	task, err := NewPublishTask(postID)
	if err != nil {
		return err
	}

	_, err = s.client.EnqueueContext(ctx, task,
		asynq.TaskID(postID),
		asynq.ProcessAt(at),
		asynq.MaxRetry(3),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		slog.Info("publish task already queued", "post_id", postID)
		return nil
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	slog.Info("publish task scheduled", "post_id", postID, "at", at)
	return nil
}
