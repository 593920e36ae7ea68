package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postboard/internal/service"
)

// HandlePublishPostTask publishes the post named in the payload. Missing
// posts and channel failures are not retried; other errors are.
func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	err := q.posts.PublishByID(ctx, payload.PostID)
	switch {
	case err == nil:
		slog.Info("post published", "post_id", payload.PostID)
		return nil
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrInvalidInput):
		slog.Warn("dropping publish task", "post_id", payload.PostID, "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	case errors.Is(err, service.ErrPublishFailed):
		// failed channels are retried by a manual publish
		slog.Error("publish failed", "post_id", payload.PostID, "error", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	slog.Error("publish task failed", "post_id", payload.PostID, "error", err)
	return err
}
