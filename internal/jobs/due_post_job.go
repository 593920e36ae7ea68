package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/internal/service"
)

// DuePostJob enqueues every scheduled or approved post whose date has
// passed. Tasks are keyed by post id, so posts already queued are not
// queued twice.
type DuePostJob struct {
	posts     service.PostService
	scheduler service.Scheduler
	now       func() time.Time
}

func NewDuePostJob(posts service.PostService, scheduler service.Scheduler) *DuePostJob {
	return &DuePostJob{
		posts:     posts,
		scheduler: scheduler,
		now:       time.Now,
	}
}

// EnqueueDue is registered with cron.
func (j *DuePostJob) EnqueueDue() {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
	defer cancel()
	j.Run(ctx)
}

func (j *DuePostJob) Run(ctx context.Context) int {
	now := j.now()

	due, err := j.posts.ListDue(ctx, now)
	if err != nil {
		slog.Info(err.Error())
		return 0
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		enqueued int
	)
	semaphore := make(chan struct{}, 10)

	for _, post := range due {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(post models.Post) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := j.scheduler.Schedule(ctx, post.ID, now); err != nil {
				slog.Error("unable to enqueue due post", "post_id", post.ID, "error", err)
				return
			}
			mu.Lock()
			enqueued++
			mu.Unlock()
		}(post)
	}
	wg.Wait()

	if len(due) > 0 {
		slog.Info("due posts swept", "due", len(due), "enqueued", enqueued)
	}
	return enqueued
}
