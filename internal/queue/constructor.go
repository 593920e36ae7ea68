package queue

import (
	"github.com/maheshrc27/postboard/internal/service"
)

type Queue struct {
	posts service.PostService
}

func NewQueue(posts service.PostService) *Queue {
	return &Queue{
		posts: posts,
	}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID string `json:"post_id"`
}
