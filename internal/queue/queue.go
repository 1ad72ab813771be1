package queue

import (
	"github.com/postloom/postloom/internal/publisher"
)

type Queue struct {
	dispatcher *publisher.Dispatcher
}

func NewQueue(dispatcher *publisher.Dispatcher) *Queue {
	return &Queue{dispatcher: dispatcher}
}

const (
	TaskTypePublishPost = "publish:post"
	TaskTypeRetryUpload = "publish:retry"
)

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
}

type RetryUploadPayload struct {
	UploadLogID int64 `json:"upload_log_id"`
}
