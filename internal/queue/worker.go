package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	_, err := q.dispatcher.Dispatch(ctx, payload.PostID)
	return err
}

func (q *Queue) HandleRetryUploadTask(ctx context.Context, task *asynq.Task) error {
	var payload RetryUploadPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return q.dispatcher.RetryUpload(ctx, payload.UploadLogID)
}
