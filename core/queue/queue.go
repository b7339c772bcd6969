package queue

import (
	"encoding/json"

	"flowsite-api/core/config"
	"flowsite-api/core/constants"
	"flowsite-api/core/logger"

	"github.com/hibiken/asynq"
)

// ContactNotificationPayload is the task payload for the contact
// notification email sent to the business inbox.
type ContactNotificationPayload struct {
	Reference string `json:"reference"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
}

// Client enqueues background tasks. A nil *Client drops tasks with a log
// line; outbound email is best-effort.
type Client struct {
	inner *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		inner: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) EnqueueContactNotification(payload ContactNotificationPayload) error {
	if c == nil {
		logger.Warn("Queue:EnqueueContactNotification:Skipped", "reason", "queue not configured", "reference", payload.Reference)
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(constants.TaskContactNotification, data, asynq.MaxRetry(3))
	info, err := c.inner.Enqueue(task)
	if err != nil {
		return err
	}
	logger.Info("Queue:EnqueueContactNotification:Enqueued", "task_id", info.ID, "reference", payload.Reference)
	return nil
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.inner.Close()
}
