package notify

import (
	"flowsite-api/core/config"
	"flowsite-api/core/constants"
	"flowsite-api/core/logger"

	"github.com/hibiken/asynq"
)

// Worker runs the background task server. It shares the Redis instance used
// by the availability cache.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(cfg *config.Config) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 5,
		},
	)

	handler := NewHandler(cfg.SMTP, cfg.GoogleCalendar.BusinessInbox)

	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskContactNotification, handler.HandleContactNotification)

	return &Worker{server: server, mux: mux}
}

// Start runs the worker until Shutdown is called. Blocking.
func (w *Worker) Start() error {
	logger.Info("NotifyWorker:Start")
	return w.server.Run(w.mux)
}

func (w *Worker) Shutdown() {
	logger.Info("NotifyWorker:Shutdown")
	w.server.Shutdown()
}
