package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/topup/internal/topup"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeTopUpRun is the task type for a scheduled top-up pass.
	TaskTypeTopUpRun = "topup:run"
)

// TopUpRunPayload identifies one requested pass.
type TopUpRunPayload struct {
	RunID string `json:"run_id"`
}

// NewTopUpRunTask constructs an Asynq task with a fresh run id.
func NewTopUpRunTask() (*asynq.Task, error) {
	data, err := json.Marshal(TopUpRunPayload{RunID: uuid.NewString()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeTopUpRun, data), nil
}

// PassRunner executes one top-up pass.
type PassRunner interface {
	Run(ctx context.Context) (*topup.Summary, error)
}

// RunLocker serializes passes across worker instances.
type RunLocker interface {
	Acquire(ctx context.Context, runID string) error
	Release(ctx context.Context, runID string) error
}

// NewTopUpRunHandler returns the handler for TaskTypeTopUpRun. The handler
// takes the run lock, executes the pass, and renders the report to out.
// A pass already in progress fails the task so Asynq retries it later.
func NewTopUpRunHandler(runner PassRunner, lock RunLocker, out io.Writer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload TopUpRunPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		if err := lock.Acquire(ctx, payload.RunID); err != nil {
			if errors.Is(err, topup.ErrRunInProgress) {
				logger.Warn("top-up run skipped", slog.String("run_id", payload.RunID), slog.Any("error", err))
			}
			return err
		}
		defer func() {
			if err := lock.Release(ctx, payload.RunID); err != nil {
				logger.Warn("release run lock", slog.String("run_id", payload.RunID), slog.Any("error", err))
			}
		}()

		summary, err := runner.Run(ctx)
		if err != nil {
			logger.Error("top-up run failed", slog.String("run_id", payload.RunID), slog.Any("error", err))
			return err
		}
		return topup.Render(out, summary)
	}
}
