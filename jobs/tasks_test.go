package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/topup/internal/topup"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRunner struct {
	summary *topup.Summary
	err     error
	runs    int
}

func (f *fakeRunner) Run(ctx context.Context) (*topup.Summary, error) {
	f.runs++
	return f.summary, f.err
}

type fakeLock struct {
	held       string
	acquireErr error
	released   []string
}

func (f *fakeLock) Acquire(ctx context.Context, runID string) error {
	if f.acquireErr != nil {
		return f.acquireErr
	}
	f.held = runID
	return nil
}

func (f *fakeLock) Release(ctx context.Context, runID string) error {
	f.released = append(f.released, runID)
	return nil
}

func TestNewTopUpRunTaskPayload(t *testing.T) {
	task, err := NewTopUpRunTask()
	require.NoError(t, err)
	assert.Equal(t, TaskTypeTopUpRun, task.Type())

	var payload TopUpRunPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.NotEmpty(t, payload.RunID)
}

func TestTopUpRunHandlerRendersReportAndReleasesLock(t *testing.T) {
	runner := &fakeRunner{summary: &topup.Summary{
		Companies: []topup.CompanyResult{{CompanyID: 1, CompanyName: "Acme", Total: 20}},
	}}
	lock := &fakeLock{}
	var out strings.Builder

	handler := NewTopUpRunHandler(runner, lock, &out, discardLogger())

	payload, _ := json.Marshal(TopUpRunPayload{RunID: "run-1"})
	err := handler(context.Background(), asynq.NewTask(TaskTypeTopUpRun, payload))
	require.NoError(t, err)

	assert.Equal(t, 1, runner.runs)
	assert.Contains(t, out.String(), "Company Name: Acme")
	assert.Equal(t, []string{"run-1"}, lock.released)
}

func TestTopUpRunHandlerMalformedPayloadSkipsRetry(t *testing.T) {
	handler := NewTopUpRunHandler(&fakeRunner{}, &fakeLock{}, &strings.Builder{}, discardLogger())

	err := handler(context.Background(), asynq.NewTask(TaskTypeTopUpRun, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestTopUpRunHandlerLockHeldFailsForRetry(t *testing.T) {
	runner := &fakeRunner{}
	lock := &fakeLock{acquireErr: topup.ErrRunInProgress}

	handler := NewTopUpRunHandler(runner, lock, &strings.Builder{}, discardLogger())

	payload, _ := json.Marshal(TopUpRunPayload{RunID: "run-1"})
	err := handler(context.Background(), asynq.NewTask(TaskTypeTopUpRun, payload))
	assert.ErrorIs(t, err, topup.ErrRunInProgress)
	assert.Zero(t, runner.runs)
	assert.Empty(t, lock.released)
}

func TestTopUpRunHandlerRunFailureReleasesLock(t *testing.T) {
	boom := errors.New("pass failed")
	runner := &fakeRunner{err: boom}
	lock := &fakeLock{}

	handler := NewTopUpRunHandler(runner, lock, &strings.Builder{}, discardLogger())

	payload, _ := json.Marshal(TopUpRunPayload{RunID: "run-1"})
	err := handler(context.Background(), asynq.NewTask(TaskTypeTopUpRun, payload))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"run-1"}, lock.released)
}
