package task

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pictora/server/internal/shared/config"
)

func newTestPoller(t *testing.T, handler http.HandlerFunc) Poller {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPoller(config.VendorConfig{
		DashScopeBaseURL: srv.URL,
		DashScopeAPIKey:  "sk-test",
	}, zap.NewNop())
}

func TestQueryImageResults(t *testing.T) {
	p := newTestPoller(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/tasks/task-1", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"request_id": "req-1",
			"output": {
				"task_id": "task-1",
				"task_status": "SUCCEEDED",
				"submit_time": "2026-01-10 12:00:00.000",
				"end_time": "2026-01-10 12:00:30.000",
				"results": [
					{"url": "https://cdn.example.com/out-1.png", "orig_prompt": "aurora sky"},
					{"code": "InternalError", "message": "render failed"},
					{"url": "https://cdn.example.com/out-2.png"}
				]
			}
		}`))
	})

	result, err := p.Query(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, result.Status)
	assert.True(t, result.Status.Terminal())
	assert.Equal(t, "req-1", result.RequestID)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "aurora sky", result.Results[0].OrigPrompt)
	assert.Equal(t, "https://cdn.example.com/out-1.png", result.Results[0].URL)
	assert.Equal(t, "https://cdn.example.com/out-2.png", result.Results[1].URL)
}

func TestQueryVideoResult(t *testing.T) {
	p := newTestPoller(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"request_id": "req-2",
			"output": {
				"task_id": "task-2",
				"task_status": "SUCCEEDED",
				"video_url": "https://cdn.example.com/out.mp4"
			}
		}`))
	})

	result, err := p.Query(context.Background(), "task-2")
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "https://cdn.example.com/out.mp4", result.Results[0].URL)
	assert.Empty(t, result.Results[0].OrigPrompt)
}

func TestQuerySingleImageResult(t *testing.T) {
	p := newTestPoller(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"request_id": "req-7",
			"usage": {"image_count": 1},
			"output": {
				"task_id": "task-7",
				"task_status": "SUCCEEDED",
				"image_url": "https://cdn.example.com/repaint.png"
			}
		}`))
	})

	result, err := p.Query(context.Background(), "task-7")
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "https://cdn.example.com/repaint.png", result.Results[0].URL)
	assert.JSONEq(t, `{"image_count": 1}`, string(result.Usage))
}

func TestQueryNonTerminalStatuses(t *testing.T) {
	for vendor, want := range map[string]Status{
		"PENDING":  StatusPending,
		"RUNNING":  StatusRunning,
		"CANCELED": StatusUnknown,
	} {
		p := newTestPoller(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"output": {"task_id": "task-3", "task_status": "` + vendor + `"}}`))
		})

		result, err := p.Query(context.Background(), "task-3")
		require.NoError(t, err, vendor)
		assert.Equal(t, want, result.Status, vendor)
		assert.Empty(t, result.Results, vendor)
		assert.False(t, result.Status.Terminal(), vendor)
	}
}

func TestQueryFailedTaskCarriesVendorError(t *testing.T) {
	p := newTestPoller(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{
			"output": {
				"task_id": "task-4",
				"task_status": "FAILED",
				"code": "InvalidParameter",
				"message": "image url unreachable"
			}
		}`))
	})

	result, err := p.Query(context.Background(), "task-4")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, "InvalidParameter", result.ErrorCode)
	assert.Equal(t, "image url unreachable", result.ErrorMessage)
	assert.Empty(t, result.Results)
}

func TestQueryVendorRejection(t *testing.T) {
	p := newTestPoller(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code": "TaskNotFound", "message": "no such task"}`))
	})

	_, err := p.Query(context.Background(), "task-5")
	ve, ok := IsVendorError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, ve.StatusCode)
	assert.Equal(t, "TaskNotFound", ve.Code)
}

func TestQueryMissingTaskID(t *testing.T) {
	p := newTestPoller(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := p.Query(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingTaskID)
}

func TestQueryMissingAPIKey(t *testing.T) {
	p := NewPoller(config.VendorConfig{DashScopeBaseURL: "http://localhost"}, zap.NewNop())

	_, err := p.Query(context.Background(), "task-6")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
